package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/pantry-chef/backend/internal/types"
)

// Recipe is a generated recipe saved to the store
type Recipe struct {
	ID              uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time                  `json:"created_at"`
	Title           string                     `gorm:"not null" json:"title"`
	Description     string                     `gorm:"type:text" json:"description"`
	Servings        int                        `json:"servings"`
	PrepTimeMinutes int                        `json:"prep_time_minutes"`
	CookTimeMinutes int                        `json:"cook_time_minutes"`
	Ingredients     JSONB[[]types.Ingredient]  `gorm:"type:jsonb" json:"ingredients"`
	Instructions    JSONB[[]types.Instruction] `gorm:"type:jsonb" json:"instructions"`
	Nutrition       JSONB[map[string]float64]  `gorm:"type:jsonb" json:"nutrition"`
	ShoppingList    JSONBStringArray           `gorm:"type:jsonb" json:"shopping_list"`
	ImageURL        *string                    `json:"image_url"`
	Source          string                     `json:"source"`
	ModelVersion    string                     `json:"model_version"`
	CreatedBy       *string                    `gorm:"type:uuid;index" json:"created_by"`
	IsFavorite      bool                       `gorm:"-" json:"is_favorite"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// BeforeCreate assigns an id when the caller did not.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewRecipe maps a generated recipe onto a storable record owned by ownerID.
// An empty ownerID stores the recipe without an owner.
func NewRecipe(g *types.GeneratedRecipe, ownerID string) *Recipe {
	r := &Recipe{
		Title:           g.Title,
		Description:     g.Description,
		Servings:        g.Servings,
		PrepTimeMinutes: g.PrepTimeMinutes,
		CookTimeMinutes: g.CookTimeMinutes,
		Ingredients:     NewJSONB(g.Ingredients),
		Instructions:    NewJSONB(g.Instructions),
		Nutrition:       NewJSONB(g.Nutrition),
		ShoppingList:    JSONBStringArray(g.ShoppingList),
		ImageURL:        g.ImageURL,
		Source:          g.Source,
		ModelVersion:    g.ModelVersion,
	}
	if ownerID != "" {
		owner := ownerID
		r.CreatedBy = &owner
	}
	return r
}
