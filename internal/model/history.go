package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchHistory records one suggestion request made by a signed-in user
type SearchHistory struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt         time.Time        `gorm:"index" json:"created_at"`
	UserID            string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Query             string           `gorm:"type:text" json:"query"`
	Ingredients       JSONBStringArray `gorm:"type:jsonb" json:"ingredients"`
	DietPreferences   JSONBStringArray `gorm:"type:jsonb" json:"diet_preferences"`
	GeneratedRecipeID *uuid.UUID       `gorm:"type:uuid" json:"generated_recipe_id"`
}

func (SearchHistory) TableName() string {
	return "search_history"
}

// BeforeCreate assigns an id when the caller did not.
func (h *SearchHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
