package model

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a recipe as a user's favorite
type Favorite struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
