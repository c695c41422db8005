package model

import "time"

// Profile holds a user's preferences. ID is the identity provider's subject.
type Profile struct {
	ID              string           `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName     *string          `json:"display_name"`
	AvatarURL       *string          `json:"avatar_url"`
	DietPreferences JSONBStringArray `gorm:"type:jsonb" json:"diet_preferences"`
	Allergens       JSONBStringArray `gorm:"type:jsonb" json:"allergens"`
	CalorieTarget   *int             `json:"calorie_target"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// All lists every model managed by migrations, in dependency order.
func All() []interface{} {
	return []interface{}{&Recipe{}, &Favorite{}, &SearchHistory{}, &Profile{}}
}
