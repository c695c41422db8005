package types

import "github.com/google/uuid"

// Recipe list scopes
const (
	ScopeMine      = "mine"
	ScopePublic    = "public"
	ScopeFavorites = "favorites"
)

// RecipeListQuery is bound from the query string of GET /recipes
type RecipeListQuery struct {
	Scope string `form:"scope" binding:"omitempty,oneof=mine public favorites"`
	Limit *int   `form:"limit" binding:"omitempty,min=1,max=50"`
}

// ScopeOrDefault returns the requested scope, defaulting to ScopeMine
func (q *RecipeListQuery) ScopeOrDefault() string {
	if q.Scope == "" {
		return ScopeMine
	}
	return q.Scope
}

// HistoryQuery is bound from the query string of GET /history
type HistoryQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// DefaultLimit is the page size used when a list query omits limit
const DefaultLimit = 20

// LimitOrDefault dereferences limit, defaulting to DefaultLimit
func LimitOrDefault(limit *int) int {
	if limit == nil {
		return DefaultLimit
	}
	return *limit
}

// FavoriteRequest represents the request body for toggling a favorite
type FavoriteRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Action   string    `json:"action" binding:"required,oneof=add remove"`
}

// UpdateProfileRequest is a partial profile update. Nil fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName     *string   `json:"display_name" binding:"omitempty,max=120"`
	AvatarURL       *string   `json:"avatar_url" binding:"omitempty,max=500"`
	DietPreferences *[]string `json:"diet_preferences"`
	Allergens       *[]string `json:"allergens"`
	CalorieTarget   *int      `json:"calorie_target" binding:"omitempty,min=0"`
}

// AvatarUploadRequest asks for a presigned avatar upload URL
type AvatarUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/png image/jpeg image/webp"`
}

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,min=8"`
}

// LoginRequest represents the request body for password sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
