package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/pantry-chef/backend/internal/database"
	"github.com/pageza/pantry-chef/backend/internal/model"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

var (
	// ErrUnavailable is returned when no store is configured
	ErrUnavailable = errors.New("data store is not configured")
	// ErrRecipeNotFound is returned when a favorite targets an unknown recipe
	ErrRecipeNotFound = errors.New("recipe not found")
)

// Limits for list queries
const (
	DefaultListLimit = 20
	MaxRecipeLimit   = 50
	MaxHistoryLimit  = 100
)

// Repository is the data access layer for recipes, favorites, search history
// and profiles. Owner ids are the identity provider's subjects.
type Repository interface {
	InsertRecipe(ctx context.Context, recipe *types.GeneratedRecipe, ownerID string) (uuid.UUID, error)
	ListRecipes(ctx context.Context, ownerID, scope string, limit int) ([]model.Recipe, error)
	SetFavorite(ctx context.Context, ownerID string, recipeID uuid.UUID, add bool) error
	LogSearch(ctx context.Context, ownerID string, req *types.SuggestionRequest, recipeID *uuid.UUID) (*uuid.UUID, error)
	ListHistory(ctx context.Context, ownerID string, limit int) ([]model.SearchHistory, error)
	GetProfile(ctx context.Context, ownerID string) (*model.Profile, error)
	UpsertProfile(ctx context.Context, ownerID string, patch *types.UpdateProfileRequest) (*model.Profile, error)
	Ping(ctx context.Context) error
}

// GormRepository implements Repository on gorm
type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a new GormRepository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func clampLimit(limit, max int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > max {
		return max
	}
	return limit
}

// InsertRecipe stores a generated recipe. An empty ownerID stores it unowned.
func (r *GormRepository) InsertRecipe(ctx context.Context, recipe *types.GeneratedRecipe, ownerID string) (uuid.UUID, error) {
	record := model.NewRecipe(recipe, ownerID)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert recipe: %w", err)
	}
	return record.ID, nil
}

// ListRecipes returns recipes newest first. "mine" filters by owner,
// "favorites" by the owner's favorites and "public" returns all recipes.
// Each record's IsFavorite is set for ownerID.
func (r *GormRepository) ListRecipes(ctx context.Context, ownerID, scope string, limit int) ([]model.Recipe, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Select("recipes.*").
		Order("recipes.created_at DESC").
		Limit(clampLimit(limit, MaxRecipeLimit))

	switch scope {
	case types.ScopePublic:
	case types.ScopeFavorites:
		query = query.Joins("JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?", ownerID)
	case types.ScopeMine, "":
		if ownerID != "" {
			query = query.Where("recipes.created_by = ?", ownerID)
		}
	default:
		return nil, fmt.Errorf("unknown recipe scope %q", scope)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	if ownerID == "" || len(recipes) == 0 {
		return recipes, nil
	}

	ids := make([]uuid.UUID, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}
	var favorites []model.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", ownerID, ids).
		Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	favored := make(map[uuid.UUID]bool, len(favorites))
	for _, f := range favorites {
		favored[f.RecipeID] = true
	}
	for i := range recipes {
		recipes[i].IsFavorite = favored[recipes[i].ID]
	}
	return recipes, nil
}

// SetFavorite adds or removes a favorite. Adding twice is a no-op.
func (r *GormRepository) SetFavorite(ctx context.Context, ownerID string, recipeID uuid.UUID, add bool) error {
	db := r.db.WithContext(ctx)
	if !add {
		if err := db.Where("user_id = ? AND recipe_id = ?", ownerID, recipeID).Delete(&model.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to remove favorite: %w", err)
		}
		return nil
	}

	var count int64
	if err := db.Model(&model.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up recipe: %w", err)
	}
	if count == 0 {
		return ErrRecipeNotFound
	}

	favorite := &model.Favorite{UserID: ownerID, RecipeID: recipeID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(favorite).Error; err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// LogSearch records a suggestion request. Anonymous requests are not
// recorded and return a nil id.
func (r *GormRepository) LogSearch(ctx context.Context, ownerID string, req *types.SuggestionRequest, recipeID *uuid.UUID) (*uuid.UUID, error) {
	if ownerID == "" {
		return nil, nil
	}

	query := req.Notes
	if query == "" {
		query = strings.Join(req.Ingredients, ", ")
	}
	entry := &model.SearchHistory{
		UserID:            ownerID,
		Query:             query,
		Ingredients:       model.JSONBStringArray(req.Ingredients),
		DietPreferences:   model.JSONBStringArray(req.DietPreferences),
		GeneratedRecipeID: recipeID,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to log search history: %w", err)
	}
	return &entry.ID, nil
}

// ListHistory returns ownerID's history newest first
func (r *GormRepository) ListHistory(ctx context.Context, ownerID string, limit int) ([]model.SearchHistory, error) {
	var history []model.SearchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(clampLimit(limit, MaxHistoryLimit)).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return history, nil
}

// GetProfile returns ownerID's profile, or nil when none exists yet
func (r *GormRepository) GetProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("id = ?", ownerID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// UpsertProfile applies patch to ownerID's profile, creating it if needed
func (r *GormRepository) UpsertProfile(ctx context.Context, ownerID string, patch *types.UpdateProfileRequest) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", ownerID).First(&profile).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile = model.Profile{
				ID:              ownerID,
				DietPreferences: model.JSONBStringArray{},
				Allergens:       model.JSONBStringArray{},
			}
			applyProfilePatch(&profile, patch)
			return tx.Create(&profile).Error
		case err != nil:
			return err
		}
		applyProfilePatch(&profile, patch)
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &profile, nil
}

func applyProfilePatch(profile *model.Profile, patch *types.UpdateProfileRequest) {
	if patch == nil {
		return
	}
	if patch.DisplayName != nil {
		profile.DisplayName = patch.DisplayName
	}
	if patch.AvatarURL != nil {
		profile.AvatarURL = patch.AvatarURL
	}
	if patch.DietPreferences != nil {
		profile.DietPreferences = model.JSONBStringArray(*patch.DietPreferences)
	}
	if patch.Allergens != nil {
		profile.Allergens = model.JSONBStringArray(*patch.Allergens)
	}
	if patch.CalorieTarget != nil {
		profile.CalorieTarget = patch.CalorieTarget
	}
}

// Ping checks the store connection
func (r *GormRepository) Ping(ctx context.Context) error {
	return database.HealthCheck(ctx, r.db)
}
