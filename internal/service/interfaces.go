package service

import (
	"context"
	"time"

	"github.com/pageza/pantry-chef/backend/internal/model"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// IRecipeGenerator defines the interface for recipe generation
type IRecipeGenerator interface {
	Generate(ctx context.Context, req *types.SuggestionRequest) *types.GeneratedRecipe
	Available() bool
}

// ISuggestionService defines the interface for the suggestion flow
type ISuggestionService interface {
	Suggest(ctx context.Context, ownerID string, req *types.SuggestionRequest) *SuggestionResult
}

// IRecommendationService defines the interface for ingredient recommendations
type IRecommendationService interface {
	Recommend(ctx context.Context, userID string) ([]string, error)
	Invalidate(ctx context.Context, userID string)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req *types.UpdateProfileRequest) (*model.Profile, error)
	CreateAvatarUpload(ctx context.Context, userID, contentType string) (*AvatarUpload, error)
}

// AvatarPresigner issues presigned upload URLs for avatar objects
type AvatarPresigner interface {
	PresignUpload(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)
}
