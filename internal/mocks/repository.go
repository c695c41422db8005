package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantry-chef/backend/internal/model"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// MockRepository is a mock implementation of repository.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertRecipe(ctx context.Context, recipe *types.GeneratedRecipe, ownerID string) (uuid.UUID, error) {
	args := m.Called(ctx, recipe, ownerID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) ListRecipes(ctx context.Context, ownerID, scope string, limit int) ([]model.Recipe, error) {
	args := m.Called(ctx, ownerID, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRepository) SetFavorite(ctx context.Context, ownerID string, recipeID uuid.UUID, add bool) error {
	args := m.Called(ctx, ownerID, recipeID, add)
	return args.Error(0)
}

func (m *MockRepository) LogSearch(ctx context.Context, ownerID string, req *types.SuggestionRequest, recipeID *uuid.UUID) (*uuid.UUID, error) {
	args := m.Called(ctx, ownerID, req, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

func (m *MockRepository) ListHistory(ctx context.Context, ownerID string, limit int) ([]model.SearchHistory, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SearchHistory), args.Error(1)
}

func (m *MockRepository) GetProfile(ctx context.Context, ownerID string) (*model.Profile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockRepository) UpsertProfile(ctx context.Context, ownerID string, patch *types.UpdateProfileRequest) (*model.Profile, error) {
	args := m.Called(ctx, ownerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
