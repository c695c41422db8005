package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/pantry-chef/backend/internal/logger"
	"github.com/pageza/pantry-chef/backend/internal/repository"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// SuggestionResult is a generated recipe plus the ids of whatever was
// persisted alongside it.
type SuggestionResult struct {
	Recipe         *types.GeneratedRecipe
	SavedRecipeID  *uuid.UUID
	HistoryEntryID *uuid.UUID
}

// SuggestionService generates a recipe and records it. Persistence is best
// effort: store failures leave the ids nil but never fail the suggestion.
type SuggestionService struct {
	generator       IRecipeGenerator
	repo            repository.Repository
	recommendations IRecommendationService
}

var _ ISuggestionService = (*SuggestionService)(nil)

// NewSuggestionService creates a new SuggestionService. repo and
// recommendations may be nil.
func NewSuggestionService(generator IRecipeGenerator, repo repository.Repository, recommendations IRecommendationService) *SuggestionService {
	return &SuggestionService{generator: generator, repo: repo, recommendations: recommendations}
}

// Suggest generates a recipe for req on behalf of ownerID, which is empty for
// anonymous callers.
func (s *SuggestionService) Suggest(ctx context.Context, ownerID string, req *types.SuggestionRequest) *SuggestionResult {
	result := &SuggestionResult{Recipe: s.generator.Generate(ctx, req)}
	if s.repo == nil {
		return result
	}

	id, err := s.repo.InsertRecipe(ctx, result.Recipe, ownerID)
	if err != nil {
		logger.Warn("failed to save generated recipe", zap.Error(err))
	} else {
		result.SavedRecipeID = &id
	}

	historyID, err := s.repo.LogSearch(ctx, ownerID, req, result.SavedRecipeID)
	if err != nil {
		logger.Warn("failed to log search history", zap.Error(err))
		return result
	}
	result.HistoryEntryID = historyID
	if historyID != nil && s.recommendations != nil {
		s.recommendations.Invalidate(ctx, ownerID)
	}
	return result
}
