package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry-chef/backend/internal/middleware"
	"github.com/pageza/pantry-chef/backend/internal/service"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// SuggestionHandler generates recipes for anonymous and signed-in callers
type SuggestionHandler struct {
	suggestions service.ISuggestionService
	store       StoreState
	verifier    middleware.TokenVerifier
}

// NewSuggestionHandler creates a new SuggestionHandler
func NewSuggestionHandler(suggestions service.ISuggestionService, store StoreState, verifier middleware.TokenVerifier) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, store: store, verifier: verifier}
}

func (h *SuggestionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/suggestions", middleware.AuthMiddleware(h.verifier), h.CreateSuggestion)
}

// CreateSuggestion answers 201 even when generation fell back or nothing
// could be saved.
func (h *SuggestionHandler) CreateSuggestion(c *gin.Context) {
	var req types.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	result := h.suggestions.Suggest(c.Request.Context(), middleware.UserID(c), &req)

	c.JSON(http.StatusCreated, gin.H{
		"recipe":           result.Recipe,
		"supabase":         h.store.Status(),
		"saved_recipe_id":  result.SavedRecipeID,
		"history_entry_id": result.HistoryEntryID,
	})
}
