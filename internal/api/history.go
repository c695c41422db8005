package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry-chef/backend/internal/middleware"
	"github.com/pageza/pantry-chef/backend/internal/service"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// HistoryHandler serves a caller's search history and what it suggests
type HistoryHandler struct {
	store           StoreState
	recommendations service.IRecommendationService
	verifier        middleware.TokenVerifier
}

// NewHistoryHandler creates a new HistoryHandler. recommendations must be set
// whenever the store is.
func NewHistoryHandler(store StoreState, recommendations service.IRecommendationService, verifier middleware.TokenVerifier) *HistoryHandler {
	return &HistoryHandler{store: store, recommendations: recommendations, verifier: verifier}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("", protected(h.verifier)...)
	{
		group.GET("/history", h.ListHistory)
		group.GET("/recommendations", h.Recommendations)
	}
}

func (h *HistoryHandler) ListHistory(c *gin.Context) {
	var query types.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	repo, err := h.store.Require()
	if err != nil {
		_ = c.Error(err)
		return
	}

	history, err := repo.ListHistory(c.Request.Context(), middleware.UserID(c), types.LimitOrDefault(query.Limit))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *HistoryHandler) Recommendations(c *gin.Context) {
	if _, err := h.store.Require(); err != nil {
		_ = c.Error(err)
		return
	}

	suggestions, err := h.recommendations.Recommend(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
