package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry-chef/backend/internal/middleware"
	"github.com/pageza/pantry-chef/backend/internal/repository"
	"github.com/pageza/pantry-chef/backend/internal/types"
)

// RecipeHandler lists saved recipes and manages favorites
type RecipeHandler struct {
	store    StoreState
	verifier middleware.TokenVerifier
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(store StoreState, verifier middleware.TokenVerifier) *RecipeHandler {
	return &RecipeHandler{store: store, verifier: verifier}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("", protected(h.verifier)...)
	{
		group.GET("/recipes", h.ListRecipes)
		group.POST("/favorites", h.ToggleFavorite)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var query types.RecipeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	repo, err := h.store.Require()
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipes, err := repo.ListRecipes(c.Request.Context(), middleware.UserID(c), query.ScopeOrDefault(), types.LimitOrDefault(query.Limit))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	var req types.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	repo, err := h.store.Require()
	if err != nil {
		_ = c.Error(err)
		return
	}

	add := req.Action == "add"
	if err := repo.SetFavorite(c.Request.Context(), middleware.UserID(c), req.RecipeID, add); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			_ = c.Error(types.NewAPIError(http.StatusNotFound, "not_found", "Recipe not found.", err))
			return
		}
		_ = c.Error(err)
		return
	}

	status := "removed"
	if add {
		status = "added"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
