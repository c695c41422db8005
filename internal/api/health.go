package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service availability
type HealthHandler struct {
	store StoreState
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store StoreState) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
}

// Health never fails; store problems are reported in the body.
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.store.Status()
	if h.store.Repo != nil {
		if err := h.store.Repo.Ping(c.Request.Context()); err != nil {
			status = "error: " + err.Error()
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "supabase": status})
}
