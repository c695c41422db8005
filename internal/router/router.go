package router

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/pageza/pantry-chef/backend/internal/middleware"
)

// RouteRegistrar is implemented by every API handler
type RouteRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// SetupRouter configures the engine middleware and mounts every handler
// under /api.
func SetupRouter(corsOrigins []string, handlers ...RouteRegistrar) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true

	router.Use(
		requestid.New(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(corsOrigins),
		middleware.ErrorHandler(),
	)

	api := router.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
	return router
}
