package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantry-chef/backend/config"
	"github.com/pageza/pantry-chef/backend/internal/api"
	"github.com/pageza/pantry-chef/backend/internal/auth"
	"github.com/pageza/pantry-chef/backend/internal/logger"
	"github.com/pageza/pantry-chef/backend/internal/router"
	"github.com/pageza/pantry-chef/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the collaborators built at startup. Every field except
// Generator and Verifier may be nil when its backing service is not
// configured.
type Dependencies struct {
	Store               api.StoreState
	Generator           service.IRecipeGenerator
	Verifier            *auth.Verifier
	Identity            service.IdentityProvider
	RecommendationCache service.RecommendationCache
	Avatars             service.AvatarPresigner
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires the services and handlers for deps and builds the router
func New(cfg *config.Config, deps Dependencies) *Server {
	var recommendations service.IRecommendationService
	if deps.Store.Repo != nil {
		recommendations = service.NewRecommendationService(deps.Store.Repo, deps.RecommendationCache)
	}
	suggestions := service.NewSuggestionService(deps.Generator, deps.Store.Repo, recommendations)
	profiles := service.NewProfileService(deps.Store.Repo, deps.Avatars)

	engine := router.SetupRouter(cfg.CORSAllowedOrigins,
		api.NewHealthHandler(deps.Store),
		api.NewSuggestionHandler(suggestions, deps.Store, deps.Verifier),
		api.NewRecipeHandler(deps.Store, deps.Verifier),
		api.NewHistoryHandler(deps.Store, recommendations, deps.Verifier),
		api.NewProfileHandler(profiles, deps.Store, deps.Verifier),
		api.NewAuthHandler(deps.Identity, deps.Verifier, cfg.AllowedEmailDomains),
	)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
