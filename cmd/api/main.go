package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantry-chef/backend/config"
	"github.com/pageza/pantry-chef/backend/internal/api"
	"github.com/pageza/pantry-chef/backend/internal/auth"
	"github.com/pageza/pantry-chef/backend/internal/database"
	"github.com/pageza/pantry-chef/backend/internal/logger"
	"github.com/pageza/pantry-chef/backend/internal/repository"
	"github.com/pageza/pantry-chef/backend/internal/server"
	"github.com/pageza/pantry-chef/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Env.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := server.Dependencies{
		Store:     openStore(cfg),
		Generator: service.NewRecipeGenerator(modelClient(cfg)),
		Verifier: auth.NewVerifier(auth.Secrets{
			JWTSecret:      cfg.SupabaseJWTSecret,
			ServiceRoleKey: cfg.SupabaseServiceRoleKey,
			AnonKey:        cfg.SupabaseAnonKey,
		}, cfg.FrontendLoginURL),
	}

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Warn("recommendation cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			deps.RecommendationCache = service.NewRedisRecommendationCache(client, cfg.RecommendationCacheTTL)
		}
	}

	identity, err := service.NewIdentityClient(service.IdentityConfig{
		URL:            cfg.SupabaseURL,
		ServiceRoleKey: cfg.SupabaseServiceRoleKey,
		AnonKey:        cfg.SupabaseAnonKey,
	})
	if err != nil {
		logger.Warn("identity provider disabled", zap.Error(err))
	} else {
		deps.Identity = identity
	}

	storage, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.Warn("avatar uploads disabled", zap.Error(err))
	} else {
		deps.Avatars = storage
	}

	if err := server.New(cfg, deps).Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openStore connects to DATABASE_URL. A store that cannot be opened leaves
// the API running with persistence disabled.
func openStore(cfg *config.Config) api.StoreState {
	state := api.StoreState{Configured: cfg.DatabaseURL != ""}
	if !state.Configured {
		logger.Info("DATABASE_URL not set, persistence disabled")
		return state
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", zap.Error(err))
		return state
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Error("failed to run migrations", zap.Error(err))
		_ = database.Close(db)
		return state
	}

	state.Repo = repository.NewGormRepository(db)
	return state
}

func modelClient(cfg *config.Config) service.ModelClient {
	client, err := service.NewOpenAIClient(service.ModelConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Timeout:     cfg.OpenAITimeout,
	})
	if err != nil {
		if !errors.Is(err, service.ErrModelUnavailable) {
			logger.Error("failed to create model client", zap.Error(err))
		} else {
			logger.Info("OPENAI_API_KEY not set, serving fallback recipes")
		}
		return nil
	}
	return client
}
