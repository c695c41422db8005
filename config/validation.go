package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// ValidateConfig checks cfg against the requirements of its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", "must be a port number, got %q", cfg.ServerPort)
	}
	if !logLevels[cfg.LogLevel] {
		add("LOG_LEVEL", "must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	if cfg.OpenAITemperature < 0 || cfg.OpenAITemperature > 2 {
		add("OPENAI_TEMPERATURE", "must be between 0 and 2, got %v", cfg.OpenAITemperature)
	}
	if cfg.OpenAIMaxTokens <= 0 {
		add("OPENAI_MAX_TOKENS", "must be positive, got %d", cfg.OpenAIMaxTokens)
	}
	if cfg.OpenAITimeout <= 0 {
		add("OPENAI_TIMEOUT", "must be positive")
	}
	if cfg.RecommendationCacheTTL <= 0 {
		add("RECOMMENDATION_CACHE_TTL", "must be positive")
	}

	if cfg.Env.IsProduction() {
		if cfg.SupabaseJWTSecret == "" && cfg.SupabaseServiceRoleKey == "" && cfg.SupabaseAnonKey == "" {
			add("SUPABASE_JWT_SECRET", "a token verification secret is required in production")
		}
		if cfg.DatabaseURL == "" {
			add("DATABASE_URL", "is required in production")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
