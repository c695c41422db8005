package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerHost string
	ServerPort string
	LogLevel   string

	// Data stores. Empty URLs leave the store unconfigured.
	DatabaseURL string
	RedisURL    string

	// Supabase identity provider
	SupabaseURL            string
	SupabaseJWTSecret      string
	SupabaseServiceRoleKey string
	SupabaseAnonKey        string

	// Language model
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITemperature float64
	OpenAIMaxTokens   int
	OpenAITimeout     time.Duration

	// HTTP surface
	FrontendLoginURL    string
	AllowedEmailDomains []string
	CORSAllowedOrigins  []string

	// Avatar storage
	S3BucketName string
	AWSRegion    string

	RecommendationCacheTTL time.Duration
}

// keys are read from the environment under the same name in upper case
var keys = []string{
	"env", "server_host", "server_port", "log_level",
	"database_url", "redis_url",
	"supabase_url", "supabase_jwt_secret", "supabase_service_role_key", "supabase_anon_key",
	"openai_api_key", "openai_base_url", "openai_model", "openai_temperature", "openai_max_tokens", "openai_timeout",
	"frontend_login_url", "allowed_email_domains", "cors_allowed_origins",
	"s3_bucket_name", "aws_region", "recommendation_cache_ttl",
}

// secretKeys fall back to a file of the same name in SECRETS_DIR
var secretKeys = []string{
	"database_url",
	"supabase_jwt_secret",
	"supabase_service_role_key",
	"supabase_anon_key",
	"openai_api_key",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", string(Development))
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8000")
	v.SetDefault("log_level", "info")

	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_temperature", 0.4)
	v.SetDefault("openai_max_tokens", 800)
	v.SetDefault("openai_timeout", "60s")

	v.SetDefault("frontend_login_url", "/login")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")
	v.SetDefault("s3_bucket_name", "pantry-chef-avatars")
	v.SetDefault("recommendation_cache_ttl", "10m")
}

// LoadConfig creates a new Config instance from environment variables, an
// optional .env file and Docker secret files. Variables already set in the
// environment win over .env entries.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	for _, key := range secretKeys {
		if v.GetString(key) == "" {
			if secret := readSecret(key); secret != "" {
				v.Set(key, secret)
			}
		}
	}

	env := ParseEnvironment(v.GetString("env"))
	if os.Getenv("CI") == "true" {
		env = CI
	}

	cfg := &Config{
		Env:                    env,
		ServerHost:             v.GetString("server_host"),
		ServerPort:             v.GetString("server_port"),
		LogLevel:               strings.ToLower(v.GetString("log_level")),
		DatabaseURL:            v.GetString("database_url"),
		RedisURL:               v.GetString("redis_url"),
		SupabaseURL:            v.GetString("supabase_url"),
		SupabaseJWTSecret:      v.GetString("supabase_jwt_secret"),
		SupabaseServiceRoleKey: v.GetString("supabase_service_role_key"),
		SupabaseAnonKey:        v.GetString("supabase_anon_key"),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		OpenAIBaseURL:          v.GetString("openai_base_url"),
		OpenAIModel:            v.GetString("openai_model"),
		OpenAITemperature:      v.GetFloat64("openai_temperature"),
		OpenAIMaxTokens:        v.GetInt("openai_max_tokens"),
		OpenAITimeout:          v.GetDuration("openai_timeout"),
		FrontendLoginURL:       v.GetString("frontend_login_url"),
		AllowedEmailDomains:    splitList(strings.ToLower(v.GetString("allowed_email_domains"))),
		CORSAllowedOrigins:     splitList(v.GetString("cors_allowed_origins")),
		S3BucketName:           v.GetString("s3_bucket_name"),
		AWSRegion:              v.GetString("aws_region"),
		RecommendationCacheTTL: v.GetDuration("recommendation_cache_ttl"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port the server listens on
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
