package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are the environment variable names and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress      string   `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv             string   `mapstructure:"APP_ENV"`        // "production" switches gin to release mode
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// AI Configuration
	GeminiAPIKey       string   `mapstructure:"GEMINI_API_KEY"`
	LegacyAPIKey       string   `mapstructure:"API_KEY"` // older deployments shipped the Gemini key as API_KEY
	OpenAIKey          string   `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL      string   `mapstructure:"OPENAI_BASE_URL"` // empty uses the public endpoint
	GeminiModels       []string `mapstructure:"GEMINI_MODELS"`   // candidate order, comma separated in env
	OpenAIModels       []string `mapstructure:"OPENAI_MODELS"`
	ProviderPreference string   `mapstructure:"AI_PROVIDER"` // auto | gemini | openai

	// Workspace storage; in-memory when REDIS_ADDR is empty
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Observability
	LogLevel       string  `mapstructure:"LOG_LEVEL"`
	LogFormat      string  `mapstructure:"LOG_FORMAT"` // json | console
	OTelEnabled    bool    `mapstructure:"OTEL_ENABLED"`
	OTelEndpoint   string  `mapstructure:"OTEL_ENDPOINT"`
	OTelSampleRate float64 `mapstructure:"OTEL_SAMPLE_RATE"`
}

var (
	DefaultGeminiModels = []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash"}
	DefaultOpenAIModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("GEMINI_MODELS", DefaultGeminiModels)
	v.SetDefault("OPENAI_MODELS", DefaultOpenAIModels)
	v.SetDefault("AI_PROVIDER", "auto")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATE", 1.0)
}

// LoadConfig reads configuration from config.yaml in path (optional) and
// environment variables, which take precedence.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	cfg.GeminiModels = cleanList(cfg.GeminiModels)
	cfg.OpenAIModels = cleanList(cfg.OpenAIModels)
	if len(cfg.GeminiModels) == 0 {
		cfg.GeminiModels = DefaultGeminiModels
	}
	if len(cfg.OpenAIModels) == 0 {
		cfg.OpenAIModels = DefaultOpenAIModels
	}
	cfg.CORSAllowedOrigins = cleanList(cfg.CORSAllowedOrigins)
	return cfg, nil
}

// GeminiCredential returns the Gemini key, falling back to the legacy API_KEY.
func (c Config) GeminiCredential() string {
	if strings.TrimSpace(c.GeminiAPIKey) != "" {
		return c.GeminiAPIKey
	}
	return c.LegacyAPIKey
}

// cleanList trims entries and drops empties. Env values arrive as a single
// comma separated string, file values as a YAML list.
func cleanList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
