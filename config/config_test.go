package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "auto", cfg.ProviderPreference)
	assert.Equal(t, DefaultGeminiModels, cfg.GeminiModels)
	assert.Equal(t, DefaultOpenAIModels, cfg.OpenAIModels)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.OTelEnabled)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("OPENAI_MODELS", "gpt-x, gpt-y ,")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.GeminiCredential())
	assert.Equal(t, "o-key", cfg.OpenAIKey)
	assert.Equal(t, []string{"gpt-x", "gpt-y"}, cfg.OpenAIModels)
	assert.Equal(t, "openai", cfg.ProviderPreference)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "SERVER_ADDRESS: \":9090\"\nGEMINI_MODELS:\n  - gemini-a\n  - gemini-b\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, []string{"gemini-a", "gemini-b"}, cfg.GeminiModels)
}

func TestGeminiCredentialFallsBackToLegacyKey(t *testing.T) {
	cfg := Config{LegacyAPIKey: "legacy"}
	assert.Equal(t, "legacy", cfg.GeminiCredential())

	cfg.GeminiAPIKey = "primary"
	assert.Equal(t, "primary", cfg.GeminiCredential())
}
