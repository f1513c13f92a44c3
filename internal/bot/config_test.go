package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_WithValidToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token-123")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-token-123", cfg.DiscordToken)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_ADDR", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadConfig_WithEmptyToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JUKEBOT_DOTENV_TEST=from-file\nJUKEBOT_DOTENV_SET=from-file\n"), 0o600))

	t.Setenv("JUKEBOT_DOTENV_SET", "from-env")
	t.Setenv("JUKEBOT_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("JUKEBOT_DOTENV_TEST"))

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "from-file", os.Getenv("JUKEBOT_DOTENV_TEST"))
	assert.Equal(t, "from-env", os.Getenv("JUKEBOT_DOTENV_SET"))
	require.NoError(t, os.Unsetenv("JUKEBOT_DOTENV_TEST"))
}
