package adapter

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg, err := LoadConfigFile("")
		require.NoError(t, err)
		assert.Equal(t, DefaultServerURL, cfg.Server.URL)
		assert.Equal(t, 10, cfg.UI.PageSize)
	})

	t.Run("yaml values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `server:
  url: https://news.example.com/api/
  timeout: 15s
ui:
  page_size: 25
logging:
  level: debug
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "https://news.example.com/api", cfg.Server.URL)
		assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 25, cfg.UI.PageSize)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "default", cfg.UI.Theme)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  url: http://file/api\n"), 0600))
		t.Setenv("NEWSDESK_SERVER_URL", "http://env/api")

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "http://env/api", cfg.Server.URL)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed\n"), 0600))

		_, err := LoadConfigFile(path)
		assert.Error(t, err)
	})
}

func TestSaveConfigFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.URL = "http://saved/api"
	cfg.Server.Timeout = 5 * time.Second
	cfg.Storage.Path = ""

	require.NoError(t, SaveConfigFile(cfg, path))

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved/api", loaded.Server.URL)
	assert.Equal(t, 5*time.Second, loaded.Server.Timeout)
	assert.Empty(t, loaded.Storage.Path)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "newsdesk.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("hello", "k", "v")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
