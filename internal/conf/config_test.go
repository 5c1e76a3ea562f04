package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
search:
  enabled: true
  engine: brave
  brave_api_key: file-key
  content_length: 200
  brave:
    api_host: http://brave.local
video:
  falai:
    api_key: fal-key
    poll_interval: 500ms
media:
  driver: minio
  minio:
    bucket: media
locale: fr
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, "brave", cfg.Search.Engine)
	assert.Equal(t, "file-key", cfg.Search.BraveAPIKey)
	assert.Equal(t, 200, cfg.Search.ContentLength)
	assert.Equal(t, "http://brave.local", cfg.Search.Brave.APIHost)
	assert.Equal(t, "fal-key", cfg.Video.FalAI.APIKey)
	assert.Equal(t, 500*time.Millisecond, cfg.Video.FalAI.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.Video.Replicate.Timeout)
	assert.Equal(t, "minio", cfg.Media.Driver)
	assert.Equal(t, "media", cfg.Media.MinIO.Bucket)
	assert.Equal(t, "fr", cfg.Locale)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 8686, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Search.Engine)
	assert.False(t, cfg.Search.Enabled)
	assert.Equal(t, "local", cfg.Media.Driver)
	assert.Equal(t, "en", cfg.Locale)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SEARCH_BRAVE_API_KEY", "env-key")

	cfg, err := LoadConfig(writeConfig(t, "search:\n  brave_api_key: file-key\n"))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Search.BraveAPIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_EnvOnlyKeys(t *testing.T) {
	t.Setenv("VIDEO_FALAI_API_KEY", "fal-env")
	t.Setenv("SEARCH_TAVILY_API_KEY", "tvly-env")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "fal-env", cfg.Video.FalAI.APIKey)
	assert.Equal(t, "tvly-env", cfg.Search.TavilyAPIKey)
	assert.Equal(t, 30, cfg.Search.Timeout)
}
