package injector

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/assistant-plugins/internal/conf"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/logger"
)

func TestInitializeApp(t *testing.T) {
	config := &conf.Config{
		Server: conf.ServerConfig{Host: "127.0.0.1", Port: 0, Mode: "test"},
		Search: conf.SearchConfig{Enabled: true, Engine: "local"},
		Media:  conf.MediaConfig{Driver: "local", Dir: filepath.Join(t.TempDir(), "media")},
		Locale: "fr",
	}
	config.Search.Local.BaseURL = "http://127.0.0.1:7070"

	app, cleanup, err := InitializeApp(config, logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, app.HTTPServer)
	_, ok := app.Registry.Get("search_internet")
	assert.True(t, ok)
	assert.True(t, app.SearchPlugin.IsEnabled())
	assert.Equal(t, "Recherche sur internet…", app.SearchPlugin.RunningDescription())
	assert.Empty(t, app.VideoCreator.GetEngines(true))
}

func TestInitializeApp_UnknownMediaDriver(t *testing.T) {
	config := &conf.Config{Media: conf.MediaConfig{Driver: "ftp"}}

	_, _, err := InitializeApp(config, logger.Nop())
	assert.ErrorContains(t, err, "unknown media driver")
}

func TestInitializeApp_BadLocalIndexURL(t *testing.T) {
	config := &conf.Config{Media: conf.MediaConfig{Dir: t.TempDir()}}
	config.Search.Local.BaseURL = "not a url"

	_, _, err := InitializeApp(config, logger.Nop())
	assert.Error(t, err)
}

func TestLoggerConfig(t *testing.T) {
	cfg := LoggerConfig(conf.LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "console", cfg.Output)
	require.NoError(t, cfg.Validate())
}
