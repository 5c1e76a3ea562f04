package injector

import (
	"github.com/lk2023060901/assistant-plugins/internal/conf"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/logger"
	"github.com/lk2023060901/assistant-plugins/internal/plugin"
	"github.com/lk2023060901/assistant-plugins/internal/server"
	"github.com/lk2023060901/assistant-plugins/internal/video"
)

// App encapsulates all application dependencies
type App struct {
	Config       *conf.Config
	Logger       *logger.Logger
	HTTPServer   *server.HTTPServer
	Registry     *plugin.Registry
	SearchPlugin *plugin.SearchPlugin
	VideoCreator *video.Creator
}

func newApp(
	config *conf.Config,
	log *logger.Logger,
	httpServer *server.HTTPServer,
	registry *plugin.Registry,
	searchPlugin *plugin.SearchPlugin,
	creator *video.Creator,
) *App {
	return &App{
		Config:       config,
		Logger:       log,
		HTTPServer:   httpServer,
		Registry:     registry,
		SearchPlugin: searchPlugin,
		VideoCreator: creator,
	}
}
