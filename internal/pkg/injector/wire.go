//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"

	"github.com/lk2023060901/assistant-plugins/internal/conf"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/logger"
	"github.com/lk2023060901/assistant-plugins/internal/server"
	"github.com/lk2023060901/assistant-plugins/internal/service"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/provider"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	pluginProviderSet,
	videoProviderSet,
	serverProviderSet,
)

// Plugin providers
var pluginProviderSet = wire.NewSet(
	provideZapLogger,
	provideTranslator,
	provideLocalIndex,
	provider.NewFactory,
	provideSearchPlugin,
	provideRegistry,
)

// Video providers
var videoProviderSet = wire.NewSet(
	provideMediaStore,
	provideVideoCreator,
)

// Server providers
var serverProviderSet = wire.NewSet(
	service.NewPluginService,
	service.NewVideoService,
	server.NewHTTPServer,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}
