package injector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/conf"
	"github.com/lk2023060901/assistant-plugins/internal/i18n"
	"github.com/lk2023060901/assistant-plugins/internal/media"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/logger"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/minio"
	"github.com/lk2023060901/assistant-plugins/internal/plugin"
	"github.com/lk2023060901/assistant-plugins/internal/video"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/localindex"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/provider"
)

// downloadTimeout bounds fetching a generated file into the media store
const downloadTimeout = 5 * time.Minute

// LoggerConfig maps the log section of the config file to a logger config
func LoggerConfig(c conf.LogConfig) *logger.Config {
	cfg := logger.DefaultConfig()
	if c.Level != "" {
		cfg.Level = c.Level
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	if c.Output != "" {
		cfg.Output = c.Output
	}
	cfg.EnableCaller = c.EnableCaller
	cfg.EnableStacktrace = c.EnableStacktrace
	if c.File.Filename != "" {
		cfg.File = logger.FileConfig{
			Filename:   c.File.Filename,
			MaxSize:    c.File.MaxSize,
			MaxAge:     c.File.MaxAge,
			MaxBackups: c.File.MaxBackups,
			Compress:   c.File.Compress,
		}
	}
	return cfg
}

func provideZapLogger(log *logger.Logger) *zap.Logger {
	return log.Logger
}

func provideTranslator(config *conf.Config) i18n.Translator {
	return i18n.NewCatalog(config.Locale)
}

// provideLocalIndex returns nil when no local index is configured
func provideLocalIndex(config *conf.Config) (localindex.Index, error) {
	if config.Search.Local.BaseURL == "" {
		return nil, nil
	}
	client, err := localindex.NewClient(config.Search.Local.BaseURL, time.Duration(config.Search.Timeout)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("init local index: %w", err)
	}
	return client, nil
}

func provideSearchPlugin(
	config *conf.Config,
	factory *provider.Factory,
	translator i18n.Translator,
	log *zap.Logger,
) *plugin.SearchPlugin {
	return plugin.NewSearchPlugin(config.Search, factory, translator, log)
}

func provideRegistry(search *plugin.SearchPlugin) *plugin.Registry {
	return plugin.NewRegistry(search)
}

// provideMediaStore picks the local directory or the MinIO bucket
func provideMediaStore(config *conf.Config, log *zap.Logger) (media.Store, func(), error) {
	mc := config.Media

	switch mc.Driver {
	case "", "local":
		store, err := media.NewLocalStore(mc.Dir, downloadTimeout, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case "minio":
		client, err := minio.NewClient(&minio.Config{
			Endpoint:        mc.MinIO.Endpoint,
			AccessKeyID:     mc.MinIO.AccessKey,
			SecretAccessKey: mc.MinIO.SecretKey,
			UseSSL:          mc.MinIO.UseSSL,
			Region:          mc.MinIO.Region,
			Bucket:          mc.MinIO.Bucket,
			PresignExpiry:   mc.PresignExpiry,
		}, log)
		if err != nil {
			return nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := client.EnsureBucket(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}

		cleanup := func() { client.Close() }
		return media.NewObjectStore(client, mc.Prefix, downloadTimeout, log), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown media driver %q", mc.Driver)
	}
}

func provideVideoCreator(config *conf.Config, store media.Store, log *zap.Logger) (*video.Creator, error) {
	return video.NewCreator(config.Video, store, log)
}
