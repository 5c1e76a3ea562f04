package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/conf"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/injector"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/logger"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitGlobal(injector.LoggerConfig(config.Log)); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log := logger.L()
	defer log.Sync()

	log.Info("config loaded successfully",
		zap.String("search_engine", config.Search.Engine),
		zap.String("media_driver", config.Media.Driver),
		zap.String("locale", config.Locale),
	)

	app, cleanup, err := injector.InitializeApp(config, log)
	if err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}
	defer cleanup()

	plugins := app.Registry.List()
	for _, p := range plugins {
		log.Info("plugin registered", zap.String("plugin", p.Name()), zap.Bool("enabled", p.IsEnabled()))
	}

	// Start server in goroutine
	go func() {
		if err := app.HTTPServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully", zap.String("addr", config.Server.Addr()))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	timeout := config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.HTTPServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
