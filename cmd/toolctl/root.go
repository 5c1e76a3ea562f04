package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lk2023060901/assistant-plugins/internal/conf"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/injector"
	"github.com/lk2023060901/assistant-plugins/internal/pkg/logger"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "toolctl",
		Short: "Run the assistant plugins from the command line",
		Long: `toolctl runs the search_internet plugin and the video creator outside of the host.
Engine API keys are read from the config file, the environment or a .env file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newVideoCmd(opts))
	cmd.AddCommand(newEnginesCmd(opts))

	return cmd
}

// initApp loads the configuration and assembles the plugins
func (o *rootOptions) initApp() (*injector.App, func(), error) {
	config, err := conf.LoadConfig(o.configFile)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.CLI(o.verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app, cleanup, err := injector.InitializeApp(config, log)
	if err != nil {
		return nil, nil, err
	}
	return app, func() {
		cleanup()
		_ = log.Sync()
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
