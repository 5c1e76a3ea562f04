package main

import (
	"github.com/spf13/cobra"
)

func newEnginesCmd(opts *rootOptions) *cobra.Command {
	var checkAPIKey bool

	cmd := &cobra.Command{
		Use:   "engines",
		Short: "List the video generation engines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := opts.initApp()
			if err != nil {
				return err
			}
			defer cleanup()

			return printJSON(cmd.OutOrStdout(), app.VideoCreator.GetEngines(checkAPIKey))
		},
	}

	cmd.Flags().BoolVar(&checkAPIKey, "check-api-key", false, "only list engines with an API key")
	return cmd
}
