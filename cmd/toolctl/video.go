package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lk2023060901/assistant-plugins/internal/video/types"
)

type videoOptions struct {
	engine    string
	model     string
	prompt    string
	params    []string
	reference string
}

func newVideoCmd(opts *rootOptions) *cobra.Command {
	vo := &videoOptions{}

	cmd := &cobra.Command{
		Use:   "video",
		Short: "Generate a video with Replicate or fal.ai",
		Example: `  toolctl video --engine replicate --model minimax/video-01 --prompt "a cat surfing"
  toolctl video --engine falai --model fal-ai/kling-video/v1/standard/image-to-video \
    --prompt "slow zoom" --reference still.png --param duration=5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(vo.params)
			if err != nil {
				return err
			}
			if vo.prompt != "" {
				params["prompt"] = vo.prompt
			}

			var reference *types.Reference
			if vo.reference != "" {
				if reference, err = loadReference(vo.reference); err != nil {
					return err
				}
			}

			app, cleanup, err := opts.initApp()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			result := app.VideoCreator.Execute(ctx, types.Engine(vo.engine), vo.model, params, reference)
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.Failed() {
				return fmt.Errorf("generation failed: %s", result.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&vo.engine, "engine", "e", string(types.EngineReplicate), "engine: replicate or falai")
	cmd.Flags().StringVarP(&vo.model, "model", "m", "", "model identifier")
	cmd.Flags().StringVarP(&vo.prompt, "prompt", "p", "", "prompt text")
	cmd.Flags().StringArrayVar(&vo.params, "param", nil, "extra model input as key=value, value decoded as JSON when valid (repeatable)")
	cmd.Flags().StringVarP(&vo.reference, "reference", "r", "", "reference image file")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

// parseParams turns key=value pairs into model input. Values are decoded as
// JSON when they parse, so duration=5 is a number and loop=true a boolean.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q, expected key=value", pair)
		}
		params[key] = paramValue(value)
	}
	return params, nil
}

func paramValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// loadReference reads a file into a base64 reference, typed by its extension
func loadReference(path string) (*types.Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference: %w", err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}

	return &types.Reference{
		MimeType: mimeType,
		Contents: base64.StdEncoding.EncodeToString(data),
	}, nil
}
