// Package video generates videos through hosted model APIs and stores the result.
package video

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/conf"
	"github.com/lk2023060901/assistant-plugins/internal/media"
	"github.com/lk2023060901/assistant-plugins/internal/video/falai"
	"github.com/lk2023060901/assistant-plugins/internal/video/replicate"
	"github.com/lk2023060901/assistant-plugins/internal/video/types"
)

// defaultExtension applies when a Replicate output has no usable content type
const defaultExtension = "mp4"

// Creator dispatches generation requests to Replicate or fal.ai
type Creator struct {
	config    conf.VideoConfig
	replicate *replicate.Client
	falai     *falai.Client
	store     media.Store
	logger    *zap.Logger
}

// NewCreator builds clients for every engine that has an API key
func NewCreator(cfg conf.VideoConfig, store media.Store, logger *zap.Logger) (*Creator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Creator{
		config: cfg,
		store:  store,
		logger: logger.Named("video"),
	}

	if hasKey(cfg.Replicate.APIKey) {
		client, err := replicate.New(&replicate.Config{
			APIKey:       cfg.Replicate.APIKey,
			BaseURL:      cfg.Replicate.BaseURL,
			PollInterval: cfg.Replicate.PollInterval,
			Timeout:      cfg.Replicate.Timeout,
		}, c.logger)
		if err != nil {
			return nil, fmt.Errorf("init replicate client: %w", err)
		}
		c.replicate = client
	}

	if hasKey(cfg.FalAI.APIKey) {
		client, err := falai.New(&falai.Config{
			APIKey:       cfg.FalAI.APIKey,
			QueueURL:     cfg.FalAI.QueueURL,
			PollInterval: cfg.FalAI.PollInterval,
			Timeout:      cfg.FalAI.Timeout,
		}, c.logger)
		if err != nil {
			return nil, fmt.Errorf("init fal.ai client: %w", err)
		}
		c.falai = client
	}

	return c, nil
}

func hasKey(key string) bool {
	return strings.TrimSpace(key) != ""
}

// GetEngines lists the engines the user may pick. With checkAPIKey set,
// engines without a configured API key are left out.
func (c *Creator) GetEngines(checkAPIKey bool) []types.EngineInfo {
	engines := make([]types.EngineInfo, 0, 2)
	if !checkAPIKey || hasKey(c.config.Replicate.APIKey) {
		engines = append(engines, types.EngineInfo{ID: types.EngineReplicate, Name: "Replicate"})
	}
	if !checkAPIKey || hasKey(c.config.FalAI.APIKey) {
		engines = append(engines, types.EngineInfo{ID: types.EngineFalAI, Name: "fal.ai"})
	}
	return engines
}

// Execute generates a video and returns its stored URL. Failures, including
// an unknown engine, are reported in the result's Error field.
func (c *Creator) Execute(ctx context.Context, engine types.Engine, model string, params map[string]any, reference *types.Reference) (result types.GenerationResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("video generation panicked", zap.Any("panic", r))
			result = types.GenerationResult{Error: fmt.Sprintf("video generation failed: %v", r)}
		}
	}()

	var (
		url string
		err error
	)

	switch engine {
	case types.EngineReplicate:
		url, err = c.runReplicate(ctx, model, params)
	case types.EngineFalAI:
		url, err = c.runFalAI(ctx, model, params, reference)
	default:
		err = types.ErrUnsupportedEngine
	}

	if err != nil {
		c.logger.Error("video generation failed",
			zap.String("engine", string(engine)),
			zap.String("model", model),
			zap.Error(err),
		)
		return types.GenerationResult{Error: err.Error()}
	}

	c.logger.Info("video generated",
		zap.String("engine", string(engine)),
		zap.String("model", model),
		zap.String("url", url),
	)
	return types.GenerationResult{URL: url}
}

// runReplicate passes params through as the model input and saves the first output file
func (c *Creator) runReplicate(ctx context.Context, model string, params map[string]any) (string, error) {
	if c.replicate == nil {
		return "", types.ErrMissingAPIKey
	}

	c.logger.Info("prompting model", zap.String("engine", string(types.EngineReplicate)), zap.String("model", model))
	outputs, err := c.replicate.Run(ctx, model, params)
	if err != nil {
		return "", err
	}

	ext, contents, err := c.readOutput(ctx, outputs[0])
	if err != nil {
		return "", err
	}
	return c.store.SaveContents(ctx, ext, contents)
}

// readOutput loads one output file as base64 along with its extension
func (c *Creator) readOutput(ctx context.Context, fileURL string) (string, string, error) {
	body, contentType, err := c.replicate.Fetch(ctx, fileURL)
	if err != nil {
		return "", "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", "", fmt.Errorf("read output: %w", err)
	}

	return media.ExtensionFromContentType(contentType, defaultExtension), base64.StdEncoding.EncodeToString(data), nil
}

// runFalAI sends only the prompt and the optional reference image
func (c *Creator) runFalAI(ctx context.Context, model string, params map[string]any, reference *types.Reference) (string, error) {
	if c.falai == nil {
		return "", types.ErrMissingAPIKey
	}

	result, err := c.falai.Subscribe(ctx, model, FalAIInput(params, reference))
	if err != nil {
		return "", err
	}

	videoURL, err := falai.VideoURL(result)
	if err != nil {
		return "", err
	}
	return c.store.Download(ctx, videoURL)
}

// FalAIInput builds the fal.ai input document. Keys are present only when
// the corresponding value is.
func FalAIInput(params map[string]any, reference *types.Reference) map[string]any {
	input := make(map[string]any, 2)
	if prompt, ok := params["prompt"]; ok && isPresent(prompt) {
		input["prompt"] = prompt
	}
	if reference != nil {
		input["image_url"] = reference.DataURL()
	}
	return input
}

// isPresent follows truthiness: nil, "", false, zero and NaN numbers are absent
func isPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return !rv.IsZero()
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0 && !math.IsNaN(rv.Float())
	}
	return true
}
