// Package replicate is a client for the Replicate predictions API.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/video/types"
	whttp "github.com/lk2023060901/assistant-plugins/internal/websearch/http"
)

// Prediction states
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// APIError is a non-2xx answer from Replicate
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("replicate: status %d: %s", e.StatusCode, e.Detail)
}

// Client Replicate HTTP client
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a Replicate client
func New(cfg *Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:     cfg,
		httpClient: whttp.NewHTTPClient(cfg.RequestTimeout),
		logger:     logger.With(zap.String("engine", string(types.EngineReplicate))),
	}, nil
}

// Run creates a prediction for model and waits for it to finish, returning
// its output URLs. model is "owner/name" or "owner/name:version".
func (c *Client) Run(ctx context.Context, model string, input map[string]any) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	prediction, err := c.createPrediction(ctx, model, input)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		status := prediction.Get("status").String()
		c.logger.Debug("prediction status",
			zap.String("id", prediction.Get("id").String()),
			zap.String("status", status),
		)

		switch status {
		case StatusSucceeded:
			return outputURLs(prediction.Get("output"))
		case StatusFailed, StatusCanceled:
			msg := prediction.Get("error").String()
			if msg == "" {
				msg = "prediction " + status
			}
			return nil, fmt.Errorf("replicate: %s", msg)
		}

		getURL := prediction.Get("urls.get").String()
		if getURL == "" {
			return nil, fmt.Errorf("replicate: prediction %q has no status url", prediction.Get("id").String())
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, types.ErrTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}

		body, err := c.doRequest(ctx, http.MethodGet, getURL, nil, false)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, types.ErrTimeout
			}
			return nil, err
		}
		prediction = gjson.ParseBytes(body)
	}
}

func (c *Client) createPrediction(ctx context.Context, model string, input map[string]any) (gjson.Result, error) {
	payload := map[string]any{"input": input}
	path := "/v1/models/" + model + "/predictions"

	if name, version, ok := strings.Cut(model, ":"); ok {
		payload["version"] = version
		path = "/v1/predictions"
		c.logger.Debug("using pinned model version", zap.String("model", name), zap.String("version", version))
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.config.BaseURL+path, payload, true)
	if err != nil {
		return gjson.Result{}, err
	}

	c.logger.Info("prediction created", zap.String("model", model), zap.String("id", gjson.GetBytes(body, "id").String()))
	return gjson.ParseBytes(body), nil
}

// Fetch opens an output file. The caller must close the body.
func (c *Client) Fetch(ctx context.Context, fileURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	if strings.HasPrefix(fileURL, c.config.BaseURL) {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch output: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, "", fmt.Errorf("fetch output: unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// doRequest performs an authenticated JSON exchange and returns the raw body
func (c *Client) doRequest(ctx context.Context, method, url string, body any, wait bool) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	c.logger.Debug("replicate request", zap.String("method", method), zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if wait {
		req.Header.Set("Prefer", "wait")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("replicate request failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := gjson.GetBytes(respData, "detail").String()
		if detail == "" {
			detail = strings.TrimSpace(string(respData))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	return respData, nil
}

// outputURLs accepts both a single file URL and a list of them
func outputURLs(output gjson.Result) ([]string, error) {
	var urls []string
	if output.IsArray() {
		for _, item := range output.Array() {
			if s := item.String(); s != "" {
				urls = append(urls, s)
			}
		}
	} else if s := output.String(); s != "" {
		urls = append(urls, s)
	}

	if len(urls) == 0 {
		return nil, types.ErrNoOutput
	}
	return urls, nil
}
