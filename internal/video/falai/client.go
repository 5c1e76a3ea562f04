// Package falai is a client for the fal.ai queue API.
package falai

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

// Queue states
const (
	StatusInQueue    = "IN_QUEUE"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// APIError is a non-2xx answer from fal.ai
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fal.ai: status %d: %s", e.StatusCode, e.Detail)
}

// Client fal.ai queue client
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a fal.ai client
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
		logger:     logger.With(zap.String("engine", string(types.EngineFalAI))),
	}, nil
}

// Subscribe submits input to the model queue, waits for completion and
// returns the raw result document.
func (c *Client) Subscribe(ctx context.Context, model string, input map[string]any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	submitted, err := c.doRequest(ctx, http.MethodPost, c.config.QueueURL+"/"+strings.Trim(model, "/"), input)
	if err != nil {
		return nil, err
	}

	requestID := gjson.GetBytes(submitted, "request_id").String()
	statusURL := gjson.GetBytes(submitted, "status_url").String()
	responseURL := gjson.GetBytes(submitted, "response_url").String()
	if statusURL == "" || responseURL == "" {
		return nil, fmt.Errorf("fal.ai: queue response missing status or response url")
	}

	c.logger.Info("request queued", zap.String("model", model), zap.String("request_id", requestID))

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, types.ErrTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}

		status, err := c.doRequest(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, types.ErrTimeout
			}
			return nil, err
		}

		state := gjson.GetBytes(status, "status").String()
		c.logger.Debug("request status", zap.String("request_id", requestID), zap.String("status", state))

		switch state {
		case StatusCompleted:
			if msg := gjson.GetBytes(status, "error").String(); msg != "" {
				return nil, fmt.Errorf("fal.ai: %s", msg)
			}
			return c.doRequest(ctx, http.MethodGet, responseURL, nil)
		case StatusInQueue, StatusInProgress:
			continue
		default:
			c.logger.Warn("unknown request status", zap.String("request_id", requestID), zap.String("status", state))
		}
	}
}

// VideoURL extracts video.url from a result document
func VideoURL(result []byte) (string, error) {
	u := gjson.GetBytes(result, "video.url").String()
	if u == "" {
		return "", types.ErrNoOutput
	}
	return u, nil
}

func (c *Client) doRequest(ctx context.Context, method, url string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	c.logger.Debug("fal.ai request", zap.String("method", method), zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("fal.ai request failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// the status endpoint answers 202 while the request is pending
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := gjson.GetBytes(respData, "detail").String()
		if detail == "" {
			detail = strings.TrimSpace(string(respData))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	return respData, nil
}
