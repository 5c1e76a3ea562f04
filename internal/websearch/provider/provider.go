package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	whttp "github.com/lk2023060901/assistant-plugins/internal/websearch/http"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/extract"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/types"
)

// maxBodySize caps how much of an upstream body is read into memory
const maxBodySize = 8 << 20

// Provider defines the interface for search providers
type Provider interface {
	// Search executes a search query
	Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error)

	// GetID returns the provider ID
	GetID() types.Engine

	// GetName returns the provider name
	GetName() string

	// Validate validates the provider configuration
	Validate() error
}

// BaseProvider provides common functionality for all providers
type BaseProvider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	truncator  extract.Truncator

	mu       sync.Mutex
	apiKeys  []string // Support multiple API keys for rotation
	keyIndex int      // Current key index
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config *types.ProviderConfig, logger *zap.Logger) *BaseProvider {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Parse multiple API keys (comma-separated)
	var apiKeys []string
	for _, key := range strings.Split(config.APIKey, ",") {
		if key = strings.TrimSpace(key); key != "" {
			apiKeys = append(apiKeys, key)
		}
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimit)
	}

	return &BaseProvider{
		config:     config,
		httpClient: whttp.NewHTTPClient(time.Duration(config.Timeout) * time.Second),
		logger:     logger.With(zap.String("engine", string(config.ID))),
		limiter:    limiter,
		truncator:  extract.Truncator{Length: config.ContentLength},
		apiKeys:    apiKeys,
	}
}

// GetID returns the provider ID
func (b *BaseProvider) GetID() types.Engine {
	return b.config.ID
}

// GetName returns the provider name
func (b *BaseProvider) GetName() string {
	return b.config.Name
}

// GetConfig returns the provider configuration
func (b *BaseProvider) GetConfig() *types.ProviderConfig {
	return b.config
}

// GetAPIKey returns the current API key (with rotation support)
func (b *BaseProvider) GetAPIKey() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.apiKeys) == 0 {
		return ""
	}

	key := b.apiKeys[b.keyIndex]
	b.keyIndex = (b.keyIndex + 1) % len(b.apiKeys)
	return key
}

// Truncate clips content to the configured content length
func (b *BaseProvider) Truncate(content string) string {
	return b.truncator.Truncate(content)
}

// DoRequest executes an HTTP request. Requests are attempted once unless
// MaxRetries asks for more.
func (b *BaseProvider) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	attempts := b.config.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		attempt := req.WithContext(ctx)
		if i > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			attempt.Body = body
		}

		resp, err := b.httpClient.Do(attempt)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if i < attempts-1 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			b.logger.Warn("request failed, retrying",
				zap.Int("attempt", i+1),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	if attempts == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

// FetchPage downloads a result page and returns its body as text
func (b *BaseProvider) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrFetchFailed, pageURL, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := b.DoRequest(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrFetchFailed, pageURL, err)
	}
	defer resp.Body.Close()

	// error pages are still converted; only transport and read failures are fatal
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b.logger.Debug("result page returned non-2xx status",
			zap.String("url", pageURL),
			zap.Int("status", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrFetchFailed, pageURL, err)
	}
	return string(body), nil
}

// Validate validates the provider configuration
func (b *BaseProvider) Validate() error {
	return b.config.Validate()
}

// readUpstream reads a provider API response, turning non-2xx into a ProviderError
func (b *BaseProvider) readUpstream(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &types.ProviderError{
			Provider: b.GetID(),
			Code:     "READ_FAILED",
			Message:  "Failed to read response",
			Err:      err,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewHTTPError(b.GetID(), resp.StatusCode, body)
	}
	return body, nil
}
