package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/websearch/types"
)

// DefaultBraveHost is the public Brave Search API host
const DefaultBraveHost = "https://api.search.brave.com"

// BraveProvider implements the Brave web search API
type BraveProvider struct {
	*BaseProvider
}

// NewBraveProvider creates a new Brave provider
func NewBraveProvider(config *types.ProviderConfig, logger *zap.Logger) (Provider, error) {
	if config.APIHost == "" {
		config.APIHost = DefaultBraveHost
	}
	return &BraveProvider{BaseProvider: NewBaseProvider(config, logger)}, nil
}

// braveResponse represents a Brave web search response
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search executes a search query using the Brave API. Descriptions are used
// as content as-is; result pages are not fetched.
func (p *BraveProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	startTime := time.Now()

	count := req.MaxResults
	if count <= 0 {
		count = p.config.ResultLimit()
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("count", strconv.Itoa(count))
	apiURL := strings.TrimRight(p.config.APIHost, "/") + "/res/v1/web/search?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Subscription-Token", p.GetAPIKey())

	resp, err := p.DoRequest(ctx, httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: p.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	body, err := p.readUpstream(resp)
	if err != nil {
		return nil, err
	}

	var braveResp braveResponse
	if err := json.Unmarshal(body, &braveResp); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidResponse, err)
	}

	results := make([]*types.SearchResult, len(braveResp.Web.Results))
	for i, r := range braveResp.Web.Results {
		results[i] = &types.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: p.Truncate(r.Description),
		}
	}

	p.logger.Debug("brave search completed",
		zap.String("query", req.Query),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(startTime)),
	)

	return &types.SearchResponse{
		Query:   req.Query,
		Results: results,
	}, nil
}
