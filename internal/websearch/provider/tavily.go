package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/websearch/extract"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/types"
)

// DefaultTavilyHost is the public Tavily API host
const DefaultTavilyHost = "https://api.tavily.com"

// TavilyProvider implements the Tavily search API. Tavily only returns short
// snippets, so every result page is fetched and converted to text.
type TavilyProvider struct {
	*BaseProvider
}

// NewTavilyProvider creates a new Tavily provider
func NewTavilyProvider(config *types.ProviderConfig, logger *zap.Logger) (Provider, error) {
	if config.APIHost == "" {
		config.APIHost = DefaultTavilyHost
	}
	base := NewBaseProvider(config, logger)
	return &TavilyProvider{BaseProvider: base}, nil
}

// tavilyRequest represents a Tavily API request
type tavilyRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// tavilyResponse represents a Tavily API response
type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
	Query string `json:"query"`
}

// Search executes a search query using the Tavily API. A failed page fetch
// fails the whole search; no partial result list is returned.
func (p *TavilyProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	startTime := time.Now()

	tavilyReq := tavilyRequest{
		Query:      req.Query,
		MaxResults: req.MaxResults,
	}
	if tavilyReq.MaxResults == 0 {
		tavilyReq.MaxResults = p.config.MaxResults
	}

	reqBody, err := json.Marshal(tavilyReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := strings.TrimRight(p.config.APIHost, "/") + "/search"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.GetAPIKey())

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

	var tavilyResp tavilyResponse
	if err := json.Unmarshal(body, &tavilyResp); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidResponse, err)
	}

	// Pages are fetched one after another
	results := make([]*types.SearchResult, len(tavilyResp.Results))
	for i, r := range tavilyResp.Results {
		page, err := p.FetchPage(ctx, r.URL)
		if err != nil {
			p.logger.Warn("result page fetch failed", zap.String("url", r.URL), zap.Error(err))
			return nil, err
		}
		results[i] = &types.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: p.Truncate(extract.ToText(page)),
		}
	}

	p.logger.Debug("tavily search completed",
		zap.String("query", req.Query),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(startTime)),
	)

	return &types.SearchResponse{
		Query:   req.Query,
		Results: results,
	}, nil
}
