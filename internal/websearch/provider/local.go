package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/websearch/extract"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/localindex"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/types"
)

// LocalProvider searches the host application's local index
type LocalProvider struct {
	*BaseProvider
	index localindex.Index
}

// NewLocalProvider creates a new local index provider
func NewLocalProvider(config *types.ProviderConfig, index localindex.Index, logger *zap.Logger) (Provider, error) {
	if index == nil {
		return nil, types.ErrMissingLocalIndex
	}
	return &LocalProvider{
		BaseProvider: NewBaseProvider(config, logger),
		index:        index,
	}, nil
}

// Search queries the local index and converts each hit's HTML to text
func (p *LocalProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	startTime := time.Now()

	limit := req.MaxResults
	if limit <= 0 {
		limit = p.config.ResultLimit()
	}

	docs, err := p.index.Query(ctx, req.Query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]*types.SearchResult, len(docs))
	for i, doc := range docs {
		results[i] = &types.SearchResult{
			Title:   doc.Title,
			URL:     doc.URL,
			Content: p.Truncate(extract.ToText(doc.Content)),
		}
	}

	p.logger.Debug("local search completed",
		zap.String("query", req.Query),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(startTime)),
	)

	return &types.SearchResponse{
		Query:   req.Query,
		Results: results,
	}, nil
}
