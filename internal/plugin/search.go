package plugin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/conf"
	"github.com/lk2023060901/assistant-plugins/internal/i18n"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/provider"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/types"
)

const (
	SearchPluginName        = "search_internet"
	searchPluginDescription = "This tool allows you to search the web for information on a given topic. " +
		"Try to include links to the sources you use in your response."
)

// SearchPlugin runs internet searches against the configured engine
type SearchPlugin struct {
	config     conf.SearchConfig
	factory    *provider.Factory
	translator i18n.Translator
	logger     *zap.Logger

	mu        sync.Mutex
	providers map[types.Engine]provider.Provider
}

// NewSearchPlugin creates the search_internet plugin
func NewSearchPlugin(config conf.SearchConfig, factory *provider.Factory, translator i18n.Translator, logger *zap.Logger) *SearchPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchPlugin{
		config:     config,
		factory:    factory,
		translator: translator,
		logger:     logger.With(zap.String("plugin", SearchPluginName)),
		providers:  make(map[types.Engine]provider.Provider),
	}
}

func (p *SearchPlugin) Name() string        { return SearchPluginName }
func (p *SearchPlugin) Description() string { return searchPluginDescription }

func (p *SearchPlugin) Parameters() []Parameter {
	return []Parameter{
		{
			Name:        "query",
			Type:        "string",
			Description: "The query to search for",
			Required:    true,
		},
	}
}

// IsEnabled reports whether the plugin is switched on and its engine has credentials
func (p *SearchPlugin) IsEnabled() bool {
	if !p.config.Enabled {
		return false
	}

	engine, err := types.ParseEngine(p.config.Engine)
	if err != nil {
		return false
	}
	if !engine.RequiresAPIKey() {
		return true
	}
	return strings.TrimSpace(p.apiKey(engine)) != ""
}

func (p *SearchPlugin) PreparationDescription() string {
	return p.RunningDescription()
}

func (p *SearchPlugin) RunningDescription() string {
	return p.translator.T("plugins.search.running", nil)
}

func (p *SearchPlugin) CompletedDescription(args map[string]any, result any) string {
	resp, ok := result.(*types.SearchResponse)
	if !ok || resp == nil || resp.Failed() {
		return p.translator.T("plugins.search.error", nil)
	}
	return p.translator.T("plugins.search.completed", map[string]any{
		"query": StringArg(args, "query"),
		"count": len(resp.Results),
	})
}

// Execute runs the query argument through Search
func (p *SearchPlugin) Execute(ctx context.Context, params map[string]any) any {
	return p.Search(ctx, StringArg(params, "query"))
}

// Search dispatches query to the configured engine. Failures are returned as
// a response carrying only an error message.
func (p *SearchPlugin) Search(ctx context.Context, query string) (resp *types.SearchResponse) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("search panicked", zap.Any("panic", r))
			resp = types.ErrorResponse(fmt.Errorf("search failed: %v", r))
		}
	}()

	engine, err := types.ParseEngine(p.config.Engine)
	if err != nil {
		return types.ErrorResponse(err)
	}
	if strings.TrimSpace(query) == "" {
		return types.ErrorResponse(types.ErrEmptyQuery)
	}

	prov, err := p.provider(engine)
	if err != nil {
		p.logger.Error("failed to create search provider", zap.String("engine", string(engine)), zap.Error(err))
		return types.ErrorResponse(err)
	}

	p.logger.Debug("search started", zap.String("engine", string(engine)), zap.String("query", query))
	resp, err = prov.Search(ctx, &types.SearchRequest{Query: query})
	if err != nil {
		p.logger.Error("search failed", zap.String("engine", string(engine)), zap.Error(err))
		return types.ErrorResponse(err)
	}

	p.logger.Info("search finished",
		zap.String("engine", string(engine)),
		zap.Int("results", len(resp.Results)),
	)
	return resp
}

// provider returns the cached provider for engine, creating it on first use
func (p *SearchPlugin) provider(engine types.Engine) (provider.Provider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prov, ok := p.providers[engine]; ok {
		return prov, nil
	}

	prov, err := p.factory.Create(p.providerConfig(engine))
	if err != nil {
		return nil, err
	}
	p.providers[engine] = prov
	return prov, nil
}

func (p *SearchPlugin) providerConfig(engine types.Engine) *types.ProviderConfig {
	cfg := &types.ProviderConfig{
		ID:            engine,
		Name:          string(engine),
		APIKey:        p.apiKey(engine),
		MaxResults:    p.config.MaxResults,
		ContentLength: p.config.ContentLength,
		Timeout:       p.config.Timeout,
		RateLimit:     p.config.RateLimit,
	}

	switch engine {
	case types.EngineLocal:
		cfg.Name = "Local"
	case types.EngineTavily:
		cfg.Name = "Tavily"
		cfg.APIHost = p.config.Tavily.APIHost
	case types.EngineBrave:
		cfg.Name = "Brave"
		cfg.APIHost = p.config.Brave.APIHost
	}
	return cfg
}

func (p *SearchPlugin) apiKey(engine types.Engine) string {
	switch engine {
	case types.EngineTavily:
		return p.config.TavilyAPIKey
	case types.EngineBrave:
		return p.config.BraveAPIKey
	default:
		return ""
	}
}
