package provider

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lk2023060901/assistant-plugins/internal/websearch/localindex"
	"github.com/lk2023060901/assistant-plugins/internal/websearch/types"
)

// Constructor builds a provider from its configuration
type Constructor func(*types.ProviderConfig) (Provider, error)

// Factory creates provider instances
type Factory struct {
	mu           sync.RWMutex
	constructors map[types.Engine]Constructor
}

// NewFactory creates a factory with the built-in engines registered.
// index may be nil when the local engine is not used.
func NewFactory(index localindex.Index, logger *zap.Logger) *Factory {
	f := &Factory{
		constructors: make(map[types.Engine]Constructor),
	}

	f.Register(types.EngineLocal, func(cfg *types.ProviderConfig) (Provider, error) {
		return NewLocalProvider(cfg, index, logger)
	})
	f.Register(types.EngineTavily, func(cfg *types.ProviderConfig) (Provider, error) {
		return NewTavilyProvider(cfg, logger)
	})
	f.Register(types.EngineBrave, func(cfg *types.ProviderConfig) (Provider, error) {
		return NewBraveProvider(cfg, logger)
	})

	return f
}

// Register registers a provider constructor
func (f *Factory) Register(id types.Engine, constructor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[id] = constructor
}

// Create creates a provider instance from configuration
func (f *Factory) Create(config *types.ProviderConfig) (Provider, error) {
	f.mu.RLock()
	constructor, exists := f.constructors[config.ID]
	f.mu.RUnlock()

	if !exists {
		return nil, types.ErrInvalidEngine
	}

	p, err := constructor(config)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return p, nil
}

// ListProviders returns a list of all registered provider IDs
func (f *Factory) ListProviders() []types.Engine {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]types.Engine, 0, len(f.constructors))
	for id := range f.constructors {
		ids = append(ids, id)
	}
	return ids
}
