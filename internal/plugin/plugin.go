// Package plugin exposes tools to the host application: metadata, enablement and execution.
package plugin

import (
	"context"
	"sort"
	"sync"
)

// Parameter describes one argument of a plugin
type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
}

// Plugin is a host-invocable capability
type Plugin interface {
	Name() string
	Description() string
	Parameters() []Parameter

	// IsEnabled is advisory: hosts should hide disabled plugins, Execute does not check it
	IsEnabled() bool

	PreparationDescription() string
	RunningDescription() string
	CompletedDescription(args map[string]any, result any) string

	// Execute never fails: errors are reported inside the returned value
	Execute(ctx context.Context, params map[string]any) any
}

// Descriptor is the metadata a host needs to list a plugin
type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Enabled     bool        `json:"enabled"`
}

// Describe builds the descriptor of p
func Describe(p Plugin) Descriptor {
	return Descriptor{
		Name:        p.Name(),
		Description: p.Description(),
		Parameters:  p.Parameters(),
		Enabled:     p.IsEnabled(),
	}
}

// Registry holds plugins by name
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates a registry holding plugins
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{plugins: make(map[string]Plugin, len(plugins))}
	for _, p := range plugins {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any plugin with the same name
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[p.Name()] = p
}

// Get returns the plugin registered under name
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// List returns all plugins sorted by name
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// StringArg reads a string argument, returning "" when absent or not a string
func StringArg(params map[string]any, name string) string {
	if v, ok := params[name].(string); ok {
		return v
	}
	return ""
}
