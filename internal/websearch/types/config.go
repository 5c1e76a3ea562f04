package types

import "strings"

// Engine identifies a search backend
type Engine string

const (
	EngineLocal  Engine = "local"
	EngineTavily Engine = "tavily"
	EngineBrave  Engine = "brave"
)

// Engines lists every supported engine in dispatch order
var Engines = []Engine{EngineLocal, EngineTavily, EngineBrave}

// ParseEngine normalizes a configured engine name
func ParseEngine(s string) (Engine, error) {
	e := Engine(strings.ToLower(strings.TrimSpace(s)))
	if !e.Valid() {
		return "", ErrInvalidEngine
	}
	return e, nil
}

// Valid reports whether e is one of the supported engines
func (e Engine) Valid() bool {
	switch e {
	case EngineLocal, EngineTavily, EngineBrave:
		return true
	}
	return false
}

// RequiresAPIKey reports whether the engine authenticates with an API key
func (e Engine) RequiresAPIKey() bool {
	return e == EngineTavily || e == EngineBrave
}

// ProviderConfig represents search provider configuration
type ProviderConfig struct {
	ID   Engine `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// API settings
	APIHost string `json:"api_host" yaml:"api_host"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Result shaping
	MaxResults    int `json:"max_results,omitempty" yaml:"max_results,omitempty"`       // default: 5
	ContentLength int `json:"content_length,omitempty" yaml:"content_length,omitempty"` // 0 keeps content whole

	// Optional settings
	Timeout    int `json:"timeout,omitempty" yaml:"timeout,omitempty"`         // seconds
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"` // default: 1 (no retry)
	RateLimit  int `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`   // requests per second
}

// ResultLimit returns the configured result count, falling back to 5
func (c *ProviderConfig) ResultLimit() int {
	if c.MaxResults > 0 {
		return c.MaxResults
	}
	return DefaultMaxResults
}

// DefaultMaxResults is used when max_results is not configured
const DefaultMaxResults = 5

// Validate validates the provider configuration
func (c *ProviderConfig) Validate() error {
	if !c.ID.Valid() {
		return ErrInvalidEngine
	}
	if c.Name == "" {
		return ErrInvalidProviderName
	}

	// The local index is reached through its own collaborator
	if c.ID == EngineLocal {
		return nil
	}

	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}

	return nil
}
