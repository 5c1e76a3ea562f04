package replicate

import (
	"strings"
	"time"

	"github.com/lk2023060901/assistant-plugins/internal/video/types"
)

const DefaultBaseURL = "https://api.replicate.com"

// Config Replicate client settings
type Config struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// PollInterval between prediction status checks
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`

	// Timeout bounds a whole Run, polling included
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// RequestTimeout bounds a single HTTP exchange
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// Validate checks the config and fills defaults
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return types.ErrMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Minute
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 2 * time.Minute
	}
	return nil
}
