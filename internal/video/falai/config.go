package falai

import (
	"strings"
	"time"

	"github.com/lk2023060901/assistant-plugins/internal/video/types"
)

const DefaultQueueURL = "https://queue.fal.run"

// Config fal.ai client settings
type Config struct {
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	QueueURL string `mapstructure:"queue_url" yaml:"queue_url"`

	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// Validate checks the config and fills defaults
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return types.ErrMissingAPIKey
	}
	if c.QueueURL == "" {
		c.QueueURL = DefaultQueueURL
	}
	c.QueueURL = strings.TrimRight(c.QueueURL, "/")
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
