package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Search SearchConfig
	Video  VideoConfig
	Media  MediaConfig
	Locale string `mapstructure:"locale"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

// SearchConfig holds the search_internet plugin settings
type SearchConfig struct {
	Enabled       bool             `mapstructure:"enabled"`
	Engine        string           `mapstructure:"engine"`
	TavilyAPIKey  string           `mapstructure:"tavily_api_key"`
	BraveAPIKey   string           `mapstructure:"brave_api_key"`
	MaxResults    int              `mapstructure:"max_results"`
	ContentLength int              `mapstructure:"content_length"`
	Timeout       int              `mapstructure:"timeout"` // seconds
	RateLimit     int              `mapstructure:"rate_limit"`
	Local         LocalIndexConfig `mapstructure:"local"`
	Tavily        EndpointConfig   `mapstructure:"tavily"`
	Brave         EndpointConfig   `mapstructure:"brave"`
}

type LocalIndexConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type EndpointConfig struct {
	APIHost string `mapstructure:"api_host"`
}

type VideoConfig struct {
	Replicate ReplicateConfig `mapstructure:"replicate"`
	FalAI     FalAIConfig     `mapstructure:"falai"`
}

type ReplicateConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type FalAIConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	QueueURL     string        `mapstructure:"queue_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// MediaConfig selects where generated media is persisted
type MediaConfig struct {
	Driver        string        `mapstructure:"driver"` // local or minio
	Dir           string        `mapstructure:"dir"`
	Prefix        string        `mapstructure:"prefix"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
	MinIO         MinIOConfig   `mapstructure:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8686)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "console")

	v.SetDefault("search.enabled", false)
	v.SetDefault("search.engine", "local")
	v.SetDefault("search.timeout", 30)

	// registered so that env-only keys reach Unmarshal
	for _, key := range []string{
		"search.tavily_api_key",
		"search.brave_api_key",
		"search.local.base_url",
		"video.replicate.api_key",
		"video.falai.api_key",
		"media.minio.endpoint",
		"media.minio.access_key",
		"media.minio.secret_key",
		"media.minio.bucket",
	} {
		v.SetDefault(key, "")
	}

	v.SetDefault("video.replicate.poll_interval", 2*time.Second)
	v.SetDefault("video.replicate.timeout", 10*time.Minute)
	v.SetDefault("video.falai.poll_interval", 2*time.Second)
	v.SetDefault("video.falai.timeout", 10*time.Minute)

	v.SetDefault("media.driver", "local")
	v.SetDefault("media.dir", "./data/media")
	v.SetDefault("media.prefix", "videos")
	v.SetDefault("media.presign_expiry", 24*time.Hour)

	v.SetDefault("locale", "en")
}

// LoadConfig reads the YAML file at path. Values from a .env file next to the
// working directory and from the environment (SEARCH_BRAVE_API_KEY, ...) override it.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Addr returns the listen address of the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
