package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"

	apiBaseURLEnvVar = "BLOGFRONT_API_BASE_URL"
)

type Config struct {
	Environment   string `toml:"-"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	PublicBaseURL string `toml:"public_base_url"`

	// remote blog api
	ApiBaseURL        string `toml:"api_base_url"`
	ApiTimeoutSeconds int    `toml:"api_timeout_seconds"`

	// sessions
	SessionStore          string `toml:"session_store"`
	SessionTTLHours       int    `toml:"session_ttl_hours"`
	SessionCacheSizeMB    int    `toml:"session_cache_size_mb"`
	RedisHost             string `toml:"redis_host"`
	RedisPort             string `toml:"redis_port"`
	CommentsAllowedPerMin int    `toml:"comments_allowed_per_min"`
	// honor X-Real-Ip / X-Forwarded-For, only behind a reverse proxy
	TrustProxyHeaders bool `toml:"trust_proxy_headers"`

	AllowedOrigins []string `toml:"allowed_origins"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		env = "development"
	case "prod", "production":
		cfg = t.Production
		env = "production"
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	cfg.Environment = env
	return cfg, nil
}

// Load reads the TOML config file and returns the section for the given env,
// with defaults applied and env var overrides on top
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	if apiBaseURL := os.Getenv(apiBaseURLEnvVar); apiBaseURL != "" {
		cfg.ApiBaseURL = apiBaseURL
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.ApiBaseURL == "" {
		c.ApiBaseURL = "http://localhost:5045"
	}
	c.ApiBaseURL = strings.TrimSuffix(c.ApiBaseURL, "/")
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = fmt.Sprintf("http://%s:%d", c.Host, c.Port)
	}
	c.PublicBaseURL = strings.TrimSuffix(c.PublicBaseURL, "/")
	if c.ApiTimeoutSeconds <= 0 {
		c.ApiTimeoutSeconds = 10
	}
	if c.SessionStore == "" {
		c.SessionStore = SessionStoreMemory
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.SessionCacheSizeMB <= 0 {
		c.SessionCacheSizeMB = 16
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.CommentsAllowedPerMin <= 0 {
		c.CommentsAllowedPerMin = 10
	}
}

func (c *Config) Validate() error {
	switch c.SessionStore {
	case SessionStoreRedis:
		if c.RedisHost == "" {
			return errors.New("redis session store needs redis_host")
		}
	case SessionStoreMemory:
	default:
		return fmt.Errorf("unknown session store: %s", c.SessionStore)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// CorsOrigins returns the configured allowed origins plus the origin of PublicBaseURL,
// which browsers send on every form post of the site itself.
func (c *Config) CorsOrigins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	seen := make(map[string]bool, len(c.AllowedOrigins)+1)
	add := func(origin string) {
		origin = strings.TrimSuffix(origin, "/")
		if origin == "" || seen[origin] {
			return
		}
		seen[origin] = true
		origins = append(origins, origin)
	}

	if u, err := url.Parse(c.PublicBaseURL); err == nil && u.Scheme != "" && u.Host != "" {
		add(u.Scheme + "://" + u.Host)
	}
	for _, o := range c.AllowedOrigins {
		add(o)
	}
	return origins
}

func (c *Config) ApiTimeout() time.Duration {
	return time.Duration(c.ApiTimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}
