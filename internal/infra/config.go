package infra

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"signal_go/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	// ForwardedByHeader marks requests relayed to the downstream service
	ForwardedByHeader = "X-Forwarded-By"

	// ForwarderName is the value sent in ForwardedByHeader
	ForwarderName = "signal-go-webhook"
)

// Config holds every setting of the webhook service.
// LoadConfig reads the YAML file first and then applies environment overrides.
type Config struct {
	Server struct {
		Addr               string   `yaml:"addr"`
		ReadTimeoutSec     int      `yaml:"read_timeout_sec"`
		WriteTimeoutSec    int      `yaml:"write_timeout_sec"`
		ShutdownTimeoutSec int      `yaml:"shutdown_timeout_sec"`
		CORSOrigins        []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Webhook struct {
		Secret           string `yaml:"secret"`
		StoreRaw         bool   `yaml:"store_raw"`
		ForwardURL       string `yaml:"forward_url"`
		ForwardTimeoutMS int    `yaml:"forward_timeout_ms"`
		BodyWaitMS       int    `yaml:"body_wait_ms"`
		MaxBodyBytes     int64  `yaml:"max_body_bytes"`
	} `yaml:"webhook"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Stream struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"stream"`

	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration usable without any file
func DefaultConfig() *Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Server.ReadTimeoutSec = 10
	cfg.Server.WriteTimeoutSec = 30
	cfg.Server.ShutdownTimeoutSec = 15
	cfg.Webhook.ForwardTimeoutMS = 7000
	cfg.Webhook.BodyWaitMS = 25
	cfg.Webhook.MaxBodyBytes = 1 << 20
	cfg.Stream.Enabled = true
	cfg.Logging.Level = "info"
	cfg.Logging.File = "logs/app.log"
	return &cfg
}

// LoadConfig reads path on top of the defaults.
// A missing file is not an error: the service is usually configured through the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// env only
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return &domain.ConfigError{Field: "server.addr", Err: errors.New("listen address is required")}
	}

	if c.Webhook.ForwardURL != "" {
		u, err := url.Parse(c.Webhook.ForwardURL)
		if err != nil {
			return &domain.ConfigError{Field: "webhook.forward_url", Err: err}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return &domain.ConfigError{Field: "webhook.forward_url", Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
		}
	}

	if c.Webhook.ForwardTimeoutMS <= 0 {
		return &domain.ConfigError{Field: "webhook.forward_timeout_ms", Err: errors.New("must be positive")}
	}
	if c.Webhook.BodyWaitMS <= 0 {
		return &domain.ConfigError{Field: "webhook.body_wait_ms", Err: errors.New("must be positive")}
	}
	if c.Webhook.MaxBodyBytes <= 0 {
		return &domain.ConfigError{Field: "webhook.max_body_bytes", Err: errors.New("must be positive")}
	}

	return nil
}

// ForwardTimeout returns the forwarding timeout as a duration
func (c *Config) ForwardTimeout() time.Duration {
	return time.Duration(c.Webhook.ForwardTimeoutMS) * time.Millisecond
}

// BodyWait returns how long the handler waits for the first body bytes
func (c *Config) BodyWait() time.Duration {
	return time.Duration(c.Webhook.BodyWaitMS) * time.Millisecond
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
func overrideWithEnv(cfg *Config) {
	if secret := os.Getenv("WEBHOOK_SECRET"); secret != "" {
		cfg.Webhook.Secret = secret
	}
	if raw := os.Getenv("STORE_RAW"); raw != "" {
		cfg.Webhook.StoreRaw = isTruthy(raw)
	}
	if u := os.Getenv("FORWARD_URL"); u != "" {
		cfg.Webhook.ForwardURL = u
	}
	if u := os.Getenv("VESSEL_URL"); u != "" {
		cfg.Webhook.ForwardURL = u
	}
	if p := os.Getenv("SIGNAL_DB_PATH"); p != "" {
		cfg.Storage.Path = p
	}
	if addr := os.Getenv("SIGNAL_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.Logging.Level = lvl
	}
}

func isTruthy(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
