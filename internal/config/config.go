// Package config loads client configuration from a JSON config file and
// PWNDOC_* environment variables. Environment values override file values.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pwndoc-mcp/pwndoc-go/internal/types"
)

// Config holds all client settings. It is immutable after Load: the client
// facade owns the value for its lifetime and never writes back to it.
type Config struct {
	// URL is the PwnDoc server base URL (required)
	URL string `json:"url"`

	// Username and Password authenticate via the login endpoint
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// Token is a pre-issued JWT used verbatim instead of logging in
	Token string `json:"token,omitempty"`

	// VerifySSL controls TLS certificate verification
	VerifySSL bool `json:"verify_ssl"`

	// Timeout is the per-request timeout
	Timeout time.Duration `json:"-"`

	// MaxRetries is the number of request attempts
	MaxRetries int `json:"max_retries,omitempty"`

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration `json:"-"`

	// RateLimitRequests and RateLimitPeriod define the sliding-window quota
	RateLimitRequests int           `json:"rate_limit_requests,omitempty"`
	RateLimitPeriod   time.Duration `json:"-"`

	// LogLevel is one of DEBUG, INFO, WARNING, ERROR
	LogLevel string `json:"log_level,omitempty"`

	// LogFile is an optional log destination (stderr when empty)
	LogFile string `json:"log_file,omitempty"`
}

// fileConfig mirrors the JSON config file, where durations are plain seconds
// for compatibility with the other pwndoc-mcp implementations.
type fileConfig struct {
	URL               string   `json:"url"`
	Username          string   `json:"username"`
	Password          string   `json:"password"`
	Token             string   `json:"token"`
	VerifySSL         *bool    `json:"verify_ssl"`
	Timeout           *int     `json:"timeout"`
	MaxRetries        *int     `json:"max_retries"`
	RetryDelay        *float64 `json:"retry_delay"`
	RateLimitRequests *int     `json:"rate_limit_requests"`
	RateLimitPeriod   *int     `json:"rate_limit_period"`
	LogLevel          string   `json:"log_level"`
	LogFile           string   `json:"log_file"`
}

// Default returns a Config with all defaults applied
func Default() *Config {
	return &Config{
		VerifySSL:         true,
		Timeout:           types.DefaultTimeout,
		MaxRetries:        types.DefaultMaxRetries,
		RetryDelay:        types.DefaultRetryDelay,
		RateLimitRequests: types.DefaultRateLimitRequests,
		RateLimitPeriod:   types.DefaultRateLimitPeriod,
		LogLevel:          "INFO",
	}
}

// Path returns the config file location: PWNDOC_CONFIG_FILE if set,
// otherwise ~/.pwndoc-mcp/config.json.
func Path() string {
	if p := os.Getenv("PWNDOC_CONFIG_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".pwndoc-mcp", "config.json")
}

// Load builds the effective configuration: defaults, then the config file at
// path (or Path() when empty; a missing file is not an error), then
// environment variables on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var fc fileConfig
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}
		fc.apply(cfg)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	applyEnv(cfg)
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.URL != "" {
		cfg.URL = fc.URL
	}
	if fc.Username != "" {
		cfg.Username = fc.Username
	}
	if fc.Password != "" {
		cfg.Password = fc.Password
	}
	if fc.Token != "" {
		cfg.Token = fc.Token
	}
	if fc.VerifySSL != nil {
		cfg.VerifySSL = *fc.VerifySSL
	}
	if fc.Timeout != nil {
		cfg.Timeout = time.Duration(*fc.Timeout) * time.Second
	}
	if fc.MaxRetries != nil {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.RetryDelay != nil {
		cfg.RetryDelay = time.Duration(*fc.RetryDelay * float64(time.Second))
	}
	if fc.RateLimitRequests != nil {
		cfg.RateLimitRequests = *fc.RateLimitRequests
	}
	if fc.RateLimitPeriod != nil {
		cfg.RateLimitPeriod = time.Duration(*fc.RateLimitPeriod) * time.Second
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PWNDOC_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("PWNDOC_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("PWNDOC_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("PWNDOC_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("PWNDOC_VERIFY_SSL"); v != "" {
		cfg.VerifySSL = parseBool(v)
	}
	if v := os.Getenv("PWNDOC_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("PWNDOC_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("PWNDOC_RETRY_DELAY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RetryDelay = time.Duration(f * float64(time.Second))
		}
	}
	if v := os.Getenv("PWNDOC_RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitRequests = n
		}
	}
	if v := os.Getenv("PWNDOC_RATE_LIMIT_PERIOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitPeriod = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("PWNDOC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PWNDOC_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// Validate returns a list of human-readable problems with the configuration.
// An empty list means the configuration is usable.
func (c *Config) Validate() []string {
	var errs []string

	if c.URL == "" {
		errs = append(errs, "PWNDOC_URL is required")
	} else if u, err := url.Parse(c.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("invalid URL format: %s", c.URL))
	}

	if c.Token == "" && (c.Username == "" || c.Password == "") {
		errs = append(errs, "authentication required: provide either PWNDOC_TOKEN or PWNDOC_USERNAME/PWNDOC_PASSWORD")
	}

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("timeout must be positive: %s", c.Timeout))
	}

	return errs
}

// AuthMethod reports which credential combination is in effect
func (c *Config) AuthMethod() string {
	switch {
	case c.Username != "" && c.Password != "":
		return "credentials"
	case c.Token != "":
		return "token"
	default:
		return "none"
	}
}

// Redacted returns a copy with secrets masked, for display
func (c *Config) Redacted() Config {
	out := *c
	if out.Password != "" {
		out.Password = "********"
	}
	if out.Token != "" {
		out.Token = "********"
	}
	return out
}
