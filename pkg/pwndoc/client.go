// Package pwndoc is a Go client for the PwnDoc pentest reporting API. It
// handles the JWT session lifecycle, cooperative rate limiting, and retries
// with exponential backoff, and exposes one service per API resource.
package pwndoc

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"github.com/pwndoc-mcp/pwndoc-go/internal/auth"
	"github.com/pwndoc-mcp/pwndoc-go/internal/ratelimit"
	"github.com/pwndoc-mcp/pwndoc-go/internal/transport"
	internalTypes "github.com/pwndoc-mcp/pwndoc-go/internal/types"
)

// Version is the client version string
const Version = "1.0.0"

// Client is the main PwnDoc API client
type Client struct {
	// Service interfaces
	Audits          AuditService
	Findings        FindingService
	Clients         ClientContactService
	Companies       CompanyService
	Vulnerabilities VulnerabilityService
	Users           UserService
	Templates       TemplateService
	Settings        SettingsService
	Data            DataService
	Images          ImageService

	// Internal fields
	config     *Config
	httpClient *http.Client
	auth       *auth.Service
	transport  Transport
	options    *ClientOptions
}

// ClientOptions configures the client beyond what Config carries
type ClientOptions struct {
	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Logger for debug logging
	Logger Logger

	// Hooks for observability
	Hooks *Hooks

	// Transport replaces the request executor, used in tests
	Transport Transport

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// NewClient creates a new PwnDoc client from a validated configuration
func NewClient(cfg *Config, opts *ClientOptions) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if opts == nil {
		opts = &ClientOptions{}
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, errors.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}
		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}
		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}
		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}
		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create cookie jar")
		}
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		}
		if !cfg.VerifySSL {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = internalTypes.NopLogger{}
	}

	authService := auth.NewService(auth.Options{
		BaseURL:    cfg.URL,
		HTTPClient: httpClient,
		Username:   cfg.Username,
		Password:   cfg.Password,
		Token:      cfg.Token,
		Logger:     logger,
	})

	trans := opts.Transport
	if trans == nil {
		trans = transport.NewExecutor(transport.Options{
			BaseURL:    cfg.URL,
			HTTPClient: httpClient,
			Auth:       authService,
			Limiter:    ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitPeriod),
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			Logger:     logger,
			Hooks:      opts.Hooks,
		})
	}

	c := &Client{
		config:     cfg,
		httpClient: httpClient,
		auth:       authService,
		transport:  trans,
		options:    opts,
	}
	c.initServices()

	return c, nil
}

// NewClientFromEnv creates a client from the config file and environment
func NewClientFromEnv(opts *ClientOptions) (*Client, error) {
	cfg, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	return NewClient(cfg, opts)
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Audits = &auditService{client: c}
	c.Findings = &findingService{client: c}
	c.Clients = &clientContactService{client: c}
	c.Companies = &companyService{client: c}
	c.Vulnerabilities = &vulnerabilityService{client: c}
	c.Users = &userService{client: c}
	c.Templates = &templateService{client: c}
	c.Settings = &settingsService{client: c}
	c.Data = &dataService{client: c}
	c.Images = &imageService{client: c}
}

// Get issues a GET request against an /api path
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.transport.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request against an /api path
func (c *Client) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.transport.Do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request against an /api path
func (c *Client) Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.transport.Do(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE request against an /api path
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.transport.Do(ctx, http.MethodDelete, path, nil)
}

// Session returns the current authentication session state
func (c *Client) Session() *Session {
	return c.auth.Session()
}

// Config returns the configuration the client was built with
func (c *Client) Config() *Config {
	return c.config
}

// TestConnection verifies connectivity and authentication against the
// configured server. It never returns an error: failures are reported in the
// Status and Error fields.
func (c *Client) TestConnection(ctx context.Context) *ConnectionStatus {
	status := &ConnectionStatus{
		Status: "ok",
		URL:    c.config.URL,
	}

	user, err := c.Users.Current(ctx)
	if err != nil {
		status.Status = "error"
		status.Error = err.Error()
		return status
	}

	status.User = user.Username
	return status
}

// Statistics aggregates entity counts across the instance. Listing audits
// must succeed; the remaining collections count as zero when the caller
// cannot access them (non-admin users listing users, for instance).
func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	audits, err := c.Audits.List(ctx, "")
	if err != nil {
		return nil, err
	}
	stats.Audits = len(audits)

	if clients, err := c.Clients.List(ctx); err == nil {
		stats.Clients = len(clients)
	}
	if companies, err := c.Companies.List(ctx); err == nil {
		stats.Companies = len(companies)
	}
	if vulns, err := c.Vulnerabilities.List(ctx); err == nil {
		stats.VulnerabilityTemplates = len(vulns)
	}
	if users, err := c.Users.List(ctx); err == nil {
		stats.Users = len(users)
	}

	return stats, nil
}

// Close releases idle connections and flushes any pending Sentry events
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
	sentry.Flush(2 * time.Second)
}
