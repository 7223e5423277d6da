package fetchx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// WithConfig merges cfg over the current defaults.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		c.config = Merge(c.config, cfg)
	}
}

// WithBaseURL sets the URL prefix joined with every request path.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.config.BaseURL = baseURL
	}
}

// WithHeader sets a default header.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.config = Merge(c.config, Config{Headers: map[string]string{name: value}})
	}
}

// WithHeaders merges headers into the default headers.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.config = Merge(c.config, Config{Headers: headers})
	}
}

// WithTimeout sets the default request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.config.Timeout = d
	}
}

// WithCredentials sets the default cookie policy.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.config.Credentials = creds
	}
}

// WithExtra sets a default transport option in the extension map.
func WithExtra(key string, value any) Option {
	return func(c *Client) {
		c.config = Merge(c.config, Config{Extra: map[string]any{key: value}})
	}
}

// WithTransport replaces the transport used to send requests.
func WithTransport(rt RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithHTTPClient sends requests through client. Its Timeout should be zero so the
// client-managed timeout stays authoritative. A Jar set on client is taken over as the
// cookie jar so the credentials policy governs it; client itself is not modified.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.transport = nil
		if client != nil && client.Jar != nil {
			c.jar = client.Jar
			detached := *client
			detached.Jar = nil
			client = &detached
		}
		c.httpClient = client
	}
}

// WithCookieJar replaces the jar used by the credentials policy. A nil jar disables
// cookie handling.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithRateLimit admits at most r requests per second with the given burst, waiting
// inside the request interceptor stage.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		limiter := rate.NewLimiter(r, burst)
		c.interceptors.Request.Use(func(ctx context.Context, rc *RequestConfig) (*RequestConfig, error) {
			return rateLimitInterceptor(limiter, c.metrics)(ctx, rc)
		}, nil)
	}
}

// WithMetrics enables Prometheus metrics collection
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with default configuration
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a console logger on stderr
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// WithURL overrides the request URL.
func WithURL(u string) RequestOption {
	return func(cfg *Config) {
		cfg.URL = u
	}
}

// WithRequestBaseURL overrides the base URL for one request.
func WithRequestBaseURL(baseURL string) RequestOption {
	return func(cfg *Config) {
		cfg.BaseURL = baseURL
	}
}

// WithParams merges query parameters into the request, keeping their order.
func WithParams(params Params) RequestOption {
	return func(cfg *Config) {
		cfg.Params = cfg.Params.merge(params)
	}
}

// WithParam sets a single query parameter.
func WithParam(key string, value any) RequestOption {
	return func(cfg *Config) {
		cfg.Params = cfg.Params.Set(key, value)
	}
}

// WithRequestHeader sets a header for one request.
func WithRequestHeader(name, value string) RequestOption {
	return func(cfg *Config) {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		cfg.Headers[name] = value
	}
}

// WithRequestHeaders sets headers for one request.
func WithRequestHeaders(headers map[string]string) RequestOption {
	return func(cfg *Config) {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			cfg.Headers[k] = v
		}
	}
}

// WithRequestTimeout overrides the timeout for one request; NoTimeout disables it.
func WithRequestTimeout(d time.Duration) RequestOption {
	return func(cfg *Config) {
		cfg.Timeout = d
	}
}

// WithRequestCredentials overrides the cookie policy for one request.
func WithRequestCredentials(creds Credentials) RequestOption {
	return func(cfg *Config) {
		cfg.Credentials = creds
	}
}

// WithRequestExtra sets a transport option for one request.
func WithRequestExtra(key string, value any) RequestOption {
	return func(cfg *Config) {
		if cfg.Extra == nil {
			cfg.Extra = make(map[string]any)
		}
		cfg.Extra[key] = value
	}
}

// ValidateConfiguration validates the client configuration and returns an error if invalid
func (c *Client) ValidateConfiguration() error {
	var errors []string

	errors = append(errors, c.validateDefaults()...)
	errors = append(errors, c.validateTransportConfig()...)
	errors = append(errors, c.validateDebugConfig()...)

	if len(errors) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errors, "; "))
	}

	return nil
}

func (c *Client) validateDefaults() []string {
	var errors []string

	if c.config.Timeout < 0 && c.config.Timeout != NoTimeout {
		errors = append(errors, "timeout must be non-negative or NoTimeout")
	}

	if c.config.Credentials != "" && !c.config.Credentials.Valid() {
		errors = append(errors, fmt.Sprintf("unknown credentials policy %q", c.config.Credentials))
	}

	if c.config.BaseURL != "" {
		u, err := url.Parse(c.config.BaseURL)
		if err != nil {
			errors = append(errors, fmt.Sprintf("baseURL is not a valid URL: %v", err))
		} else if u.Scheme == "" || u.Host == "" {
			errors = append(errors, "baseURL must be absolute")
		}
	}

	return errors
}

func (c *Client) validateTransportConfig() []string {
	var errors []string

	if c.transport == nil {
		errors = append(errors, "transport cannot be nil")
	}

	if c.httpClient != nil && c.httpClient.Timeout > 0 && c.config.Timeout > 0 && c.httpClient.Timeout < c.config.Timeout {
		errors = append(errors, "http client timeout is shorter than the request timeout and would pre-empt it")
	}

	return errors
}

func (c *Client) validateDebugConfig() []string {
	var errors []string

	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			errors = append(errors, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			errors = append(errors, "logger must be set when debug is enabled")
		}
	}

	return errors
}
