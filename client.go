package fetchx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Client is an HTTP client that merges per-call options over instance defaults, runs
// request and response interceptors, and reconciles its own timeout with caller
// cancellation. It is safe for concurrent use.
type Client struct {
	httpClient      *http.Client
	transport       RoundTripper
	config          Config
	interceptors    *Interceptors
	jar             http.CookieJar
	metrics         *MetricsCollector
	debug           *DebugConfig
	logger          Logger
	validationError error
}

// New constructs a Client using the provided functional options. A best effort
// validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	client := &Client{
		httpClient:   &http.Client{},
		config:       DefaultConfig(),
		interceptors: newInterceptors(),
		jar:          jar,
		debug:        DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if client.transport == nil && client.httpClient != nil {
		client.transport = RoundTripperFunc(client.httpClient.Do)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Interceptors returns the request and response interceptor managers.
func (c *Client) Interceptors() *Interceptors {
	return c.interceptors
}

// Defaults returns a copy of the instance default configuration.
func (c *Client) Defaults() Config {
	return c.config.Clone()
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, MethodGet, url, nil, opts...)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, MethodDelete, url, nil, opts...)
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, MethodHead, url, nil, opts...)
}

// Post performs a POST request with body.
func (c *Client) Post(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, MethodPost, url, body, opts...)
}

// Put performs a PUT request with body.
func (c *Client) Put(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, MethodPut, url, body, opts...)
}

// Patch performs a PATCH request with body.
func (c *Client) Patch(ctx context.Context, url string, body any, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, MethodPatch, url, body, opts...)
}

// Request merges opts over the client defaults and executes the request. A URL set
// through WithURL takes precedence over url.
func (c *Client) Request(ctx context.Context, method, url string, body any, opts ...RequestOption) (*Response, error) {
	var override Config
	for _, opt := range opts {
		if opt != nil {
			opt(&override)
		}
	}

	cfg := Merge(c.config, override)
	if override.URL == "" && url != "" {
		cfg.URL = url
	}

	return c.execute(ctx, &RequestConfig{Config: cfg, Method: method, Body: body})
}

// Do executes a prepared request description merged over the client defaults. The
// merge copies rc, so interceptors never observe or mutate the caller's value.
func (c *Client) Do(ctx context.Context, rc *RequestConfig) (*Response, error) {
	if rc == nil {
		return nil, errors.New("fetchx: nil request config")
	}
	return c.execute(ctx, &RequestConfig{Config: Merge(c.config, rc.Config), Method: rc.Method, Body: rc.Body})
}

func (c *Client) execute(ctx context.Context, rc *RequestConfig) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if rc.Method == "" {
		rc.Method = MethodGet
	}
	if c.transport == nil {
		if c.validationError != nil {
			return nil, c.validationError
		}
		return nil, fmt.Errorf("%w: transport cannot be nil", ErrInvalidConfig)
	}

	start := time.Now()
	endpoint := endpointOf(BuildURL(rc.BaseURL, rc.URL, nil))

	var requestID string
	if c.debugEnabled() && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
		ctx = context.WithValue(ctx, requestIDKey, requestID)
	}

	if c.debugEnabled() && c.debug.LogRequests {
		c.logger.Debug("Starting request", "requestID", requestID, "method", rc.Method, "url", rc.URL, "endpoint", endpoint)
	}

	c.metrics.RecordRequestStart(rc.Method, endpoint)
	resp, err := c.send(ctx, rc)
	c.metrics.RecordRequestEnd(rc.Method, endpoint)

	duration := time.Since(start)

	if err != nil {
		var ce *ClientError
		code := "unknown"
		statusCode := 0
		if errors.As(err, &ce) {
			code = ce.Code
			statusCode = ce.StatusCode
			// Annotate a copy: ce may be a sentinel or an error shared with other calls.
			if err == error(ce) {
				annotated := *ce
				annotated.RequestID = requestID
				annotated.Duration = duration
				err = &annotated
			}
		}
		c.metrics.RecordError(code, rc.Method, endpoint)
		c.metrics.RecordRequest(rc.Method, endpoint, statusCode, duration)

		if c.debugEnabled() && c.debug.LogErrors {
			c.logger.Warn("Request failed", "requestID", requestID, "method", rc.Method, "endpoint", endpoint, "code", code, "error", err, "duration", duration)
		}
		return nil, err
	}

	c.metrics.RecordRequest(rc.Method, endpoint, resp.Status, duration)
	if c.debugEnabled() && c.debug.LogRequests {
		c.logger.Debug("Request completed", "requestID", requestID, "status", resp.Status, "duration", duration)
	}

	return resp, nil
}

// send runs the pipeline for one request: request interceptors, URL and body
// construction, signal composition, the transport call, response interceptors, the
// status check and body parsing. Every failure leaves through classify exactly once.
func (c *Client) send(ctx context.Context, rc *RequestConfig) (*Response, error) {
	processed, err := c.interceptors.Request.Run(ctx, rc)
	c.metrics.RecordInterceptorRun("request", err)
	if c.debugEnabled() && c.debug.LogInterceptors {
		c.logger.Debug("Request interceptors finished", "count", c.interceptors.Request.Len(), "error", err)
	}
	if err != nil {
		return nil, classify(err, ctx, rc)
	}
	if processed == nil {
		return nil, errors.New("fetchx: request interceptor returned a nil config")
	}

	fullURL := BuildURL(processed.BaseURL, processed.URL, processed.Params)
	payload, contentType, err := SerializeBody(processed.Body)
	if err != nil {
		return nil, classify(err, ctx, processed)
	}

	header := make(http.Header, len(processed.Headers))
	for name, value := range processed.Headers {
		header.Set(name, value)
	}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	if header.Get("User-Agent") == "" {
		header.Set("User-Agent", UserAgent())
	}

	signal, cleanup := composeSignal(ctx, processed.EffectiveTimeout())
	defer cleanup()

	if signal.Err() != nil {
		return nil, newClientError(CodeCanceled, "Request canceled", context.Cause(signal), processed)
	}

	req, err := http.NewRequestWithContext(signal, processed.Method, fullURL, payload)
	if err != nil {
		return nil, classify(err, signal, processed)
	}
	req.Header = header
	c.attachCookies(req, processed)

	raw, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, classify(err, signal, processed)
	}
	c.storeCookies(req, raw, processed)

	result, err := c.interceptors.Response.Run(signal, raw)
	c.metrics.RecordInterceptorRun("response", err)
	if err != nil {
		discardBody(raw)
		return nil, classify(err, signal, processed)
	}
	if result == nil {
		discardBody(raw)
		return nil, errors.New("fetchx: response interceptor returned a nil response")
	}
	if result != raw {
		discardBody(raw)
	}

	if !isSuccessStatus(result.StatusCode) {
		discardBody(result)
		return nil, classifyStatus(newResponse(result, processed), processed)
	}

	resp, err := parseResponse(result, processed)
	if err != nil {
		return nil, classify(err, signal, processed)
	}
	return resp, nil
}

func (c *Client) debugEnabled() bool {
	return c.debug != nil && c.debug.Enabled && c.logger != nil
}

// discardBody drains a bounded amount so the connection can be reused, then closes.
func discardBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// endpointOf reduces a URL to host + path for metric labels.
func endpointOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}

	var builder strings.Builder
	builder.WriteString(u.Host)
	if u.Path != "" && u.Path != "/" {
		if u.Host != "" && !strings.HasPrefix(u.Path, "/") {
			builder.WriteByte('/')
		}
		builder.WriteString(u.Path)
	} else {
		builder.WriteByte('/')
	}
	return builder.String()
}
