package fetchx

import (
	"context"
	"net/http"
)

// Method is an HTTP request method.
type Method = string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodPatch  Method = http.MethodPatch
	MethodHead   Method = http.MethodHead
)

// Credentials describes the cookie policy applied to a request.
type Credentials string

const (
	CredentialsOmit       Credentials = "omit"
	CredentialsSameOrigin Credentials = "same-origin"
	CredentialsInclude    Credentials = "include"
)

// Valid reports whether c is one of the known policies.
func (c Credentials) Valid() bool {
	switch c {
	case CredentialsOmit, CredentialsSameOrigin, CredentialsInclude:
		return true
	}
	return false
}

// RoundTripper represents the HTTP transport interface
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc adapts a function to RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// RequestInterceptor and RequestErrorInterceptor are the handler pair of the request stage.
type (
	RequestInterceptor      = FulfilledFunc[*RequestConfig]
	RequestErrorInterceptor = RejectedFunc[*RequestConfig]
)

// ResponseInterceptor and ResponseErrorInterceptor are the handler pair of the response stage.
type (
	ResponseInterceptor      = FulfilledFunc[*http.Response]
	ResponseErrorInterceptor = RejectedFunc[*http.Response]
)

// Option configures a Client at construction.
type Option func(*Client)

// RequestOption configures the per-call override of a single request.
type RequestOption func(*Config)

type contextKey string

const requestIDKey contextKey = "fetchx_request_id"

// RequestIDFromContext returns the request ID attached by the client, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
