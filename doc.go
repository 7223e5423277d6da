// Package fetchx provides a lightweight HTTP client built around a request pipeline:
//
//   - Instance defaults deep-merged with per-call options
//   - URL building with ordered query parameters
//   - Body serialization (JSON, text, bytes, readers, multipart and url-encoded forms)
//   - Request and response interceptor chains with add / eject
//   - A client-managed timeout reconciled with caller cancellation
//   - A small, stable error taxonomy (ECONNABORTED, ERR_CANCELED, ERR_NETWORK, ERR_BAD_RESPONSE)
//   - Prometheus metrics and structured debug logging
//
// Typical usage:
//
//	client := fetchx.New(
//	    fetchx.WithBaseURL("https://api.example.com"),
//	    fetchx.WithTimeout(5*time.Second),
//	)
//	client.Interceptors().Request.Use(func(ctx context.Context, rc *fetchx.RequestConfig) (*fetchx.RequestConfig, error) {
//	    rc.Headers["Authorization"] = "Bearer " + token
//	    return rc, nil
//	}, nil)
//	resp, err := client.Get(ctx, "/users", fetchx.WithParam("page", 1))
//
// Cancellation uses the context passed to every call. When a timeout is configured the
// client derives its own context from the caller's; a request aborted by the timer fails
// with ECONNABORTED while one aborted by the caller fails with ERR_CANCELED. Use
// IsCancel to test for either.
package fetchx
