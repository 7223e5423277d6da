package fetchx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"reflect"
	"strings"
	"time"
)

// Error codes of the classified error taxonomy.
const (
	CodeTimeout     = "ECONNABORTED"
	CodeCanceled    = "ERR_CANCELED"
	CodeNetwork     = "ERR_NETWORK"
	CodeBadResponse = "ERR_BAD_RESPONSE"
)

// Sentinel errors for use with errors.Is. ClientError values match the sentinel
// carrying the same code.
var (
	ErrTimeout     = &ClientError{Code: CodeTimeout, Message: "Request timeout"}
	ErrCanceled    = &ClientError{Code: CodeCanceled, Message: "Request canceled"}
	ErrNetwork     = &ClientError{Code: CodeNetwork, Message: "Network Error"}
	ErrBadResponse = &ClientError{Code: CodeBadResponse, Message: "Request failed"}

	// ErrInvalidConfig is returned when a configuration fails validation or decoding.
	ErrInvalidConfig = errors.New("fetchx: invalid configuration")

	// ErrRateLimited is returned by the rate limit interceptor when a request cannot be
	// admitted before its context ends.
	ErrRateLimited = errors.New("fetchx: rate limited")
)

// ClientError is the classified failure returned by every request operation.
type ClientError struct {
	Code    string
	Message string
	Cause   error

	// Config is the effective request configuration at the time of failure.
	Config *RequestConfig
	// Response is set for ERR_BAD_RESPONSE only; its Data is nil as the body is not parsed.
	Response *Response

	RequestID  string
	Method     string
	URL        string
	StatusCode int
	Timestamp  time.Time
	Duration   time.Duration
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error codes for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Code == targetErr.Code
	}
	return false
}

// IsCanceled reports whether the error is a cancellation or timeout.
func (e *ClientError) IsCanceled() bool {
	return e != nil && (e.Code == CodeCanceled || e.Code == CodeTimeout)
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Error Code: %s\n", e.Code)
	fmt.Fprintf(&b, "Message: %s\n", e.Message)
	if e.RequestID != "" {
		fmt.Fprintf(&b, "Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		fmt.Fprintf(&b, "Method: %s\n", e.Method)
	}
	if e.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", e.URL)
	}
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, "Status Code: %d\n", e.StatusCode)
	}
	if !e.Timestamp.IsZero() {
		fmt.Fprintf(&b, "Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, "Cause: %v\n", e.Cause)
	}
	return b.String()
}

func newClientError(code, message string, cause error, cfg *RequestConfig) *ClientError {
	e := &ClientError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Config:    cfg,
		Timestamp: time.Now(),
	}
	if cfg != nil {
		e.Method = cfg.Method
		e.URL = BuildURL(cfg.BaseURL, cfg.URL, cfg.Params)
	}
	return e
}

// isAbortError reports whether err stems from an aborted signal.
func isAbortError(err error, signal context.Context) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	if signal == nil || signal.Err() == nil {
		return false
	}
	if cause := context.Cause(signal); cause != nil && errors.Is(err, cause) {
		return true
	}
	// Transports surface an abort mid-flight as a connection or short read failure.
	var netErr net.Error
	return errors.As(err, &netErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		strings.Contains(err.Error(), "request canceled")
}

// classify maps a raw failure onto the error taxonomy. Failures it does not recognise,
// including already classified errors, are returned unchanged.
func classify(err error, signal context.Context, cfg *RequestConfig) error {
	if err == nil {
		return nil
	}

	var ce *ClientError
	if errors.As(err, &ce) {
		return err
	}

	if isAbortError(err, signal) {
		if isTimeoutSignal(signal) || isTimeoutCause(err) {
			return newClientError(CodeTimeout, "Request timeout", err, cfg)
		}
		return newClientError(CodeCanceled, "Request canceled", err, cfg)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return newClientError(CodeNetwork, "Network Error", err, cfg)
	}

	return err
}

func isTimeoutCause(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// classifyStatus builds the ERR_BAD_RESPONSE error for a non-2xx response.
func classifyStatus(resp *Response, cfg *RequestConfig) *ClientError {
	e := newClientError(CodeBadResponse, fmt.Sprintf("Request failed with status %d", resp.Status), nil, cfg)
	e.Response = resp
	e.StatusCode = resp.Status
	return e
}

// IsCancel reports whether v represents a cancellation. The check is deliberately
// permissive for interop with other client error shapes: besides ERR_CANCELED and
// ECONNABORTED errors and context cancellation, it accepts errors whose type is named
// AbortError or CanceledError, values with an IsCanceled() bool method, maps carrying
// a matching "code" or "__CANCEL__": true, and any error whose message mentions
// "cancel" or "abort".
func IsCancel(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case map[string]any:
		if flag, ok := val["__CANCEL__"].(bool); ok && flag {
			return true
		}
		code, _ := val["code"].(string)
		return code == CodeCanceled || code == CodeTimeout
	case interface{ IsCanceled() bool }:
		if val.IsCanceled() {
			return true
		}
	}

	err, ok := v.(error)
	if !ok {
		return false
	}

	var ce *ClientError
	if errors.As(err, &ce) {
		if ce.IsCanceled() {
			return true
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || isTimeoutCause(err) {
		return true
	}

	switch errorTypeName(err) {
	case "AbortError", "CanceledError":
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cancel") || strings.Contains(msg, "abort")
}

func errorTypeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
