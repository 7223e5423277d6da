package fetchx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type AbortError struct{}

func (AbortError) Error() string { return "operation stopped" }

type CanceledError struct{ msg string }

func (e *CanceledError) Error() string { return e.msg }

type canceledFlag bool

func (c canceledFlag) IsCanceled() bool { return bool(c) }

func TestClientErrorMessage(t *testing.T) {
	err := &ClientError{Code: CodeNetwork, Message: "Network Error"}
	assert.Equal(t, "ERR_NETWORK: Network Error", err.Error())

	err.Cause = errors.New("connection refused")
	assert.Equal(t, "ERR_NETWORK: Network Error (connection refused)", err.Error())

	err.RequestID = "req-1"
	assert.Equal(t, "[req-1] ERR_NETWORK: Network Error (connection refused)", err.Error())

	var nilErr *ClientError
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestClientErrorSentinels(t *testing.T) {
	cause := errors.New("underlying")
	err := error(&ClientError{Code: CodeTimeout, Message: "Request timeout", Cause: cause})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrCanceled)
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("outer: %w", err)
	assert.ErrorIs(t, wrapped, ErrTimeout)

	var ce *ClientError
	require.ErrorAs(t, wrapped, &ce)
	assert.Equal(t, CodeTimeout, ce.Code)
}

func TestClientErrorDebugInfo(t *testing.T) {
	err := &ClientError{
		Code:       CodeBadResponse,
		Message:    "Request failed with status 404",
		RequestID:  "abc",
		Method:     MethodGet,
		URL:        "https://api.test/missing",
		StatusCode: 404,
		Timestamp:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:   15 * time.Millisecond,
	}

	info := err.DebugInfo()
	assert.Contains(t, info, "Error Code: ERR_BAD_RESPONSE\n")
	assert.Contains(t, info, "Request ID: abc\n")
	assert.Contains(t, info, "Method: GET\n")
	assert.Contains(t, info, "URL: https://api.test/missing\n")
	assert.Contains(t, info, "Status Code: 404\n")
	assert.Contains(t, info, "Timestamp: 2024-01-02T03:04:05Z\n")
	assert.Contains(t, info, "Duration: 15ms\n")
	assert.NotContains(t, info, "Cause:")
}

func TestNewClientErrorRecordsRequest(t *testing.T) {
	rc := &RequestConfig{Config: Config{BaseURL: "https://api.test", URL: "/users", Params: ParamsOf("id", 1)}, Method: MethodPost}
	err := newClientError(CodeNetwork, "Network Error", nil, rc)

	assert.Equal(t, MethodPost, err.Method)
	assert.Equal(t, "https://api.test/users?id=1", err.URL)
	assert.Same(t, rc, err.Config)
	assert.False(t, err.Timestamp.IsZero())
}

func TestClassify(t *testing.T) {
	timedOut, cleanup := composeSignal(context.Background(), time.Millisecond)
	defer cleanup()
	<-timedOut.Done()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	dnsErr := &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}
	urlErr := &url.Error{Op: "Get", URL: "http://nowhere.invalid", Err: dnsErr}
	plain := errors.New("plain failure")

	tests := []struct {
		name     string
		err      error
		signal   context.Context
		wantCode string
	}{
		{"timer abort", context.DeadlineExceeded, timedOut, CodeTimeout},
		{"timer abort surfaced as cause", &url.Error{Op: "Get", URL: "x", Err: context.Cause(timedOut)}, timedOut, CodeTimeout},
		{"caller abort", context.Canceled, canceled, CodeCanceled},
		{"caller deadline", context.DeadlineExceeded, context.Background(), CodeCanceled},
		{"wrapped caller abort", &url.Error{Op: "Get", URL: "x", Err: context.Canceled}, canceled, CodeCanceled},
		{"mid-flight short read on aborted signal", io.ErrUnexpectedEOF, canceled, CodeCanceled},
		{"network failure", urlErr, context.Background(), CodeNetwork},
		{"network failure on aborted signal", urlErr, canceled, CodeCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err, tt.signal, nil)
			var ce *ClientError
			require.ErrorAs(t, got, &ce)
			assert.Equal(t, tt.wantCode, ce.Code)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	t.Run("unrecognised passes through", func(t *testing.T) {
		assert.Same(t, plain, classify(plain, context.Background(), nil))
	})
	t.Run("short read without abort passes through", func(t *testing.T) {
		assert.Equal(t, io.ErrUnexpectedEOF, classify(io.ErrUnexpectedEOF, context.Background(), nil))
	})
	t.Run("classified errors are kept", func(t *testing.T) {
		ce := &ClientError{Code: CodeBadResponse}
		assert.Same(t, ce, classify(ce, canceled, nil))
	})
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, classify(nil, canceled, nil))
	})
}

func TestClassifyStatus(t *testing.T) {
	rc := &RequestConfig{Config: Config{URL: "https://api.test/x"}, Method: MethodGet}
	resp := &Response{Status: 404, StatusText: "Not Found"}

	err := classifyStatus(resp, rc)
	assert.Equal(t, CodeBadResponse, err.Code)
	assert.Contains(t, err.Message, "404")
	assert.Equal(t, 404, err.StatusCode)
	assert.Same(t, resp, err.Response)
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestIsCancel(t *testing.T) {
	truthy := []any{
		&ClientError{Code: CodeCanceled},
		&ClientError{Code: CodeTimeout},
		fmt.Errorf("wrapped: %w", &ClientError{Code: CodeCanceled}),
		context.Canceled,
		context.DeadlineExceeded,
		&TimeoutError{Timeout: time.Second},
		AbortError{},
		&CanceledError{msg: "stopped"},
		errors.New("The user aborted a request."),
		errors.New("operation was Canceled"),
		map[string]any{"__CANCEL__": true},
		map[string]any{"code": CodeCanceled},
		map[string]any{"code": CodeTimeout},
		canceledFlag(true),
	}
	for i, v := range truthy {
		assert.True(t, IsCancel(v), "case %d: %#v", i, v)
	}

	falsy := []any{
		nil,
		"cancel",
		42,
		errors.New("boom"),
		&ClientError{Code: CodeNetwork, Message: "Network Error"},
		&ClientError{Code: CodeBadResponse, Message: "Request failed with status 500"},
		map[string]any{"code": CodeNetwork},
		map[string]any{"__CANCEL__": false},
		canceledFlag(false),
	}
	for i, v := range falsy {
		assert.False(t, IsCancel(v), "case %d: %#v", i, v)
	}
}
