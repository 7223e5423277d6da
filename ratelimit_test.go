package fetchx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimitInterceptorAdmits(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(20*time.Millisecond), 1)
	interceptor := RateLimit(limiter)
	rc := &RequestConfig{Config: Config{URL: "https://api.test/x"}}

	start := time.Now()
	for i := 0; i < 3; i++ {
		got, err := interceptor(context.Background(), rc)
		require.NoError(t, err)
		assert.Same(t, rc, got)
	}
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestRateLimitInterceptorCanceledWhileWaiting(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RateLimit(limiter)(ctx, &RequestConfig{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimitInterceptorDeadlineTooSoon(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := RateLimit(limiter)(ctx, &RequestConfig{})
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.False(t, IsCancel(err))
}

func TestClientWithRateLimit(t *testing.T) {
	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
	client := New(
		WithTransport(okTransport("")),
		WithRateLimit(rate.Every(time.Hour), 1),
		WithMetricsCollector(collector),
	)

	_, err := client.Get(context.Background(), "https://api.test/x")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, "https://api.test/x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)

	assert.Equal(t, 1, testutil.CollectAndCount(collector.rateLimitWait))
}

func TestClientRateLimitCallerCancel(t *testing.T) {
	client := New(WithTransport(okTransport("")), WithRateLimit(rate.Every(time.Hour), 1))
	_, err := client.Get(context.Background(), "https://api.test/x")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	_, err = client.Get(ctx, "https://api.test/x")
	requireClientError(t, err, CodeCanceled)
}
