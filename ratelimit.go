package fetchx

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit returns a request interceptor that blocks until limiter admits the request.
// A context that ends while waiting fails the request with the context's error, which is
// classified as a cancellation; a wait that cannot be satisfied before the context
// deadline fails with ErrRateLimited.
func RateLimit(limiter *rate.Limiter) RequestInterceptor {
	return rateLimitInterceptor(limiter, nil)
}

func rateLimitInterceptor(limiter *rate.Limiter, metrics *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, rc *RequestConfig) (*RequestConfig, error) {
		start := time.Now()
		err := limiter.Wait(ctx)
		metrics.RecordRateLimitWait(endpointOf(BuildURL(rc.BaseURL, rc.URL, nil)), time.Since(start))
		if err == nil {
			return rc, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
}
