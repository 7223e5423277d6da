package fetchx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendStep(step string) FulfilledFunc[[]string] {
	return func(_ context.Context, v []string) ([]string, error) {
		return append(v, step), nil
	}
}

func TestInterceptorManagerRunsInRegistrationOrder(t *testing.T) {
	m := NewInterceptorManager[[]string]()
	m.Use(appendStep("a"), nil)
	m.Use(appendStep("b"), nil)
	m.Use(appendStep("c"), nil)

	got, err := m.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestInterceptorManagerIDsAreMonotonic(t *testing.T) {
	m := NewInterceptorManager[int]()
	first := m.Use(nil, nil)
	second := m.Use(nil, nil)
	m.Eject(second)
	third := m.Use(nil, nil)

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 2, third)
	assert.Equal(t, 2, m.Len())
}

func TestInterceptorManagerEject(t *testing.T) {
	m := NewInterceptorManager[[]string]()
	m.Use(appendStep("a"), nil)
	id := m.Use(appendStep("b"), nil)
	m.Use(appendStep("c"), nil)

	m.Eject(id)
	m.Eject(id)
	m.Eject(42)

	for i := 0; i < 2; i++ {
		got, err := m.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, got)
	}
}

func TestInterceptorManagerClear(t *testing.T) {
	m := NewInterceptorManager[[]string]()
	m.Use(appendStep("a"), nil)
	m.Clear()

	got, err := m.Run(context.Background(), []string{"start"})
	require.NoError(t, err)
	assert.Equal(t, []string{"start"}, got)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, m.Use(nil, nil))
}

func TestInterceptorManagerPassThroughWhenHandlersMissing(t *testing.T) {
	m := NewInterceptorManager[int]()
	m.Use(nil, nil)

	got, err := m.Run(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestInterceptorManagerRejectionPropagatesAndRecovers(t *testing.T) {
	boom := errors.New("boom")
	var seen []string

	m := NewInterceptorManager[int]()
	m.Use(func(_ context.Context, v int) (int, error) {
		seen = append(seen, "fail")
		return 0, boom
	}, nil)
	m.Use(func(_ context.Context, v int) (int, error) {
		seen = append(seen, "skipped")
		return v, nil
	}, nil)
	m.Use(nil, func(_ context.Context, err error) (int, error) {
		seen = append(seen, "recover")
		assert.ErrorIs(t, err, boom)
		return 99, nil
	})
	m.Use(func(_ context.Context, v int) (int, error) {
		seen = append(seen, "after")
		return v + 1, nil
	}, nil)

	got, err := m.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 100, got)
	assert.Equal(t, []string{"fail", "recover", "after"}, seen)
}

func TestInterceptorManagerOwnRejectionHandlerDoesNotCatchOwnFailure(t *testing.T) {
	boom := errors.New("boom")
	called := false

	m := NewInterceptorManager[int]()
	m.Use(func(_ context.Context, v int) (int, error) {
		return 0, boom
	}, func(_ context.Context, err error) (int, error) {
		called = true
		return 0, nil
	})

	_, err := m.Run(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestInterceptorManagerRejectionCanRethrow(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	m := NewInterceptorManager[int]()
	m.Use(func(context.Context, int) (int, error) { return 0, first }, nil)
	m.Use(nil, func(_ context.Context, err error) (int, error) { return 0, second })

	_, err := m.Run(context.Background(), 0)
	assert.ErrorIs(t, err, second)
}

func TestInterceptorManagerEjectDuringRunAffectsOnlyLaterRuns(t *testing.T) {
	m := NewInterceptorManager[[]string]()
	var laterID int
	m.Use(func(_ context.Context, v []string) ([]string, error) {
		m.Eject(laterID)
		return append(v, "ejector"), nil
	}, nil)
	laterID = m.Use(appendStep("later"), nil)

	got, err := m.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ejector", "later"}, got)

	got, err = m.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ejector"}, got)
}

func TestInterceptorManagerHandlersNeverOverlap(t *testing.T) {
	m := NewInterceptorManager[[]string]()
	var mu sync.Mutex
	active := 0
	for _, step := range []string{"a", "b", "c"} {
		step := step
		m.Use(func(_ context.Context, v []string) ([]string, error) {
			mu.Lock()
			active++
			assert.Equal(t, 1, active)
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return append(v, step), nil
		}, nil)
	}

	got, err := m.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestRequestInterceptorsSeePredecessorEffects(t *testing.T) {
	ic := newInterceptors()
	ic.Request.Use(func(_ context.Context, rc *RequestConfig) (*RequestConfig, error) {
		rc.Headers["X-A"] = "a"
		return rc, nil
	}, nil)
	ic.Request.Use(func(_ context.Context, rc *RequestConfig) (*RequestConfig, error) {
		assert.Equal(t, "a", rc.Headers["X-A"])
		rc.Headers["X-B"] = rc.Headers["X-A"] + "b"
		return rc, nil
	}, nil)

	rc := &RequestConfig{Config: DefaultConfig(), Method: MethodGet}
	got, err := ic.Request.Run(context.Background(), rc)
	require.NoError(t, err)
	assert.Equal(t, "ab", got.Headers["X-B"])
}
