package fetchx

import (
	"context"
	"net/http"
	"sync"
)

// FulfilledFunc handles a value that reached its stage successfully. It returns the
// value handed to the next entry, or an error that diverts the chain to the rejection
// path.
type FulfilledFunc[V any] func(ctx context.Context, v V) (V, error)

// RejectedFunc handles an error raised by an earlier stage. Returning a nil error
// recovers the chain with the returned value.
type RejectedFunc[V any] func(ctx context.Context, err error) (V, error)

type interceptorEntry[V any] struct {
	id        int
	fulfilled FulfilledFunc[V]
	rejected  RejectedFunc[V]
}

// InterceptorManager is an ordered list of handler pairs executed as a strictly
// sequential chain. It is safe for concurrent use.
type InterceptorManager[V any] struct {
	mu      sync.RWMutex
	entries []interceptorEntry[V]
	nextID  int
}

// NewInterceptorManager returns an empty manager.
func NewInterceptorManager[V any]() *InterceptorManager[V] {
	return &InterceptorManager[V]{}
}

// Use appends a handler pair and returns its identifier. Either handler may be nil:
// a nil fulfilled handler passes values through, a nil rejected handler propagates
// errors downstream.
func (m *InterceptorManager[V]) Use(fulfilled FulfilledFunc[V], rejected RejectedFunc[V]) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.entries = append(m.entries, interceptorEntry[V]{id: id, fulfilled: fulfilled, rejected: rejected})
	return id
}

// Eject removes the entry registered under id. Unknown ids are ignored. Ids are never
// reused.
func (m *InterceptorManager[V]) Eject(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.id == id {
			m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
			return
		}
	}
}

// Clear removes every entry.
func (m *InterceptorManager[V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
}

// Len returns the number of registered entries.
func (m *InterceptorManager[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

func (m *InterceptorManager[V]) snapshot() []interceptorEntry[V] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]interceptorEntry[V](nil), m.entries...)
}

// Run threads v through every entry in registration order. The entry list is frozen
// when Run starts, so Use or Eject from inside a handler only affects later runs.
func (m *InterceptorManager[V]) Run(ctx context.Context, v V) (V, error) {
	var err error

	for _, e := range m.snapshot() {
		if err == nil {
			if e.fulfilled != nil {
				v, err = e.fulfilled(ctx, v)
			}
			continue
		}
		if e.rejected != nil {
			v, err = e.rejected(ctx, err)
		}
	}

	return v, err
}

// Interceptors groups the request and response stage managers of a Client.
type Interceptors struct {
	Request  *InterceptorManager[*RequestConfig]
	Response *InterceptorManager[*http.Response]
}

func newInterceptors() *Interceptors {
	return &Interceptors{
		Request:  NewInterceptorManager[*RequestConfig](),
		Response: NewInterceptorManager[*http.Response](),
	}
}
