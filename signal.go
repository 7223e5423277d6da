package fetchx

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutError is the abort reason recorded when the client-managed timeout elapses.
// It distinguishes a library timeout from a caller cancellation.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetchx: timeout of %s exceeded", e.Timeout)
}

// composeSignal derives the effective signal for one request from the caller context
// and the configured timeout. Without a timeout the caller context is returned as is.
// With one, the returned context is aborted by whichever comes first: the caller's
// cancellation (its cause is forwarded) or the timer (cause is a *TimeoutError). A
// caller context that is already done never arms the timer. The cleanup func stops the
// timer and must run on every exit path.
func composeSignal(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeoutCause(parent, timeout, &TimeoutError{Timeout: timeout})
}

// isTimeoutSignal reports whether signal was aborted by the client-managed timer.
func isTimeoutSignal(signal context.Context) bool {
	if signal == nil || signal.Err() == nil {
		return false
	}
	var te *TimeoutError
	return errors.As(context.Cause(signal), &te)
}

// AbortController is a cancellable signal with an explicit abort reason, for callers
// who prefer that style over managing a context.CancelCauseFunc.
type AbortController struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewAbortController returns a controller whose signal is derived from parent.
func NewAbortController(parent context.Context) *AbortController {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	return &AbortController{ctx: ctx, cancel: cancel}
}

// Signal returns the context to pass to requests.
func (a *AbortController) Signal() context.Context {
	return a.ctx
}

// Abort aborts the signal. Only the first call has an effect. A nil reason records
// context.Canceled.
func (a *AbortController) Abort(reason error) {
	a.cancel(reason)
}

// Aborted reports whether the signal has been aborted.
func (a *AbortController) Aborted() bool {
	return a.ctx.Err() != nil
}

// Reason returns the abort reason, or nil while the signal is active.
func (a *AbortController) Reason() error {
	return context.Cause(a.ctx)
}

// MergeOpaque marks the controller as an atomic value for configuration merging.
func (*AbortController) MergeOpaque() {}
