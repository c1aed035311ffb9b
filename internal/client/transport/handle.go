package transport

import (
	"context"
	"sync/atomic"
)

const (
	statePending int32 = iota
	stateDelivering
	stateCanceled
)

// Handle refers to one submitted request.
type Handle struct {
	id     string
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

func newHandle(id string, cancel context.CancelFunc) *Handle {
	return &Handle{id: id, cancel: cancel, done: make(chan struct{})}
}

// ID is the request id used in logs.
func (h *Handle) ID() string {
	return h.id
}

// Cancel suppresses delivery if no callback has started yet and aborts the
// in-flight request. Calling it more than once, or after delivery, is a no-op
// apart from releasing the request context.
func (h *Handle) Cancel() {
	h.state.CompareAndSwap(statePending, stateCanceled)
	h.cancel()
}

// Canceled reports whether Cancel won against delivery.
func (h *Handle) Canceled() bool {
	return h.state.Load() == stateCanceled
}

// Done is closed once the request has settled, delivered or not.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// claim reserves the right to deliver. It fails if the handle was canceled.
func (h *Handle) claim() bool {
	return h.state.CompareAndSwap(statePending, stateDelivering)
}
