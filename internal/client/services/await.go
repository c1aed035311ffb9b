package services

import (
	"context"

	"github.com/dmitrijs2005/urchin/internal/client/transport"
)

// await starts an asynchronous operation and blocks for its result.
func await[T any](ctx context.Context, start func(cb func(T, error)) *transport.Handle) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	h := start(func(v T, err error) { ch <- result{v, err} })

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		h.Cancel()
		var zero T
		return zero, ctx.Err()
	}
}
