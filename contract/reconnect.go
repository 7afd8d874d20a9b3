// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// reconnector owns the single client handle of a backend. The handle is
// dialed on first use and dropped after threshold consecutive transport
// failures so the next call redials.
type reconnector[C any] struct {
	name      string
	dial      func(ctx context.Context) (C, error)
	close     func(C)
	threshold int

	mu        sync.Mutex
	client    C
	connected bool
	failures  int
	dials     int
}

func newReconnector[C any](name string, threshold int, dial func(context.Context) (C, error), close func(C)) *reconnector[C] {
	if threshold < 1 {
		threshold = 1
	}
	return &reconnector[C]{name: name, dial: dial, close: close, threshold: threshold}
}

func (r *reconnector[C]) acquire(ctx context.Context) (C, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connected {
		return r.client, nil
	}

	client, err := r.dial(ctx)
	r.dials++
	if err != nil {
		var zero C
		return zero, fmt.Errorf("dial %s: %w", r.name, err)
	}

	r.client = client
	r.connected = true
	r.failures = 0
	slog.Info("chain client connected", "backend", r.name, "dials", r.dials)
	return client, nil
}

// observe counts transport failures and timeouts. A cancelled call is
// ignored. Any other outcome, including a revert, proves the connection
// works and resets the count.
func (r *reconnector[C]) observe(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err == nil || !(IsTransient(err) || errors.Is(err, ErrUpstreamTimeout)) {
		r.failures = 0
		return
	}

	r.failures++
	if !r.connected || r.failures < r.threshold {
		return
	}

	slog.Warn("dropping chain client after repeated failures",
		"backend", r.name,
		"failures", r.failures,
	)
	if r.close != nil {
		r.close(r.client)
	}
	var zero C
	r.client = zero
	r.connected = false
	r.failures = 0
}

func (r *reconnector[C]) shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connected && r.close != nil {
		r.close(r.client)
	}
	var zero C
	r.client = zero
	r.connected = false
}
