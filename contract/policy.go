// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// callPolicy bounds every chain call with a timeout. Reads may be retried
// on transport errors; writes run exactly once.
type callPolicy struct {
	timeout     time.Duration
	readRetries int
	backoff     time.Duration

	// classify maps a raw backend error onto the package sentinels
	classify func(error) error
	// observe sees the classified outcome of every attempt
	observe func(error)
}

// IsTransient reports whether err is a transport failure worth retrying
// for idempotent reads
func IsTransient(err error) bool {
	return errors.Is(err, ErrContractUnavailable)
}

func isReverted(err error) bool {
	return errors.Is(err, ErrTransactionReverted)
}

func isClassified(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidInput, ErrNotFound, ErrContractUnavailable, ErrTransactionReverted,
		ErrUpstreamTimeout, ErrSignerUnavailable, ErrUnsupported,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func (p callPolicy) read(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt <= p.readRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ErrUpstreamTimeout, ctx.Err())
			case <-time.After(p.backoff * time.Duration(attempt)):
			}
		}

		err = p.once(ctx, fn)
		if err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}

func (p callPolicy) write(ctx context.Context, fn func(context.Context) error) error {
	return p.once(ctx, fn)
}

// writeWithin is write with a caller-chosen bound, used while waiting for a
// transaction to be mined
func (p callPolicy) writeWithin(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	q := p
	q.timeout = timeout
	return q.once(ctx, fn)
}

func (p callPolicy) once(ctx context.Context, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := fn(callCtx)
	switch {
	case err == nil:
	// The caller went away; says nothing about the node
	case errors.Is(err, context.Canceled):
	case errors.Is(ctx.Err(), context.Canceled):
		err = fmt.Errorf("%w: %w", context.Canceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		err = fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	case isClassified(err):
	case p.classify != nil:
		err = p.classify(err)
	default:
		err = fmt.Errorf("%w: %w", ErrContractUnavailable, err)
	}

	if p.observe != nil {
		p.observe(err)
	}
	return err
}
