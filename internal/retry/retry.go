// Package retry is the resilience wrapper around fallible operations. It
// retries per a configured policy with backoff, suspending only the
// calling goroutine between attempts.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

type (
	// Operation is a fallible unit of work subject to retry
	Operation func(context.Context) error

	// SleepFunc suspends the current goroutine for the given duration,
	// returning early with the context error if it is canceled
	SleepFunc func(context.Context, time.Duration) error

	// Retrier retries operations per a fixed policy
	Retrier struct {
		sleep  SleepFunc
		policy *api.RetryPolicy
	}

	permanentError struct {
		err error
	}
)

// New creates a retrier for the given policy
func New(policy *api.RetryPolicy) *Retrier {
	return &Retrier{
		policy: policy,
		sleep:  ctxSleep,
	}
}

// WithSleep returns a copy of the retrier using the provided sleep
// function. Used by tests to virtualize time
func (r *Retrier) WithSleep(sleep SleepFunc) *Retrier {
	res := *r
	res.sleep = sleep
	return &res
}

// Do attempts the operation up to the policy's attempt budget, sleeping
// with backoff between failed attempts. The last failure is returned once
// the budget is exhausted; permanent failures are returned immediately
// without retrying
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var last error
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		last = err
		if attempt >= r.policy.MaxAttempts {
			return last
		}
		if err := r.sleep(ctx, r.policy.Delay(attempt)); err != nil {
			return errors.Join(err, last)
		}
	}
}

// Permanent marks an error as non-retryable. The retrier unwraps the
// marker before returning it to the caller
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// ctxSleep blocks only the current goroutine; other in-flight work keeps
// running while this one backs off
func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
