// Package retry runs an operation again after transient failures, with
// exponential backoff between attempts.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy bounds how often and how fast an operation is retried.
type Policy struct {
	// Attempts is the total number of tries. Values below 1 mean one try.
	Attempts int
	// Delay is the wait before the second attempt. It doubles after every
	// failure, capped at MaxDelay.
	Delay    time.Duration
	MaxDelay time.Duration
}

// Do calls op until it succeeds, returns a permanent error, the attempts
// are used up, or ctx is done. op receives the 1-based attempt number.
// The last error from op is returned unwrapped.
func Do(ctx context.Context, p Policy, op func(attempt int) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(attempt)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return err
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so Do stops retrying and returns it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
