// Package loop runs a task repeatedly, feeding each run the value the previous one returned.
package loop

import (
	"context"
	"fmt"
	"time"
)

// Next tells Start what to do after a task run.
//
// The zero value means "run again right now".
type Next struct {
	stop     bool
	err      error
	interval time.Duration
}

func (n Next) String() string {
	switch {
	case n.err != nil:
		return fmt.Sprintf("[break] with error: %v", n.err)
	case n.stop:
		return "[break] without error"
	default:
		return fmt.Sprintf("[continue] interval: %s", n.interval)
	}
}

// Continue runs the task again after interval.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break stops the loop. Start returns err.
func Break(err error) Next {
	return Next{stop: true, err: err}
}

// Task takes the value from the previous run (or the initial value) and returns the next one.
type Task[T any] func(context.Context, T) (T, Next)

// Start calls task until it breaks or ctx is done.
//
// # Returns
//
// - T: the last value of the loop.
// On Break, it is the value returned together. When ctx is done, it is the value of the last Continue.
//
// - error: the error given to Break, or ctx.Err().
func Start[T any](ctx context.Context, init T, task Task[T], options ...Option) (T, error) {
	if err := ctx.Err(); err != nil {
		return init, err
	}

	value := init
	for {
		v, next := runOnce(ctx, value, task, options)
		if next.stop {
			return v, next.err
		}
		value = v

		timer := time.NewTimer(next.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}

func runOnce[T any](ctx context.Context, value T, task Task[T], options []Option) (T, Next) {
	rc := &runConfig{ctx: ctx, release: func() {}}
	for _, opt := range options {
		rc = opt(rc)
	}
	defer rc.release()
	return task(rc.ctx, value)
}

type runConfig struct {
	ctx     context.Context
	release func()
}

type Option func(*runConfig) *runConfig

// WithTimeout gives each task run a context with the timeout.
func WithTimeout(d time.Duration) Option {
	return func(rc *runConfig) *runConfig {
		ctx, cancel := context.WithTimeout(rc.ctx, d)
		release := rc.release
		return &runConfig{
			ctx: ctx,
			release: func() {
				cancel()
				release()
			},
		}
	}
}
