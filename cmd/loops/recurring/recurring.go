// Package recurring builds loop tasks which repeat while they have backlog.
package recurring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sareeloom/storefront/pkg/loop"
)

// Task does one cycle of work.
//
// # Returns
//
// - T : same as T of loop.Task[T].
//
// - bool : true when the task did something in this cycle, so more backlog can be.
//
// - error : the loop breaks with this error (under UntilError).
type Task[T any] func(context.Context, T) (T, bool, error)

// Applied converts the task into loop.Task, deciding what comes next by the policy.
func (rt Task[T]) Applied(p Policy) loop.Task[T] {
	return func(ctx context.Context, t T) (T, loop.Next) {
		new, ok, err := rt(ctx, t)
		return new, p.Next(ok, err)
	}
}

// ParsePolicy parses "forever", "forever:COOLDOWN" or "backlog".
func ParsePolicy(s string) (Policy, error) {
	typ, param, ok := strings.Cut(s, ":")
	switch typ {
	case "forever":
		if !ok || param == "" {
			return Forever(0), nil
		}
		cooldown, err := time.ParseDuration(param)
		if err != nil {
			return nil, fmt.Errorf(`failed to parse: %s as "forever:COOLDOWN": %w`, s, err)
		}
		if cooldown < 0 {
			return nil, fmt.Errorf(`cooldown should not be negative: %s`, s)
		}
		return Forever(cooldown), nil
	case "backlog":
		if ok {
			return nil, fmt.Errorf("backlog policy does not take parameters: %s", s)
		}
		return Backlog(), nil
	}
	return nil, fmt.Errorf("unknown policy name: %s (should be one of -- forever|backlog)", typ)
}

// Policy decides whether the loop goes on after a cycle.
type Policy interface {
	// Next
	//
	// # Args
	//
	// - updated: the cycle did something.
	//
	// - err: error of the cycle.
	Next(updated bool, err error) loop.Next
	String() string
}

// Forever restarts immediately while there are things to do,
// otherwise after cooldown.
func Forever(cooldown time.Duration) Policy {
	return forever(cooldown)
}

type forever time.Duration

func (f forever) String() string {
	return fmt.Sprintf("forever:%s", time.Duration(f).String())
}

func (f forever) Next(updated bool, _ error) loop.Next {
	if updated {
		return loop.Continue(0)
	}
	return loop.Continue(time.Duration(f))
}

// Backlog restarts immediately while there are things to do,
// otherwise breaks.
func Backlog() Policy {
	return backlog
}

type backlogPolicy struct{}

func (backlogPolicy) String() string {
	return "backlog"
}

func (backlogPolicy) Next(updated bool, _ error) loop.Next {
	if updated {
		return loop.Continue(0)
	}
	return loop.Break(nil)
}

var backlog = backlogPolicy{}

// UntilError breaks with the error of a cycle, if any. Otherwise it follows p.
func UntilError(p Policy) Policy {
	return untilError{base: p}
}

type untilError struct {
	base Policy
}

func (u untilError) String() string {
	return fmt.Sprintf("%s (until error)", u.base.String())
}

func (u untilError) Next(updated bool, err error) loop.Next {
	if err != nil {
		return loop.Break(err)
	}
	return u.base.Next(updated, err)
}
