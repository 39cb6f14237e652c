package recurring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sareeloom/storefront/cmd/loops/recurring"
	"github.com/sareeloom/storefront/pkg/loop"
)

func TestParsePolicy(t *testing.T) {
	for name, testcase := range map[string]struct {
		when        string
		then        recurring.Policy
		expectError bool
	}{
		"forever means forever": {
			when: "forever",
			then: recurring.Forever(0),
		},
		"forever:3s means forever with cooldown 3 seconds": {
			when: "forever:3s",
			then: recurring.Forever(3 * time.Second),
		},
		"forever:someday can not be parsed (someday is not time.Duration)": {
			when:        "forever:someday",
			expectError: true,
		},
		"backlog means backlog": {
			when: "backlog",
			then: recurring.Backlog(),
		},
		"forever:-1s can not be parsed (cooldown is negative)": {
			when:        "forever:-1s",
			expectError: true,
		},
		"backlog:param can not be parsed (it should not take any parameters)": {
			when:        "backlog:param",
			expectError: true,
		},
		"empty string can not be parsed (it is not policy)": {
			when:        "",
			expectError: true,
		},
		"known policy can not be parsed (it is not policy)": {
			when:        "???????unknown??????",
			expectError: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			when, expected := testcase.when, testcase.then
			actual, err := recurring.ParsePolicy(when)

			if testcase.expectError {
				if err == nil {
					t.Fatal("expected error does not occur")
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if actual != expected {
				t.Errorf("unmatch: (actual, expected) = (%v, %v)", actual, expected)
			}
		})
	}

}

func TestApplied(t *testing.T) {
	errBoom := errors.New("boom")

	for name, testcase := range map[string]struct {
		policy  recurring.Policy
		updated bool
		err     error
		then    loop.Next
	}{
		"forever, updated": {
			policy: recurring.Forever(time.Minute), updated: true, then: loop.Continue(0),
		},
		"forever, not updated": {
			policy: recurring.Forever(time.Minute), then: loop.Continue(time.Minute),
		},
		"forever ignores errors": {
			policy: recurring.Forever(time.Minute), err: errBoom, then: loop.Continue(time.Minute),
		},
		"backlog, updated": {
			policy: recurring.Backlog(), updated: true, then: loop.Continue(0),
		},
		"backlog, not updated": {
			policy: recurring.Backlog(), then: loop.Break(nil),
		},
		"until error, with error": {
			policy: recurring.UntilError(recurring.Forever(time.Minute)), updated: true, err: errBoom,
			then: loop.Break(errBoom),
		},
		"until error, without error": {
			policy: recurring.UntilError(recurring.Backlog()), updated: true, then: loop.Continue(0),
		},
	} {
		t.Run(name, func(t *testing.T) {
			task := recurring.Task[int](func(_ context.Context, v int) (int, bool, error) {
				return v + 1, testcase.updated, testcase.err
			})
			v, next := task.Applied(testcase.policy)(context.Background(), 41)
			if v != 42 {
				t.Errorf("value: %d", v)
			}
			if next.String() != testcase.then.String() {
				t.Errorf("next: expected %s, but got %s", testcase.then, next)
			}
		})
	}
}
