package errors_test

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	xe "github.com/sareeloom/storefront/pkg/errors"
)

type sentinel struct{}

func (sentinel) Error() string { return "sentinel for test" }

func createError(message string) error {
	return xe.New(message)
}

func TestLocated(t *testing.T) {
	t.Run("it knows where it is created", func(t *testing.T) {
		err := createError("test error")
		_, thisFile, _, _ := runtime.Caller(0)

		if !strings.Contains(err.Error(), "createError") {
			t.Errorf("function name is missing: %s", err)
		}
		if !strings.Contains(err.Error(), thisFile) {
			t.Errorf("file name (%s) is missing: %s", thisFile, err)
		}
	})

	t.Run("it supports errors.Is through wraps", func(t *testing.T) {
		err := xe.Wrap(fmt.Errorf("%w", fmt.Errorf("%w", sentinel{})))
		if !errors.Is(err, sentinel{}) {
			t.Errorf("unwrapping is broken: %s", err)
		}
	})

	t.Run("it keeps notes", func(t *testing.T) {
		err := xe.WrapWithNote("loading order", sentinel{})
		if !strings.Contains(err.Error(), "(loading order)") {
			t.Errorf("note is missing: %s", err)
		}
	})

	t.Run("wrapping nil is nil", func(t *testing.T) {
		if err := xe.Wrap(nil); err != nil {
			t.Errorf("unexpected: %v", err)
		}
	})
}
