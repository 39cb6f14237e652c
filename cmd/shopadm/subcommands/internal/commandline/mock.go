// Package commandline has a flarc.Commandline for tests.
package commandline

import (
	"io"
	"strings"

	"github.com/youta-t/flarc"
)

// Mock is a flarc.Commandline with fixed flags and arguments.
//
// Nil In, Out or Err stands for an empty stdin or a discarded stream.
type Mock[T any] struct {
	Name string
	Flag T
	Arg  map[string][]string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

var _ flarc.Commandline[struct{}] = Mock[struct{}]{}

func (m Mock[T]) Fullname() string {
	return m.Name
}

func (m Mock[T]) Flags() T {
	return m.Flag
}

func (m Mock[T]) Args() map[string][]string {
	return m.Arg
}

func (m Mock[T]) Stdin() io.Reader {
	if m.In == nil {
		return strings.NewReader("")
	}
	return m.In
}

func (m Mock[T]) Stdout() io.Writer {
	if m.Out == nil {
		return io.Discard
	}
	return m.Out
}

func (m Mock[T]) Stderr() io.Writer {
	if m.Err == nil {
		return io.Discard
	}
	return m.Err
}
