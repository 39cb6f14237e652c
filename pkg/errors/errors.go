// Package errors provides an error wrapper remembering where it was created.
//
// Usage:
//
//	return xe.Wrap(err)
//
// The message of a wrapped error reads like
//
//	@ pkg.Func "/path/to/file.go" l42 <- cause
//
// so chained wraps print a rough stack of the places which marked the error.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// Located is an error annotated with the location where it was wrapped.
type Located struct {
	fn   string
	file string
	line int
	note string
	err  error
}

func (l *Located) Func() string { return l.fn }

func (l *Located) File() string { return l.file }

func (l *Located) Line() int { return l.line }

func (l *Located) Error() string {
	if l.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, l.fn, l.file, l.line, l.err)
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, l.fn, l.file, l.line, l.note, l.err)
}

func (l *Located) Unwrap() error {
	return l.err
}

// New creates a located error with the message.
func New(message string) error {
	return locate(errors.New(message), "", 1)
}

// Wrap marks err with the caller's location. Wrap(nil) is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return locate(err, "", 1)
}

// WrapWithNote is Wrap with a short human readable note.
func WrapWithNote(note string, err error) error {
	if err == nil {
		return nil
	}
	return locate(err, note, 1)
}

// WrapAsOuter marks err with the location of depth-th caller of the caller.
//
// Use it in helpers which build errors on behalf of their callers.
func WrapAsOuter(err error, depth int) error {
	if err == nil {
		return nil
	}
	return locate(err, "", depth+1)
}

func locate(err error, note string, depth int) error {
	fn := "(unknown func)"
	pc, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		file, line = "?", -1
	}
	if f := runtime.FuncForPC(pc); f != nil {
		fn = f.Name()
	}
	return &Located{fn: fn, file: file, line: line, note: note, err: err}
}
