// Package filewatch ties a context to files on disk.
package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext derives a context which is cancelled at the first change
// on one of paths (a file, or a directory and its direct entries).
//
// Empty paths are skipped. The cause of the cancellation names the changed file.
//
// When watching fails, it returns the error and nothing else.
func UntilModifyContext(ctx context.Context, paths ...string) (context.Context, context.CancelFunc, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, nil, err
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()
		select {
		case <-cctx.Done():
		case ev, ok := <-w.Events:
			if ok {
				cancel(fmt.Errorf("%s is updated (%s)", ev.Name, ev.Op))
			}
		}
	}()
	return cctx, func() { cancel(nil) }, nil
}
