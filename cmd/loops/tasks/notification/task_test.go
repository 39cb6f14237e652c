package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sareeloom/storefront/cmd/loops/tasks/notification"
)

type dispatcherFunc func(ctx context.Context, limit int) (int, error)

func (f dispatcherFunc) Dispatch(ctx context.Context, limit int) (int, error) {
	return f(ctx, limit)
}

func TestTask(t *testing.T) {
	for name, testcase := range map[string]struct {
		picked      int
		err         error
		wantUpdated bool
	}{
		"some are picked": {picked: 3, wantUpdated: true},
		"nothing to do":   {picked: 0, wantUpdated: false},
		"error":           {picked: 1, err: errors.New("db down"), wantUpdated: true},
	} {
		t.Run(name, func(t *testing.T) {
			limits := []int{}
			testee := notification.Task(dispatcherFunc(func(ctx context.Context, limit int) (int, error) {
				limits = append(limits, limit)
				return testcase.picked, testcase.err
			}), 0)

			stat, updated, err := testee(context.Background(), notification.Stat{Total: 10})
			if !errors.Is(err, testcase.err) {
				t.Errorf("unexpected error: %v", err)
			}
			if updated != testcase.wantUpdated {
				t.Errorf("updated: %v", updated)
			}
			if stat.Picked != testcase.picked || stat.Total != 10+testcase.picked {
				t.Errorf("stat: %+v", stat)
			}
			if len(limits) != 1 || limits[0] != 20 {
				t.Errorf("limits: %v", limits)
			}
		})
	}
}
