package housekeeping_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/sareeloom/storefront/cmd/loops/tasks/housekeeping"
	ordermock "github.com/sareeloom/storefront/pkg/domain/order/db/mock"
)

func TestTask(t *testing.T) {
	now := time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC)
	logger := log.New(io.Discard, "", 0)

	for name, testcase := range map[string]struct {
		expired     []string
		err         error
		wantUpdated bool
		wantTotal   int
	}{
		"full batch: more backlog can be": {
			expired: []string{"o-1", "o-2"}, wantUpdated: true, wantTotal: 7,
		},
		"partial batch": {
			expired: []string{"o-1"}, wantUpdated: false, wantTotal: 6,
		},
		"nothing": {
			expired: []string{}, wantUpdated: false, wantTotal: 5,
		},
		"error": {
			err: errors.New("db down"), wantTotal: 5,
		},
	} {
		t.Run(name, func(t *testing.T) {
			orders := ordermock.NewOrderInterface()
			orders.Impl.ExpirePending = func(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
				return testcase.expired, testcase.err
			}

			testee := housekeeping.Task(orders, logger, func() time.Time { return now })
			cursor := housekeeping.Seed(30 * time.Minute)
			cursor.Batch = 2
			cursor.Expired = 5

			actual, updated, err := testee(context.Background(), cursor)
			if !errors.Is(err, testcase.err) {
				t.Errorf("unexpected error: %v", err)
			}
			if updated != testcase.wantUpdated {
				t.Errorf("updated: %v", updated)
			}
			if actual.Expired != testcase.wantTotal {
				t.Errorf("expired: %d", actual.Expired)
			}

			call := orders.Calls.ExpirePending
			if call.Times() != 1 {
				t.Fatalf("ExpirePending is called %d times", call.Times())
			}
			if !call[0].OlderThan.Equal(now.Add(-30*time.Minute)) || call[0].Limit != 2 {
				t.Errorf("ExpirePending: %+v", call[0])
			}
		})
	}
}

func TestSeed(t *testing.T) {
	s := housekeeping.Seed(time.Hour)
	if s.TTL != time.Hour || s.Batch != 50 || s.Expired != 0 {
		t.Errorf("unexpected seed: %+v", s)
	}
}
