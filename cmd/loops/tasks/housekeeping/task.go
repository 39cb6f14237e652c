package housekeeping

import (
	"context"
	"log"
	"time"

	"github.com/sareeloom/storefront/cmd/loops/recurring"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
)

// Cursor is the value carried between cycles.
type Cursor struct {
	// orders pending longer than this are cancelled.
	TTL time.Duration

	// orders cancelled per cycle at most.
	Batch int

	// orders cancelled since the loop started.
	Expired int
}

// initial value for task
func Seed(ttl time.Duration) Cursor {
	return Cursor{TTL: ttl, Batch: 50}
}

// return:
//
// - task: cancel orders left unpaid longer than TTL. Reserved stocks are not touched,
// since pending orders have not reserved them.
func Task(orders orderdb.OrderInterface, logger *log.Logger, now func() time.Time) recurring.Task[Cursor] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, cursor Cursor) (Cursor, bool, error) {
		expired, err := orders.ExpirePending(ctx, now().Add(-cursor.TTL), cursor.Batch)
		if err != nil {
			return cursor, false, err
		}
		for _, id := range expired {
			logger.Printf("order %s is expired without payment", id)
		}
		cursor.Expired += len(expired)
		return cursor, len(expired) == cursor.Batch, nil
	}
}
