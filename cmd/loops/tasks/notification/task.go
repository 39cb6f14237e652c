package notification

import (
	"context"

	"github.com/sareeloom/storefront/cmd/loops/recurring"
)

// Stat is the value carried between cycles.
type Stat struct {
	// notifications picked in the last cycle.
	Picked int

	// notifications picked since the loop started.
	Total int
}

type Dispatcher interface {
	Dispatch(ctx context.Context, limit int) (int, error)
}

func Seed() Stat {
	return Stat{}
}

// Task delivers at most batch notifications per cycle.
func Task(d Dispatcher, batch int) recurring.Task[Stat] {
	if batch < 1 {
		batch = 20
	}
	return func(ctx context.Context, s Stat) (Stat, bool, error) {
		picked, err := d.Dispatch(ctx, batch)
		s.Picked = picked
		s.Total += picked
		return s, 0 < picked, err
	}
}
