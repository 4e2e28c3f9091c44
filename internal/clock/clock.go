// Package clock provides remote time sources for the network time system.
// Every source call is an external round trip with its own latency and
// failure mode; callers run them off the tick timeline.
package clock

import (
	"context"
	"time"
)

// Source reports the current time according to some remote authority.
type Source interface {
	Now(ctx context.Context) (time.Time, error)
	Name() string
}
