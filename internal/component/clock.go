package component

import (
	"time"

	"github.com/l1jgo/ecsim/internal/core/ecs"
)

// Clock holds the last remote time fetched by the network time system.
type Clock struct {
	Remote    time.Time // time reported by the source
	FetchedAt time.Time // local time the fetch completed
	Source    string
	Fetches   int
}

func (*Clock) Kind() ecs.ComponentKind { return KindClock }

// Synced reports whether at least one fetch has been applied.
func (c *Clock) Synced() bool { return c.Fetches > 0 }

// Offset is the remote time minus the local completion time.
func (c *Clock) Offset() time.Duration {
	if !c.Synced() {
		return 0
	}
	return c.Remote.Sub(c.FetchedAt)
}
