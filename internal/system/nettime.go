package system

import (
	"context"
	"time"

	"github.com/l1jgo/ecsim/internal/clock"
	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
)

// NetworkTimeSystem fetches the time from a remote source and stamps it on
// every Clock component. Long-running: each fetch is a background task and a
// new one starts only after the previous result has been applied.
type NetworkTimeSystem struct {
	source clock.Source
	now    func() time.Time

	// Touched only on the tick timeline (Update and the commit).
	last    time.Time
	fetches int
}

func NewNetworkTimeSystem(source clock.Source) *NetworkTimeSystem {
	return &NetworkTimeSystem{source: source, now: time.Now}
}

// Last returns the most recently applied remote time.
func (s *NetworkTimeSystem) Last() (time.Time, bool) {
	return s.last, s.fetches > 0
}

func (s *NetworkTimeSystem) Update(_ *ecs.World, _ time.Duration) ecs.Task {
	return func(ctx context.Context) (ecs.Commit, error) {
		remote, err := s.source.Now(ctx)
		if err != nil {
			return nil, err
		}
		fetchedAt := s.now()
		return func(w *ecs.World) {
			s.last = remote
			s.fetches++
			ecs.Each(w, component.KindClock, func(_ *ecs.Entity, c *component.Clock) {
				c.Remote = remote
				c.FetchedAt = fetchedAt
				c.Source = s.source.Name()
				c.Fetches++
			})
		}, nil
	}
}
