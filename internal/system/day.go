package system

import (
	"fmt"
	"time"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
)

// IncrementDaySystem advances every Day component once per interval of
// simulated time. Elapsed time accumulates across ticks and the remainder
// carries over, so a 1s tick with a 2s interval advances every other tick.
type IncrementDaySystem struct {
	interval    time.Duration
	accumulated time.Duration
}

// NewIncrementDaySystem panics if interval is not positive.
func NewIncrementDaySystem(interval time.Duration) *IncrementDaySystem {
	if interval <= 0 {
		panic(fmt.Sprintf("system: day interval must be positive, got %v", interval))
	}
	return &IncrementDaySystem{interval: interval}
}

func (s *IncrementDaySystem) Update(w *ecs.World, dt time.Duration) error {
	s.accumulated += dt
	for s.accumulated >= s.interval {
		ecs.Each(w, component.KindDay, func(_ *ecs.Entity, d *component.Day) {
			d.Advance()
		})
		s.accumulated -= s.interval
	}
	return nil
}

// Accumulated returns the simulated time not yet spent on a day step.
func (s *IncrementDaySystem) Accumulated() time.Duration { return s.accumulated }
