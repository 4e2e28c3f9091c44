package system

import (
	"time"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
)

// MovementSystem integrates Position by Velocity×dt. Fast.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World, dt time.Duration) error {
	sec := dt.Seconds()
	ecs.Each2(w, component.KindPosition, component.KindVelocity,
		func(_ *ecs.Entity, p *component.Position, v *component.Velocity) {
			p.X += v.X * sec
			p.Y += v.Y * sec
		})
	return nil
}
