package system

import (
	"time"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
)

// IncrementNumberSystem adds one to every Number component each tick. Fast.
type IncrementNumberSystem struct{}

func NewIncrementNumberSystem() *IncrementNumberSystem {
	return &IncrementNumberSystem{}
}

func (s *IncrementNumberSystem) Update(w *ecs.World, _ time.Duration) error {
	ecs.Each(w, component.KindNumber, func(_ *ecs.Entity, n *component.Number) {
		n.Value++
	})
	return nil
}
