package component

import "github.com/l1jgo/ecsim/internal/core/ecs"

// Position is a 2D world position in units.
type Position struct {
	X, Y float64
}

func (*Position) Kind() ecs.ComponentKind { return KindPosition }

// Velocity is in units per second.
type Velocity struct {
	X, Y float64
}

func (*Velocity) Kind() ecs.ComponentKind { return KindVelocity }
