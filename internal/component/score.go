package component

import "github.com/l1jgo/ecsim/internal/core/ecs"

// Score is driven by the scripted score system.
type Score struct {
	Value float64
}

func (*Score) Kind() ecs.ComponentKind { return KindScore }
