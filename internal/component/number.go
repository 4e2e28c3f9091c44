package component

import "github.com/l1jgo/ecsim/internal/core/ecs"

// Number is a plain counter.
type Number struct {
	Value int
}

func (*Number) Kind() ecs.ComponentKind { return KindNumber }
