package component

import "github.com/l1jgo/ecsim/internal/core/ecs"

// Component kinds. Zero is reserved so an unset kind never matches.
const (
	KindNumber ecs.ComponentKind = iota + 1
	KindDay
	KindPosition
	KindVelocity
	KindScore
	KindClock
)

var kindNames = map[ecs.ComponentKind]string{
	KindNumber:   "Number",
	KindDay:      "Day",
	KindPosition: "Position",
	KindVelocity: "Velocity",
	KindScore:    "Score",
	KindClock:    "Clock",
}

// KindName returns a display name for k.
func KindName(k ecs.ComponentKind) string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}
