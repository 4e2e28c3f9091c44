package system

import (
	"fmt"
	"time"

	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/scripting"
	"go.uber.org/multierr"
)

// ScoreSystem runs the Lua on_tick hook for every Score component. Fast.
// It is the only user of its engine, so the VM is never shared between
// goroutines.
type ScoreSystem struct {
	engine *scripting.Engine
}

func NewScoreSystem(engine *scripting.Engine) *ScoreSystem {
	return &ScoreSystem{engine: engine}
}

func (s *ScoreSystem) Update(w *ecs.World, dt time.Duration) error {
	var errs error
	tick := w.Tick()
	ecs.Each(w, component.KindScore, func(e *ecs.Entity, sc *component.Score) {
		v, err := s.engine.ScoreTick(scripting.ScoreContext{
			EntityID: uint64(e.ID()),
			Score:    sc.Value,
			DT:       dt.Seconds(),
			Tick:     tick,
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entity %d: %w", e.ID(), err))
			return
		}
		sc.Value = v
	})
	return errs
}
