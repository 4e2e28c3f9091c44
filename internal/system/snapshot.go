package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/persist"
	"go.uber.org/zap"
)

// SnapshotStore persists snapshots. *persist.SnapshotRepo implements it.
type SnapshotStore interface {
	Save(ctx context.Context, s persist.Snapshot) error
}

// SnapshotSystem periodically copies entity state and writes it to the store
// in the background. Long-running. Rows are captured on the tick timeline, so
// the write never races with fast systems.
type SnapshotSystem struct {
	store    SnapshotStore
	runID    uuid.UUID
	every    uint64 // ticks between captures
	log      *zap.Logger
	lastTick uint64
	saved    int
}

func NewSnapshotSystem(store SnapshotStore, runID uuid.UUID, everyTicks int, log *zap.Logger) *SnapshotSystem {
	if everyTicks < 1 {
		everyTicks = 1
	}
	return &SnapshotSystem{
		store: store,
		runID: runID,
		every: uint64(everyTicks),
		log:   log,
	}
}

// Saved returns how many snapshots have been written successfully.
func (s *SnapshotSystem) Saved() int { return s.saved }

func (s *SnapshotSystem) Update(w *ecs.World, _ time.Duration) ecs.Task {
	tick := w.Tick()
	if s.lastTick != 0 && tick-s.lastTick < s.every {
		return nil
	}
	s.lastTick = tick

	snap := persist.Snapshot{
		RunID: s.runID,
		Tick:  tick,
		Rows:  Capture(w),
	}
	return func(ctx context.Context) (ecs.Commit, error) {
		if err := s.store.Save(ctx, snap); err != nil {
			return nil, err
		}
		return func(*ecs.World) {
			s.saved++
			s.log.Debug("snapshot saved",
				zap.Uint64("tick", snap.Tick),
				zap.Int("rows", len(snap.Rows)),
			)
		}, nil
	}
}

// Capture copies the persisted component values of every entity.
func Capture(w *ecs.World) []persist.SnapshotRow {
	rows := make([]persist.SnapshotRow, 0, len(w.Entities()))
	for _, e := range w.Entities() {
		row := persist.SnapshotRow{EntityID: uint64(e.ID())}
		if n, ok := ecs.Get[*component.Number](e, component.KindNumber); ok {
			v := n.Value
			row.Number = &v
		}
		if d, ok := ecs.Get[*component.Day](e, component.KindDay); ok {
			v := d.Day.String()
			row.Day = &v
		}
		if p, ok := ecs.Get[*component.Position](e, component.KindPosition); ok {
			x, y := p.X, p.Y
			row.PosX, row.PosY = &x, &y
		}
		if sc, ok := ecs.Get[*component.Score](e, component.KindScore); ok {
			v := sc.Value
			row.Score = &v
		}
		rows = append(rows, row)
	}
	return rows
}
