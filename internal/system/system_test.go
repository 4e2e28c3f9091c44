package system

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/ecsim/internal/component"
	"github.com/l1jgo/ecsim/internal/core/ecs"
	"github.com/l1jgo/ecsim/internal/persist"
	"github.com/l1jgo/ecsim/internal/scripting"
	"go.uber.org/zap"
)

func newTestWorld() *ecs.World {
	return ecs.NewWorld(ecs.WithEntityPool(&ecs.EntityPool{}))
}

// tickUntil keeps ticking until cond holds or the deadline passes.
func tickUntil(t *testing.T, w *ecs.World, dt time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		if err := w.Update(dt); err != nil {
			t.Fatal(err)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNumberAndDayOverFiveSeconds(t *testing.T) {
	w := newTestWorld()
	e1 := w.NewEntity(&component.Number{Value: 0}, &component.Day{Day: time.Monday})
	e2 := w.NewEntity(&component.Number{Value: 10}, &component.Day{Day: time.Wednesday})
	days := NewIncrementDaySystem(2 * time.Second)
	w.AddSystem("increment_number", NewIncrementNumberSystem())
	w.AddSystem("increment_day", days)

	for i := 0; i < 5; i++ {
		if err := w.Update(time.Second); err != nil {
			t.Fatal(err)
		}
	}

	n1, _ := ecs.Get[*component.Number](e1, component.KindNumber)
	n2, _ := ecs.Get[*component.Number](e2, component.KindNumber)
	if n1.Value != 5 || n2.Value != 15 {
		t.Fatalf("numbers = %d, %d; want 5, 15", n1.Value, n2.Value)
	}
	d1, _ := ecs.Get[*component.Day](e1, component.KindDay)
	d2, _ := ecs.Get[*component.Day](e2, component.KindDay)
	if d1.Day != time.Wednesday || d2.Day != time.Friday {
		t.Fatalf("days = %v, %v; want Wednesday, Friday", d1.Day, d2.Day)
	}
	if days.Accumulated() != time.Second {
		t.Fatalf("accumulated = %v, want 1s", days.Accumulated())
	}
}

func TestDayCatchesUpOnLongTick(t *testing.T) {
	w := newTestWorld()
	e := w.NewEntity(&component.Day{Day: time.Monday})
	w.AddSystem("increment_day", NewIncrementDaySystem(2*time.Second))

	w.Update(5 * time.Second)
	d, _ := ecs.Get[*component.Day](e, component.KindDay)
	if d.Day != time.Wednesday {
		t.Fatalf("day = %v, want Wednesday", d.Day)
	}
}

func TestDayIntervalMustBePositive(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("NewIncrementDaySystem(%v) did not panic", interval)
				}
			}()
			NewIncrementDaySystem(interval)
		}()
	}
}

func TestMovement(t *testing.T) {
	w := newTestWorld()
	moving := w.NewEntity(&component.Position{X: 1, Y: 1}, &component.Velocity{X: 2, Y: -4})
	still := w.NewEntity(&component.Position{X: 3, Y: 3})
	w.AddSystem("movement", NewMovementSystem())

	w.Update(500 * time.Millisecond)
	w.Update(500 * time.Millisecond)

	p, _ := ecs.Get[*component.Position](moving, component.KindPosition)
	if p.X != 3 || p.Y != -3 {
		t.Fatalf("moving = %+v, want {3 -3}", *p)
	}
	q, _ := ecs.Get[*component.Position](still, component.KindPosition)
	if q.X != 3 || q.Y != 3 {
		t.Fatalf("still entity moved: %+v", *q)
	}
}

func TestScoreSystem(t *testing.T) {
	engine, err := scripting.NewEngineFromSource(
		`function on_tick(ctx) return ctx.score + ctx.dt * 10 end`, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	w := newTestWorld()
	e := w.NewEntity(&component.Score{Value: 1})
	w.NewEntity(&component.Number{})
	w.AddSystem("score", NewScoreSystem(engine))

	for i := 0; i < 3; i++ {
		if err := w.Update(100 * time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}
	sc, _ := ecs.Get[*component.Score](e, component.KindScore)
	if sc.Value < 3.999 || sc.Value > 4.001 {
		t.Fatalf("score = %v, want 4", sc.Value)
	}
}

func TestScoreSystemReportsScriptErrors(t *testing.T) {
	engine, err := scripting.NewEngineFromSource(`x = 1`, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	w := newTestWorld()
	w.NewEntity(&component.Score{Value: 2})
	w.AddSystem("score", NewScoreSystem(engine))

	err = w.Update(time.Second)
	if !errors.Is(err, scripting.ErrNoHook) {
		t.Fatalf("Update = %v, want ErrNoHook", err)
	}
}

type fakeSource struct {
	mu    sync.Mutex
	times []time.Time
	err   error
	calls int
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Now(context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return time.Time{}, s.err
	}
	t := s.times[0]
	if len(s.times) > 1 {
		s.times = s.times[1:]
	}
	return t, nil
}

func TestNetworkTimeStampsClocks(t *testing.T) {
	remote := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	src := &fakeSource{times: []time.Time{remote}}
	sys := NewNetworkTimeSystem(src)
	local := remote.Add(-time.Minute)
	sys.now = func() time.Time { return local }

	w := newTestWorld()
	e := w.NewEntity(&component.Clock{})
	id := w.AddLongRunning("network_time", sys)

	tickUntil(t, w, 100*time.Millisecond, func() bool {
		st, _ := w.TaskStatus(id)
		return st.Succeeded >= 1
	})

	c, _ := ecs.Get[*component.Clock](e, component.KindClock)
	if !c.Remote.Equal(remote) || c.Source != "fake" || c.Fetches != 1 {
		t.Fatalf("clock = %+v", *c)
	}
	if c.Offset() != time.Minute {
		t.Fatalf("offset = %v", c.Offset())
	}
	if last, ok := sys.Last(); !ok || !last.Equal(remote) {
		t.Fatalf("Last = %v, %v", last, ok)
	}
	w.Close()
}

func TestNetworkTimeFailureLeavesClockUntouched(t *testing.T) {
	src := &fakeSource{err: errors.New("dial tcp: i/o timeout")}
	sys := NewNetworkTimeSystem(src)
	w := newTestWorld()
	e := w.NewEntity(&component.Clock{})
	id := w.AddLongRunning("network_time", sys)

	tickUntil(t, w, 100*time.Millisecond, func() bool {
		st, _ := w.TaskStatus(id)
		return st.Failed >= 2
	})

	c, _ := ecs.Get[*component.Clock](e, component.KindClock)
	if c.Synced() {
		t.Fatalf("clock synced after failures: %+v", *c)
	}
	if _, ok := sys.Last(); ok {
		t.Fatal("Last reported a result")
	}
	w.Close()
}

type memStore struct {
	mu    sync.Mutex
	snaps []persist.Snapshot
	err   error
}

func (m *memStore) Save(_ context.Context, s persist.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.snaps = append(m.snaps, s)
	return nil
}

func (m *memStore) saved() []persist.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]persist.Snapshot(nil), m.snaps...)
}

func TestSnapshotSystem(t *testing.T) {
	store := &memStore{}
	runID := uuid.New()
	sys := NewSnapshotSystem(store, runID, 3, zap.NewNop())

	w := newTestWorld()
	w.NewEntity(&component.Number{Value: 7}, &component.Day{Day: time.Tuesday})
	w.NewEntity(&component.Position{X: 1.5, Y: 2}, &component.Score{Value: 9})
	w.AddSystem("increment_number", NewIncrementNumberSystem())
	id := w.AddLongRunning("snapshot", sys)

	tickUntil(t, w, 100*time.Millisecond, func() bool { return sys.Saved() >= 2 })
	w.Close()

	snaps := store.saved()
	if len(snaps) < 2 {
		t.Fatalf("saved %d snapshots", len(snaps))
	}
	first := snaps[0]
	if first.RunID != runID || first.Tick != 1 || len(first.Rows) != 2 {
		t.Fatalf("first snapshot = %+v", first)
	}
	// The fast phase runs before the long-running phase, so tick 1 sees 8.
	if r := first.Rows[0]; r.Number == nil || *r.Number != 8 || r.Day == nil || *r.Day != "Tuesday" || r.PosX != nil {
		t.Fatalf("row 0 = %+v", r)
	}
	if r := first.Rows[1]; r.Number != nil || r.PosX == nil || *r.PosX != 1.5 || r.Score == nil || *r.Score != 9 {
		t.Fatalf("row 1 = %+v", r)
	}
	if gap := snaps[1].Tick - snaps[0].Tick; gap < 3 {
		t.Fatalf("snapshots %d ticks apart, want >= 3", gap)
	}
	if st, _ := w.TaskStatus(id); st.Failed != 0 {
		t.Fatalf("status = %+v", st)
	}
}

func TestSnapshotFailureIsSwallowed(t *testing.T) {
	store := &memStore{err: errors.New("connection refused")}
	sys := NewSnapshotSystem(store, uuid.New(), 1, zap.NewNop())
	w := newTestWorld()
	w.NewEntity(&component.Number{})
	id := w.AddLongRunning("snapshot", sys)

	tickUntil(t, w, 100*time.Millisecond, func() bool {
		st, _ := w.TaskStatus(id)
		return st.Failed >= 1
	})
	if sys.Saved() != 0 {
		t.Fatalf("Saved = %d", sys.Saved())
	}
	w.Close()
}
