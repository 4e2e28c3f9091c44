package ecs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/l1jgo/ecsim/internal/core/event"
	"go.uber.org/zap"
)

var (
	// ErrReentrantUpdate is returned when Update is called while another
	// Update on the same world has not returned.
	ErrReentrantUpdate = errors.New("ecs: reentrant world update")
	// ErrClosed is returned by Update after Close.
	ErrClosed = errors.New("ecs: world closed")
)

// World is the top-level ECS container. It owns the entities, the systems and
// the long-running task table, and drives one tick per Update call.
type World struct {
	log  *zap.Logger
	pool *EntityPool
	bus  *event.Bus

	entities []*Entity
	byID     map[EntityID]*Entity

	systems []*systemEntry
	fast    []*systemEntry
	long    []*systemEntry

	// Task arena indexed by SystemID; nil means no entry yet.
	tasks    []*taskHandle
	counters []taskCounters

	tick     uint64
	updating atomic.Bool
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) { w.log = log }
}

// WithEntityPool makes the world draw IDs from p instead of the process pool.
func WithEntityPool(p *EntityPool) Option {
	return func(w *World) { w.pool = p }
}

func NewWorld(opts ...Option) *World {
	w := &World{
		log:      zap.NewNop(),
		pool:     &processPool,
		bus:      event.NewBus(),
		entities: make([]*Entity, 0, 64),
		byID:     make(map[EntityID]*Entity, 64),
		systems:  make([]*systemEntry, 0, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	return w
}

func (w *World) Bus() *event.Bus     { return w.bus }
func (w *World) Log() *zap.Logger    { return w.log }
func (w *World) Tick() uint64        { return w.tick }
func (w *World) Entities() []*Entity { return w.entities }

// NewEntity creates an entity with the given components and registers it.
func (w *World) NewEntity(components ...Component) *Entity {
	e := newEntity(w.pool.Create())
	for _, c := range components {
		w.AddComponent(e, c)
	}
	w.entities = append(w.entities, e)
	w.byID[e.id] = e
	event.Emit(w.bus, event.EntityCreated{EntityID: uint64(e.id)})
	return e
}

// Entity looks up a registered entity.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	e, ok := w.byID[id]
	return e, ok
}

// AddComponent attaches c to e, replacing any component of the same kind.
func (w *World) AddComponent(e *Entity, c Component) {
	e.Add(c)
	w.log.Debug("added component",
		zap.String("component", fmt.Sprintf("%T", c)),
		zap.Uint64("entity", uint64(e.id)),
	)
}

// GetComponent returns e's component of the given kind, if any.
func (w *World) GetComponent(e *Entity, kind ComponentKind) (Component, bool) {
	return e.Get(kind)
}

// AddSystem registers a fast system.
func (w *World) AddSystem(name string, s System) SystemID {
	if s == nil {
		panic("ecs: nil system " + name)
	}
	return w.register(&systemEntry{name: name, mode: ModeFast, fast: s})
}

// AddLongRunning registers a long-running system.
func (w *World) AddLongRunning(name string, s LongRunningSystem) SystemID {
	if s == nil {
		panic("ecs: nil long-running system " + name)
	}
	return w.register(&systemEntry{name: name, mode: ModeLongRunning, long: s})
}

func (w *World) register(s *systemEntry) SystemID {
	s.id = SystemID(len(w.systems))
	w.systems = append(w.systems, s)
	w.tasks = append(w.tasks, nil)
	w.counters = append(w.counters, taskCounters{})
	if s.mode == ModeFast {
		w.fast = append(w.fast, s)
	} else {
		w.long = append(w.long, s)
	}
	return s.id
}

// SystemName returns the name a system was registered under.
func (w *World) SystemName(id SystemID) string {
	if int(id) >= len(w.systems) {
		return ""
	}
	return w.systems[id].name
}

// SystemMode returns how a system is scheduled.
func (w *World) SystemMode(id SystemID) (Mode, bool) {
	if int(id) >= len(w.systems) {
		return 0, false
	}
	return w.systems[id].mode, true
}

// Systems returns the number of registered systems.
func (w *World) Systems() int { return len(w.systems) }

// TaskStatus reports the task table entry of a long-running system.
func (w *World) TaskStatus(id SystemID) (TaskStatus, bool) {
	if int(id) >= len(w.systems) || w.systems[id].mode != ModeLongRunning {
		return TaskStatus{}, false
	}
	c := w.counters[id]
	st := TaskStatus{Spawned: c.spawned, Succeeded: c.succeeded, Failed: c.failed}
	h := w.tasks[id]
	switch {
	case h == nil:
		st.State = TaskIdle
	case h.done:
		st.State = TaskDone
		st.Err = h.err
		st.StartedTick = h.startedTick
		st.SettledTick = h.settledTick
	default:
		st.State = TaskRunning
		st.StartedTick = h.startedTick
	}
	return st, true
}

// InFlight reports whether the system has a task whose completion the
// scheduler has not yet observed.
func (w *World) InFlight(id SystemID) bool {
	st, ok := w.TaskStatus(id)
	return ok && st.State == TaskRunning
}

// Close cancels the context handed to tasks and waits for every spawned task
// goroutine to return. Update fails with ErrClosed afterwards.
func (w *World) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.cancel()
	w.wg.Wait()
}
