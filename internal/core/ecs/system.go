package ecs

import (
	"context"
	"fmt"
	"time"
)

// Mode says how the scheduler drives a system.
type Mode int

const (
	ModeFast        Mode = iota // runs to completion inside every tick
	ModeLongRunning             // spawns a background task that may span ticks
)

func (m Mode) String() string {
	switch m {
	case ModeFast:
		return "fast"
	case ModeLongRunning:
		return "long-running"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// SystemID is a stable handle assigned at registration. IDs are dense and
// start at zero, in registration order.
type SystemID uint32

// System is a fast system. All fast systems of a tick run concurrently and
// see the same dt; systems must only touch the component kinds they own and
// must not add components or entities during Update.
type System interface {
	Update(w *World, dt time.Duration) error
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, dt time.Duration) error

func (f SystemFunc) Update(w *World, dt time.Duration) error { return f(w, dt) }

// Commit applies the result of a finished task to the world. It runs on the
// tick timeline, on the tick that observes the task's completion.
type Commit func(w *World)

// Task is the detached unit of work of a long-running system. It must not
// touch the world; anything it wants to change goes in the returned Commit.
// The context is only cancelled by World.Close: the scheduler itself never
// cancels or times out a task, so a task that never returns leaves its system
// running forever.
type Task func(ctx context.Context) (Commit, error)

// LongRunningSystem is called on the tick timeline whenever the system has no
// task in flight. It captures whatever input it needs from w and returns the
// Task to run in the background, or nil to stay idle this tick.
type LongRunningSystem interface {
	Update(w *World, dt time.Duration) Task
}

// LongRunningFunc adapts a function to LongRunningSystem.
type LongRunningFunc func(w *World, dt time.Duration) Task

func (f LongRunningFunc) Update(w *World, dt time.Duration) Task { return f(w, dt) }

// SystemError identifies the system behind a failure.
type SystemError struct {
	ID   SystemID
	Name string
	Err  error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("system %s (#%d): %v", e.Name, e.ID, e.Err)
}

func (e *SystemError) Unwrap() error { return e.Err }

type systemEntry struct {
	id   SystemID
	name string
	mode Mode
	fast System
	long LongRunningSystem
}

func (s *systemEntry) runFast(w *World, dt time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.fast.Update(w, dt)
}

func (s *systemEntry) begin(w *World, dt time.Duration) (task Task, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.long.Update(w, dt), nil
}
