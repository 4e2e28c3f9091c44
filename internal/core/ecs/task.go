package ecs

import (
	"context"
	"fmt"
)

// TaskState is the per-system view of the long-running task table.
type TaskState int

const (
	TaskIdle    TaskState = iota // no entry yet
	TaskRunning                  // entry registered, completion not yet observed
	TaskDone                     // completion observed; next tick spawns a new task
)

func (s TaskState) String() string {
	switch s {
	case TaskIdle:
		return "idle"
	case TaskRunning:
		return "running"
	case TaskDone:
		return "done"
	default:
		return fmt.Sprintf("TaskState(%d)", int(s))
	}
}

// TaskStatus is a snapshot of one long-running system's bookkeeping.
type TaskStatus struct {
	State       TaskState
	Err         error  // error of the last observed task, nil on success
	StartedTick uint64 // tick the current/last task was spawned on
	SettledTick uint64 // tick its completion was observed on, 0 while running
	Spawned     int    // tasks spawned so far
	Succeeded   int
	Failed      int
}

// taskHandle is one entry of the task arena. commit and err are written by the
// task goroutine before settled is closed; done and settledTick belong to the
// tick timeline.
type taskHandle struct {
	settled     chan struct{}
	commit      Commit
	err         error
	done        bool
	startedTick uint64
	settledTick uint64
}

func newTaskHandle(tick uint64) *taskHandle {
	return &taskHandle{
		settled:     make(chan struct{}),
		startedTick: tick,
	}
}

// poll reports whether the task has finished, without blocking.
func (h *taskHandle) poll() bool {
	select {
	case <-h.settled:
		return true
	default:
		return false
	}
}

// run executes task and records its outcome. It closes settled last.
func (h *taskHandle) run(ctx context.Context, task Task) {
	defer close(h.settled)
	defer func() {
		if r := recover(); r != nil {
			h.commit = nil
			h.err = fmt.Errorf("panic: %v", r)
		}
	}()
	h.commit, h.err = task(ctx)
}

// fail settles the handle immediately with err.
func (h *taskHandle) fail(err error) {
	h.err = err
	close(h.settled)
}

type taskCounters struct {
	spawned   int
	succeeded int
	failed    int
}
