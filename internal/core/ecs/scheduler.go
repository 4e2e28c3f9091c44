package ecs

import (
	"fmt"
	"sync"
	"time"

	"github.com/l1jgo/ecsim/internal/core/event"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Update advances the world by one tick:
//
//  1. events emitted last tick are dispatched;
//  2. every fast system runs concurrently and the tick waits for all of them;
//  3. each long-running system, in registration order, either gets a new
//     task (no entry, or the previous one was observed done) or has its
//     in-flight task polled. Polling never blocks: a task that has not
//     finished is left for a later tick.
//
// Fast-system failures are logged individually and returned together once
// the long-running phase has run. Long-running failures are only logged.
func (w *World) Update(dt time.Duration) error {
	if w.closed {
		return ErrClosed
	}
	if !w.updating.CompareAndSwap(false, true) {
		return ErrReentrantUpdate
	}
	defer w.updating.Store(false)

	w.tick++
	w.bus.SwapBuffers()
	w.bus.DispatchAll()

	w.log.Debug("updating world",
		zap.Uint64("tick", w.tick),
		zap.Float64("seconds", dt.Seconds()),
	)

	err := w.runFast(dt)
	w.runLongRunning(dt)
	return err
}

func (w *World) runFast(dt time.Duration) error {
	if len(w.fast) == 0 {
		return nil
	}
	errs := make([]error, len(w.fast))
	var wg sync.WaitGroup
	wg.Add(len(w.fast))
	for i, s := range w.fast {
		i, s := i, s
		go func() {
			defer wg.Done()
			errs[i] = s.runFast(w, dt)
		}()
	}
	wg.Wait()

	var merr error
	for i, err := range errs {
		if err == nil {
			continue
		}
		s := w.fast[i]
		w.log.Error("fast system failed",
			zap.String("system", s.name),
			zap.Uint32("system_id", uint32(s.id)),
			zap.Uint64("tick", w.tick),
			zap.Error(err),
		)
		merr = multierr.Append(merr, &SystemError{ID: s.id, Name: s.name, Err: err})
	}
	return merr
}

func (w *World) runLongRunning(dt time.Duration) {
	for _, s := range w.long {
		h := w.tasks[s.id]
		if h == nil || h.done {
			w.spawn(s, dt)
			continue
		}
		w.observe(s, h)
	}
}

func (w *World) spawn(s *systemEntry, dt time.Duration) {
	task, err := s.begin(w, dt)
	if err == nil && task == nil {
		return
	}

	h := newTaskHandle(w.tick)
	w.tasks[s.id] = h
	w.counters[s.id].spawned++

	if err != nil {
		h.fail(fmt.Errorf("start task: %w", err))
	} else {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			h.run(w.ctx, task)
		}()
	}

	w.log.Debug("long-running task started",
		zap.String("system", s.name),
		zap.Uint32("system_id", uint32(s.id)),
		zap.Uint64("tick", w.tick),
	)
	event.Emit(w.bus, event.TaskStarted{SystemID: uint32(s.id), System: s.name, Tick: w.tick})
}

func (w *World) observe(s *systemEntry, h *taskHandle) {
	if !h.poll() {
		return
	}
	h.done = true
	h.settledTick = w.tick

	if h.err == nil && h.commit != nil {
		h.err = w.applyCommit(h.commit)
	}

	if h.err != nil {
		w.counters[s.id].failed++
		w.log.Warn("long-running task failed",
			zap.String("system", s.name),
			zap.Uint32("system_id", uint32(s.id)),
			zap.Uint64("tick", w.tick),
			zap.Uint64("started", h.startedTick),
			zap.Error(h.err),
		)
	} else {
		w.counters[s.id].succeeded++
		w.log.Info("long-running task finished",
			zap.String("system", s.name),
			zap.Uint32("system_id", uint32(s.id)),
			zap.Uint64("tick", w.tick),
			zap.Uint64("started", h.startedTick),
		)
	}
	event.Emit(w.bus, event.TaskSettled{SystemID: uint32(s.id), System: s.name, Tick: w.tick, Err: h.err})
}

func (w *World) applyCommit(c Commit) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("commit panic: %v", r)
		}
	}()
	c(w)
	return nil
}
