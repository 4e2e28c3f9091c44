package event

import (
	"errors"
	"testing"
)

func TestEmitIsDeliveredNextDispatch(t *testing.T) {
	b := NewBus()
	var got []TaskStarted
	Subscribe(b, func(ev TaskStarted) { got = append(got, ev) })

	Emit(b, TaskStarted{SystemID: 1, System: "clock", Tick: 3})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("event delivered before swap: %v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0].Tick != 3 {
		t.Fatalf("got %v, want one TaskStarted at tick 3", got)
	}

	// A second dispatch of the same front buffer must not replay events.
	b.DispatchAll()
	if len(got) != 1 {
		t.Fatalf("event replayed: %v", got)
	}
}

func TestHandlersOnlyReceiveTheirType(t *testing.T) {
	b := NewBus()
	started, settled := 0, 0
	var lastErr error
	Subscribe(b, func(TaskStarted) { started++ })
	Subscribe(b, func(ev TaskSettled) {
		settled++
		lastErr = ev.Err
	})

	boom := errors.New("boom")
	Emit(b, TaskSettled{SystemID: 2, Err: boom})
	Emit(b, TaskSettled{SystemID: 2})
	if b.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", b.Pending())
	}
	b.SwapBuffers()
	b.DispatchAll()

	if started != 0 || settled != 2 {
		t.Fatalf("started=%d settled=%d, want 0 and 2", started, settled)
	}
	if lastErr != nil {
		t.Fatalf("events out of order, last err = %v", lastErr)
	}
	if b.Pending() != 0 {
		t.Fatalf("Pending after swap = %d, want 0", b.Pending())
	}
}
