package sim

import (
	"testing"
	"time"
)

func TestFrameQueueFlushRunsQueuedBatch(t *testing.T) {
	q := NewFrameQueue()
	var ran []int
	q.Request(func(time.Time) {
		ran = append(ran, 1)
		q.Request(func(time.Time) { ran = append(ran, 3) })
	})
	q.Request(func(time.Time) { ran = append(ran, 2) })

	if n := q.Flush(time.Now()); n != 2 {
		t.Fatalf("expected 2 callbacks, got %d", n)
	}
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Fatalf("unexpected order %v", ran)
	}
	if q.Pending() != 1 {
		t.Fatalf("callback requested during flush should wait, pending=%d", q.Pending())
	}
	q.Flush(time.Now())
	if len(ran) != 3 {
		t.Fatalf("expected deferred callback to run, got %v", ran)
	}
}

func TestFrameQueueCancel(t *testing.T) {
	q := NewFrameQueue()
	called := false
	id := q.Request(func(time.Time) { called = true })
	if id == 0 {
		t.Fatal("frame ids start at 1")
	}
	q.Cancel(id)
	q.Cancel(id)
	if q.Flush(time.Now()) != 0 || called {
		t.Fatal("cancelled callback ran")
	}
}

func TestFrameQueueCancelDuringFlush(t *testing.T) {
	q := NewFrameQueue()
	var later FrameID
	laterRan := false
	q.Request(func(time.Time) { q.Cancel(later) })
	later = q.Request(func(time.Time) { laterRan = true })

	if n := q.Flush(time.Now()); n != 1 {
		t.Fatalf("expected 1 callback, got %d", n)
	}
	if laterRan {
		t.Fatal("callback cancelled earlier in the flush still ran")
	}
	if q.Flush(time.Now()) != 0 {
		t.Fatal("cancelled callback was requeued")
	}
}

func TestLoopRunsUntilStepFails(t *testing.T) {
	q := NewFrameQueue()
	steps := 0
	l := NewLoop(q, func(time.Time) bool {
		steps++
		return steps < 3
	})
	l.Start()
	for i := 0; i < 10; i++ {
		q.Flush(time.Now())
	}
	if steps != 3 {
		t.Errorf("expected 3 steps, got %d", steps)
	}
	if l.Running() {
		t.Error("loop should stop after step returns false")
	}
	if q.Pending() != 0 {
		t.Errorf("no frame should remain pending, got %d", q.Pending())
	}
}

func TestLoopStopIsIdempotent(t *testing.T) {
	q := NewFrameQueue()
	steps := 0
	l := NewLoop(q, func(time.Time) bool { steps++; return true })
	l.Start()
	q.Flush(time.Now())
	l.Stop()
	l.Stop()
	q.Flush(time.Now())
	if steps != 1 {
		t.Errorf("expected 1 step, got %d", steps)
	}
	if l.Running() || q.Pending() != 0 {
		t.Error("stopped loop left work behind")
	}
}

func TestLoopRestartKeepsSingleFrame(t *testing.T) {
	q := NewFrameQueue()
	l := NewLoop(q, func(time.Time) bool { return true })
	l.Start()
	l.Start()
	l.Start()
	if q.Pending() != 1 {
		t.Fatalf("expected one pending frame, got %d", q.Pending())
	}
}

// A scheduler that ignores Cancel still must not run a stale loop.
type leakyScheduler struct{ q *FrameQueue }

func (s leakyScheduler) Request(fn func(time.Time)) FrameID { return s.q.Request(fn) }
func (s leakyScheduler) Cancel(FrameID)                     {}

func TestLoopIgnoresStaleCallbacks(t *testing.T) {
	q := NewFrameQueue()
	steps := 0
	l := NewLoop(leakyScheduler{q}, func(time.Time) bool { steps++; return true })
	l.Start()
	l.Stop()
	q.Flush(time.Now())
	if steps != 0 {
		t.Errorf("stale frame ran %d steps", steps)
	}
}
