package sim

import "time"

// FrameID identifies a scheduled frame callback. Zero is never issued.
type FrameID uint64

// Scheduler is the host's per-frame callback facility.
type Scheduler interface {
	Request(fn func(now time.Time)) FrameID
	Cancel(id FrameID)
}

type pendingFrame struct {
	id FrameID
	fn func(time.Time)
}

// FrameQueue is a Scheduler that hosts flush once per display frame.
// Callbacks requested during a flush run on the next one.
type FrameQueue struct {
	next    FrameID
	pending []pendingFrame
	// running is the batch of the flush in progress.
	running []pendingFrame
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

func (q *FrameQueue) Request(fn func(time.Time)) FrameID {
	q.next++
	q.pending = append(q.pending, pendingFrame{id: q.next, fn: fn})
	return q.next
}

func (q *FrameQueue) Cancel(id FrameID) {
	for i := range q.pending {
		if q.pending[i].id == id {
			copy(q.pending[i:], q.pending[i+1:])
			q.pending[len(q.pending)-1] = pendingFrame{}
			q.pending = q.pending[:len(q.pending)-1]
			return
		}
	}
	for i := range q.running {
		if q.running[i].id == id {
			q.running[i].fn = nil
			return
		}
	}
}

// Flush runs every callback queued before the call and returns how many
// ran. A callback cancelled by an earlier one in the same flush is skipped.
func (q *FrameQueue) Flush(now time.Time) int {
	q.running = q.pending
	q.pending = nil
	n := 0
	for i := range q.running {
		fn := q.running[i].fn
		if fn == nil {
			continue
		}
		q.running[i].fn = nil
		fn(now)
		n++
	}
	q.running = nil
	return n
}

func (q *FrameQueue) Pending() int { return len(q.pending) }

// Loop reschedules step every frame until step returns false or Stop is
// called.
type Loop struct {
	sched   Scheduler
	step    func(now time.Time) bool
	id      FrameID
	gen     uint64
	running bool
}

func NewLoop(sched Scheduler, step func(now time.Time) bool) *Loop {
	return &Loop{sched: sched, step: step}
}

// Start schedules the next frame, replacing any frame already pending.
func (l *Loop) Start() {
	l.cancel()
	l.running = true
	l.schedule()
}

// Stop cancels the pending frame. Calling it again is a no-op.
func (l *Loop) Stop() {
	l.cancel()
	l.running = false
}

func (l *Loop) Running() bool { return l.running }

func (l *Loop) schedule() {
	gen := l.gen
	l.id = l.sched.Request(func(now time.Time) {
		if gen != l.gen {
			return
		}
		l.id = 0
		if !l.step(now) {
			if gen == l.gen {
				l.running = false
			}
			return
		}
		// step may have restarted or stopped the loop itself
		if gen == l.gen && l.running {
			l.schedule()
		}
	})
}

func (l *Loop) cancel() {
	l.gen++
	if l.id != 0 {
		l.sched.Cancel(l.id)
		l.id = 0
	}
}
