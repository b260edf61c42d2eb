// Package schedule provides a single-threaded timer queue driven by an
// explicit clock. Nothing fires on its own: the owner advances time and the
// due callbacks run synchronously on the caller's goroutine, in deadline order.
package schedule

import (
	"container/heap"
	"time"
)

// Scheduler is a cooperative timer queue over a simulated clock.
// It is not safe for concurrent use; all calls must come from one goroutine.
type Scheduler struct {
	now   time.Duration
	queue timerQueue
	seq   uint64
}

// Timer is a handle to a scheduled callback.
type Timer struct {
	sched    *Scheduler
	deadline time.Duration
	seq      uint64 // Insertion order, breaks deadline ties
	fn       func()
	index    int // Position in the heap, -1 once fired or stopped
}

// New creates a scheduler with its clock at zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the scheduler's current time, measured from creation.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once the clock has advanced by d.
// A non-positive d fires on the next Advance call.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{
		sched:    s,
		deadline: s.now + d,
		seq:      s.seq,
		fn:       fn,
	}
	heap.Push(&s.queue, t)
	return t
}

// Advance moves the clock forward by d and runs every timer that becomes due,
// including timers scheduled by callbacks during this call. Each callback sees
// Now() equal to its own deadline.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := s.now + d
	for len(s.queue) > 0 && s.queue[0].deadline <= target {
		t := heap.Pop(&s.queue).(*Timer)
		s.now = t.deadline
		t.fn()
	}
	s.now = target
}

// Pending returns the number of timers waiting to fire.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Stop cancels the timer. Returns false if it already fired or was stopped.
// Stopping a nil timer is allowed.
func (t *Timer) Stop() bool {
	if !t.Active() {
		return false
	}
	heap.Remove(&t.sched.queue, t.index)
	return true
}

// Active reports whether the timer is still waiting to fire.
func (t *Timer) Active() bool {
	return t != nil && t.index >= 0
}

// Remaining returns how long until the timer fires, or 0 if it is not active.
func (t *Timer) Remaining() time.Duration {
	if !t.Active() {
		return 0
	}
	return t.deadline - t.sched.now
}

// timerQueue is a min-heap ordered by deadline, then insertion order.
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline != q[j].deadline {
		return q[i].deadline < q[j].deadline
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
