package schedule

import (
	"testing"
	"time"
)

func TestAdvanceFiresInDeadlineOrder(t *testing.T) {
	s := New()
	var order []string

	s.After(50*time.Millisecond, func() { order = append(order, "c") })
	s.After(10*time.Millisecond, func() { order = append(order, "a") })
	s.After(30*time.Millisecond, func() { order = append(order, "b") })

	s.Advance(40 * time.Millisecond)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("Expected [a b], got %v", order)
	}
	if s.Pending() != 1 {
		t.Errorf("Expected 1 pending timer, got %d", s.Pending())
	}

	s.Advance(10 * time.Millisecond)
	if len(order) != 3 || order[2] != "c" {
		t.Errorf("Expected c to fire at its deadline, got %v", order)
	}
	if s.Now() != 50*time.Millisecond {
		t.Errorf("Expected clock at 50ms, got %v", s.Now())
	}
}

func TestEqualDeadlinesKeepInsertionOrder(t *testing.T) {
	s := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		s.After(time.Second, func() { order = append(order, i) })
	}
	s.Advance(time.Second)
	for i, v := range order {
		if v != i {
			t.Fatalf("Expected insertion order, got %v", order)
		}
	}
}

func TestCallbackSeesOwnDeadline(t *testing.T) {
	s := New()
	var seen time.Duration
	s.After(30*time.Millisecond, func() { seen = s.Now() })
	s.Advance(time.Second)
	if seen != 30*time.Millisecond {
		t.Errorf("Expected callback at 30ms, got %v", seen)
	}
	if s.Now() != time.Second {
		t.Errorf("Expected clock at 1s after advance, got %v", s.Now())
	}
}

func TestRescheduleFromCallback(t *testing.T) {
	s := New()
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		s.After(30*time.Millisecond, tick)
	}
	s.After(30*time.Millisecond, tick)

	s.Advance(100 * time.Millisecond)
	if ticks != 3 {
		t.Errorf("Expected 3 ticks in 100ms, got %d", ticks)
	}
	if s.Pending() != 1 {
		t.Errorf("Expected the chain to keep exactly one pending timer, got %d", s.Pending())
	}
}

func TestStop(t *testing.T) {
	s := New()
	fired := false
	timer := s.After(time.Second, func() { fired = true })

	if !timer.Active() {
		t.Error("Expected new timer to be active")
	}
	if got := timer.Remaining(); got != time.Second {
		t.Errorf("Expected 1s remaining, got %v", got)
	}
	if !timer.Stop() {
		t.Error("Expected first Stop to report true")
	}
	if timer.Stop() {
		t.Error("Expected second Stop to report false")
	}

	s.Advance(2 * time.Second)
	if fired {
		t.Error("Expected stopped timer not to fire")
	}

	var nilTimer *Timer
	if nilTimer.Stop() {
		t.Error("Expected Stop on nil timer to report false")
	}
}

func TestStopMiddleOfQueue(t *testing.T) {
	s := New()
	var order []int
	timers := make([]*Timer, 0, 4)
	for i := 0; i < 4; i++ {
		i := i
		timers = append(timers, s.After(time.Duration(i+1)*time.Millisecond, func() { order = append(order, i) }))
	}
	timers[1].Stop()
	timers[2].Stop()

	s.Advance(10 * time.Millisecond)
	if len(order) != 2 || order[0] != 0 || order[1] != 3 {
		t.Errorf("Expected [0 3], got %v", order)
	}
}

func TestFiredTimerInactive(t *testing.T) {
	s := New()
	timer := s.After(0, func() {})
	s.Advance(0)
	if timer.Active() {
		t.Error("Expected fired timer to be inactive")
	}
	if timer.Stop() {
		t.Error("Expected Stop on fired timer to report false")
	}
}
