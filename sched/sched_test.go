package sched

import (
	"testing"
	"time"
)

// TestVirtual_TimerOrder tests that timers fire in due order with FIFO ties
func TestVirtual_TimerOrder(t *testing.T) {
	v := NewVirtual()
	var order []string

	v.After(200*time.Millisecond, func() { order = append(order, "c") })
	v.After(100*time.Millisecond, func() { order = append(order, "a") })
	v.After(100*time.Millisecond, func() { order = append(order, "b") })

	v.Advance(time.Second)

	want := "abc"
	got := ""
	for _, s := range order {
		got += s
	}
	if got != want {
		t.Errorf("Expected order %q, got %q", want, got)
	}
}

// TestVirtual_TimerSeesDueTime tests that a timer observes its own due time as Now
func TestVirtual_TimerSeesDueTime(t *testing.T) {
	v := NewVirtual()
	var at time.Duration
	v.After(250*time.Millisecond, func() { at = v.Now() })
	v.Advance(time.Second)

	if at != 250*time.Millisecond {
		t.Errorf("Expected timer to fire at 250ms, got %v", at)
	}
	if v.Now() != time.Second {
		t.Errorf("Expected clock at 1s, got %v", v.Now())
	}
}

// TestVirtual_Cancel tests that cancelled timers never fire
func TestVirtual_Cancel(t *testing.T) {
	v := NewVirtual()
	fired := false
	id := v.After(50*time.Millisecond, func() { fired = true })

	if !v.Cancel(id) {
		t.Error("Expected Cancel to report a pending task")
	}
	if v.Cancel(id) {
		t.Error("Expected second Cancel to report nothing pending")
	}
	v.Advance(time.Second)
	if fired {
		t.Error("Expected cancelled timer not to fire")
	}
}

// TestVirtual_FramesRequeue tests that a frame callback requeued from itself runs once per frame
func TestVirtual_FramesRequeue(t *testing.T) {
	v := NewVirtual()
	count := 0
	var tick func(time.Duration)
	tick = func(time.Duration) {
		count++
		v.NextFrame(tick)
	}
	v.NextFrame(tick)

	v.Advance(time.Second)
	if count != 60 {
		t.Errorf("Expected 60 frames in one second, got %d", count)
	}
}

// TestVirtual_CancelDuringFrame tests that a frame cancelled by an earlier callback in the same batch does not run
func TestVirtual_CancelDuringFrame(t *testing.T) {
	v := NewVirtual()
	ran := false
	var second TaskID
	v.NextFrame(func(time.Duration) { v.Cancel(second) })
	second = v.NextFrame(func(time.Duration) { ran = true })

	v.Step()
	if ran {
		t.Error("Expected frame cancelled mid-batch not to run")
	}
}

// TestTasks_CancelKey tests that cancelling an owner drops only its tasks
func TestTasks_CancelKey(t *testing.T) {
	v := NewVirtual()
	tasks := NewTasks(v)
	var fired []uint64

	tasks.After(1, 10*time.Millisecond, func() { fired = append(fired, 1) })
	tasks.After(1, 20*time.Millisecond, func() { fired = append(fired, 1) })
	tasks.After(2, 30*time.Millisecond, func() { fired = append(fired, 2) })

	if n := tasks.CancelKey(1); n != 2 {
		t.Errorf("Expected 2 cancelled tasks, got %d", n)
	}
	v.Advance(time.Second)

	if len(fired) != 1 || fired[0] != 2 {
		t.Errorf("Expected only owner 2 to fire, got %v", fired)
	}
	if tasks.Len() != 0 {
		t.Errorf("Expected empty task table, got %d", tasks.Len())
	}
}

// TestTasks_FiredTasksAreForgotten tests that fired tasks leave the table
func TestTasks_FiredTasksAreForgotten(t *testing.T) {
	v := NewVirtual()
	tasks := NewTasks(v)
	tasks.After(5, 10*time.Millisecond, func() {})
	tasks.NextFrame(5, func(time.Duration) {})

	if tasks.Pending(5) != 2 {
		t.Errorf("Expected 2 pending tasks, got %d", tasks.Pending(5))
	}
	v.Advance(100 * time.Millisecond)
	if tasks.Pending(5) != 0 {
		t.Errorf("Expected 0 pending tasks, got %d", tasks.Pending(5))
	}
}

// TestTasks_CancelAll tests that CancelAll empties every owner
func TestTasks_CancelAll(t *testing.T) {
	v := NewVirtual()
	tasks := NewTasks(v)
	fired := 0
	for k := uint64(1); k <= 3; k++ {
		tasks.After(k, time.Duration(k)*time.Millisecond, func() { fired++ })
	}
	tasks.CancelAll()
	v.Advance(time.Second)

	if fired != 0 {
		t.Errorf("Expected no tasks to fire, got %d", fired)
	}
	if v.Pending() != 0 {
		t.Errorf("Expected scheduler to be empty, got %d", v.Pending())
	}
}
