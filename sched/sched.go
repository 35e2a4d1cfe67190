// Package sched provides the cooperative timer and frame scheduling used by the
// audio engine and the animation driver.
//
// All callbacks run on a single goroutine (the browser event loop, or the
// goroutine advancing a Virtual clock), so scheduled work never needs locking.
package sched

import "time"

// TaskID identifies a pending timer or frame callback. Zero is never issued.
type TaskID uint64

// Scheduler is a source of deferred callbacks.
type Scheduler interface {
	// Now returns the time elapsed since the scheduler was created.
	Now() time.Duration
	// After runs fn once, d from now.
	After(d time.Duration, fn func()) TaskID
	// NextFrame runs fn on the next display frame with the frame time.
	NextFrame(fn func(now time.Duration)) TaskID
	// Cancel drops a pending callback. It reports whether the task was pending.
	Cancel(id TaskID) bool
}

// Tasks is an owned table of pending callbacks grouped by owner key.
// Every deferred callback an engine issues goes through its Tasks so that a
// global stop can cancel all of them.
type Tasks struct {
	s     Scheduler
	owned map[uint64]map[TaskID]struct{}
	owner map[TaskID]uint64
}

// NewTasks creates a task table over s.
func NewTasks(s Scheduler) *Tasks {
	return &Tasks{
		s:     s,
		owned: make(map[uint64]map[TaskID]struct{}),
		owner: make(map[TaskID]uint64),
	}
}

// Scheduler returns the underlying scheduler.
func (t *Tasks) Scheduler() Scheduler {
	return t.s
}

// Now returns the scheduler's current time.
func (t *Tasks) Now() time.Duration {
	return t.s.Now()
}

// After schedules fn for key, d from now.
func (t *Tasks) After(key uint64, d time.Duration, fn func()) TaskID {
	var id TaskID
	id = t.s.After(d, func() {
		t.forget(id)
		fn()
	})
	t.track(key, id)
	return id
}

// NextFrame schedules fn for key on the next frame.
func (t *Tasks) NextFrame(key uint64, fn func(now time.Duration)) TaskID {
	var id TaskID
	id = t.s.NextFrame(func(now time.Duration) {
		t.forget(id)
		fn(now)
	})
	t.track(key, id)
	return id
}

// Cancel drops a single task.
func (t *Tasks) Cancel(id TaskID) bool {
	if _, ok := t.owner[id]; !ok {
		return false
	}
	t.forget(id)
	return t.s.Cancel(id)
}

// CancelKey drops every pending task owned by key and returns how many were dropped.
func (t *Tasks) CancelKey(key uint64) int {
	ids := t.owned[key]
	n := 0
	for id := range ids {
		delete(t.owner, id)
		if t.s.Cancel(id) {
			n++
		}
	}
	delete(t.owned, key)
	return n
}

// CancelAll drops every pending task.
func (t *Tasks) CancelAll() int {
	n := 0
	for key := range t.owned {
		n += t.CancelKey(key)
	}
	return n
}

// Pending returns the number of tasks owned by key.
func (t *Tasks) Pending(key uint64) int {
	return len(t.owned[key])
}

// Len returns the number of pending tasks across all owners.
func (t *Tasks) Len() int {
	return len(t.owner)
}

func (t *Tasks) track(key uint64, id TaskID) {
	set, ok := t.owned[key]
	if !ok {
		set = make(map[TaskID]struct{})
		t.owned[key] = set
	}
	set[id] = struct{}{}
	t.owner[id] = key
}

func (t *Tasks) forget(id TaskID) {
	key, ok := t.owner[id]
	if !ok {
		return
	}
	delete(t.owner, id)
	if set := t.owned[key]; set != nil {
		delete(set, id)
		if len(set) == 0 {
			delete(t.owned, key)
		}
	}
}
