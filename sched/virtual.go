package sched

import "time"

// FrameInterval is the frame period of a Virtual clock.
const FrameInterval = time.Second / 60

// Virtual is a deterministic scheduler driven by explicit Advance calls.
// Timers are kept in due order; ties fire in the order they were scheduled.
type Virtual struct {
	now    time.Duration
	nextID TaskID
	timers []timer
	frames []frame
	firing []frame

	lastFrame time.Duration
}

type timer struct {
	id  TaskID
	due time.Duration
	fn  func()
}

type frame struct {
	id TaskID
	fn func(now time.Duration)
}

// NewVirtual creates a virtual clock at time zero.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Duration {
	return v.now
}

// Seconds returns the current virtual time in seconds.
func (v *Virtual) Seconds() float64 {
	return v.now.Seconds()
}

// After schedules fn at now+d.
func (v *Virtual) After(d time.Duration, fn func()) TaskID {
	if d < 0 {
		d = 0
	}
	v.nextID++
	t := timer{id: v.nextID, due: v.now + d, fn: fn}

	i := len(v.timers)
	for i > 0 && v.timers[i-1].due > t.due {
		i--
	}
	v.timers = append(v.timers, timer{})
	copy(v.timers[i+1:], v.timers[i:])
	v.timers[i] = t
	return t.id
}

// NextFrame queues fn for the next frame boundary.
func (v *Virtual) NextFrame(fn func(now time.Duration)) TaskID {
	v.nextID++
	v.frames = append(v.frames, frame{id: v.nextID, fn: fn})
	return v.nextID
}

// Cancel removes a pending timer or frame callback.
func (v *Virtual) Cancel(id TaskID) bool {
	for i, t := range v.timers {
		if t.id == id {
			v.timers = append(v.timers[:i], v.timers[i+1:]...)
			return true
		}
	}
	for i, f := range v.frames {
		if f.id == id {
			v.frames = append(v.frames[:i], v.frames[i+1:]...)
			return true
		}
	}
	for i := range v.firing {
		if v.firing[i].id == id && v.firing[i].fn != nil {
			v.firing[i].fn = nil
			return true
		}
	}
	return false
}

// Pending returns the number of queued timers and frame callbacks.
func (v *Virtual) Pending() int {
	return len(v.timers) + len(v.frames)
}

// Advance moves the clock forward by d. At each frame boundary it fires the
// timers due by then, then the frame callbacks queued before the boundary.
func (v *Virtual) Advance(d time.Duration) {
	end := v.now + d
	for {
		next := v.lastFrame + FrameInterval
		if next > end {
			break
		}
		v.fireTimers(next)
		v.now = next
		v.lastFrame = next
		v.fireFrames()
	}
	v.fireTimers(end)
	v.now = end
}

// Step advances exactly one frame.
func (v *Virtual) Step() {
	v.Advance(FrameInterval)
}

func (v *Virtual) fireTimers(until time.Duration) {
	for len(v.timers) > 0 && v.timers[0].due <= until {
		t := v.timers[0]
		v.timers = v.timers[1:]
		if t.due > v.now {
			v.now = t.due
		}
		t.fn()
	}
}

func (v *Virtual) fireFrames() {
	v.firing = v.frames
	v.frames = nil
	for i := range v.firing {
		fn := v.firing[i].fn
		if fn == nil {
			continue
		}
		v.firing[i].fn = nil
		fn(v.now)
	}
	v.firing = nil
}
