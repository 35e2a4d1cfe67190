//go:build js
// +build js

package sched

import (
	"time"

	"github.com/gopherjs/gopherjs/js"
)

// Browser schedules callbacks with setTimeout and requestAnimationFrame.
type Browser struct {
	origin float64
	nextID TaskID
	timers map[TaskID]*js.Object
	frames map[TaskID]*js.Object
}

// NewBrowser creates a scheduler whose clock starts at the current performance.now().
func NewBrowser() *Browser {
	return &Browser{
		origin: performanceNow(),
		timers: make(map[TaskID]*js.Object),
		frames: make(map[TaskID]*js.Object),
	}
}

func performanceNow() float64 {
	perf := js.Global.Get("performance")
	if perf == nil || perf == js.Undefined {
		return js.Global.Get("Date").Call("now").Float()
	}
	return perf.Call("now").Float()
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Now returns the time since the scheduler was created.
func (b *Browser) Now() time.Duration {
	return msToDuration(performanceNow() - b.origin)
}

// After schedules fn with setTimeout.
func (b *Browser) After(d time.Duration, fn func()) TaskID {
	b.nextID++
	id := b.nextID
	handle := js.Global.Call("setTimeout", func() {
		delete(b.timers, id)
		fn()
	}, float64(d)/float64(time.Millisecond))
	b.timers[id] = handle
	return id
}

// NextFrame schedules fn with requestAnimationFrame.
func (b *Browser) NextFrame(fn func(now time.Duration)) TaskID {
	b.nextID++
	id := b.nextID
	handle := js.Global.Call("requestAnimationFrame", func(ts float64) {
		delete(b.frames, id)
		fn(msToDuration(ts - b.origin))
	})
	b.frames[id] = handle
	return id
}

// Cancel clears a pending timeout or animation frame.
func (b *Browser) Cancel(id TaskID) bool {
	if h, ok := b.timers[id]; ok {
		js.Global.Call("clearTimeout", h)
		delete(b.timers, id)
		return true
	}
	if h, ok := b.frames[id]; ok {
		js.Global.Call("cancelAnimationFrame", h)
		delete(b.frames, id)
		return true
	}
	return false
}
