//go:build js
// +build js

package dom

import (
	"regexp"

	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/spawnfield/spawn"
)

var iosAgent = regexp.MustCompile(`iPad|iPhone|iPod`)

// DetectDevice reads the touch and iOS flags from the browser.
func DetectDevice() spawn.Device {
	window := js.Global
	navigator := window.Get("navigator")
	touch := window.Get("ontouchstart") != js.Undefined
	if n := navigator.Get("maxTouchPoints"); n != js.Undefined && n.Int() > 0 {
		touch = true
	}
	ios := iosAgent.MatchString(navigator.Get("userAgent").String())
	// iPadOS reports itself as a Mac
	if navigator.Get("platform").String() == "MacIntel" && navigator.Get("maxTouchPoints").Int() > 1 {
		ios = true
	}
	return spawn.Device{IsTouch: touch, IsIOS: ios}
}

// Handlers are the page events the application reacts to.
type Handlers struct {
	Spawn      func(x, y float64) // Click or touch on the page
	Hidden     func()             // Tab hidden or window blurred
	Focus      func()             // Tab visible again or window focused
	TouchStart func()             // Every touchstart, before Spawn
}

// SetupInputHandlers tracks the pointer and registers the page listeners.
func (d *Display) SetupInputHandlers(h Handlers) {
	doc := d.doc

	doc.Call("addEventListener", "mousemove", func(event *js.Object) {
		d.pointerX = event.Get("clientX").Float()
		d.pointerY = event.Get("clientY").Float()
	})

	doc.Call("addEventListener", "click", func(event *js.Object) {
		if h.Spawn != nil {
			h.Spawn(event.Get("clientX").Float(), event.Get("clientY").Float())
		}
	})

	doc.Call("addEventListener", "touchstart", func(event *js.Object) {
		if h.TouchStart != nil {
			h.TouchStart()
		}
		touches := event.Get("touches")
		if touches.Length() == 0 || h.Spawn == nil {
			return
		}
		t := touches.Index(0)
		x, y := t.Get("clientX").Float(), t.Get("clientY").Float()
		d.pointerX, d.pointerY = x, y
		h.Spawn(x, y)
		// Suppress the synthesized click
		event.Call("preventDefault")
	}, map[string]interface{}{"passive": false})

	doc.Call("addEventListener", "visibilitychange", func() {
		if doc.Get("visibilityState").String() == "hidden" {
			if h.Hidden != nil {
				h.Hidden()
			}
		} else if h.Focus != nil {
			h.Focus()
		}
	})

	js.Global.Call("addEventListener", "blur", func() {
		if h.Hidden != nil {
			h.Hidden()
		}
	})

	js.Global.Call("addEventListener", "focus", func() {
		if h.Focus != nil {
			h.Focus()
		}
	})
}
