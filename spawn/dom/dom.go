//go:build js
// +build js

// Package dom implements the spawn display over the browser DOM.
package dom

import (
	"strconv"
	"time"

	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/spawnfield/spawn"
)

// Ticker styling
const (
	TickerLeftMargin  = 20
	TickerRightMargin = 20
	TickerPadding     = 8
	TickerFontSize    = 12
)

const edgeMask = "linear-gradient(to right, transparent 0%, black 15%, black 85%, transparent 100%), " +
	"linear-gradient(to bottom, transparent 0%, black 15%, black 85%, transparent 100%)"

// Display appends spawned elements to a container and tracks the pointer.
type Display struct {
	doc       *js.Object
	container *js.Object

	pointerX, pointerY float64
}

var _ spawn.Display = (*Display)(nil)

// NewDisplay attaches to the element with the given id, or to the body.
func NewDisplay(containerID string) *Display {
	doc := js.Global.Get("document")
	container := doc.Get("body")
	if containerID != "" {
		if el := doc.Call("getElementById", containerID); el != nil && el != js.Undefined {
			container = el
		}
	}
	d := &Display{doc: doc, container: container}
	w, h := d.Size()
	d.pointerX, d.pointerY = w/2, h/2
	return d
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "px"
}

// Size returns the window's inner size.
func (d *Display) Size() (float64, float64) {
	return js.Global.Get("innerWidth").Float(), js.Global.Get("innerHeight").Float()
}

// Pointer returns the last mouse position.
func (d *Display) Pointer() (float64, float64) {
	return d.pointerX, d.pointerY
}

func (d *Display) media(tag, path string, x, y, maxWidth, maxHeight float64) *element {
	el := d.doc.Call("createElement", tag)
	el.Set("src", path)
	style := el.Get("style")
	style.Set("position", "absolute")
	style.Set("left", px(x))
	style.Set("top", px(y))
	style.Set("maxWidth", px(maxWidth))
	style.Set("maxHeight", px(maxHeight))
	style.Set("objectFit", "contain")
	style.Set("pointerEvents", "none")
	style.Set("zIndex", "10")
	style.Set("transform", "translate(-50%, -50%)")
	style.Set("transition", "opacity 1s ease-out")
	for _, prefix := range []string{"webkitMask", "mask"} {
		style.Set(prefix+"Image", edgeMask)
		style.Set(prefix+"Size", "100% 100%")
		style.Set(prefix+"Repeat", "no-repeat")
		style.Set(prefix+"Position", "center")
	}
	style.Set("webkitMaskComposite", "source-in")
	style.Set("maskComposite", "intersect")
	return &element{el: el}
}

// NewImage appends an <img>.
func (d *Display) NewImage(path string, x, y, maxWidth, maxHeight float64) spawn.Element {
	img := d.media("img", path, x, y, maxWidth, maxHeight)
	d.container.Call("appendChild", img.el)
	return img
}

// NewVideo appends a muted inline <video>. Its sound plays through the
// audio engine instead.
func (d *Display) NewVideo(path string, x, y, maxWidth, maxHeight float64) spawn.Video {
	v := &video{element: *d.media("video", path, x, y, maxWidth, maxHeight)}
	v.el.Set("muted", true)
	v.el.Set("loop", false)
	v.el.Set("playsInline", true)
	v.el.Set("preload", "auto")
	d.container.Call("appendChild", v.el)
	return v
}

// NewCaption appends a fixed ticker caption.
func (d *Display) NewCaption(text string) spawn.Caption {
	el := d.doc.Call("createElement", "div")
	el.Set("textContent", text)
	style := el.Get("style")
	style.Set("position", "fixed")
	style.Set("left", px(TickerLeftMargin))
	style.Set("padding", px(TickerPadding))
	style.Set("background", "radial-gradient(ellipse at center, rgba(0, 0, 0, 0.33) 0%, rgba(0, 0, 0, 0.165) 70%, rgba(0, 0, 0, 0) 100%)")
	style.Set("color", "white")
	style.Set("fontFamily", "Courier New")
	style.Set("fontSize", px(TickerFontSize))
	style.Set("borderRadius", "5px")
	style.Set("zIndex", "100")
	style.Set("transition", "bottom 0.3s ease-out")
	style.Set("pointerEvents", "none")
	style.Set("whiteSpace", "pre-line")
	style.Set("width", "fit-content")
	style.Set("maxWidth", "calc(100vw - "+px(TickerLeftMargin+TickerRightMargin)+")")
	d.doc.Get("body").Call("appendChild", el)
	return &caption{element: element{el: el}}
}

type element struct {
	el *js.Object
}

func (e *element) SetPosition(x, y float64) {
	style := e.el.Get("style")
	style.Set("left", px(x))
	style.Set("top", px(y))
}

func (e *element) SetScale(s float64) {
	e.el.Get("style").Set("transform", "translate(-50%, -50%) scale("+strconv.FormatFloat(s, 'f', 4, 64)+")")
}

func (e *element) SetOpacity(o float64) {
	e.el.Get("style").Set("opacity", strconv.FormatFloat(o, 'f', 4, 64))
}

func (e *element) FadeOut(d time.Duration) {
	style := e.el.Get("style")
	style.Set("transition", "opacity "+strconv.FormatInt(d.Milliseconds(), 10)+"ms ease-out")
	style.Set("opacity", "0")
}

func (e *element) Remove() {
	if parent := e.el.Get("parentNode"); parent != nil && parent != js.Undefined {
		parent.Call("removeChild", e.el)
	}
}

type video struct {
	element
}

func (v *video) OnMetadata(fn func(duration float64)) {
	v.el.Call("addEventListener", "loadedmetadata", func() {
		fn(v.el.Get("duration").Float())
	}, map[string]interface{}{"once": true})
}

func (v *video) SetPlaybackRate(rate float64) {
	v.el.Set("playbackRate", rate)
}

// Play starts playback. Autoplay rejections are logged by the browser and
// leave the element paused.
func (v *video) Play() {
	if p := v.el.Call("play"); p != nil && p != js.Undefined {
		p.Call("catch", func(err *js.Object) {
			js.Global.Get("console").Call("warn", "video play rejected:", err)
		})
	}
}

type caption struct {
	element
}

func (c *caption) SetBottom(bottom float64) {
	c.el.Get("style").Set("bottom", px(bottom))
}

func (c *caption) Height() float64 {
	return c.el.Get("offsetHeight").Float()
}
