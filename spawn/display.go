// Package spawn drives the paired visual and audio life of every spawned
// image and video.
package spawn

import "time"

// Element is a positioned visual on the page.
type Element interface {
	// SetPosition moves the element's center; renderers offset by half the size.
	SetPosition(x, y float64)
	SetScale(s float64)
	SetOpacity(o float64)
	// FadeOut transitions the element to transparent over d.
	FadeOut(d time.Duration)
	Remove()
}

// Video is an element backed by a video clip.
type Video interface {
	Element
	// OnMetadata registers fn to run once the clip duration, in seconds, is known.
	OnMetadata(fn func(duration float64))
	SetPlaybackRate(rate float64)
	Play()
}

// Caption is one entry of the caption ticker.
type Caption interface {
	// SetBottom places the caption bottom px above the viewport edge.
	SetBottom(px float64)
	Height() float64
	SetOpacity(o float64)
	FadeOut(d time.Duration)
	Remove()
}

// Display creates elements and reports the viewport and pointer.
type Display interface {
	Size() (width, height float64)
	Pointer() (x, y float64)
	NewImage(path string, x, y, maxWidth, maxHeight float64) Element
	NewVideo(path string, x, y, maxWidth, maxHeight float64) Video
	NewCaption(text string) Caption
}

// Device flags the input capabilities of the host.
type Device struct {
	IsTouch bool
	IsIOS   bool
}

// Item is one spawnable asset as the driver sees it.
type Item struct {
	Path    string
	Audio   string // Media track for videos; empty uses Path
	Caption string // Full ticker text; empty shows no caption
}

func (it Item) audioPath() string {
	if it.Audio != "" {
		return it.Audio
	}
	return it.Path
}
