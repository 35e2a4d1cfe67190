package spawn

import "time"

// Headless is an in-memory Display. It records every element it creates,
// which lets previews and tests inspect the visual state.
type Headless struct {
	Width, Height float64
	PointerX      float64
	PointerY      float64

	Images   []*HeadlessElement
	Videos   []*HeadlessVideo
	Captions []*HeadlessCaption

	// CaptionHeight is the height reported by every caption.
	CaptionHeight float64
}

var _ Display = (*Headless)(nil)

// NewHeadless creates a display of the given size with the pointer centered.
func NewHeadless(width, height float64) *Headless {
	return &Headless{
		Width:         width,
		Height:        height,
		PointerX:      width / 2,
		PointerY:      height / 2,
		CaptionHeight: 18,
	}
}

// Size returns the viewport size.
func (h *Headless) Size() (float64, float64) {
	return h.Width, h.Height
}

// Pointer returns the last pointer position.
func (h *Headless) Pointer() (float64, float64) {
	return h.PointerX, h.PointerY
}

// MovePointer sets the pointer position.
func (h *Headless) MovePointer(x, y float64) {
	h.PointerX, h.PointerY = x, y
}

// NewImage records a new image element.
func (h *Headless) NewImage(path string, x, y, maxWidth, maxHeight float64) Element {
	el := &HeadlessElement{Path: path, X: x, Y: y, MaxWidth: maxWidth, MaxHeight: maxHeight, Scale: 1}
	h.Images = append(h.Images, el)
	return el
}

// NewVideo records a new video element.
func (h *Headless) NewVideo(path string, x, y, maxWidth, maxHeight float64) Video {
	v := &HeadlessVideo{HeadlessElement: HeadlessElement{Path: path, X: x, Y: y, MaxWidth: maxWidth, MaxHeight: maxHeight, Scale: 1}, Rate: 1}
	h.Videos = append(h.Videos, v)
	return v
}

// NewCaption records a new caption.
func (h *Headless) NewCaption(text string) Caption {
	c := &HeadlessCaption{Text: text, H: h.CaptionHeight}
	h.Captions = append(h.Captions, c)
	return c
}

// Live returns the number of images and videos not yet removed.
func (h *Headless) Live() int {
	n := 0
	for _, el := range h.Images {
		if !el.Removed {
			n++
		}
	}
	for _, v := range h.Videos {
		if !v.Removed {
			n++
		}
	}
	return n
}

// HeadlessElement is the recorded state of an element.
type HeadlessElement struct {
	Path                string
	X, Y                float64
	MaxWidth, MaxHeight float64
	Scale               float64
	Opacity             float64
	Fade                time.Duration // Last CSS fade-out requested
	Removed             bool
	Removals            int
}

func (el *HeadlessElement) SetPosition(x, y float64) { el.X, el.Y = x, y }
func (el *HeadlessElement) SetScale(s float64)       { el.Scale = s }
func (el *HeadlessElement) SetOpacity(o float64)     { el.Opacity = o }
func (el *HeadlessElement) FadeOut(d time.Duration)  { el.Fade = d }

func (el *HeadlessElement) Remove() {
	el.Removed = true
	el.Removals++
}

// HeadlessVideo is the recorded state of a video element.
type HeadlessVideo struct {
	HeadlessElement
	Rate     float64
	Playing  bool
	metadata func(float64)
}

func (v *HeadlessVideo) OnMetadata(fn func(duration float64)) { v.metadata = fn }
func (v *HeadlessVideo) SetPlaybackRate(rate float64)         { v.Rate = rate }
func (v *HeadlessVideo) Play()                                { v.Playing = true }

// LoadMetadata delivers the clip duration as a browser would once the
// video header is parsed.
func (v *HeadlessVideo) LoadMetadata(duration float64) {
	if v.metadata != nil {
		v.metadata(duration)
	}
}

// HeadlessCaption is the recorded state of a caption.
type HeadlessCaption struct {
	Text    string
	Bottom  float64
	H       float64
	Opacity float64
	Fade    time.Duration
	Removed bool
}

func (c *HeadlessCaption) SetBottom(px float64)    { c.Bottom = px }
func (c *HeadlessCaption) Height() float64         { return c.H }
func (c *HeadlessCaption) SetOpacity(o float64)    { c.Opacity = o }
func (c *HeadlessCaption) FadeOut(d time.Duration) { c.Fade = d }
func (c *HeadlessCaption) Remove()                 { c.Removed = true }
