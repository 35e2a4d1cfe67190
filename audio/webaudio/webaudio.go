//go:build js
// +build js

// Package webaudio implements the audio graph over the browser Web Audio API.
package webaudio

import (
	"errors"

	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/spawnfield/audio"
	"github.com/simukka/spawnfield/common"
)

// ErrUnsupported is returned when the browser has no AudioContext.
var ErrUnsupported = errors.New("webaudio: AudioContext not supported")

// Context wraps an AudioContext.
type Context struct {
	ctx  *js.Object
	dest *node
	rng  *common.SeededRNG
}

var _ audio.Context = (*Context)(nil)

// NewContext creates an AudioContext, falling back to the webkit prefix.
func NewContext(rng *common.SeededRNG) (*Context, error) {
	audioCtx := js.Global.Get("AudioContext")
	if audioCtx == nil || audioCtx == js.Undefined {
		audioCtx = js.Global.Get("webkitAudioContext")
	}
	if audioCtx == nil || audioCtx == js.Undefined {
		return nil, ErrUnsupported
	}
	ctx := audioCtx.New()
	return &Context{
		ctx:  ctx,
		dest: &node{in: ctx.Get("destination")},
		rng:  rng,
	}, nil
}

// Object returns the underlying AudioContext.
func (c *Context) Object() *js.Object {
	return c.ctx
}

// CurrentTime returns the context time in seconds.
func (c *Context) CurrentTime() float64 {
	return c.ctx.Get("currentTime").Float()
}

// SampleRate returns the output rate.
func (c *Context) SampleRate() float64 {
	return c.ctx.Get("sampleRate").Float()
}

// Destination returns the speakers.
func (c *Context) Destination() audio.Node {
	return c.dest
}

// Resume resumes a suspended context.
func (c *Context) Resume() {
	if c.ctx.Get("state").String() == "suspended" {
		c.ctx.Call("resume")
	}
}

// NewOscillator creates an oscillator of shape w.
func (c *Context) NewOscillator(w audio.Waveform) audio.Oscillator {
	o := c.ctx.Call("createOscillator")
	o.Set("type", w.String())
	return &oscillator{node: node{in: o, out: o}}
}

// NewGain creates a gain node.
func (c *Context) NewGain() audio.Gain {
	g := c.ctx.Call("createGain")
	return &gain{node: node{in: g, out: g}}
}

// NewLowpass creates a lowpass biquad.
func (c *Context) NewLowpass() audio.Filter {
	f := c.ctx.Call("createBiquadFilter")
	f.Set("type", "lowpass")
	return &filter{node: node{in: f, out: f}}
}

// NewStereoPanner creates a stereo panner.
func (c *Context) NewStereoPanner() audio.Panner {
	p := c.ctx.Call("createStereoPanner")
	return &panner{node: node{in: p, out: p}}
}

// NewReverb builds input -> (convolver -> wet, dry) -> output with a
// synthetic impulse response.
func (c *Context) NewReverb(seconds, decay, wet float64) audio.Reverb {
	sampleRate := c.SampleRate()
	ir := audio.ImpulseResponse(sampleRate, seconds, decay, c.rng)

	impulse := c.ctx.Call("createBuffer", 2, len(ir[0]), sampleRate)
	for channel := 0; channel < 2; channel++ {
		channelData := impulse.Call("getChannelData", channel)
		for i, v := range ir[channel] {
			channelData.SetIndex(i, v)
		}
	}

	r := &reverb{
		entry:     c.ctx.Call("createGain"),
		convolver: c.ctx.Call("createConvolver"),
		wetGain:   c.ctx.Call("createGain"),
		dryGain:   c.ctx.Call("createGain"),
		exit:      c.ctx.Call("createGain"),
	}
	r.convolver.Set("buffer", impulse)
	r.wetGain.Get("gain").Set("value", wet)
	r.dryGain.Get("gain").Set("value", 1-wet)

	r.entry.Call("connect", r.convolver)
	r.convolver.Call("connect", r.wetGain)
	r.wetGain.Call("connect", r.exit)
	r.entry.Call("connect", r.dryGain)
	r.dryGain.Call("connect", r.exit)

	r.node = node{in: r.entry, out: r.exit}
	return r
}

// LoadBuffer fetches and decodes path. done runs from the promise callbacks.
func (c *Context) LoadBuffer(path string, done func(audio.BufferSource, error)) {
	fail := func(reason *js.Object) {
		done(nil, errors.New("webaudio: load "+path+": "+reason.String()))
	}
	js.Global.Call("fetch", path).Call("then", func(response *js.Object) {
		if !response.Get("ok").Bool() {
			done(nil, errors.New("webaudio: load "+path+": "+response.Get("statusText").String()))
			return
		}
		response.Call("arrayBuffer").Call("then", func(arrayBuffer *js.Object) {
			c.ctx.Call("decodeAudioData", arrayBuffer).Call("then", func(buffer *js.Object) {
				src := c.ctx.Call("createBufferSource")
				src.Set("buffer", buffer)
				done(&bufferSource{node: node{in: src, out: src}, duration: buffer.Get("duration").Float()}, nil)
			}, fail)
		}, fail)
	}, fail)
}

// node is any Web Audio node, or a composite with distinct input and output.
type node struct {
	in  *js.Object
	out *js.Object
}

func (n *node) input() *js.Object {
	return n.in
}

type inputNode interface {
	input() *js.Object
}

func (n *node) Connect(dst audio.Node) {
	d, ok := dst.(inputNode)
	if !ok || n.out == nil {
		return
	}
	n.out.Call("connect", d.input())
}

func (n *node) Disconnect() {
	if n.out != nil {
		n.out.Call("disconnect")
	}
}

type param struct {
	p *js.Object
}

func (p param) Value() float64 {
	return p.p.Get("value").Float()
}

func (p param) SetValueAtTime(v, t float64) {
	p.p.Call("setValueAtTime", v, t)
}

func (p param) LinearRampToValueAtTime(v, t float64) {
	p.p.Call("linearRampToValueAtTime", v, t)
}

func (p param) SetTargetAtTime(target, start, timeConstant float64) {
	p.p.Call("setTargetAtTime", target, start, timeConstant)
}

func (p param) CancelScheduledValues(t float64) {
	p.p.Call("cancelScheduledValues", t)
}

type oscillator struct {
	node
	stopped bool
}

func (o *oscillator) Frequency() audio.Param {
	return param{o.out.Get("frequency")}
}

func (o *oscillator) Start() {
	o.out.Call("start")
}

// Stop stops the oscillator. A second stop throws in some browsers.
func (o *oscillator) Stop() {
	if o.stopped {
		return
	}
	o.stopped = true
	o.out.Call("stop")
}

type gain struct {
	node
}

func (g *gain) Gain() audio.Param {
	return param{g.out.Get("gain")}
}

type filter struct {
	node
}

func (f *filter) Frequency() audio.Param {
	return param{f.out.Get("frequency")}
}

func (f *filter) Q() audio.Param {
	return param{f.out.Get("Q")}
}

type panner struct {
	node
}

func (p *panner) Pan() audio.Param {
	return param{p.out.Get("pan")}
}

type reverb struct {
	node
	entry, convolver, wetGain, dryGain, exit *js.Object
	disposed                                 bool
}

func (r *reverb) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	for _, n := range []*js.Object{r.entry, r.convolver, r.wetGain, r.dryGain, r.exit} {
		n.Call("disconnect")
	}
}

type bufferSource struct {
	node
	duration float64
	stopped  bool
}

func (b *bufferSource) Start() {
	b.out.Call("start", 0)
}

func (b *bufferSource) Stop() {
	if b.stopped {
		return
	}
	b.stopped = true
	b.out.Call("stop")
}

func (b *bufferSource) Duration() float64 {
	return b.duration
}
