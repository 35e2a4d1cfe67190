// Package offline renders the audio graph in pure Go. It is used by the
// headless preview and by tests, where its nodes expose the state that the
// browser graph keeps hidden (stop counts, disconnection, parameter values).
package offline

import (
	"math"
	"time"

	"github.com/simukka/spawnfield/audio"
	"github.com/simukka/spawnfield/common"
)

// Quantum is the number of frames rendered per block.
const Quantum = 128

// DefaultSampleRate is used when Options.SampleRate is zero.
const DefaultSampleRate = 48000

type block [2][Quantum]float64

// Options configures a Context.
type Options struct {
	SampleRate float64
	// Clock reports the current time in seconds. Nil follows the render
	// position.
	Clock func() float64
	// Deliver runs buffer-load callbacks. Nil runs them synchronously.
	Deliver func(fn func())
	// Root is prepended to paths passed to LoadBuffer.
	Root string
	Seed uint32
}

// Context is an offline audio.Context.
type Context struct {
	sampleRate float64
	clock      func() float64
	deliver    func(fn func())
	root       string
	rng        *common.SeededRNG

	dest    *destination
	quantum int64 // Next block to render

	spill    block
	spillPos int

	oscillators []*Oscillator
	reverbs     []*Reverb
	sources     []*BufferSource
}

var _ audio.Context = (*Context)(nil)

// NewContext creates an offline context.
func NewContext(opts Options) *Context {
	sr := opts.SampleRate
	if sr <= 0 {
		sr = DefaultSampleRate
	}
	c := &Context{
		sampleRate: sr,
		clock:      opts.Clock,
		deliver:    opts.Deliver,
		root:       opts.Root,
		rng:        common.NewSeededRNG(opts.Seed),
		spillPos:   Quantum,
	}
	c.dest = &destination{}
	c.dest.init(c, c.dest)
	return c
}

// CurrentTime returns the clock time, or the render position without a clock.
func (c *Context) CurrentTime() float64 {
	if c.clock != nil {
		return c.clock()
	}
	return c.RenderedTime()
}

// RenderedTime returns the duration rendered so far in seconds.
func (c *Context) RenderedTime() float64 {
	return float64(c.quantum*Quantum) / c.sampleRate
}

// SampleRate returns the render rate.
func (c *Context) SampleRate() float64 {
	return c.sampleRate
}

// Destination returns the graph output.
func (c *Context) Destination() audio.Node {
	return c.dest
}

// Resume does nothing; an offline context never suspends.
func (c *Context) Resume() {}

// NewOscillator creates a stopped oscillator.
func (c *Context) NewOscillator(w audio.Waveform) audio.Oscillator {
	o := &Oscillator{waveform: w, freq: newParam(c, 440)}
	o.init(c, o)
	c.oscillators = append(c.oscillators, o)
	return o
}

// NewGain creates a unity gain node.
func (c *Context) NewGain() audio.Gain {
	g := &Gain{gain: newParam(c, 1)}
	g.init(c, g)
	return g
}

// NewLowpass creates a lowpass biquad at 350 Hz, Q 1.
func (c *Context) NewLowpass() audio.Filter {
	return newFilter(c)
}

// NewStereoPanner creates a centered panner.
func (c *Context) NewStereoPanner() audio.Panner {
	p := &Panner{pan: newParam(c, 0)}
	p.init(c, p)
	return p
}

// NewReverb creates a convolution reverb over a synthetic room response.
func (c *Context) NewReverb(seconds, decay, wet float64) audio.Reverb {
	r := newReverb(c, audio.ImpulseResponse(c.sampleRate, seconds, decay, c.rng), wet)
	c.reverbs = append(c.reverbs, r)
	return r
}

// Oscillators returns every oscillator created so far.
func (c *Context) Oscillators() []*Oscillator {
	return c.oscillators
}

// Reverbs returns every reverb created so far.
func (c *Context) Reverbs() []*Reverb {
	return c.reverbs
}

// Sources returns every buffer source created so far.
func (c *Context) Sources() []*BufferSource {
	return c.sources
}

// Render renders frames of interleaved stereo output.
func (c *Context) Render(frames int) []float32 {
	out := make([]float32, 0, frames*2)
	for len(out) < frames*2 {
		if c.spillPos >= Quantum {
			c.spill = *c.dest.render(c.quantum)
			c.quantum++
			c.spillPos = 0
		}
		for c.spillPos < Quantum && len(out) < frames*2 {
			out = append(out, float32(c.spill[0][c.spillPos]), float32(c.spill[1][c.spillPos]))
			c.spillPos++
		}
	}
	return out
}

// RenderDuration renders d of output.
func (c *Context) RenderDuration(d time.Duration) []float32 {
	return c.Render(int(math.Round(d.Seconds() * c.sampleRate)))
}

// blockTime returns the time of the first frame of block q.
func (c *Context) blockTime(q int64) float64 {
	return float64(q*Quantum) / c.sampleRate
}
