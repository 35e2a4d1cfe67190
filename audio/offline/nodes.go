package offline

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"

	"github.com/simukka/spawnfield/audio"
)

// processor is a node that can render one block of output.
type processor interface {
	base() *node
	process(q int64, out *block)
}

// node carries the connections and the per-block output cache shared by all
// node types.
type node struct {
	ctx     *Context
	self    processor
	inputs  []processor
	outputs []processor

	rendered int64
	out      block
	mix      block

	disconnects int
}

func (n *node) init(c *Context, self processor) {
	n.ctx = c
	n.self = self
	n.rendered = -1
}

func (n *node) base() *node {
	return n
}

// Connect routes this node's output into dst. Nodes from another backend
// are ignored.
func (n *node) Connect(dst audio.Node) {
	d, ok := dst.(processor)
	if !ok {
		return
	}
	d.base().inputs = append(d.base().inputs, n.self)
	n.outputs = append(n.outputs, d)
}

// Disconnect removes every outgoing connection.
func (n *node) Disconnect() {
	for _, d := range n.outputs {
		in := d.base().inputs
		for i := 0; i < len(in); i++ {
			if in[i] == n.self {
				in = append(in[:i], in[i+1:]...)
				i--
			}
		}
		d.base().inputs = in
	}
	n.outputs = nil
	n.disconnects++
}

// Disconnected reports whether Disconnect has been called and the node has
// no outputs.
func (n *node) Disconnected() bool {
	return n.disconnects > 0 && len(n.outputs) == 0
}

// Outputs returns the number of outgoing connections.
func (n *node) Outputs() int {
	return len(n.outputs)
}

// render returns the node's output for block q, processing it at most once.
func (n *node) render(q int64) *block {
	if n.rendered != q {
		n.rendered = q
		n.out = block{}
		n.self.process(q, &n.out)
	}
	return &n.out
}

// mixInputs sums the inputs for block q.
func (n *node) mixInputs(q int64) *block {
	n.mix = block{}
	for _, in := range n.inputs {
		b := in.base().render(q)
		for ch := 0; ch < 2; ch++ {
			for i := 0; i < Quantum; i++ {
				n.mix[ch][i] += b[ch][i]
			}
		}
	}
	return &n.mix
}

type destination struct {
	node
}

func (d *destination) process(q int64, out *block) {
	*out = *d.mixInputs(q)
}

// Oscillator is a naive (non band-limited) periodic source.
type Oscillator struct {
	node
	waveform audio.Waveform
	freq     *Param
	phase    float64

	started bool
	stops   int
}

// Frequency returns the frequency parameter.
func (o *Oscillator) Frequency() audio.Param {
	return o.freq
}

// Start starts the oscillator.
func (o *Oscillator) Start() {
	o.started = true
}

// Stop silences the oscillator. Every call is counted.
func (o *Oscillator) Stop() {
	o.stops++
}

// Waveform returns the oscillator shape.
func (o *Oscillator) Waveform() audio.Waveform {
	return o.waveform
}

// StopCount returns how many times Stop was called.
func (o *Oscillator) StopCount() int {
	return o.stops
}

// Playing reports whether the oscillator is started and not stopped.
func (o *Oscillator) Playing() bool {
	return o.started && o.stops == 0
}

func (o *Oscillator) process(q int64, out *block) {
	if !o.Playing() {
		return
	}
	sr := o.ctx.sampleRate
	step := o.freq.ValueAt(o.ctx.blockTime(q)) / sr
	for i := 0; i < Quantum; i++ {
		s := wave(o.waveform, o.phase)
		out[0][i] = s
		out[1][i] = s
		o.phase += step
		o.phase -= math.Floor(o.phase)
	}
}

func wave(w audio.Waveform, phase float64) float64 {
	switch w {
	case audio.Sawtooth:
		return 2*phase - 1
	case audio.Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	case audio.Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Gain scales its input sample by sample.
type Gain struct {
	node
	gain *Param
}

// Gain returns the gain parameter.
func (g *Gain) Gain() audio.Param {
	return g.gain
}

func (g *Gain) process(q int64, out *block) {
	in := g.mixInputs(q)
	t0 := g.ctx.blockTime(q)
	dt := 1 / g.ctx.sampleRate
	for i := 0; i < Quantum; i++ {
		k := g.gain.ValueAt(t0 + float64(i)*dt)
		out[0][i] = in[0][i] * k
		out[1][i] = in[1][i] * k
	}
}

// Panner is an equal-power stereo panner over a mono downmix of its input.
type Panner struct {
	node
	pan *Param
}

// Pan returns the pan parameter.
func (p *Panner) Pan() audio.Param {
	return p.pan
}

func (p *Panner) process(q int64, out *block) {
	in := p.mixInputs(q)
	pan := p.pan.ValueAt(p.ctx.blockTime(q))
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	x := (pan + 1) * math.Pi / 4
	l, r := math.Cos(x), math.Sin(x)
	for i := 0; i < Quantum; i++ {
		m := (in[0][i] + in[1][i]) / 2
		out[0][i] = m * l
		out[1][i] = m * r
	}
}

// Filter is a lowpass biquad per channel. Coefficients are redesigned when
// the cutoff or Q changes between blocks.
type Filter struct {
	node
	freq     *Param
	q        *Param
	sections [2]*biquad.Section
	lastF    float64
	lastQ    float64
}

func newFilter(c *Context) *Filter {
	f := &Filter{freq: newParam(c, 350), q: newParam(c, 1)}
	f.init(c, f)
	coeffs := design.Lowpass(350, 1, c.sampleRate)
	f.sections[0] = biquad.NewSection(coeffs)
	f.sections[1] = biquad.NewSection(coeffs)
	f.lastF, f.lastQ = 350, 1
	return f
}

// Frequency returns the cutoff parameter.
func (f *Filter) Frequency() audio.Param {
	return f.freq
}

// Q returns the resonance parameter.
func (f *Filter) Q() audio.Param {
	return f.q
}

func (f *Filter) process(q int64, out *block) {
	in := f.mixInputs(q)
	t := f.ctx.blockTime(q)
	nyquist := f.ctx.sampleRate / 2
	cutoff := math.Min(math.Max(f.freq.ValueAt(t), 10), nyquist*0.99)
	res := math.Max(f.q.ValueAt(t), 0.0001)
	if cutoff != f.lastF || res != f.lastQ {
		coeffs := design.Lowpass(cutoff, res, f.ctx.sampleRate)
		f.sections[0].Coefficients = coeffs
		f.sections[1].Coefficients = coeffs
		f.lastF, f.lastQ = cutoff, res
	}
	for ch := 0; ch < 2; ch++ {
		buf := in[ch][:]
		f.sections[ch].ProcessBlockTo(out[ch][:], buf)
	}
}
