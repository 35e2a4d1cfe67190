package audio

// Waveform selects an oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
	Triangle
	Square
)

// AutoWaveform lets the engine pick: sine while the profile is shown,
// sawtooth otherwise.
const AutoWaveform Waveform = -1

// String returns the Web Audio oscillator type name.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	case Square:
		return "square"
	default:
		return "unknown"
	}
}

// Param is an automatable audio parameter. Times are in context seconds.
type Param interface {
	Value() float64
	SetValueAtTime(v, t float64)
	LinearRampToValueAtTime(v, t float64)
	SetTargetAtTime(target, start, timeConstant float64)
	CancelScheduledValues(t float64)
}

// Node is a unit of the mixing graph.
type Node interface {
	Connect(dst Node)
	Disconnect()
}

// Oscillator is a periodic source.
type Oscillator interface {
	Node
	Frequency() Param
	Start()
	Stop()
}

// Gain scales its input.
type Gain interface {
	Node
	Gain() Param
}

// Filter is a lowpass biquad.
type Filter interface {
	Node
	Frequency() Param
	Q() Param
}

// Panner is an equal-power stereo panner.
type Panner interface {
	Node
	Pan() Param
}

// Reverb mixes its input with a synthetic room response. Connect routes
// its output.
type Reverb interface {
	Node
	Dispose()
}

// BufferSource plays a decoded media buffer once.
type BufferSource interface {
	Node
	Start()
	Stop()
	Duration() float64
}

// Context builds nodes and owns the output clock.
type Context interface {
	CurrentTime() float64
	SampleRate() float64
	Destination() Node
	Resume()

	NewOscillator(w Waveform) Oscillator
	NewGain() Gain
	NewLowpass() Filter
	NewStereoPanner() Panner
	// NewReverb creates a reverb of the given length and decay exponent with
	// wet in [0, 1].
	NewReverb(seconds, decay, wet float64) Reverb
	// LoadBuffer fetches and decodes path, then calls done on the engine's
	// goroutine with a source or an error.
	LoadBuffer(path string, done func(BufferSource, error))
}

// pin cancels automation on p and holds its current value from t.
func pin(p Param, t float64) float64 {
	v := p.Value()
	p.CancelScheduledValues(t)
	p.SetValueAtTime(v, t)
	return v
}

// rampTo pins p at t and ramps linearly to v over d seconds.
func rampTo(p Param, v, t, d float64) {
	pin(p, t)
	if d <= 0 {
		p.SetValueAtTime(v, t)
		return
	}
	p.LinearRampToValueAtTime(v, t+d)
}
