package audio

// Voice is one synthesized tone: oscillator -> amp -> lowpass -> panner, fanned
// out to the engine's reverb sends. A Voice belongs to exactly one owner and
// must be handed back through Engine.StopVoice.
type Voice struct {
	id uint64

	Waveform         Waveform
	BaseFrequency    float64
	Amplitude        float64 // Peak amplitude
	SustainAmplitude float64
	Envelope         ADSR
	VibratoRate      float64
	VibratoDepth     float64
	EnableVibrato    bool

	osc    Oscillator
	amp    Gain
	filter Filter
	panner Panner

	poolIndex int // Slot in the engine registry, -1 once disposed
	releasing bool
}

// ID returns the voice's engine-unique id.
func (v *Voice) ID() uint64 {
	return v.id
}

// Active reports whether the voice is still registered with its engine.
func (v *Voice) Active() bool {
	return v != nil && v.poolIndex >= 0
}

// Releasing reports whether a release fade has started.
func (v *Voice) Releasing() bool {
	return v.releasing
}

// Gain returns the current output gain of the voice.
func (v *Voice) Gain() float64 {
	return v.amp.Gain().Value()
}

// Cutoff returns the current lowpass cutoff.
func (v *Voice) Cutoff() float64 {
	return v.filter.Frequency().Value()
}

// Pan returns the current stereo position.
func (v *Voice) Pan() float64 {
	return v.panner.Pan().Value()
}

// Frequency returns the current oscillator frequency.
func (v *Voice) Frequency() float64 {
	return v.osc.Frequency().Value()
}

// voicePool is the engine's active-voice registry. Removal is swap-and-pop,
// so iteration order is not stable.
type voicePool struct {
	voices []*Voice
}

func (p *voicePool) add(v *Voice) {
	v.poolIndex = len(p.voices)
	p.voices = append(p.voices, v)
}

// remove deregisters v. It reports false if v was not registered.
func (p *voicePool) remove(v *Voice) bool {
	index := v.poolIndex
	if index < 0 || index >= len(p.voices) || p.voices[index] != v {
		return false
	}
	lastIndex := len(p.voices) - 1
	if index != lastIndex {
		p.voices[index] = p.voices[lastIndex]
		p.voices[index].poolIndex = index
	}
	p.voices[lastIndex] = nil
	p.voices = p.voices[:lastIndex]
	v.poolIndex = -1
	return true
}

func (p *voicePool) contains(v *Voice) bool {
	return v != nil && v.poolIndex >= 0 && v.poolIndex < len(p.voices) && p.voices[v.poolIndex] == v
}

// snapshot returns a copy of the registry, safe to iterate while voices are removed.
func (p *voicePool) snapshot() []*Voice {
	return append([]*Voice(nil), p.voices...)
}

// forEachReverse iterates over active voices in reverse order.
func (p *voicePool) forEachReverse(fn func(*Voice)) {
	for i := len(p.voices) - 1; i >= 0; i-- {
		fn(p.voices[i])
	}
}
