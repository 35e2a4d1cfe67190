package spawn

// Phase is the lifecycle state of an animation record.
type Phase int

const (
	Spawning Phase = iota
	FadeIn
	Sustain
	FadeOut
	Stopping // Taken over by StopAll
	Disposed
)

var phaseNames = [...]string{"spawning", "fade-in", "sustain", "fade-out", "stopping", "disposed"}

func (p Phase) String() string {
	if p < Spawning || p > Disposed {
		return "unknown"
	}
	return phaseNames[p]
}

// Live reports whether the record still owns its element and voices.
func (p Phase) Live() bool {
	return p != Disposed
}

// phaseAt returns the loop phase for elapsed seconds into an animation.
func phaseAt(elapsed, duration, fadeIn, fadeStart float64) Phase {
	switch {
	case elapsed >= duration:
		return Disposed
	case elapsed > duration-fadeStart:
		return FadeOut
	case fadeIn > 0 && elapsed < fadeIn:
		return FadeIn
	default:
		return Sustain
	}
}

// transition reports whether a record may move from one phase to another.
// The loop only moves forward, Stopping is reachable from any live phase and
// Disposed is terminal.
func transition(from, to Phase) bool {
	switch {
	case from == Disposed:
		return false
	case from == Stopping:
		return to == Disposed
	case to == Stopping:
		return true
	default:
		return to >= from
	}
}
