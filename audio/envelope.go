package audio

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidEnvelope is returned for envelopes with negative or non-finite
// durations or a sustain level outside [0, 1].
var ErrInvalidEnvelope = errors.New("audio: invalid envelope")

// ADSR is an attack/decay/sustain/release envelope. Durations are seconds,
// Sustain is a fraction of peak amplitude.
type ADSR struct {
	Attack  float64 `json:"attack" mapstructure:"attack"`
	Decay   float64 `json:"decay" mapstructure:"decay"`
	Sustain float64 `json:"sustain" mapstructure:"sustain"`
	Release float64 `json:"release" mapstructure:"release"`
}

// NewADSR returns a validated envelope.
func NewADSR(attack, decay, sustain, release float64) (ADSR, error) {
	e := ADSR{Attack: attack, Decay: decay, Sustain: sustain, Release: release}
	if err := e.Validate(); err != nil {
		return ADSR{}, err
	}
	return e, nil
}

// Validate checks the envelope bounds.
func (e ADSR) Validate() error {
	for name, v := range map[string]float64{"attack": e.Attack, "decay": e.Decay, "release": e.Release} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be >= 0, got %f", ErrInvalidEnvelope, name, v)
		}
	}
	if e.Sustain < 0 || e.Sustain > 1 || math.IsNaN(e.Sustain) {
		return fmt.Errorf("%w: sustain must be in [0,1], got %f", ErrInvalidEnvelope, e.Sustain)
	}
	return nil
}

// Reversed swaps attack and release.
func (e ADSR) Reversed() ADSR {
	e.Attack, e.Release = e.Release, e.Attack
	return e
}

// Hold returns attack plus decay, the time until the sustain level is reached.
func (e ADSR) Hold() float64 {
	return e.Attack + e.Decay
}
