package audio

import (
	"fmt"
	"time"

	"github.com/simukka/spawnfield/common"
)

// FeedbackConfig describes a portfolio feedback chord so that it can be
// replayed in reverse when navigating back.
type FeedbackConfig struct {
	Frequencies []float64 `json:"frequencies"`
	Envelope    ADSR      `json:"adsr"`
	Depth       int       `json:"depth"`
}

// NewFeedbackConfig returns a validated feedback config.
func NewFeedbackConfig(freqs []float64, env ADSR, depth int) (FeedbackConfig, error) {
	c := FeedbackConfig{Frequencies: freqs, Envelope: env, Depth: depth}
	if err := c.Validate(); err != nil {
		return FeedbackConfig{}, err
	}
	return c, nil
}

// Validate checks that the config has at least one positive frequency and a
// valid envelope.
func (c FeedbackConfig) Validate() error {
	if len(c.Frequencies) == 0 {
		return fmt.Errorf("%w: feedback needs frequencies", ErrInvalidConfig)
	}
	for _, f := range c.Frequencies {
		if f <= 0 {
			return fmt.Errorf("%w: feedback frequency must be > 0, got %f", ErrInvalidConfig, f)
		}
	}
	return c.Envelope.Validate()
}

// HoverHandle owns the voices of one hover preview.
type HoverHandle struct {
	id     uint64
	voices []*Voice
}

// ID returns the handle id exposed to scripts.
func (h *HoverHandle) ID() uint64 {
	return h.id
}

// Voices returns the preview voices.
func (h *HoverHandle) Voices() []*Voice {
	return h.voices
}

// PlayChord plays a named feedback chord. Unknown names are logged and ignored.
func (e *Engine) PlayChord(name string) *Pattern {
	x, y := e.center()

	if name == ChordWelcome {
		env := e.cfg.EnvWelcomeChord
		first := 400 * time.Millisecond
		second := 750 * time.Millisecond
		return e.SpawnPattern([]NoteEvent{
			{Note: "G4", Hold: first},
			{Note: "Bb4", Hold: first},
			{At: second, Note: "G5", Hold: second},
			{At: second, Note: "Bb5", Hold: second},
		}, x, y, PatternOptions{Waveform: Sine, Envelope: &env})
	}

	preset, ok := ChordPresets[name]
	if !ok {
		common.DebugWarn("unknown chord:", name)
		return nil
	}
	env := e.cfg.EnvTab
	events := make([]NoteEvent, len(preset.Notes))
	for i, note := range preset.Notes {
		events[i] = NoteEvent{At: seconds(float64(i) * e.cfg.TabChordSpacing), Note: note}
	}
	return e.SpawnPattern(events, x, y, PatternOptions{Waveform: Sine, Envelope: &env, AutoRelease: true})
}

// PlayPortfolioItem plays a two-note cue for a portfolio menu item. Without
// explicit frequencies the chord is built on the depth's chakra root, a major
// third above for actionable items and a minor seventh for leaves. The
// returned config replays the cue with PlayReversed. An invalid config is
// logged and returned without playing.
func (e *Engine) PlayPortfolioItem(env *ADSR, freqs []float64, depth int, actionable bool) FeedbackConfig {
	adsr := e.cfg.EnvPortfolio
	if env != nil {
		adsr = *env
	}

	if len(freqs) == 0 {
		root, ok := DepthRoot(depth)
		if !ok {
			common.DebugWarn("portfolio depth out of range:", depth)
		}
		ratio := RatioLeaf
		if actionable {
			ratio = RatioActionable
		}
		freqs = []float64{root, root * ratio}
	}

	cfg := FeedbackConfig{Frequencies: freqs, Envelope: adsr, Depth: depth}
	if err := cfg.Validate(); err != nil {
		common.DebugWarn("portfolio feedback ignored:", err)
		return cfg
	}
	e.playFeedback(cfg)
	return cfg
}

// PlayReversed replays cfg with attack and release swapped.
func (e *Engine) PlayReversed(cfg FeedbackConfig) {
	if err := cfg.Validate(); err != nil {
		common.DebugWarn("reversed feedback ignored:", err)
		return
	}
	cfg.Envelope = cfg.Envelope.Reversed()
	e.playFeedback(cfg)
}

func (e *Engine) playFeedback(cfg FeedbackConfig) *Pattern {
	x, y := e.center()
	events := make([]NoteEvent, len(cfg.Frequencies))
	for i, f := range cfg.Frequencies {
		events[i] = NoteEvent{Frequency: f}
	}
	env := cfg.Envelope
	return e.SpawnPattern(events, x, y, PatternOptions{Waveform: Sine, Envelope: &env, AutoRelease: true})
}

// PlayHoverAudio starts a quiet sustained preview one octave below cfg. It
// returns nil for an invalid config.
func (e *Engine) PlayHoverAudio(cfg FeedbackConfig) *HoverHandle {
	if err := cfg.Validate(); err != nil {
		common.DebugWarn("hover audio ignored:", err)
		return nil
	}
	x, y := e.center()
	env := e.cfg.EnvHover
	h := &HoverHandle{id: e.newID()}
	for _, f := range cfg.Frequencies {
		h.voices = append(h.voices, e.SpawnVoice(VoiceParams{
			Waveform:            Sine,
			X:                   x,
			Y:                   y,
			Frequency:           f / 2,
			Envelope:            &env,
			AmplitudeMultiplier: e.cfg.HoverAmplitudeMult,
		}))
	}
	e.hovers = append(e.hovers, h)
	return h
}

// HoverByID finds a tracked hover handle.
func (e *Engine) HoverByID(id uint64) *HoverHandle {
	for _, h := range e.hovers {
		if h.id == id {
			return h
		}
	}
	return nil
}

// StopHoverAudio releases h's voices and stops tracking it.
func (e *Engine) StopHoverAudio(h *HoverHandle) {
	if h == nil {
		return
	}
	for i, tracked := range e.hovers {
		if tracked == h {
			e.hovers = append(e.hovers[:i], e.hovers[i+1:]...)
			break
		}
	}
	for _, v := range h.voices {
		e.StopVoice(v, false)
	}
}

// StopAllHoverAudio releases every hover preview.
func (e *Engine) StopAllHoverAudio() {
	hovers := e.hovers
	e.hovers = nil
	for _, h := range hovers {
		for _, v := range h.voices {
			e.StopVoice(v, false)
		}
	}
}

// HoverCount returns the number of tracked hover previews.
func (e *Engine) HoverCount() int {
	return len(e.hovers)
}
