package audio_test

import (
	"testing"
	"time"

	"github.com/simukka/spawnfield/audio"
)

// TestPlayChord_TabTiming tests that tab chord notes are staggered and self-release
func TestPlayChord_TabTiming(t *testing.T) {
	h := newHarness(t, "")
	p := h.e.PlayChord("profile")
	if p == nil {
		t.Fatal("Expected a pattern")
	}
	if h.e.ActiveVoices() != 1 {
		t.Errorf("Expected 1 voice at start, got %d", h.e.ActiveVoices())
	}

	h.clock.Advance(250 * time.Millisecond)
	if got := len(p.Voices()); got != 5 {
		t.Errorf("Expected 5 notes after 0.25s, got %d", got)
	}
	for _, v := range p.Voices() {
		if v.Waveform != audio.Sine {
			t.Errorf("Expected sine feedback voice, got %s", v.Waveform)
		}
	}

	h.clock.Advance(time.Second)
	if h.e.ActiveVoices() != 0 {
		t.Errorf("Expected chord to finish, got %d voices", h.e.ActiveVoices())
	}
	if h.e.Disposed() != 5 {
		t.Errorf("Expected 5 disposals, got %d", h.e.Disposed())
	}
}

// TestPlayChord_Welcome tests the two-stage welcome chord
func TestPlayChord_Welcome(t *testing.T) {
	h := newHarness(t, "")
	h.e.PlayChord(audio.ChordWelcome)
	if h.e.ActiveVoices() != 2 {
		t.Fatalf("Expected 2 voices, got %d", h.e.ActiveVoices())
	}
	g4, _ := audio.Frequency("G4")
	if v := h.e.Voices(); v[0].BaseFrequency != g4 && v[1].BaseFrequency != g4 {
		t.Error("Expected G4 in the first stage")
	}

	h.clock.Advance(500 * time.Millisecond)
	for _, v := range h.e.Voices() {
		if !v.Releasing() {
			t.Error("Expected first stage to be releasing at 0.5s")
		}
	}

	h.clock.Advance(300 * time.Millisecond)
	if h.e.ActiveVoices() != 4 {
		t.Errorf("Expected 4 voices at 0.8s, got %d", h.e.ActiveVoices())
	}

	h.clock.Advance(3 * time.Second)
	if h.e.ActiveVoices() != 0 || h.e.Disposed() != 4 {
		t.Errorf("Expected 4 disposed voices, got %d active and %d disposed", h.e.ActiveVoices(), h.e.Disposed())
	}
}

// TestPlayChord_Unknown tests that an unknown chord does nothing
func TestPlayChord_Unknown(t *testing.T) {
	h := newHarness(t, "")
	if p := h.e.PlayChord("settings"); p != nil {
		t.Error("Expected nil pattern")
	}
	if h.e.ActiveVoices() != 0 {
		t.Errorf("Expected no voices, got %d", h.e.ActiveVoices())
	}
}

// TestPlayPortfolioItem tests chakra chord construction
func TestPlayPortfolioItem(t *testing.T) {
	h := newHarness(t, "")

	cfg := h.e.PlayPortfolioItem(nil, nil, 2, true)
	if len(cfg.Frequencies) != 2 || cfg.Frequencies[0] != 528 || !almostEqual(cfg.Frequencies[1], 660, 1e-9) {
		t.Errorf("Expected [528 660], got %v", cfg.Frequencies)
	}
	if cfg.Envelope != audio.AudioConfig.EnvPortfolio {
		t.Errorf("Expected portfolio envelope, got %+v", cfg.Envelope)
	}
	if h.e.ActiveVoices() != 2 {
		t.Errorf("Expected 2 voices, got %d", h.e.ActiveVoices())
	}

	leaf := h.e.PlayPortfolioItem(nil, nil, 40, false)
	if leaf.Frequencies[0] != 396 || !almostEqual(leaf.Frequencies[1], 704, 1e-9) {
		t.Errorf("Expected fallback [396 704], got %v", leaf.Frequencies)
	}

	env := audio.ADSR{Attack: 0.2, Release: 0.3}
	custom := h.e.PlayPortfolioItem(&env, []float64{100, 200}, 0, true)
	if custom.Frequencies[1] != 200 || custom.Envelope != env {
		t.Errorf("Expected explicit config, got %+v", custom)
	}

	h.clock.Advance(2 * time.Second)
	if h.e.ActiveVoices() != 0 {
		t.Errorf("Expected portfolio cues to finish, got %d voices", h.e.ActiveVoices())
	}
}

// TestPlayPortfolioItem_CallerConfig tests that caller notes are kept and bad envelopes are refused
func TestPlayPortfolioItem_CallerConfig(t *testing.T) {
	h := newHarness(t, "")

	triad := h.e.PlayPortfolioItem(nil, []float64{300, 375, 450}, 1, true)
	if len(triad.Frequencies) != 3 || triad.Frequencies[2] != 450 {
		t.Errorf("Expected the caller's three notes, got %v", triad.Frequencies)
	}
	if h.e.ActiveVoices() != 3 {
		t.Errorf("Expected 3 voices, got %d", h.e.ActiveVoices())
	}

	bad := audio.ADSR{Attack: -1, Sustain: 0.5}
	h.e.PlayPortfolioItem(&bad, nil, 1, true)
	if h.e.ActiveVoices() != 3 {
		t.Errorf("Expected an invalid envelope to play nothing, got %d voices", h.e.ActiveVoices())
	}
	h.e.PlayPortfolioItem(nil, []float64{300, -5}, 1, true)
	if h.e.ActiveVoices() != 3 {
		t.Errorf("Expected a negative frequency to play nothing, got %d voices", h.e.ActiveVoices())
	}
}

// TestPlayReversed tests that the reversed cue swaps attack and release
func TestPlayReversed(t *testing.T) {
	h := newHarness(t, "")
	h.e.PlayReversed(audio.FeedbackConfig{})
	if h.e.ActiveVoices() != 0 {
		t.Errorf("Expected invalid config to be ignored, got %d voices", h.e.ActiveVoices())
	}

	env := audio.ADSR{Attack: 0.01, Decay: 0.5, Release: 0.1}
	cfg, err := audio.NewFeedbackConfig([]float64{396, 495}, env, 0)
	if err != nil {
		t.Fatal(err)
	}
	h.e.PlayReversed(cfg)
	vs := h.e.Voices()
	if len(vs) != 2 {
		t.Fatalf("Expected 2 voices, got %d", len(vs))
	}
	if vs[0].Envelope.Attack != 0.1 || vs[0].Envelope.Release != 0.01 {
		t.Errorf("Expected reversed envelope, got %+v", vs[0].Envelope)
	}
}

// TestHoverAudio tests hover preview tracking and release
func TestHoverAudio(t *testing.T) {
	h := newHarness(t, "")
	if hh := h.e.PlayHoverAudio(audio.FeedbackConfig{Frequencies: []float64{-1}}); hh != nil {
		t.Error("Expected nil handle for invalid config")
	}

	cfg := audio.FeedbackConfig{Frequencies: []float64{400, 500}, Envelope: audio.AudioConfig.EnvPortfolio}
	hh := h.e.PlayHoverAudio(cfg)
	if hh == nil {
		t.Fatal("Expected a hover handle")
	}
	if h.e.HoverCount() != 1 || h.e.HoverByID(hh.ID()) != hh {
		t.Errorf("Expected tracked handle, got %d", h.e.HoverCount())
	}
	if hh.Voices()[0].BaseFrequency != 200 || hh.Voices()[1].BaseFrequency != 250 {
		t.Errorf("Expected octave-down preview, got %f and %f", hh.Voices()[0].BaseFrequency, hh.Voices()[1].BaseFrequency)
	}
	h.clock.Advance(time.Second)
	if hh.Voices()[0].Active() == false {
		t.Error("Expected preview to sustain")
	}

	h.e.StopHoverAudio(hh)
	if h.e.HoverCount() != 0 {
		t.Errorf("Expected untracked handle, got %d", h.e.HoverCount())
	}
	h.clock.Advance(time.Second)
	if h.e.ActiveVoices() != 0 {
		t.Errorf("Expected preview released, got %d voices", h.e.ActiveVoices())
	}

	h.e.PlayHoverAudio(cfg)
	h.e.PlayHoverAudio(cfg)
	h.e.StopAllHoverAudio()
	if h.e.HoverCount() != 0 {
		t.Errorf("Expected no hover handles, got %d", h.e.HoverCount())
	}
}
