package audio_test

import (
	"math"
	"testing"
	"time"

	"github.com/simukka/spawnfield/audio"
	"github.com/simukka/spawnfield/audio/offline"
	"github.com/simukka/spawnfield/common"
	"github.com/simukka/spawnfield/sched"
)

type view struct{ w, h float64 }

func (v view) Size() (float64, float64) { return v.w, v.h }

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

type harness struct {
	clock *sched.Virtual
	ctx   *offline.Context
	e     *audio.Engine
}

func newHarness(t *testing.T, root string) *harness {
	t.Helper()
	clock := sched.NewVirtual()
	ctx := offline.NewContext(offline.Options{SampleRate: 8000, Clock: clock.Seconds, Root: root, Seed: 1})
	h := &harness{clock: clock, ctx: ctx}
	h.e = newEngineOn(t, h, ctx)
	return h
}

func newEngineOn(t *testing.T, h *harness, ctx audio.Context) *audio.Engine {
	t.Helper()
	e, err := audio.NewEngine(ctx, h.clock, view{800, 600}, audio.Options{
		Config: audio.AudioConfig,
		RNG:    common.NewSeededRNG(42),
	})
	if err != nil {
		t.Fatalf("Expected engine, got %v", err)
	}
	return e
}

func (h *harness) oscillator(t *testing.T, v *audio.Voice) *offline.Oscillator {
	t.Helper()
	for _, o := range h.ctx.Oscillators() {
		if o.Frequency().Value() == v.Frequency() {
			return o
		}
	}
	t.Fatal("Expected an oscillator for the voice")
	return nil
}

// TestNewEngine_InvalidConfig tests that a bad config is rejected
func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := audio.AudioConfig
	cfg.AmplitudeFadeThrottle = 0
	_, err := audio.NewEngine(offline.NewContext(offline.Options{}), sched.NewVirtual(), nil, audio.Options{Config: cfg})
	if err == nil {
		t.Error("Expected error for zero throttle")
	}
}

// TestSpawnVoice_EnvelopeShape tests that gain rises over the attack, settles at
// sustain and falls to zero over the release
func TestSpawnVoice_EnvelopeShape(t *testing.T) {
	h := newHarness(t, "")
	v := h.e.SpawnVoice(audio.VoiceParams{Waveform: audio.Sawtooth, X: 400, Frequency: 311.13})

	if v.Gain() != 0 {
		t.Errorf("Expected zero gain at spawn, got %f", v.Gain())
	}
	if v.Pan() != 0 {
		t.Errorf("Expected centered pan, got %f", v.Pan())
	}

	env := v.Envelope
	prev := 0.0
	for i := 0; i < int(env.Attack*60); i++ {
		h.clock.Step()
		g := v.Gain()
		if g < prev-1e-12 {
			t.Fatalf("Expected rising attack, got %f after %f", g, prev)
		}
		prev = g
	}
	if !almostEqual(prev, v.Amplitude, 1e-6) {
		t.Errorf("Expected peak %f, got %f", v.Amplitude, prev)
	}

	h.clock.Advance(time.Second)
	if !almostEqual(v.Gain(), v.SustainAmplitude, 1e-6) {
		t.Errorf("Expected sustain %f, got %f", v.SustainAmplitude, v.Gain())
	}

	h.e.StopVoice(v, false)
	prev = v.Gain()
	for i := 0; i < 60*int(env.Release); i++ {
		h.clock.Step()
		g := v.Gain()
		if g > prev+1e-12 {
			t.Fatalf("Expected falling release, got %f after %f", g, prev)
		}
		prev = g
	}
	h.clock.Advance(time.Second)
	if v.Active() {
		t.Error("Expected voice to be disposed after release")
	}
}

// TestStopVoice_DisposesOnce tests that every stop path tears a voice down once
func TestStopVoice_DisposesOnce(t *testing.T) {
	h := newHarness(t, "")
	v := h.e.SpawnVoice(audio.VoiceParams{Waveform: audio.Sine, Frequency: 392})
	osc := h.oscillator(t, v)

	h.clock.Advance(200 * time.Millisecond)
	h.e.StopVoice(v, false)
	h.e.StopVoice(v, false)
	h.e.StopVoice(v, true)
	h.e.StopVoice(v, true)
	h.e.StopAll(time.Second)
	h.clock.Advance(10 * time.Second)

	if osc.StopCount() != 1 {
		t.Errorf("Expected 1 oscillator stop, got %d", osc.StopCount())
	}
	if !osc.Disconnected() {
		t.Error("Expected oscillator disconnected")
	}
	if h.e.Disposed() != 1 {
		t.Errorf("Expected 1 disposal, got %d", h.e.Disposed())
	}
	if h.e.ActiveVoices() != 0 || h.e.PendingTasks() != 0 {
		t.Errorf("Expected empty engine, got %d voices and %d tasks", h.e.ActiveVoices(), h.e.PendingTasks())
	}
}

// TestStopVoice_DuringAttack tests that the decay ramp never revives a releasing voice
func TestStopVoice_DuringAttack(t *testing.T) {
	h := newHarness(t, "")
	env := audio.ADSR{Attack: 0.5, Decay: 0.5, Sustain: 0.5, Release: 2}
	v := h.e.SpawnVoice(audio.VoiceParams{Waveform: audio.Sine, Frequency: 392, Envelope: &env})

	h.clock.Advance(250 * time.Millisecond)
	h.e.StopVoice(v, false)
	stopped := v.Gain()

	h.clock.Advance(500 * time.Millisecond)
	if g := v.Gain(); g >= stopped {
		t.Errorf("Expected gain below %f after the attack would have ended, got %f", stopped, g)
	}
}

// TestStopAll_FadesAndDisposes tests that stop-all silences and frees every voice
func TestStopAll_FadesAndDisposes(t *testing.T) {
	h := newHarness(t, "")
	var voices []*audio.Voice
	for _, x := range []float64{0, 400, 800} {
		voices = append(voices, h.e.SpawnVoice(audio.VoiceParams{Waveform: audio.Sawtooth, X: x}))
	}
	h.e.SpawnPattern([]audio.NoteEvent{{At: time.Second, Note: "C4"}}, 0, 0, audio.PatternOptions{})
	h.clock.Advance(500 * time.Millisecond)

	h.e.StopAll(2 * time.Second)
	h.clock.Advance(time.Second)
	if h.e.ActiveVoices() != 3 {
		t.Errorf("Expected 3 fading voices, got %d", h.e.ActiveVoices())
	}
	for _, v := range voices {
		if !v.Releasing() {
			t.Error("Expected voice to be releasing")
		}
	}

	h.clock.Advance(1100 * time.Millisecond)
	if h.e.ActiveVoices() != 0 {
		t.Errorf("Expected no voices, got %d", h.e.ActiveVoices())
	}
	if h.e.Disposed() != 3 {
		t.Errorf("Expected 3 disposals, got %d", h.e.Disposed())
	}
	if h.e.PendingTasks() != 0 {
		t.Errorf("Expected cancelled pattern, got %d pending tasks", h.e.PendingTasks())
	}
}

// TestSpawnVoice_Pan tests that x maps to the stereo field
func TestSpawnVoice_Pan(t *testing.T) {
	h := newHarness(t, "")
	left := h.e.SpawnVoice(audio.VoiceParams{X: 0})
	right := h.e.SpawnVoice(audio.VoiceParams{X: 800})
	if left.Pan() != -1 || right.Pan() != 1 {
		t.Errorf("Expected -1 and 1, got %f and %f", left.Pan(), right.Pan())
	}
	h.e.SetPan(left, 5)
	if left.Pan() != 1 {
		t.Errorf("Expected clamped pan 1, got %f", left.Pan())
	}
}

// TestMutators_SkipStaleVoices tests that disposed voices are left alone
func TestMutators_SkipStaleVoices(t *testing.T) {
	h := newHarness(t, "")
	v := h.e.SpawnVoice(audio.VoiceParams{Frequency: 392})
	h.e.StopVoice(v, true)

	pending := h.e.PendingTasks()
	h.e.SetCutoff(v, 100, 0.1)
	h.e.SetAmplitude(v, 1)
	h.e.FadeVoice(v, time.Second)
	h.e.StopVoice(v, false)
	if h.e.PendingTasks() != pending {
		t.Errorf("Expected no new tasks for a stale voice, got %d", h.e.PendingTasks())
	}
	if h.e.Disposed() != 1 {
		t.Errorf("Expected 1 disposal, got %d", h.e.Disposed())
	}
}

// TestUpdateEffects_IntenseBus tests that the intense send opens on hover and
// fades out once, on state change
func TestUpdateEffects_IntenseBus(t *testing.T) {
	h := newHarness(t, "")
	if h.e.IntenseLevel() != 0 {
		t.Errorf("Expected closed bus, got %f", h.e.IntenseLevel())
	}
	h.e.UpdateEffects(true)
	if h.e.IntenseLevel() != 1 {
		t.Errorf("Expected open bus, got %f", h.e.IntenseLevel())
	}

	h.e.UpdateEffects(false)
	for i := 0; i < 300; i++ {
		h.clock.Step()
		h.e.UpdateEffects(false)
	}
	if got := h.e.IntenseLevel(); !almostEqual(got, 0.5, 0.01) {
		t.Errorf("Expected half-closed bus after 5s, got %f", got)
	}
}

// TestUpdateEffects_Vibrato tests that only vibrato-enabled voices are modulated
func TestUpdateEffects_Vibrato(t *testing.T) {
	h := newHarness(t, "")
	saw := h.e.SpawnVoice(audio.VoiceParams{Waveform: audio.Sawtooth, Frequency: 311.13})
	sine := h.e.SpawnVoice(audio.VoiceParams{Waveform: audio.Sine, Frequency: 392})

	for i := 0; i < audio.AudioConfig.UpdateThrottle; i++ {
		h.e.UpdateEffects(true)
	}
	h.clock.Advance(200 * time.Millisecond)
	if saw.Frequency() == saw.BaseFrequency {
		t.Error("Expected sawtooth frequency to move")
	}
	if math.Abs(saw.Frequency()-saw.BaseFrequency) > audio.AudioConfig.VibratoDepthMax {
		t.Errorf("Expected vibrato within depth, got %f", saw.Frequency()-saw.BaseFrequency)
	}
	if sine.Frequency() != 392 {
		t.Errorf("Expected sine untouched, got %f", sine.Frequency())
	}

	h.e.UpdateEffects(false)
	h.clock.Advance(time.Second)
	if saw.Frequency() != saw.BaseFrequency {
		t.Errorf("Expected pitch back at base, got %f", saw.Frequency())
	}
}

// TestSpawnPattern tests offsets, holds, unknown notes and cancellation
func TestSpawnPattern(t *testing.T) {
	h := newHarness(t, "")
	p := h.e.SpawnPattern([]audio.NoteEvent{
		{Note: "G4", Hold: 100 * time.Millisecond},
		{Note: "nope"},
		{At: 500 * time.Millisecond, Note: audio.Random},
		{At: 2 * time.Second, Frequency: 200},
	}, 400, 300, audio.PatternOptions{Waveform: audio.Sine})

	if len(p.Voices()) != 1 {
		t.Fatalf("Expected 1 immediate voice, got %d", len(p.Voices()))
	}
	if p.Pending() != 2 {
		t.Errorf("Expected 2 pending notes, got %d", p.Pending())
	}

	h.clock.Advance(200 * time.Millisecond)
	if !p.Voices()[0].Releasing() {
		t.Error("Expected held note to be releasing")
	}

	h.clock.Advance(400 * time.Millisecond)
	if len(p.Voices()) != 2 {
		t.Errorf("Expected 2 voices, got %d", len(p.Voices()))
	}

	p.Cancel()
	h.clock.Advance(3 * time.Second)
	if len(p.Voices()) != 2 {
		t.Errorf("Expected cancelled note not to spawn, got %d voices", len(p.Voices()))
	}
}
