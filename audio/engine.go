package audio

import (
	"math"
	"time"

	"github.com/simukka/spawnfield/common"
	"github.com/simukka/spawnfield/sched"
)

// Viewport reports the current display size, used for panning.
type Viewport interface {
	Size() (width, height float64)
}

// Options configures a new Engine.
type Options struct {
	Config Config
	Notes  []Note // nil uses EbMajorNotes
	RNG    *common.SeededRNG
}

// Engine owns the voice registry, the shared reverb sends and every pending
// envelope task. All methods must be called from the scheduler's goroutine.
type Engine struct {
	ctx     Context
	tasks   *sched.Tasks
	view    Viewport
	cfg     Config
	palette *Palette
	rng     *common.SeededRNG

	masterGain Gain
	ambient    Reverb // Always-on subtle send
	intenseBus Gain   // Gate for the intense send
	intense    Reverb

	pool     voicePool
	patterns map[uint64]*Pattern
	hovers   []*HoverHandle
	media    map[uint64]*MediaAudio
	nextID   uint64
	disposed int

	frameCount   int
	wasHovering  bool
	busOpen      bool
	profileShown bool
}

// NewEngine creates the master bus and the two reverb sends on ctx.
func NewEngine(ctx Context, s sched.Scheduler, view Viewport, opts Options) (*Engine, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	rng := opts.RNG
	if rng == nil {
		rng = common.NewSeededRNG(uint32(time.Now().UnixNano()))
	}
	notes := opts.Notes
	if notes == nil {
		notes = EbMajorNotes
	}
	palette, err := NewPalette(notes, rng)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		ctx:      ctx,
		tasks:    sched.NewTasks(s),
		view:     view,
		cfg:      opts.Config,
		palette:  palette,
		rng:      rng,
		patterns: make(map[uint64]*Pattern),
		media:    make(map[uint64]*MediaAudio),
	}

	e.masterGain = ctx.NewGain()
	e.masterGain.Gain().SetValueAtTime(e.cfg.MasterVolume, ctx.CurrentTime())
	e.masterGain.Connect(ctx.Destination())

	e.ambient = ctx.NewReverb(e.cfg.SubtleReverbDuration, e.cfg.SubtleReverbDecay, e.cfg.SubtleReverbWet)
	e.ambient.Connect(e.masterGain)

	e.intense = ctx.NewReverb(e.cfg.IntenseReverbDuration, e.cfg.IntenseReverbDecay, e.cfg.IntenseReverbWet)
	e.intense.Connect(e.masterGain)
	e.intenseBus = ctx.NewGain()
	e.intenseBus.Gain().SetValueAtTime(0, ctx.CurrentTime())
	e.intenseBus.Connect(e.intense)

	common.Debug("audio engine ready, sample rate", ctx.SampleRate())
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Palette returns the engine's tone palette.
func (e *Engine) Palette() *Palette {
	return e.palette
}

// Context returns the underlying audio context.
func (e *Engine) Context() Context {
	return e.ctx
}

// Resume resumes a suspended audio context.
func (e *Engine) Resume() {
	e.ctx.Resume()
}

// SetProfileShown keeps the intense send and vibrato active while the
// profile view is open, and makes new pattern voices default to sine.
func (e *Engine) SetProfileShown(shown bool) {
	e.profileShown = shown
}

func (e *Engine) newID() uint64 {
	e.nextID++
	return e.nextID
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// VoiceParams describes a voice to spawn.
type VoiceParams struct {
	Waveform            Waveform
	X, Y                float64
	Frequency           float64 // 0 draws from the palette without repeating
	Envelope            *ADSR   // nil uses the welcome envelope
	AmplitudeMultiplier float64 // 0 is treated as 1
}

// SpawnVoice builds and starts a voice, ramping it to its peak over the
// envelope attack and then to its sustain level over the decay.
func (e *Engine) SpawnVoice(p VoiceParams) *Voice {
	env := e.cfg.EnvWelcome
	if p.Envelope != nil {
		env = *p.Envelope
	}
	freq := p.Frequency
	if freq <= 0 {
		freq = e.palette.SelectWithoutRepeat()
	}
	mult := p.AmplitudeMultiplier
	if mult == 0 {
		mult = 1
	}
	waveform := p.Waveform
	if waveform == AutoWaveform {
		waveform = e.defaultWaveform()
	}

	target := e.palette.Amplitude(freq, e.cfg.AudioAmplitude) * mult
	v := &Voice{
		id:               e.newID(),
		Waveform:         waveform,
		BaseFrequency:    freq,
		Amplitude:        target,
		SustainAmplitude: target * env.Sustain,
		Envelope:         env,
		VibratoRate:      e.rng.RandomFloat(e.cfg.VibratoRateMin, e.cfg.VibratoRateMax),
		VibratoDepth:     e.rng.RandomFloat(e.cfg.VibratoDepthMin, e.cfg.VibratoDepthMax),
		EnableVibrato:    waveform == Sawtooth,
	}

	now := e.ctx.CurrentTime()
	v.osc = e.ctx.NewOscillator(waveform)
	v.osc.Frequency().SetValueAtTime(freq, now)
	v.amp = e.ctx.NewGain()
	v.amp.Gain().SetValueAtTime(0, now)
	v.filter = e.ctx.NewLowpass()
	v.filter.Frequency().SetValueAtTime(e.cfg.FilterCutoffMax, now)
	v.filter.Q().SetValueAtTime(e.cfg.FilterQ, now)
	v.panner = e.ctx.NewStereoPanner()
	v.panner.Pan().SetValueAtTime(e.pan(p.X), now)

	v.osc.Connect(v.amp)
	v.amp.Connect(v.filter)
	v.filter.Connect(v.panner)
	v.panner.Connect(e.ambient)
	v.panner.Connect(e.intenseBus)

	e.pool.add(v)
	v.osc.Start()

	// Attack
	if env.Attack > 0 {
		v.amp.Gain().LinearRampToValueAtTime(target, now+env.Attack)
	} else {
		v.amp.Gain().SetValueAtTime(target, now)
	}

	// Decay, only if the voice survived its attack
	e.tasks.After(v.id, seconds(env.Attack), func() {
		if !e.pool.contains(v) || v.releasing {
			return
		}
		rampTo(v.amp.Gain(), v.SustainAmplitude, e.ctx.CurrentTime(), env.Decay)
	})

	return v
}

func (e *Engine) defaultWaveform() Waveform {
	if e.profileShown {
		return Sine
	}
	return Sawtooth
}

func (e *Engine) pan(x float64) float64 {
	if e.view == nil {
		return 0
	}
	w, _ := e.view.Size()
	return common.Pan(x, w)
}

// StopVoice releases v. With immediate set the voice is disposed now at its
// current gain; otherwise it fades over its envelope release and is disposed
// after the release plus the dispose margin. Stopping a voice that is no
// longer registered, or releasing one twice, does nothing.
func (e *Engine) StopVoice(v *Voice, immediate bool) {
	if !e.pool.contains(v) {
		return
	}
	if immediate {
		e.dispose(v)
		return
	}
	if v.releasing {
		return
	}
	v.releasing = true
	e.tasks.CancelKey(v.id)

	release := v.Envelope.Release
	rampTo(v.amp.Gain(), 0, e.ctx.CurrentTime(), release)
	e.tasks.After(v.id, seconds(release+e.cfg.DisposeMargin), func() {
		e.dispose(v)
	})
}

// FadeVoice ramps v to silence over d without scheduling disposal. The
// caller finishes the voice with StopVoice(v, true).
func (e *Engine) FadeVoice(v *Voice, d time.Duration) {
	if !e.pool.contains(v) {
		return
	}
	v.releasing = true
	e.tasks.CancelKey(v.id)
	rampTo(v.amp.Gain(), 0, e.ctx.CurrentTime(), d.Seconds())
}

// dispose deregisters v first, then frees its nodes.
func (e *Engine) dispose(v *Voice) {
	if !e.pool.remove(v) {
		return
	}
	e.tasks.CancelKey(v.id)
	pin(v.amp.Gain(), e.ctx.CurrentTime())

	v.osc.Stop()
	v.osc.Disconnect()
	v.amp.Disconnect()
	v.filter.Disconnect()
	v.panner.Disconnect()
	e.disposed++
}

// SetPan moves v in the stereo field.
func (e *Engine) SetPan(v *Voice, pan float64) {
	if !e.pool.contains(v) {
		return
	}
	pan = common.Clamp(pan, -1, 1)
	v.panner.Pan().SetValueAtTime(pan, e.ctx.CurrentTime())
}

// SetCutoff ramps v's lowpass cutoff to hz over ramp seconds.
func (e *Engine) SetCutoff(v *Voice, hz, ramp float64) {
	if !e.pool.contains(v) {
		return
	}
	rampTo(v.filter.Frequency(), hz, e.ctx.CurrentTime(), ramp)
}

// SetAmplitude ramps v to a fraction of its peak over its attack time.
// Releasing voices are left alone.
func (e *Engine) SetAmplitude(v *Voice, fraction float64) {
	if !e.pool.contains(v) || v.releasing {
		return
	}
	rampTo(v.amp.Gain(), v.Amplitude*fraction, e.ctx.CurrentTime(), v.Envelope.Attack)
}

// UpdateEffects runs once per frame. While hovering (or while the profile is
// shown) vibrato is applied every UpdateThrottle frames and the intense send
// opens; otherwise pitches return to base and the send closes.
func (e *Engine) UpdateEffects(hovering bool) {
	e.frameCount++
	update := e.frameCount%e.cfg.UpdateThrottle == 0
	now := e.ctx.CurrentTime()

	if hovering || e.profileShown {
		if e.cfg.EnableVibrato && update {
			e.pool.forEachReverse(func(v *Voice) {
				if !v.EnableVibrato {
					return
				}
				lfo := math.Sin(float64(e.frameCount)*0.1*v.VibratoRate) * v.VibratoDepth
				rampTo(v.osc.Frequency(), v.BaseFrequency+lfo, now, e.cfg.VibratoRampTime)
			})
		}
		if !e.busOpen {
			rampTo(e.intenseBus.Gain(), 1, now, e.cfg.IntenseFadeIn)
			e.busOpen = true
		}
	} else {
		if e.cfg.EnableVibrato && e.wasHovering {
			e.pool.forEachReverse(func(v *Voice) {
				if v.EnableVibrato {
					rampTo(v.osc.Frequency(), v.BaseFrequency, now, e.cfg.FilterHoldRampTime)
				}
			})
		}
		if e.busOpen {
			rampTo(e.intenseBus.Gain(), 0, now, e.cfg.IntenseFadeOut)
			e.busOpen = false
		}
	}
	e.wasHovering = hovering
}

// IntenseLevel returns the current gain of the intense send.
func (e *Engine) IntenseLevel() float64 {
	return e.intenseBus.Gain().Value()
}

func (e *Engine) center() (x, y float64) {
	if e.view == nil {
		return 0, 0
	}
	w, h := e.view.Size()
	return w / 2, h / 2
}

// StopAll fades every registered voice to silence over fade and disposes
// them afterwards. Pending pattern notes are cancelled and hover handles
// are dropped.
func (e *Engine) StopAll(fade time.Duration) {
	for id, p := range e.patterns {
		e.tasks.CancelKey(id)
		delete(e.patterns, p.id)
	}
	e.hovers = nil

	for _, v := range e.pool.snapshot() {
		v := v
		e.FadeVoice(v, fade)
		e.tasks.After(v.id, fade, func() {
			e.dispose(v)
		})
	}
}

// ActiveVoices returns the number of registered voices.
func (e *Engine) ActiveVoices() int {
	return len(e.pool.voices)
}

// Voices returns a snapshot of the registered voices.
func (e *Engine) Voices() []*Voice {
	return e.pool.snapshot()
}

// Disposed returns how many voices have been torn down.
func (e *Engine) Disposed() int {
	return e.disposed
}

// PendingTasks returns the number of scheduled envelope, pattern and
// disposal tasks.
func (e *Engine) PendingTasks() int {
	return e.tasks.Len()
}
