package spawn

import (
	"math"
	"time"

	"github.com/simukka/spawnfield/audio"
	"github.com/simukka/spawnfield/common"
	"github.com/simukka/spawnfield/sched"
)

// Kind tells images and videos apart.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
)

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "image"
}

// Animation is the record of one in-flight spawn.
type Animation struct {
	id    uint64
	index int
	kind  Kind
	item  Item

	element Element
	video   Video
	caption Caption
	voices  []*audio.Voice
	media   *audio.MediaAudio

	startX, startY float64
	vx, vy         float64
	x, y           float64
	duration       float64
	fadeIn         float64
	fadeStart      float64
	growth         float64

	start    time.Duration
	ticks    int
	phase    Phase
	releases int
}

// ID returns the record id.
func (a *Animation) ID() uint64 { return a.id }

// Kind returns whether the record animates an image or a video.
func (a *Animation) Kind() Kind { return a.kind }

// Item returns the spawned asset.
func (a *Animation) Item() Item { return a.item }

// Phase returns the current lifecycle phase.
func (a *Animation) Phase() Phase { return a.phase }

// Voices returns the voices owned by the record.
func (a *Animation) Voices() []*audio.Voice { return a.voices }

// Media returns the video's audio track, or nil.
func (a *Animation) Media() *audio.MediaAudio { return a.media }

// Position returns the last computed element position.
func (a *Animation) Position() (x, y float64) { return a.x, a.y }

// Velocity returns the drift in px per 1/60 s.
func (a *Animation) Velocity() (vx, vy float64) { return a.vx, a.vy }

// Duration returns the animation length in seconds.
func (a *Animation) Duration() float64 { return a.duration }

// Ticks returns how many frames the record has run.
func (a *Animation) Ticks() int { return a.ticks }

// Releases returns how many times the fade-out released the voices.
func (a *Animation) Releases() int { return a.releases }

// Driver runs one frame loop per animation record and tears every record
// down exactly once.
type Driver struct {
	cfg     Config
	engine  *audio.Engine
	display Display
	device  Device
	tasks   *sched.Tasks
	rng     *common.SeededRNG

	reg    registry
	ticker tickerStack
	nextID uint64

	videoPlaying     bool
	filterSuppressed bool
}

// NewDriver creates a driver drawing on engine for voices and on display
// for elements.
func NewDriver(cfg Config, engine *audio.Engine, display Display, s sched.Scheduler, device Device, rng *common.SeededRNG) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = common.NewSeededRNG(uint32(time.Now().UnixNano()))
	}
	return &Driver{
		cfg:     cfg,
		engine:  engine,
		display: display,
		device:  device,
		tasks:   sched.NewTasks(s),
		rng:     rng,
		ticker: tickerStack{
			bottom:  cfg.TickerBottomMargin,
			spacing: cfg.TickerSpacing,
		},
	}, nil
}

// Config returns the driver defaults.
func (d *Driver) Config() Config {
	return d.cfg
}

// Device returns the host device flags.
func (d *Driver) Device() Device {
	return d.device
}

// Center returns the middle of the display.
func (d *Driver) Center() (x, y float64) {
	w, h := d.display.Size()
	return w / 2, h / 2
}

// VideoPlaying reports whether a video is on screen.
func (d *Driver) VideoPlaying() bool {
	return d.videoPlaying
}

// SetFilterSuppressed pauses the cursor filter modulation.
func (d *Driver) SetFilterSuppressed(suppressed bool) {
	d.filterSuppressed = suppressed
}

// Animations returns a snapshot of the live records.
func (d *Driver) Animations() []*Animation {
	return d.reg.snapshot()
}

// Active returns the number of live records.
func (d *Driver) Active() int {
	return d.reg.len()
}

// Captions returns the number of captions in the ticker.
func (d *Driver) Captions() int {
	return d.ticker.len()
}

// PendingTasks returns the number of scheduled frame and finalize tasks.
func (d *Driver) PendingTasks() int {
	return d.tasks.Len()
}

func (d *Driver) newRecord(kind Kind, it Item, x, y float64) *Animation {
	d.nextID++
	return &Animation{
		id:     d.nextID,
		index:  -1,
		kind:   kind,
		item:   it,
		startX: x,
		startY: y,
		x:      x,
		y:      y,
		phase:  Spawning,
	}
}

func (d *Driver) randomVelocity(min, max float64) (vx, vy float64) {
	speed := d.rng.RandomFloat(min, max)
	angle := d.rng.RandomFloat(0, 2*math.Pi)
	return math.Cos(angle) * speed, math.Sin(angle) * speed
}

func (d *Driver) attachCaption(a *Animation, enabled bool) {
	if !enabled || a.item.Caption == "" {
		return
	}
	a.caption = d.display.NewCaption(a.item.Caption)
	d.ticker.push(a.caption)
}

// SpawnImage places an image at (x, y) with one voice and starts its loop.
func (d *Driver) SpawnImage(it Item, x, y float64, ic ImageSpawnConfig) *Animation {
	a := d.newRecord(KindImage, it, x, y)
	a.duration = ic.Duration
	a.fadeStart = ic.FadeStart
	a.growth = ic.ScaleGrowth
	a.vx, a.vy = d.randomVelocity(ic.SpeedMin, ic.SpeedMax)

	maxWidth := d.rng.RandomFloat(ic.SizeMin, ic.SizeMax)
	maxHeight := d.rng.RandomFloat(ic.SizeMin, ic.SizeMax)
	a.element = d.display.NewImage(it.Path, x, y, maxWidth, maxHeight)
	a.element.SetOpacity(1)
	d.attachCaption(a, ic.Caption)

	a.voices = append(a.voices, d.engine.SpawnVoice(audio.VoiceParams{
		Waveform: audio.AutoWaveform,
		X:        x,
		Y:        y,
	}))

	d.reg.add(a)
	common.Debug("spawn: image", it.Path, "at", x, y)
	d.begin(a)
	return a
}

// SpawnVideo places a video from vc at (x, y). ordinal is the 1-based
// position of it in a sequential set, or 0.
func (d *Driver) SpawnVideo(it Item, x, y float64, vc *VideoSpawnConfig, ordinal int) *Animation {
	a := d.newRecord(KindVideo, it, x, y)
	a.duration = vc.FixedDuration
	a.fadeIn = vc.FadeIn
	a.fadeStart = vc.FadeStart
	a.growth = vc.ScaleGrowth
	d.videoPlaying = true

	if vc.Voice {
		if vc.Chord {
			f1, f2 := d.engine.Palette().AdjacentNotes()
			for _, f := range []float64{f1, f2} {
				a.voices = append(a.voices, d.engine.SpawnVoice(audio.VoiceParams{Waveform: audio.AutoWaveform, X: x, Y: y, Frequency: f}))
			}
		} else {
			a.voices = append(a.voices, d.engine.SpawnVoice(audio.VoiceParams{Waveform: audio.AutoWaveform, X: x, Y: y}))
		}
	}

	size := vc.Size
	if size == SizeFullscreen && ordinal > 1 {
		size = SizeMax
	}
	var maxWidth, maxHeight float64
	switch size {
	case SizeFullscreen:
		maxWidth, maxHeight = d.display.Size()
	case SizeMax:
		maxWidth, maxHeight = d.cfg.SizeMax, d.cfg.SizeMax
	default:
		maxWidth = d.rng.RandomFloat(d.cfg.SizeMin, d.cfg.SizeMax)
		maxHeight = maxWidth
	}

	switch vc.Movement {
	case MovementSubtle:
		speed := 0.001
		if ordinal == 1 {
			speed = 0
		}
		angle := d.rng.RandomFloat(0, 2*math.Pi)
		a.vx, a.vy = math.Cos(angle)*speed, math.Sin(angle)*speed
	case MovementNone:
	default:
		a.vx, a.vy = d.randomVelocity(d.cfg.SpeedMin, d.cfg.SpeedMax)
	}

	v := d.display.NewVideo(it.Path, x, y, maxWidth, maxHeight)
	a.element, a.video = v, v
	if a.fadeIn > 0 {
		v.SetOpacity(0)
	} else {
		v.SetOpacity(1)
	}
	d.attachCaption(a, vc.Caption)
	d.reg.add(a)

	waitForMetadata := vc.Duration == DurationFull && vc.Speed == SpeedNormal
	fixed := vc.FixedDuration
	v.OnMetadata(func(mediaDuration float64) {
		if a.phase == Stopping || a.phase == Disposed {
			return
		}
		if vc.Speed == SpeedStretched && mediaDuration > 0 {
			v.SetPlaybackRate(mediaDuration / fixed)
		} else {
			v.SetPlaybackRate(1)
		}
		if waitForMetadata && a.phase == Spawning {
			if mediaDuration > 0 {
				a.duration = mediaDuration
			}
			d.startVideo(a)
		}
	})
	v.Play()

	common.Debug("spawn: video", it.Path, "at", x, y, "ordinal", ordinal)
	if !waitForMetadata {
		d.startVideo(a)
	}
	return a
}

func (d *Driver) startVideo(a *Animation) {
	gain := 1.0
	if a.fadeIn > 0 {
		gain = 0
	}
	a.media = d.engine.PlayMediaAudio(a.item.audioPath(), a.x, gain)
	d.begin(a)
}

// begin runs the first tick synchronously; later ticks follow frames.
func (d *Driver) begin(a *Animation) {
	a.start = d.tasks.Now()
	d.tick(a, a.start)
}

func (d *Driver) enter(a *Animation, next Phase) bool {
	if next == a.phase {
		return false
	}
	if !transition(a.phase, next) {
		return false
	}
	a.phase = next
	return true
}

func (d *Driver) tick(a *Animation, now time.Duration) {
	if a.phase == Stopping || a.phase == Disposed {
		return
	}
	elapsed := (now - a.start).Seconds()
	a.ticks++

	next := phaseAt(elapsed, a.duration, a.fadeIn, a.fadeStart)
	if next == Disposed {
		d.finish(a)
		return
	}
	if d.enter(a, next) && next == FadeOut {
		a.releases++
		for _, v := range a.voices {
			d.engine.StopVoice(v, false)
		}
	}

	d.modulateFilter(a)

	a.x = a.startX + a.vx*elapsed*60
	a.y = a.startY + a.vy*elapsed*60
	a.element.SetPosition(a.x, a.y)
	width, _ := d.display.Size()
	pan := common.Pan(a.x, width)
	for _, v := range a.voices {
		d.engine.SetPan(v, pan)
	}
	if a.media != nil {
		a.media.SetPan(pan)
	}
	a.element.SetScale(1 + elapsed/a.duration*a.growth)

	throttled := a.ticks%d.engine.Config().AmplitudeFadeThrottle == 0
	switch a.phase {
	case FadeIn:
		p := elapsed / a.fadeIn
		d.setOpacity(a, common.Smoothstep(p))
		if throttled {
			d.setLevel(a, math.Sqrt(common.Clamp(p, 0, 1)))
		}
	case Sustain:
		if a.fadeIn > 0 {
			d.setOpacity(a, 1)
			if throttled {
				d.setLevel(a, 1)
			}
		}
	case FadeOut:
		progress := common.Clamp((elapsed-(a.duration-a.fadeStart))/a.fadeStart, 0, 1)
		d.setOpacity(a, 1-common.Smoothstep(progress))
		if a.media != nil {
			a.media.SetGain(math.Pow(1-progress, 6))
		}
	}

	d.tasks.NextFrame(a.id, func(now time.Duration) {
		d.tick(a, now)
	})
}

func (d *Driver) setOpacity(a *Animation, o float64) {
	a.element.SetOpacity(o)
	if a.caption != nil {
		a.caption.SetOpacity(o)
	}
}

func (d *Driver) setLevel(a *Animation, level float64) {
	for _, v := range a.voices {
		d.engine.SetAmplitude(v, level)
	}
	if a.media != nil {
		a.media.SetGain(level)
	}
}

// modulateFilter closes each voice's lowpass as the cursor leaves the
// center of the screen.
func (d *Driver) modulateFilter(a *Animation) {
	if len(a.voices) == 0 || d.device.IsTouch || d.filterSuppressed {
		return
	}
	w, h := d.display.Size()
	cx, cy := w/2, h/2
	px, py := d.display.Pointer()
	maxDist := common.Dist(0, 0, cx, cy)
	nd := 1.0
	if maxDist > 0 {
		nd = common.Clamp(common.Dist(px, py, cx, cy)/maxDist, 0, 1)
	}
	cfg := d.engine.Config()
	_, maxFreq := d.engine.Palette().Range()
	cutoff := maxFreq + math.Pow(1-nd, 3)*(cfg.FilterCutoffMax-maxFreq)
	for _, v := range a.voices {
		d.engine.SetCutoff(v, cutoff, cfg.FilterRampTime)
	}
}

// finish ends a record that ran its full duration.
func (d *Driver) finish(a *Animation) {
	d.reg.remove(a)
	d.teardown(a)
}

// teardown frees the element, caption, voices and media exactly once.
func (d *Driver) teardown(a *Animation) {
	if !d.enter(a, Disposed) {
		return
	}
	d.tasks.CancelKey(a.id)
	a.element.Remove()
	if a.caption != nil {
		a.caption.Remove()
		d.ticker.remove(a.caption)
	}
	for _, v := range a.voices {
		d.engine.StopVoice(v, true)
	}
	if a.media != nil {
		a.media.Stop()
	}
	if a.kind == KindVideo {
		d.videoPlaying = false
	}
	common.Debug("spawn: disposed", a.kind, a.id, "after", a.ticks, "ticks")
}

// StopAll fades every live record over fade and finalizes it afterwards.
// The registry is emptied immediately, so a second call does nothing.
func (d *Driver) StopAll(fade time.Duration) {
	anims := d.reg.clear()
	for _, a := range anims {
		a := a
		if !d.enter(a, Stopping) {
			continue
		}
		d.tasks.CancelKey(a.id)
		a.element.FadeOut(fade)
		if a.caption != nil {
			a.caption.FadeOut(fade)
		}
		for _, v := range a.voices {
			d.engine.FadeVoice(v, fade)
		}
		if a.media != nil {
			a.media.FadeOut(fade)
		}
		d.tasks.After(a.id, fade, func() {
			d.teardown(a)
		})
	}
	if len(anims) > 0 {
		common.Debug("spawn: stopping", len(anims), "animations over", fade)
	}
}
