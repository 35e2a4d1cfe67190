package audio

import (
	"math"
	"time"

	"github.com/simukka/spawnfield/common"
)

// MediaAudio is the audio track of a playing video, routed through its own
// lowpass and reverb. Every method is a no-op before the track has loaded
// and after Stop.
type MediaAudio struct {
	id   uint64
	e    *Engine
	path string

	gainValue float64
	panValue  float64
	loaded    bool
	stopped   bool

	// A fade requested before load, resumed from its start time by onLoad.
	fading  bool
	fadeAt  float64
	fadeTau float64

	src    BufferSource
	filter Filter
	gain   Gain
	panner Panner
	reverb Reverb
}

// PlayMediaAudio loads path and starts it once decoded. x is the initial
// horizontal position for panning.
func (e *Engine) PlayMediaAudio(path string, x, initialGain float64) *MediaAudio {
	m := &MediaAudio{
		id:        e.newID(),
		e:         e,
		path:      path,
		gainValue: initialGain,
		panValue:  e.pan(x),
	}
	e.media[m.id] = m
	e.ctx.LoadBuffer(path, m.onLoad)
	return m
}

func (m *MediaAudio) onLoad(src BufferSource, err error) {
	if err != nil {
		common.DebugWarn("media audio unavailable:", m.path, err)
		return
	}
	if m.stopped {
		src.Disconnect()
		return
	}

	e := m.e
	cfg := e.cfg
	now := e.ctx.CurrentTime()

	m.src = src
	m.filter = e.ctx.NewLowpass()
	m.filter.Frequency().SetValueAtTime(cfg.MediaFilterFreq, now)
	m.filter.Q().SetValueAtTime(cfg.FilterQ, now)
	m.gain = e.ctx.NewGain()
	if m.fading {
		m.fadeGain(now)
	} else {
		m.gain.Gain().SetValueAtTime(m.gainValue, now)
	}
	m.panner = e.ctx.NewStereoPanner()
	m.panner.Pan().SetValueAtTime(m.panValue, now)
	m.reverb = e.ctx.NewReverb(cfg.MediaReverbDuration, cfg.MediaReverbDecay, cfg.MediaReverbWet)

	m.src.Connect(m.filter)
	m.filter.Connect(m.gain)
	m.gain.Connect(m.panner)
	m.panner.Connect(m.reverb)
	m.reverb.Connect(e.masterGain)

	m.loaded = true
	m.src.Start()
	common.Debug("media audio started:", m.path)
}

// Loaded reports whether the track decoded and is playing.
func (m *MediaAudio) Loaded() bool {
	return m.loaded && !m.stopped
}

// Stopped reports whether Stop has been called.
func (m *MediaAudio) Stopped() bool {
	return m.stopped
}

func (m *MediaAudio) live() bool {
	return m != nil && m.loaded && !m.stopped
}

// SetGain sets the track gain.
func (m *MediaAudio) SetGain(g float64) {
	if m == nil || m.stopped || m.fading {
		return
	}
	m.gainValue = g
	if !m.loaded {
		return
	}
	m.gain.Gain().SetValueAtTime(g, m.e.ctx.CurrentTime())
}

// SetPan sets the track position in the stereo field.
func (m *MediaAudio) SetPan(pan float64) {
	if m == nil || m.stopped {
		return
	}
	m.panValue = common.Clamp(pan, -1, 1)
	if !m.loaded {
		return
	}
	m.panner.Pan().SetValueAtTime(m.panValue, m.e.ctx.CurrentTime())
}

// FadeOut approaches silence exponentially, reaching about 5% after d. A
// track still loading starts at the level the fade has reached by then.
// Later SetGain calls are ignored.
func (m *MediaAudio) FadeOut(d time.Duration) {
	if m == nil || m.stopped {
		return
	}
	now := m.e.ctx.CurrentTime()
	m.fading = true
	m.fadeAt = now
	m.fadeTau = d.Seconds() / 3
	if !m.loaded {
		return
	}
	m.gainValue = pin(m.gain.Gain(), now)
	m.fadeGain(now)
}

// fadeGain schedules the fade begun at fadeAt from gainValue, as seen at now.
func (m *MediaAudio) fadeGain(now float64) {
	p := m.gain.Gain()
	if m.fadeTau <= 0 {
		p.SetValueAtTime(0, now)
		return
	}
	p.SetValueAtTime(m.gainValue*math.Exp(-(now-m.fadeAt)/m.fadeTau), now)
	p.SetTargetAtTime(0, now, m.fadeTau)
}

// Gain returns the current track gain, or 0 before load.
func (m *MediaAudio) Gain() float64 {
	if !m.live() {
		return 0
	}
	return m.gain.Gain().Value()
}

// Stop stops the track and frees its nodes. The reverb is kept until its
// tail has rung out. Calling Stop again does nothing.
func (m *MediaAudio) Stop() {
	if m == nil || m.stopped {
		return
	}
	m.stopped = true
	e := m.e
	delete(e.media, m.id)
	if !m.loaded {
		return
	}

	m.src.Stop()
	m.src.Disconnect()
	m.filter.Disconnect()
	m.gain.Disconnect()
	m.panner.Disconnect()

	reverb := m.reverb
	e.tasks.After(m.id, seconds(e.cfg.MediaReverbDuration), func() {
		reverb.Dispose()
	})
}

// MediaCount returns the number of media tracks not yet stopped.
func (e *Engine) MediaCount() int {
	return len(e.media)
}
