package audio

import (
	"time"

	"github.com/simukka/spawnfield/common"
)

// Random asks a pattern event for a weighted palette note.
const Random = "random"

// NoteEvent is one note of a pattern.
type NoteEvent struct {
	At        time.Duration // Offset from pattern start
	Note      string        // Note name or Random, used when Frequency is 0
	Frequency float64
	Hold      time.Duration // Release the voice after Hold when > 0
}

// PatternOptions shapes every voice of a pattern.
type PatternOptions struct {
	Waveform            Waveform
	Envelope            *ADSR
	AmplitudeMultiplier float64
	// AutoRelease releases each voice once its envelope reaches sustain,
	// for self-terminating feedback envelopes.
	AutoRelease bool
}

// Pattern tracks the voices spawned by SpawnPattern and its pending notes.
type Pattern struct {
	id      uint64
	e       *Engine
	voices  []*Voice
	pending int
}

// Voices returns the voices spawned so far.
func (p *Pattern) Voices() []*Voice {
	return p.voices
}

// Pending returns the number of notes not yet spawned.
func (p *Pattern) Pending() int {
	return p.pending
}

// Cancel drops notes that have not spawned yet. Spawned voices are untouched.
func (p *Pattern) Cancel() {
	p.e.tasks.CancelKey(p.id)
	p.pending = 0
	delete(p.e.patterns, p.id)
}

// Stop cancels pending notes and releases every spawned voice.
func (p *Pattern) Stop(immediate bool) {
	p.Cancel()
	for _, v := range p.voices {
		p.e.StopVoice(v, immediate)
	}
}

// SpawnPattern plays events at (x, y). Events at offset zero spawn before
// SpawnPattern returns; later ones are scheduled on the engine.
func (e *Engine) SpawnPattern(events []NoteEvent, x, y float64, opts PatternOptions) *Pattern {
	p := &Pattern{id: e.newID(), e: e}

	for _, ev := range events {
		ev := ev
		if ev.At <= 0 {
			e.spawnNote(p, ev, x, y, opts)
			continue
		}
		p.pending++
		e.tasks.After(p.id, ev.At, func() {
			p.pending--
			if p.pending == 0 {
				delete(e.patterns, p.id)
			}
			e.spawnNote(p, ev, x, y, opts)
		})
	}
	if p.pending > 0 {
		e.patterns[p.id] = p
	}
	return p
}

func (e *Engine) spawnNote(p *Pattern, ev NoteEvent, x, y float64, opts PatternOptions) {
	freq := ev.Frequency
	if freq <= 0 {
		switch ev.Note {
		case Random:
			freq = e.palette.Select()
		default:
			f, ok := Frequency(ev.Note)
			if !ok {
				common.DebugWarn("unknown note:", ev.Note)
				return
			}
			freq = f
		}
	}

	v := e.SpawnVoice(VoiceParams{
		Waveform:            opts.Waveform,
		X:                   x,
		Y:                   y,
		Frequency:           freq,
		Envelope:            opts.Envelope,
		AmplitudeMultiplier: opts.AmplitudeMultiplier,
	})
	p.voices = append(p.voices, v)

	switch {
	case ev.Hold > 0:
		e.tasks.After(v.id, ev.Hold, func() { e.StopVoice(v, false) })
	case opts.AutoRelease:
		e.tasks.After(v.id, seconds(v.Envelope.Hold()), func() { e.StopVoice(v, false) })
	}
}
