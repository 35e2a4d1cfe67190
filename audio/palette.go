package audio

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/simukka/spawnfield/common"
)

// ErrEmptyPalette is returned when a palette has no notes.
var ErrEmptyPalette = errors.New("audio: empty palette")

// Palette is a weighted musical scale with O(1) weighted sampling.
type Palette struct {
	notes    []Note
	weighted []float64
	distinct []float64 // sorted ascending
	min, max float64
	last     float64
	rng      *common.SeededRNG
}

// NewPalette flattens notes so that each frequency appears Weight times.
func NewPalette(notes []Note, rng *common.SeededRNG) (*Palette, error) {
	if len(notes) == 0 {
		return nil, ErrEmptyPalette
	}
	p := &Palette{
		notes: append([]Note(nil), notes...),
		min:   math.Inf(1),
		max:   math.Inf(-1),
		rng:   rng,
	}
	seen := make(map[float64]bool)
	for _, n := range notes {
		if n.Frequency <= 0 || math.IsNaN(n.Frequency) || math.IsInf(n.Frequency, 0) {
			return nil, fmt.Errorf("audio: palette frequency must be > 0, got %f", n.Frequency)
		}
		if n.Weight < 1 {
			return nil, fmt.Errorf("audio: palette weight must be >= 1, got %d for %.2f Hz", n.Weight, n.Frequency)
		}
		for i := 0; i < n.Weight; i++ {
			p.weighted = append(p.weighted, n.Frequency)
		}
		if !seen[n.Frequency] {
			seen[n.Frequency] = true
			p.distinct = append(p.distinct, n.Frequency)
		}
		p.min = math.Min(p.min, n.Frequency)
		p.max = math.Max(p.max, n.Frequency)
	}
	sort.Float64s(p.distinct)
	return p, nil
}

// Range returns the lowest and highest palette frequencies.
func (p *Palette) Range() (min, max float64) {
	return p.min, p.max
}

// Notes returns a copy of the palette entries.
func (p *Palette) Notes() []Note {
	return append([]Note(nil), p.notes...)
}

// Select draws a weighted-random frequency.
func (p *Palette) Select() float64 {
	return p.weighted[p.rng.Intn(len(p.weighted))]
}

// SelectWithoutRepeat draws until the result differs from the previous pick.
// A palette with a single distinct frequency always repeats.
func (p *Palette) SelectWithoutRepeat() float64 {
	f := p.Select()
	if len(p.distinct) > 1 {
		for f == p.last {
			f = p.Select()
		}
	}
	p.last = f
	return f
}

// Amplitude returns base scaled down for higher notes so that the palette
// sounds evenly loud: base * (1 - 0.5 * norm^0.6).
func (p *Palette) Amplitude(freq, base float64) float64 {
	if p.max <= p.min {
		return base
	}
	norm := common.Clamp((freq-p.min)/(p.max-p.min), 0, 1)
	return base * (1 - math.Pow(norm, 0.6)*0.5)
}

// AdjacentNotes picks a note from the top half of the scale and the next
// lower distinct note, for two-voice video chords.
func (p *Palette) AdjacentNotes() (float64, float64) {
	n := len(p.distinct)
	top := n / 2
	i := top + p.rng.Intn(n-top)
	f1 := p.distinct[i]
	if i == 0 {
		return f1, f1
	}
	return f1, p.distinct[i-1]
}
