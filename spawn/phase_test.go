package spawn

import "testing"

// TestPhaseAt tests phase selection over an animation's elapsed time
func TestPhaseAt(t *testing.T) {
	cases := []struct {
		elapsed, duration, fadeIn, fadeStart float64
		want                                 Phase
	}{
		{0, 10, 0, 6, Sustain},
		{3.9, 10, 0, 6, Sustain},
		{4.1, 10, 0, 6, FadeOut},
		{10, 10, 0, 6, Disposed},
		{0, 10, 3, 3, FadeIn},
		{2.9, 10, 3, 3, FadeIn},
		{3, 10, 3, 3, Sustain},
		{7.5, 10, 3, 3, FadeOut},
		{1, 2, 3, 3, FadeOut},
	}
	for _, c := range cases {
		if got := phaseAt(c.elapsed, c.duration, c.fadeIn, c.fadeStart); got != c.want {
			t.Errorf("Expected %s at %v/%v, got %s", c.want, c.elapsed, c.duration, got)
		}
	}
}

// TestTransition tests that phases only move forward and Disposed is terminal
func TestTransition(t *testing.T) {
	cases := []struct {
		from, to Phase
		ok       bool
	}{
		{Spawning, FadeIn, true},
		{FadeIn, Sustain, true},
		{Sustain, FadeOut, true},
		{FadeOut, Sustain, false},
		{Sustain, Stopping, true},
		{Spawning, Stopping, true},
		{Stopping, FadeOut, false},
		{Stopping, Disposed, true},
		{Disposed, Disposed, false},
		{Disposed, Stopping, false},
	}
	for _, c := range cases {
		if got := transition(c.from, c.to); got != c.ok {
			t.Errorf("Expected %s -> %s allowed=%v, got %v", c.from, c.to, c.ok, got)
		}
	}
	if Phase(42).String() != "unknown" {
		t.Errorf("Expected unknown phase name, got %s", Phase(42))
	}
}

// TestRegistry_SwapAndPop tests that removal keeps the remaining indices valid
func TestRegistry_SwapAndPop(t *testing.T) {
	var r registry
	a := &Animation{id: 1, index: -1}
	b := &Animation{id: 2, index: -1}
	c := &Animation{id: 3, index: -1}
	r.add(a)
	r.add(b)
	r.add(c)

	if !r.remove(a) {
		t.Fatal("Expected a to be removed")
	}
	if r.remove(a) {
		t.Error("Expected second removal to fail")
	}
	if r.len() != 2 {
		t.Errorf("Expected 2 records, got %d", r.len())
	}
	if c.index != 0 || !r.contains(c) || !r.contains(b) {
		t.Errorf("Expected c swapped into slot 0, got %d", c.index)
	}

	held := r.clear()
	if len(held) != 2 || r.len() != 0 || r.contains(b) {
		t.Errorf("Expected cleared registry, got %d held and %d left", len(held), r.len())
	}
}
