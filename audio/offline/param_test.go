package offline

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestParam_InitialValue tests that a param with no events holds its default
func TestParam_InitialValue(t *testing.T) {
	p := newParam(NewContext(Options{}), 0.5)
	if got := p.ValueAt(10); got != 0.5 {
		t.Errorf("Expected 0.5, got %f", got)
	}
}

// TestParam_LinearRamp tests interpolation between a set and a ramp
func TestParam_LinearRamp(t *testing.T) {
	p := newParam(NewContext(Options{}), 0)
	p.SetValueAtTime(0, 1)
	p.LinearRampToValueAtTime(1, 3)

	cases := []struct{ t, want float64 }{
		{0.5, 0},
		{1, 0},
		{2, 0.5},
		{2.5, 0.75},
		{3, 1},
		{10, 1},
	}
	for _, c := range cases {
		if got := p.ValueAt(c.t); !almostEqual(got, c.want, 1e-9) {
			t.Errorf("Expected %f at %f, got %f", c.want, c.t, got)
		}
	}
}

// TestParam_SetTarget tests exponential approach to a target
func TestParam_SetTarget(t *testing.T) {
	p := newParam(NewContext(Options{}), 1)
	p.SetValueAtTime(1, 0)
	p.SetTargetAtTime(0, 0, 1)

	want := math.Exp(-1)
	if got := p.ValueAt(1); !almostEqual(got, want, 1e-9) {
		t.Errorf("Expected %f after one time constant, got %f", want, got)
	}
	if got := p.ValueAt(3); !almostEqual(got, math.Exp(-3), 1e-9) {
		t.Errorf("Expected about 5%%, got %f", got)
	}
}

// TestParam_CancelScheduledValues tests that cancel drops events at or after t
func TestParam_CancelScheduledValues(t *testing.T) {
	p := newParam(NewContext(Options{}), 0)
	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(1, 2)
	p.SetValueAtTime(5, 4)

	p.CancelScheduledValues(2)
	if p.Events() != 1 {
		t.Errorf("Expected 1 event after cancel, got %d", p.Events())
	}
	if got := p.ValueAt(5); got != 0 {
		t.Errorf("Expected 0 once ramps are cancelled, got %f", got)
	}
}

// TestParam_PinMidRamp tests that holding the current value mid-ramp freezes it
func TestParam_PinMidRamp(t *testing.T) {
	p := newParam(NewContext(Options{}), 0)
	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(1, 2)

	v := p.ValueAt(1)
	p.CancelScheduledValues(1)
	p.SetValueAtTime(v, 1)

	if got := p.ValueAt(1.5); !almostEqual(got, 0.5, 1e-9) {
		t.Errorf("Expected pinned 0.5, got %f", got)
	}
}

// TestParam_SameTimeEventsKeepOrder tests that the last event at a time wins
func TestParam_SameTimeEventsKeepOrder(t *testing.T) {
	p := newParam(NewContext(Options{}), 0)
	p.SetValueAtTime(0.3, 1)
	p.SetValueAtTime(0.7, 1)
	if got := p.ValueAt(1); got != 0.7 {
		t.Errorf("Expected 0.7, got %f", got)
	}
}
