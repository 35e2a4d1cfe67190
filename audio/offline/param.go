package offline

import (
	"math"
	"sort"
)

type eventKind int

const (
	setEvent eventKind = iota
	linearEvent
	targetEvent
)

type event struct {
	kind eventKind
	t    float64
	v    float64
	tc   float64 // Time constant of a target event
}

// Param is an automation timeline evaluated at render time, following the
// Web Audio AudioParam model.
type Param struct {
	ctx    *Context
	init   float64
	events []event
}

func newParam(ctx *Context, init float64) *Param {
	return &Param{ctx: ctx, init: init}
}

// Value returns the parameter value at the context's current time.
func (p *Param) Value() float64 {
	return p.ValueAt(p.ctx.CurrentTime())
}

// SetValueAtTime jumps to v at t.
func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(event{kind: setEvent, t: t, v: v})
}

// LinearRampToValueAtTime ramps from the previous event to v, ending at t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.insert(event{kind: linearEvent, t: t, v: v})
}

// SetTargetAtTime approaches target exponentially from start.
func (p *Param) SetTargetAtTime(target, start, timeConstant float64) {
	p.insert(event{kind: targetEvent, t: start, v: target, tc: timeConstant})
}

// CancelScheduledValues drops every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].t >= t })
	p.events = p.events[:i]
}

// Events returns the number of scheduled events.
func (p *Param) Events() int {
	return len(p.events)
}

// insert keeps events sorted by time; events at equal times keep call order.
func (p *Param) insert(e event) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].t > e.t })
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// ValueAt evaluates the timeline at t.
func (p *Param) ValueAt(t float64) float64 {
	v0, t0 := p.init, 0.0
	var target *event

	for i := range p.events {
		e := &p.events[i]
		if e.t > t {
			if e.kind == linearEvent && target == nil {
				if e.t <= t0 {
					return e.v
				}
				return v0 + (e.v-v0)*(t-t0)/(e.t-t0)
			}
			break
		}
		switch e.kind {
		case setEvent, linearEvent:
			v0, t0, target = e.v, e.t, nil
		case targetEvent:
			if target != nil {
				v0 = approach(target, v0, t0, e.t)
			}
			t0, target = e.t, e
		}
	}

	if target != nil {
		return approach(target, v0, t0, t)
	}
	return v0
}

func approach(target *event, from, start, t float64) float64 {
	if target.tc <= 0 {
		return target.v
	}
	return target.v + (from-target.v)*math.Exp(-(t-start)/target.tc)
}
