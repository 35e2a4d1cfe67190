package offline

import (
	"github.com/cwbudde/algo-dsp/dsp/effects/reverb"

	"github.com/simukka/spawnfield/common"
)

// minBlockOrder sets the partitioned convolution latency to one render quantum.
const minBlockOrder = 7

// Reverb is a per-channel partitioned convolution reverb.
type Reverb struct {
	node
	conv     [2]*reverb.ConvolutionReverb
	wet      float64
	disposed bool
	failed   bool
}

func newReverb(c *Context, ir [2][]float64, wet float64) *Reverb {
	r := &Reverb{wet: wet}
	r.init(c, r)
	for ch := 0; ch < 2; ch++ {
		cr, err := reverb.NewConvolutionReverb(ir[ch], minBlockOrder)
		if err != nil {
			common.DebugWarn("offline reverb unavailable, passing through:", err)
			r.conv = [2]*reverb.ConvolutionReverb{}
			break
		}
		cr.SetWetDry(wet, 1-wet)
		r.conv[ch] = cr
	}
	return r
}

// Dispose silences the reverb and drops every connection.
func (r *Reverb) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	for _, in := range append([]processor(nil), r.inputs...) {
		in.base().disconnectFrom(r)
	}
	r.Disconnect()
}

// Disposed reports whether Dispose has been called.
func (r *Reverb) Disposed() bool {
	return r.disposed
}

// Wet returns the wet mix.
func (r *Reverb) Wet() float64 {
	return r.wet
}

func (r *Reverb) process(q int64, out *block) {
	if r.disposed {
		return
	}
	*out = *r.mixInputs(q)
	if r.conv[0] == nil || r.failed {
		return
	}
	for ch := 0; ch < 2; ch++ {
		if err := r.conv[ch].ProcessInPlace(out[ch][:]); err != nil {
			common.DebugWarn("offline reverb failed, passing through:", err)
			r.failed = true
			return
		}
	}
}

// disconnectFrom removes the single connection from n to dst.
func (n *node) disconnectFrom(dst processor) {
	for i, d := range n.outputs {
		if d == dst {
			n.outputs = append(n.outputs[:i], n.outputs[i+1:]...)
			break
		}
	}
	in := dst.base().inputs
	for i, p := range in {
		if p == n.self {
			dst.base().inputs = append(in[:i], in[i+1:]...)
			break
		}
	}
}
