package audio

import (
	"math"

	"github.com/simukka/spawnfield/common"
)

// ImpulseResponse creates a synthetic stereo impulse response for reverb:
// white noise under a (1-progress)^decay envelope.
// duration: length in seconds, decay: envelope exponent
func ImpulseResponse(sampleRate, duration, decay float64, rng *common.SeededRNG) [2][]float64 {
	length := int(sampleRate * duration)
	if length < 1 {
		length = 1
	}

	var ir [2][]float64
	for channel := 0; channel < 2; channel++ {
		data := make([]float64, length)
		for i := 0; i < length; i++ {
			noise := rng.Random()*2 - 1
			progress := float64(i) / float64(length)
			data[i] = noise * math.Pow(1-progress, decay)
		}
		ir[channel] = data
	}
	return ir
}
