package common

// Stream numbers for StreamSeed. Each component draws from its own
// generator so adding draws in one does not shift the others.
const (
	StreamEngine = iota + 1
	StreamDriver
	StreamPolicy
	StreamLibrary
	StreamContext
)

// SeededRNG is a Mulberry32 generator. Palette picks, spawn geometry, the
// video policy and asset order all replay from a seed.
type SeededRNG struct {
	state       uint32
	initialSeed uint32
}

func NewSeededRNG(seed uint32) *SeededRNG {
	return &SeededRNG{
		state:       seed,
		initialSeed: seed,
	}
}

// Reset rewinds to the initial seed.
func (r *SeededRNG) Reset() {
	r.state = r.initialSeed
}

// Random returns the next value in [0, 1).
func (r *SeededRNG) Random() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// RandomInt returns a value in [min, max), or min for an empty range.
func (r *SeededRNG) RandomInt(min, max int) int {
	if max <= min {
		return min
	}
	return int(r.Random()*float64(max-min)) + min
}

// RandomFloat returns a value in [min, max).
func (r *SeededRNG) RandomFloat(min, max float64) float64 {
	return r.Random()*(max-min) + min
}

func (r *SeededRNG) Intn(n int) int {
	return r.RandomInt(0, n)
}

// Chance reports whether a draw falls below p.
func (r *SeededRNG) Chance(p float64) bool {
	return r.Random() < p
}

// Shuffle is a Fisher-Yates pass over n elements.
func (r *SeededRNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, r.RandomInt(0, i+1))
	}
}

// StreamSeed mixes a stream number into a base seed.
func StreamSeed(base uint32, stream int) uint32 {
	seed := base ^ (uint32(stream) * 2654435761)
	seed = (seed ^ (seed >> 16)) * 0x85ebca6b
	seed = (seed ^ (seed >> 13)) * 0xc2b2ae35
	return seed ^ (seed >> 16)
}

// Stream returns a generator seeded with StreamSeed(base, stream).
func Stream(base uint32, stream int) *SeededRNG {
	return NewSeededRNG(StreamSeed(base, stream))
}
