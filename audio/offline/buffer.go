package offline

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/simukka/spawnfield/audio"
	"github.com/simukka/spawnfield/common"
)

// ErrInvalidWAV is returned for files that are not PCM WAV.
var ErrInvalidWAV = errors.New("offline: invalid WAV file")

// BufferSource plays decoded PCM once, starting at the block it is started in.
type BufferSource struct {
	node
	data    [2][]float64
	pos     int
	started bool
	stops   int
}

// Start starts playback from the beginning.
func (b *BufferSource) Start() {
	b.started = true
}

// Stop ends playback. Every call is counted.
func (b *BufferSource) Stop() {
	b.stops++
}

// StopCount returns how many times Stop was called.
func (b *BufferSource) StopCount() int {
	return b.stops
}

// Duration returns the buffer length in seconds.
func (b *BufferSource) Duration() float64 {
	return float64(len(b.data[0])) / b.ctx.sampleRate
}

func (b *BufferSource) process(q int64, out *block) {
	if !b.started || b.stops > 0 {
		return
	}
	for i := 0; i < Quantum && b.pos < len(b.data[0]); i++ {
		out[0][i] = b.data[0][b.pos]
		out[1][i] = b.data[1][b.pos]
		b.pos++
	}
}

// LoadBuffer decodes a WAV file under the context root. done is called
// through Options.Deliver, or before LoadBuffer returns without one.
func (c *Context) LoadBuffer(path string, done func(audio.BufferSource, error)) {
	data, err := decodeWAV(filepath.Join(c.root, filepath.FromSlash(strings.TrimPrefix(path, "/"))), c.sampleRate)
	finish := func() {
		if err != nil {
			done(nil, err)
			return
		}
		src := &BufferSource{data: data}
		src.init(c, src)
		c.sources = append(c.sources, src)
		done(src, nil)
	}
	if c.deliver != nil {
		c.deliver(finish)
		return
	}
	finish()
}

// decodeWAV reads a PCM WAV file into two float channels at sampleRate.
// Mono files are duplicated; other rates are resampled linearly.
func decodeWAV(path string, sampleRate float64) ([2][]float64, error) {
	var out [2][]float64

	f, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return out, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	if err := decoder.FwdToPCM(); err != nil {
		return out, err
	}
	format := decoder.Format()
	bitDepth := int(decoder.SampleBitDepth())
	if bitDepth == 0 || format == nil || format.NumChannels == 0 {
		return out, fmt.Errorf("%w: unknown format for %s", ErrInvalidWAV, path)
	}
	bytesPerSample := (bitDepth-1)/8 + 1
	nsamples := int(decoder.PCMLen()) / bytesPerSample

	buf := &goaudio.IntBuffer{
		Format:         format,
		Data:           make([]int, nsamples),
		SourceBitDepth: bitDepth,
	}
	n, err := decoder.PCMBuffer(buf)
	if err != nil {
		return out, err
	}
	buf.Data = buf.Data[:n]
	floatBuf := buf.AsFloatBuffer()
	factor := math.Pow(2, float64(bitDepth-1))

	nchannels := format.NumChannels
	nframes := len(floatBuf.Data) / nchannels
	for ch := 0; ch < 2; ch++ {
		src := ch
		if src >= nchannels {
			src = nchannels - 1
		}
		samples := make([]float64, nframes)
		for i := range samples {
			samples[i] = floatBuf.Data[i*nchannels+src] / factor
		}
		out[ch] = resample(samples, float64(format.SampleRate), sampleRate)
	}
	common.Debugf("decoded %s: %d frames, %d channels, %d bit", path, nframes, nchannels, bitDepth)
	return out, nil
}

func resample(in []float64, from, to float64) []float64 {
	if from == to || from <= 0 || len(in) == 0 {
		return in
	}
	ratio := from / to
	out := make([]float64, int(float64(len(in))/ratio))
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		frac := pos - float64(j)
		next := j + 1
		if next >= len(in) {
			next = len(in) - 1
		}
		out[i] = in[j]*(1-frac) + in[next]*frac
	}
	return out
}
