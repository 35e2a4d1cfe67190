//go:build !js
// +build !js

package main

import (
	"io"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	channelCount = 2
	bitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// sampleReader streams interleaved float32 samples as little-endian bytes.
type sampleReader struct {
	data []byte
	pos  int
}

func newSampleReader(samples []float32) *sampleReader {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := math.Float32bits(s)
		buf[i*4] = byte(v)
		buf[i*4+1] = byte(v >> 8)
		buf[i*4+2] = byte(v >> 16)
		buf[i*4+3] = byte(v >> 24)
	}
	return &sampleReader{data: buf}
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// playSamples blocks until the render has played out.
func playSamples(samples []float32, sampleRate int) error {
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, bitDepth)
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(newSampleReader(samples))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}
