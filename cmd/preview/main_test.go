//go:build !js
// +build !js

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
)

func testConfig(t *testing.T) PreviewConfig {
	t.Helper()
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.SampleRate = 8000
	cfg.Duration = 2 * time.Second
	cfg.Tail = 2500 * time.Millisecond
	cfg.SpawnInterval = 500 * time.Millisecond
	cfg.Root = t.TempDir()
	return cfg
}

// TestSession_Run tests a scripted session from first click to silence
func TestSession_Run(t *testing.T) {
	s, err := newSession(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	samples := s.run()

	if s.spawns != 4 {
		t.Errorf("Expected 4 spawns, got %d", s.spawns)
	}
	if min := int(4.5*8000) * 2; len(samples) < min-4 {
		t.Errorf("Expected at least %d samples, got %d", min, len(samples))
	}
	if peak(samples) == 0 {
		t.Error("Expected audible output")
	}
	if s.display.Live() != 0 || s.engine.ActiveVoices() != 0 {
		t.Errorf("Expected silence after the tail, got %d elements and %d voices", s.display.Live(), s.engine.ActiveVoices())
	}
}

// TestSession_Directed tests that a directed manifest starts directed playback
func TestSession_Directed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Directed = filepath.Join(t.TempDir(), "manifest.txt")
	if err := os.WriteFile(cfg.Directed, []byte("# reel\nreel_one.mp4\nreel_two.mp4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := newSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.run()

	if len(s.display.Videos) == 0 || len(s.display.Images) != 0 {
		t.Fatalf("Expected only videos, got %d videos and %d images", len(s.display.Videos), len(s.display.Images))
	}
	if s.display.Videos[0].Path != "reel_one.mp4" {
		t.Errorf("Expected the first reel video, got %s", s.display.Videos[0].Path)
	}
}

// TestWriteWAV tests that the render is written as a readable 16-bit stereo file
func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	samples := []float32{0, 0, 0.5, -0.5, 1, -1}
	if err := writeWAV(path, samples, 8000); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	d := wav.NewDecoder(bytes.NewReader(data))
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if d.NumChans != 2 || d.SampleRate != 8000 || len(buf.Data) != len(samples) {
		t.Errorf("Expected 3 stereo frames at 8000 Hz, got %d values, %d channels at %d", len(buf.Data), d.NumChans, d.SampleRate)
	}
}

// TestLoadConfig tests that file sections override package defaults
func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.yaml")
	body := "duration: 5s\nmedia:\n  video_probability: 0.5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Duration != 5*time.Second {
		t.Errorf("Expected 5s, got %v", cfg.Duration)
	}
	if cfg.Media.VideoProbability != 0.5 || cfg.Media.MinImagesBeforeVideo != 4 {
		t.Errorf("Expected merged media config, got %+v", cfg.Media)
	}
	if cfg.Spawn.Duration != 10 {
		t.Errorf("Expected default spawn duration, got %f", cfg.Spawn.Duration)
	}
}

// TestSampleReader tests float32 little-endian encoding
func TestSampleReader(t *testing.T) {
	r := newSampleReader([]float32{1})
	p := make([]byte, 8)
	n, _ := r.Read(p)
	if n != 4 || !bytes.Equal(p[:4], []byte{0, 0, 0x80, 0x3f}) {
		t.Errorf("Expected 1.0 as LE float32, got % x", p[:n])
	}
	if _, err := r.Read(p); err == nil {
		t.Error("Expected EOF")
	}
}
