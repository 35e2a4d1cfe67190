package spawn

import (
	"errors"
	"math"
	"testing"

	"github.com/simukka/spawnfield/common"
)

// TestConfig_Validate tests the driver defaults and range checks
func TestConfig_Validate(t *testing.T) {
	if err := DriverConfig.Validate(); err != nil {
		t.Fatalf("Expected default config to validate, got %v", err)
	}
	bad := []func(c *Config){
		func(c *Config) { c.Duration = 0 },
		func(c *Config) { c.FadeStart = 11 },
		func(c *Config) { c.SpeedMax = 0.01 },
		func(c *Config) { c.SizeMin = math.NaN() },
	}
	for i, mutate := range bad {
		c := DriverConfig
		mutate(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}

	ic, err := NewImageSpawnConfig(DriverConfig, true)
	if err != nil {
		t.Fatal(err)
	}
	if ic.Duration != 10 || ic.FadeStart != 6 || !ic.Caption {
		t.Errorf("Expected derived image config, got %+v", ic)
	}
}

// TestVideoSpawnConfig_Validate tests mode and timing checks
func TestVideoSpawnConfig_Validate(t *testing.T) {
	good := VideoSpawnConfig{Name: "set", FixedDuration: 10, FadeIn: 3, FadeStart: 3, ScaleGrowth: 1.01}
	if _, err := NewVideoSpawnConfig(good); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}
	bad := []VideoSpawnConfig{
		{Name: "zero", FixedDuration: 0},
		{Name: "overlap", FixedDuration: 5, FadeIn: 3, FadeStart: 3},
		{Name: "mode", FixedDuration: 10, Size: SizeMode(7)},
		{Name: "growth", FixedDuration: 10, ScaleGrowth: -1},
	}
	for _, vc := range bad {
		if _, err := NewVideoSpawnConfig(vc); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", vc.Name, err)
		}
	}
	if SizeFullscreen.String() != "fullscreen" || MovementSubtle.String() != "subtle" {
		t.Errorf("Expected mode names, got %s and %s", SizeFullscreen, MovementSubtle)
	}
}

// TestVideoSpawnConfig_Next tests sequential cycling and random picks
func TestVideoSpawnConfig_Next(t *testing.T) {
	rng := common.NewSeededRNG(7)
	vc, err := NewVideoSpawnConfig(VideoSpawnConfig{
		Name:          "seq",
		Videos:        []Item{{Path: "a.mp4"}, {Path: "b.mp4"}},
		Playback:      PlaybackSequential,
		FixedDuration: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.mp4", "b.mp4", "a.mp4"}
	for i, path := range want {
		it, ordinal, ok := vc.Next(rng)
		if !ok || it.Path != path {
			t.Errorf("pick %d: expected %s, got %s", i, path, it.Path)
		}
		if ordinal != i%2+1 {
			t.Errorf("pick %d: expected ordinal %d, got %d", i, i%2+1, ordinal)
		}
	}

	vc.Playback = PlaybackRandom
	if _, ordinal, ok := vc.Next(rng); !ok || ordinal != 0 {
		t.Errorf("Expected random pick with ordinal 0, got %d", ordinal)
	}

	empty := &VideoSpawnConfig{FixedDuration: 10}
	if _, _, ok := empty.Next(rng); ok {
		t.Error("Expected no pick from an empty set")
	}
}
