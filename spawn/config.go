package spawn

import (
	"errors"
	"fmt"
	"math"

	"github.com/simukka/spawnfield/common"
)

// ErrInvalidConfig is wrapped by every spawn config validation failure.
var ErrInvalidConfig = errors.New("spawn: invalid config")

// Config holds the driver defaults.
type Config struct {
	// Image animation
	Duration    float64 `mapstructure:"duration"`     // seconds on screen
	FadeStart   float64 `mapstructure:"fade_start"`   // seconds before the end at which the fade-out begins
	ScaleGrowth float64 `mapstructure:"scale_growth"` // scale added over the whole duration
	SpeedMin    float64 `mapstructure:"speed_min"`    // px per 1/60 s
	SpeedMax    float64 `mapstructure:"speed_max"`
	SizeMin     float64 `mapstructure:"size_min"` // px
	SizeMax     float64 `mapstructure:"size_max"`

	// Caption ticker
	TickerBottomMargin float64 `mapstructure:"ticker_bottom_margin"`
	TickerSpacing      float64 `mapstructure:"ticker_spacing"`
}

// DriverConfig is the default driver configuration.
var DriverConfig = Config{
	Duration:    10,
	FadeStart:   6,
	ScaleGrowth: 2,
	SpeedMin:    0.05,
	SpeedMax:    0.1,
	SizeMin:     150,
	SizeMax:     300,

	TickerBottomMargin: 20,
	TickerSpacing:      10,
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Validate checks the ranges of c.
func (c Config) Validate() error {
	if !finite(c.Duration, c.FadeStart, c.ScaleGrowth, c.SpeedMin, c.SpeedMax, c.SizeMin, c.SizeMax) {
		return fmt.Errorf("%w: non-finite value", ErrInvalidConfig)
	}
	if c.Duration <= 0 || c.FadeStart < 0 || c.FadeStart > c.Duration {
		return fmt.Errorf("%w: duration %v with fade start %v", ErrInvalidConfig, c.Duration, c.FadeStart)
	}
	if c.SpeedMin < 0 || c.SpeedMax < c.SpeedMin {
		return fmt.Errorf("%w: speed range [%v, %v]", ErrInvalidConfig, c.SpeedMin, c.SpeedMax)
	}
	if c.SizeMin <= 0 || c.SizeMax < c.SizeMin {
		return fmt.Errorf("%w: size range [%v, %v]", ErrInvalidConfig, c.SizeMin, c.SizeMax)
	}
	if c.TickerBottomMargin < 0 || c.TickerSpacing < 0 {
		return fmt.Errorf("%w: negative ticker layout", ErrInvalidConfig)
	}
	return nil
}

// ImageSpawnConfig parametrizes the image loop.
type ImageSpawnConfig struct {
	Duration    float64
	FadeStart   float64
	ScaleGrowth float64
	SpeedMin    float64
	SpeedMax    float64
	SizeMin     float64
	SizeMax     float64
	Caption     bool
}

// NewImageSpawnConfig derives the image config from the driver defaults.
func NewImageSpawnConfig(c Config, caption bool) (ImageSpawnConfig, error) {
	ic := ImageSpawnConfig{
		Duration:    c.Duration,
		FadeStart:   c.FadeStart,
		ScaleGrowth: c.ScaleGrowth,
		SpeedMin:    c.SpeedMin,
		SpeedMax:    c.SpeedMax,
		SizeMin:     c.SizeMin,
		SizeMax:     c.SizeMax,
		Caption:     caption,
	}
	if err := ic.Validate(); err != nil {
		return ImageSpawnConfig{}, err
	}
	return ic, nil
}

// Validate checks the ranges of ic.
func (ic ImageSpawnConfig) Validate() error {
	return Config{
		Duration:    ic.Duration,
		FadeStart:   ic.FadeStart,
		ScaleGrowth: ic.ScaleGrowth,
		SpeedMin:    ic.SpeedMin,
		SpeedMax:    ic.SpeedMax,
		SizeMin:     ic.SizeMin,
		SizeMax:     ic.SizeMax,
	}.Validate()
}

// PlaybackMode picks the next video of a set.
type PlaybackMode int

const (
	PlaybackRandom PlaybackMode = iota
	PlaybackSequential
)

// SpeedMode decides the video playback rate.
type SpeedMode int

const (
	// SpeedStretched fits the clip into the fixed duration.
	SpeedStretched SpeedMode = iota
	SpeedNormal
)

// DurationMode decides how long a video stays on screen.
type DurationMode int

const (
	DurationFixed DurationMode = iota
	// DurationFull uses the clip's own length when playing at normal speed.
	DurationFull
)

// SizeMode bounds the video element.
type SizeMode int

const (
	SizeRandom SizeMode = iota
	SizeMax
	SizeFullscreen
)

// Movement sets the drift speed of a video.
type Movement int

const (
	MovementNormal Movement = iota
	MovementSubtle
	MovementNone
)

var (
	playbackNames = []string{"random", "sequential"}
	speedNames    = []string{"stretched", "normal"}
	durationNames = []string{"fixed", "full"}
	sizeNames     = []string{"random", "max", "fullscreen"}
	movementNames = []string{"normal", "subtle", "none"}
)

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func (m PlaybackMode) String() string { return enumName(playbackNames, int(m)) }
func (m SpeedMode) String() string    { return enumName(speedNames, int(m)) }
func (m DurationMode) String() string { return enumName(durationNames, int(m)) }
func (m SizeMode) String() string     { return enumName(sizeNames, int(m)) }
func (m Movement) String() string     { return enumName(movementNames, int(m)) }

// VideoSpawnConfig parametrizes a video set.
type VideoSpawnConfig struct {
	Name          string
	Videos        []Item
	Playback      PlaybackMode
	Speed         SpeedMode
	Duration      DurationMode
	FixedDuration float64 // seconds
	FadeIn        float64 // seconds, 0 disables the fade-in
	FadeStart     float64 // seconds before the end
	Caption       bool
	Voice         bool
	Chord         bool // Two-voice chord instead of a single voice
	Size          SizeMode
	Movement      Movement
	ScaleGrowth   float64

	cursor int
}

// NewVideoSpawnConfig validates vc and returns a copy with a fresh cursor.
func NewVideoSpawnConfig(vc VideoSpawnConfig) (*VideoSpawnConfig, error) {
	if err := vc.Validate(); err != nil {
		return nil, err
	}
	vc.Videos = append([]Item(nil), vc.Videos...)
	vc.cursor = 0
	return &vc, nil
}

// Validate checks modes and timings.
func (vc *VideoSpawnConfig) Validate() error {
	if !finite(vc.FixedDuration, vc.FadeIn, vc.FadeStart, vc.ScaleGrowth) {
		return fmt.Errorf("%w: %s: non-finite value", ErrInvalidConfig, vc.Name)
	}
	if vc.Playback < PlaybackRandom || vc.Playback > PlaybackSequential ||
		vc.Speed < SpeedStretched || vc.Speed > SpeedNormal ||
		vc.Duration < DurationFixed || vc.Duration > DurationFull ||
		vc.Size < SizeRandom || vc.Size > SizeFullscreen ||
		vc.Movement < MovementNormal || vc.Movement > MovementNone {
		return fmt.Errorf("%w: %s: unknown mode", ErrInvalidConfig, vc.Name)
	}
	if vc.FixedDuration <= 0 {
		return fmt.Errorf("%w: %s: fixed duration %v", ErrInvalidConfig, vc.Name, vc.FixedDuration)
	}
	if vc.FadeIn < 0 || vc.FadeStart < 0 || vc.FadeIn+vc.FadeStart > vc.FixedDuration {
		return fmt.Errorf("%w: %s: fade-in %v and fade start %v exceed %v", ErrInvalidConfig, vc.Name, vc.FadeIn, vc.FadeStart, vc.FixedDuration)
	}
	if vc.ScaleGrowth < 0 {
		return fmt.Errorf("%w: %s: scale growth %v", ErrInvalidConfig, vc.Name, vc.ScaleGrowth)
	}
	return nil
}

// Next picks the next video. Sequential sets advance the cursor and report
// the 1-based position of the pick; random picks report 0.
func (vc *VideoSpawnConfig) Next(rng *common.SeededRNG) (it Item, ordinal int, ok bool) {
	if len(vc.Videos) == 0 {
		return Item{}, 0, false
	}
	if vc.Playback == PlaybackSequential {
		i := vc.cursor % len(vc.Videos)
		vc.cursor = (i + 1) % len(vc.Videos)
		return vc.Videos[i], i + 1, true
	}
	return vc.Videos[rng.Intn(len(vc.Videos))], 0, true
}

// Reset rewinds the sequential cursor.
func (vc *VideoSpawnConfig) Reset() {
	vc.cursor = 0
}

// WelcomeVideoConfig is the random video config used by the default policy.
func WelcomeVideoConfig(c Config, videos []Item) *VideoSpawnConfig {
	return &VideoSpawnConfig{
		Name:          "welcome",
		Videos:        videos,
		Playback:      PlaybackRandom,
		Speed:         SpeedStretched,
		Duration:      DurationFixed,
		FixedDuration: c.Duration,
		FadeStart:     c.FadeStart,
		Caption:       true,
		Voice:         true,
		Chord:         true,
		Size:          SizeRandom,
		Movement:      MovementNormal,
		ScaleGrowth:   c.ScaleGrowth,
	}
}
