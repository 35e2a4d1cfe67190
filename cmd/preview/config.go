//go:build !js
// +build !js

package main

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/simukka/spawnfield/audio"
	"github.com/simukka/spawnfield/media"
	"github.com/simukka/spawnfield/spawn"
)

// PreviewConfig drives one headless session. The audio, spawn and media
// sections override the package defaults field by field.
type PreviewConfig struct {
	SampleRate    int           `mapstructure:"sample_rate"`
	Duration      time.Duration `mapstructure:"duration"`       // Time spent spawning before the final stop
	Tail          time.Duration `mapstructure:"tail"`           // Rendered after the final stop
	SpawnInterval time.Duration `mapstructure:"spawn_interval"` // Time between simulated clicks
	VideoLength   float64       `mapstructure:"video_length"`   // Clip duration reported as video metadata, seconds
	Width         float64       `mapstructure:"width"`
	Height        float64       `mapstructure:"height"`
	Seed          uint32        `mapstructure:"seed"`
	Root          string        `mapstructure:"root"`     // Directory media audio paths are resolved against
	Images        string        `mapstructure:"images"`   // Image manifest, synthetic assets when empty
	Videos        string        `mapstructure:"videos"`   // Video manifest
	Directed      string        `mapstructure:"directed"` // Directed video manifest; enables directed mode
	Out           string        `mapstructure:"out"`
	Play          bool          `mapstructure:"play"`

	Audio audio.Config `mapstructure:"audio"`
	Spawn spawn.Config `mapstructure:"spawn"`
	Media media.Config `mapstructure:"media"`
}

func loadConfig(path string) (PreviewConfig, error) {
	v := viper.New()
	v.SetDefault("sample_rate", 48000)
	v.SetDefault("duration", 12*time.Second)
	v.SetDefault("tail", 3*time.Second)
	v.SetDefault("spawn_interval", 1500*time.Millisecond)
	v.SetDefault("video_length", 20.0)
	v.SetDefault("width", 1280)
	v.SetDefault("height", 800)
	v.SetDefault("seed", 1)
	v.SetDefault("root", ".")
	v.SetDefault("out", "preview.wav")
	v.SetDefault("play", false)

	v.SetEnvPrefix("spawnfield")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return PreviewConfig{}, err
		}
	}

	cfg := PreviewConfig{
		Audio: audio.AudioConfig,
		Spawn: spawn.DriverConfig,
		Media: media.ControllerConfig,
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return PreviewConfig{}, err
	}
	return cfg, nil
}
