package media

import (
	"errors"
	"fmt"
	"time"

	"github.com/simukka/spawnfield/audio"
	"github.com/simukka/spawnfield/common"
	"github.com/simukka/spawnfield/sched"
	"github.com/simukka/spawnfield/spawn"
)

// ErrInvalidConfig is wrapped by controller config validation failures.
var ErrInvalidConfig = errors.New("media: invalid config")

// Config holds the default spawn policy.
type Config struct {
	MinImagesBeforeVideo int     `mapstructure:"min_images_before_video"` // images since the last video before another is eligible
	VideoProbability     float64 `mapstructure:"video_probability"`       // chance of a video once eligible
	ImageCaptions        bool    `mapstructure:"image_captions"`
}

// ControllerConfig is the default policy.
var ControllerConfig = Config{
	MinImagesBeforeVideo: 4,
	VideoProbability:     0.1,
	ImageCaptions:        true,
}

// Validate checks the policy bounds.
func (c Config) Validate() error {
	if c.MinImagesBeforeVideo < 0 {
		return fmt.Errorf("%w: min images before video %d", ErrInvalidConfig, c.MinImagesBeforeVideo)
	}
	if c.VideoProbability < 0 || c.VideoProbability > 1 {
		return fmt.Errorf("%w: video probability %v", ErrInvalidConfig, c.VideoProbability)
	}
	return nil
}

// Controller decides between images and videos, runs directed playback and
// forwards UI feedback to the audio engine.
type Controller struct {
	cfg    Config
	engine *audio.Engine
	driver *spawn.Driver
	tasks  *sched.Tasks
	rng    *common.SeededRNG

	images  *Library
	videos  *Library
	presets map[string][]Asset
	configs map[string]*spawn.VideoSpawnConfig

	imageConfig  spawn.ImageSpawnConfig
	welcomeVideo *spawn.VideoSpawnConfig
	directed     *spawn.VideoSpawnConfig

	imagesSinceLastVideo int
	hovering             bool
	running              bool
}

// effectsKey owns the per-frame effects task.
const effectsKey = 0

// NewController wires a controller over an engine and a driver sharing s.
func NewController(cfg Config, engine *audio.Engine, driver *spawn.Driver, s sched.Scheduler, rng *common.SeededRNG) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ic, err := spawn.NewImageSpawnConfig(driver.Config(), cfg.ImageCaptions)
	if err != nil {
		return nil, err
	}
	welcome, err := spawn.NewVideoSpawnConfig(*spawn.WelcomeVideoConfig(driver.Config(), nil))
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = common.NewSeededRNG(uint32(time.Now().UnixNano()))
	}
	return &Controller{
		cfg:          cfg,
		engine:       engine,
		driver:       driver,
		tasks:        sched.NewTasks(s),
		rng:          rng,
		presets:      make(map[string][]Asset),
		configs:      make(map[string]*spawn.VideoSpawnConfig),
		imageConfig:  ic,
		welcomeVideo: welcome,
	}, nil
}

// SetImages installs the image library.
func (c *Controller) SetImages(l *Library) {
	c.images = l
}

// SetVideos installs the welcome video library.
func (c *Controller) SetVideos(l *Library) {
	c.videos = l
}

// SetDirectedVideos registers the video set for a directed preset.
func (c *Controller) SetDirectedVideos(name string, assets []Asset) {
	c.presets[name] = assets
	delete(c.configs, name)
}

// presetConfig returns the config of a registered preset, building it on
// first use so its sequential cursor survives between calls.
func (c *Controller) presetConfig(name string) (*spawn.VideoSpawnConfig, bool) {
	if vc, ok := c.configs[name]; ok {
		return vc, true
	}
	assets, ok := c.presets[name]
	if !ok {
		common.DebugWarn("media: unknown preset:", name)
		return nil, false
	}
	vc, err := spawn.NewVideoSpawnConfig(*DirectedPreset(name, Items(assets)))
	if err != nil {
		common.DebugError("media: preset", name, err)
		return nil, false
	}
	c.configs[name] = vc
	return vc, true
}

// SpawnPreset spawns the next video of the named preset at (x, y) without
// changing the policy.
func (c *Controller) SpawnPreset(x, y float64, name string) *spawn.Animation {
	vc, ok := c.presetConfig(name)
	if !ok {
		return nil
	}
	return c.SpawnVideoFromConfig(x, y, vc)
}

// ImagesSinceLastVideo returns the policy counter.
func (c *Controller) ImagesSinceLastVideo() int {
	return c.imagesSinceLastVideo
}

// Engine returns the audio engine.
func (c *Controller) Engine() *audio.Engine {
	return c.engine
}

// Driver returns the animation driver.
func (c *Controller) Driver() *spawn.Driver {
	return c.driver
}

// SpawnMedia spawns at (x, y) by the current policy. It returns nil when
// nothing was spawned.
func (c *Controller) SpawnMedia(x, y float64) *spawn.Animation {
	if c.directed != nil {
		return c.SpawnVideoFromConfig(x, y, c.directed)
	}
	if c.driver.VideoPlaying() {
		return nil
	}

	canImage := c.images.Loaded()
	canVideo := c.videos.Loaded()
	if !canImage && !canVideo {
		return nil
	}

	if canVideo && c.imagesSinceLastVideo >= c.cfg.MinImagesBeforeVideo && c.rng.Chance(c.cfg.VideoProbability) {
		c.imagesSinceLastVideo = 0
		a, _ := c.videos.Next()
		return c.driver.SpawnVideo(a.Item(), x, y, c.welcomeVideo, 0)
	}

	// Counted even without images, so a video-only library still reaches
	// eligibility.
	c.imagesSinceLastVideo++
	if !canImage {
		return nil
	}
	a, _ := c.images.Next()
	return c.driver.SpawnImage(a.Item(), x, y, c.imageConfig)
}

// SpawnVideoFromConfig spawns the next video of vc at (x, y).
func (c *Controller) SpawnVideoFromConfig(x, y float64, vc *spawn.VideoSpawnConfig) *spawn.Animation {
	if vc == nil {
		return nil
	}
	it, ordinal, ok := vc.Next(c.rng)
	if !ok {
		return nil
	}
	return c.driver.SpawnVideo(it, x, y, vc, ordinal)
}

// DirectedPreset builds the sequential fullscreen config for a video set.
func DirectedPreset(name string, videos []spawn.Item) *spawn.VideoSpawnConfig {
	return &spawn.VideoSpawnConfig{
		Name:          name,
		Videos:        videos,
		Playback:      spawn.PlaybackSequential,
		Speed:         spawn.SpeedNormal,
		Duration:      spawn.DurationFull,
		FixedDuration: 10,
		FadeIn:        3,
		FadeStart:     3,
		Caption:       false,
		Voice:         false,
		Size:          spawn.SizeFullscreen,
		Movement:      spawn.MovementSubtle,
		ScaleGrowth:   1.01,
	}
}

// EnterDirectedMode replaces the default policy with vc.
func (c *Controller) EnterDirectedMode(vc *spawn.VideoSpawnConfig) {
	c.directed = vc
	common.Debug("media: directed mode", vc.Name)
}

// ExitDirectedMode restores the default policy.
func (c *Controller) ExitDirectedMode() {
	c.directed = nil
}

// Directed returns the active directed config, or nil.
func (c *Controller) Directed() *spawn.VideoSpawnConfig {
	return c.directed
}

// ActivatePreset enters the named directed preset and spawns its first
// video at the screen center. When the preset is already active the next
// video is spawned once the current one has finished.
func (c *Controller) ActivatePreset(name string) *spawn.Animation {
	x, y := c.driver.Center()
	if c.directed != nil && c.directed.Name == name {
		if c.driver.VideoPlaying() {
			return nil
		}
		return c.SpawnMedia(x, y)
	}
	vc, ok := c.presetConfig(name)
	if !ok {
		return nil
	}
	vc.Reset()
	c.EnterDirectedMode(vc)
	return c.SpawnMedia(x, y)
}

// PlayChord forwards a tab chord.
func (c *Controller) PlayChord(name string) {
	c.engine.PlayChord(name)
}

// PlayPortfolioItem forwards a portfolio cue and returns its config.
func (c *Controller) PlayPortfolioItem(env *audio.ADSR, freqs []float64, depth int, actionable bool) audio.FeedbackConfig {
	return c.engine.PlayPortfolioItem(env, freqs, depth, actionable)
}

// PlayReversed forwards a back-navigation cue.
func (c *Controller) PlayReversed(cfg audio.FeedbackConfig) {
	c.engine.PlayReversed(cfg)
}

// PlayHoverAudio forwards a hover preview.
func (c *Controller) PlayHoverAudio(cfg audio.FeedbackConfig) *audio.HoverHandle {
	return c.engine.PlayHoverAudio(cfg)
}

// StopHoverAudio releases a hover preview.
func (c *Controller) StopHoverAudio(h *audio.HoverHandle) {
	c.engine.StopHoverAudio(h)
}

// StopAllHoverAudio releases every hover preview.
func (c *Controller) StopAllHoverAudio() {
	c.engine.StopAllHoverAudio()
}

// SetHover records the hover state for the effects loop and pauses the
// cursor filter while suppress is set.
func (c *Controller) SetHover(hovering, suppress bool) {
	c.hovering = hovering
	c.driver.SetFilterSuppressed(suppress)
}

// Start runs Engine.UpdateEffects once per frame. Calling it again does
// nothing.
func (c *Controller) Start() {
	if c.running {
		return
	}
	c.running = true
	c.tasks.NextFrame(effectsKey, c.frame)
}

func (c *Controller) frame(time.Duration) {
	c.engine.UpdateEffects(c.hovering)
	c.tasks.NextFrame(effectsKey, c.frame)
}

// Stop ends the effects loop.
func (c *Controller) Stop() {
	c.tasks.CancelKey(effectsKey)
	c.running = false
}

// Resume resumes a suspended audio context.
func (c *Controller) Resume() {
	c.engine.Resume()
}

// StopAll fades out every animation, voice and pending pattern. A zero fade
// uses the engine default. Both paths rely on element transitions, which
// keep running in background tabs.
func (c *Controller) StopAll(useBackgroundFade bool, fade time.Duration) {
	if fade <= 0 {
		fade = time.Duration(c.engine.Config().DefaultStopAllFadeMs) * time.Millisecond
	}
	common.Debug("media: stop all over", fade, "background:", useBackgroundFade)
	c.driver.StopAll(fade)
	c.engine.StopAll(fade)
}
