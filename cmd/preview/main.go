//go:build !js
// +build !js

// Command preview runs a spawn session on a virtual clock and renders its
// audio offline, to a WAV file or straight to the speakers.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/simukka/spawnfield/audio"
	"github.com/simukka/spawnfield/audio/offline"
	"github.com/simukka/spawnfield/common"
	"github.com/simukka/spawnfield/media"
	"github.com/simukka/spawnfield/sched"
	"github.com/simukka/spawnfield/spawn"
)

const directedPreset = "directed"

// session is one wired headless stack.
type session struct {
	cfg        PreviewConfig
	clock      *sched.Virtual
	ctx        *offline.Context
	display    *spawn.Headless
	engine     *audio.Engine
	controller *media.Controller
	rng        *common.SeededRNG

	samples  []float32
	rendered int // Frames rendered so far
	videos   int // Headless videos already given metadata
	spawns   int
}

func newSession(cfg PreviewConfig) (*session, error) {
	clock := sched.NewVirtual()
	ctx := offline.NewContext(offline.Options{
		SampleRate: float64(cfg.SampleRate),
		Clock:      clock.Seconds,
		Root:       cfg.Root,
		Seed:       cfg.Seed,
	})
	display := spawn.NewHeadless(cfg.Width, cfg.Height)

	engine, err := audio.NewEngine(ctx, clock, display, audio.Options{Config: cfg.Audio, RNG: common.Stream(cfg.Seed, common.StreamEngine)})
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	driver, err := spawn.NewDriver(cfg.Spawn, engine, display, clock, spawn.Device{}, common.Stream(cfg.Seed, common.StreamDriver))
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	controller, err := media.NewController(cfg.Media, engine, driver, clock, common.Stream(cfg.Seed, common.StreamPolicy))
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	s := &session{
		cfg:        cfg,
		clock:      clock,
		ctx:        ctx,
		display:    display,
		engine:     engine,
		controller: controller,
		rng:        common.Stream(cfg.Seed, common.StreamLibrary),
	}
	if err := s.loadAssets(); err != nil {
		return nil, err
	}
	return s, nil
}

func readManifest(path string, skipComments bool) ([]media.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return media.ParseManifest(f, "", skipComments)
}

// syntheticImages stands in for a manifest so a bare run still spawns.
func syntheticImages(n int) []media.Asset {
	assets := make([]media.Asset, n)
	for i := range assets {
		name := fmt.Sprintf("image_%02d.jpg", i+1)
		assets[i] = media.Asset{Path: name, Caption: media.GenerateCaption(name)}
	}
	return assets
}

func (s *session) loadAssets() error {
	images := syntheticImages(8)
	if s.cfg.Images != "" {
		var err error
		if images, err = readManifest(s.cfg.Images, false); err != nil {
			return fmt.Errorf("images: %w", err)
		}
	}
	s.controller.SetImages(media.NewLibrary(images, s.rng))

	if s.cfg.Videos != "" {
		videos, err := readManifest(s.cfg.Videos, false)
		if err != nil {
			return fmt.Errorf("videos: %w", err)
		}
		s.controller.SetVideos(media.NewLibrary(videos, s.rng))
	}
	if s.cfg.Directed != "" {
		directed, err := readManifest(s.cfg.Directed, true)
		if err != nil {
			return fmt.Errorf("directed: %w", err)
		}
		s.controller.SetDirectedVideos(directedPreset, directed)
	}
	return nil
}

// click moves the pointer somewhere random and spawns there.
func (s *session) click() {
	x := s.rng.RandomFloat(0, s.cfg.Width)
	y := s.rng.RandomFloat(0, s.cfg.Height)
	s.display.MovePointer(x, y)
	if s.controller.SpawnMedia(x, y) != nil {
		s.spawns++
	}
}

// frame advances one frame, answers new videos with metadata and renders
// the audio up to the clock.
func (s *session) frame() {
	s.clock.Step()
	for ; s.videos < len(s.display.Videos); s.videos++ {
		s.display.Videos[s.videos].LoadMetadata(s.cfg.VideoLength)
	}
	target := int(math.Round(s.clock.Seconds() * float64(s.cfg.SampleRate)))
	if target > s.rendered {
		s.samples = append(s.samples, s.ctx.Render(target-s.rendered)...)
		s.rendered = target
	}
}

func (s *session) advance(d time.Duration) {
	end := s.clock.Now() + d
	for s.clock.Now() < end {
		s.frame()
	}
}

// run spawns every SpawnInterval for Duration, stops everything and renders
// the tail.
func (s *session) run() []float32 {
	s.controller.Start()
	if s.cfg.Directed != "" {
		if s.controller.ActivatePreset(directedPreset) != nil {
			s.spawns++
		}
	}

	next := time.Duration(0)
	for s.clock.Now() < s.cfg.Duration {
		if s.clock.Now() >= next {
			s.click()
			next += s.cfg.SpawnInterval
		}
		s.frame()
	}

	s.controller.StopAll(false, 0)
	s.advance(s.cfg.Tail)
	s.controller.Stop()
	return s.samples
}

func peak(samples []float32) float64 {
	p := 0.0
	for _, v := range samples {
		p = math.Max(p, math.Abs(float64(v)))
	}
	return p
}

func writeWAV(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := offline.WriteWAV(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	configPath := flag.String("config", "", "Optional config file (yaml, toml or json)")
	out := flag.String("out", "", "WAV output path (overrides config)")
	play := flag.Bool("play", false, "Play the render instead of writing it")
	duration := flag.Duration("duration", 0, "Spawning time (overrides config)")
	seed := flag.Uint("seed", 0, "Random seed (overrides config)")
	debug := flag.Bool("debug", false, "Log engine and driver events")
	flag.Parse()

	common.EnableDebug = *debug

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	if *out != "" {
		cfg.Out = *out
	}
	if *play {
		cfg.Play = true
	}
	if *duration > 0 {
		cfg.Duration = *duration
	}
	if *seed != 0 {
		cfg.Seed = uint32(*seed)
	}

	s, err := newSession(cfg)
	if err != nil {
		log.Fatal(err)
	}
	samples := s.run()
	log.Printf("Rendered %.1fs, %d spawns, peak %.3f", float64(len(samples)/2)/float64(cfg.SampleRate), s.spawns, peak(samples))

	if cfg.Play {
		if err := playSamples(samples, cfg.SampleRate); err != nil {
			log.Fatalf("Playback: %v", err)
		}
		return
	}
	if err := writeWAV(cfg.Out, samples, cfg.SampleRate); err != nil {
		log.Fatalf("Write %s: %v", cfg.Out, err)
	}
	log.Printf("Wrote %s", cfg.Out)
}
