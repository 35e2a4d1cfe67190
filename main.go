//go:build js
// +build js

package main

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/spawnfield/audio"
	"github.com/simukka/spawnfield/audio/webaudio"
	"github.com/simukka/spawnfield/common"
	"github.com/simukka/spawnfield/media"
	"github.com/simukka/spawnfield/sched"
	"github.com/simukka/spawnfield/spawn"
	"github.com/simukka/spawnfield/spawn/dom"
)

const (
	welcomeDir  = "assets/visual/welcome/"
	movieDir    = "assets/visual/welcome/movie/"
	directedDir = "assets/visual/biebl/"

	directedPreset = "biebl"
	hiddenFade     = 2000 * time.Millisecond
)

// fetchManifest loads dir/manifest.txt and hands the parsed assets to done.
// A missing manifest leaves the set empty.
func fetchManifest(dir string, skipComments bool, done func([]media.Asset)) {
	fail := func(reason *js.Object) {
		common.DebugWarn("manifest", dir, "unavailable:", reason)
	}
	js.Global.Call("fetch", dir+"manifest.txt").Call("then", func(response *js.Object) {
		if !response.Get("ok").Bool() {
			common.DebugWarn("manifest", dir, response.Get("status").Int())
			return
		}
		response.Call("text").Call("then", func(text string) {
			assets, err := media.ParseManifest(strings.NewReader(text), dir, skipComments)
			if err != nil {
				common.DebugError(err)
				return
			}
			common.Debug("Loaded", len(assets), "assets from", dir)
			done(assets)
		}, fail)
	}, fail)
}

// fetchAssets asks the dev server for the parsed set, whose assets carry a
// sniffed media type, and falls back to the raw manifest when the page is
// served statically.
func fetchAssets(set, dir string, skipComments bool, done func([]media.Asset)) {
	fallback := func(*js.Object) {
		fetchManifest(dir, skipComments, done)
	}
	js.Global.Call("fetch", "api/manifest?set="+set).Call("then", func(response *js.Object) {
		if !response.Get("ok").Bool() {
			fallback(nil)
			return
		}
		response.Call("text").Call("then", func(text string) {
			var m media.Manifest
			if err := json.Unmarshal([]byte(text), &m); err != nil {
				common.DebugWarn("manifest", set, err)
				fallback(nil)
				return
			}
			common.Debug("Loaded", len(m.Assets), "assets from set", set)
			done(m.Assets)
		}, fallback)
	}, fallback)
}

// feedbackFromJS reads a {frequencies, adsr, depth} object.
func feedbackFromJS(o *js.Object) audio.FeedbackConfig {
	var cfg audio.FeedbackConfig
	if o == nil || o == js.Undefined {
		return cfg
	}
	if freqs := o.Get("frequencies"); freqs != js.Undefined && freqs != nil {
		for i := 0; i < freqs.Length(); i++ {
			cfg.Frequencies = append(cfg.Frequencies, freqs.Index(i).Float())
		}
	}
	if env := o.Get("adsr"); env != js.Undefined && env != nil {
		cfg.Envelope = audio.ADSR{
			Attack:  env.Get("attack").Float(),
			Decay:   env.Get("decay").Float(),
			Sustain: env.Get("sustain").Float(),
			Release: env.Get("release").Float(),
		}
	}
	if depth := o.Get("depth"); depth != js.Undefined && depth != nil {
		cfg.Depth = depth.Int()
	}
	return cfg
}

func feedbackToJS(cfg audio.FeedbackConfig) map[string]interface{} {
	return map[string]interface{}{
		"frequencies": cfg.Frequencies,
		"adsr": map[string]interface{}{
			"attack":  cfg.Envelope.Attack,
			"decay":   cfg.Envelope.Decay,
			"sustain": cfg.Envelope.Sustain,
			"release": cfg.Envelope.Release,
		},
		"depth": cfg.Depth,
	}
}

func main() {
	seed := uint32(time.Now().UnixNano())
	rng := common.Stream(seed, common.StreamLibrary)

	ctx, err := webaudio.NewContext(common.Stream(seed, common.StreamContext))
	if err != nil {
		common.DebugError(err)
		return
	}
	clock := sched.NewBrowser()
	display := dom.NewDisplay("field")
	device := dom.DetectDevice()

	engine, err := audio.NewEngine(ctx, clock, display, audio.Options{Config: audio.AudioConfig, RNG: common.Stream(seed, common.StreamEngine)})
	if err != nil {
		common.DebugError(err)
		return
	}
	driver, err := spawn.NewDriver(spawn.DriverConfig, engine, display, clock, device, common.Stream(seed, common.StreamDriver))
	if err != nil {
		common.DebugError(err)
		return
	}
	controller, err := media.NewController(media.ControllerConfig, engine, driver, clock, common.Stream(seed, common.StreamPolicy))
	if err != nil {
		common.DebugError(err)
		return
	}

	var images, videos []media.Asset
	addSet := func(fallback spawn.Kind) func([]media.Asset) {
		return func(assets []media.Asset) {
			im, vi := media.SplitByKind(assets, fallback)
			images = append(images, im...)
			videos = append(videos, vi...)
			controller.SetImages(media.NewLibrary(images, rng))
			controller.SetVideos(media.NewLibrary(videos, rng))
		}
	}
	fetchAssets("welcome", welcomeDir, false, addSet(spawn.KindImage))
	fetchAssets("movie", movieDir, false, addSet(spawn.KindVideo))
	fetchAssets("directed", directedDir, true, func(assets []media.Asset) {
		controller.SetDirectedVideos(directedPreset, assets)
	})

	display.SetupInputHandlers(dom.Handlers{
		Spawn: func(x, y float64) {
			controller.Resume()
			controller.SpawnMedia(x, y)
		},
		Hidden: func() {
			controller.StopAll(true, hiddenFade)
		},
		Focus: controller.Resume,
		TouchStart: func() {
			if device.IsIOS {
				controller.Resume()
			}
		},
	})

	js.Global.Set("Spawnfield", map[string]interface{}{
		"spawnMedia": func(x, y float64) {
			controller.SpawnMedia(x, y)
		},
		"spawnVideoFromConfig": func(x, y float64, name string) {
			controller.SpawnPreset(x, y, name)
		},
		"playChord": func(name string) {
			controller.PlayChord(name)
		},
		"playPortfolioItem": func(depth int, actionable bool) map[string]interface{} {
			return feedbackToJS(controller.PlayPortfolioItem(nil, nil, depth, actionable))
		},
		"playReversed": func(config *js.Object) {
			controller.PlayReversed(feedbackFromJS(config))
		},
		"playHoverAudio": func(config *js.Object) interface{} {
			h := controller.PlayHoverAudio(feedbackFromJS(config))
			if h == nil {
				return nil
			}
			return h.ID()
		},
		"stopHoverAudio": func(id uint64) {
			controller.StopHoverAudio(engine.HoverByID(id))
		},
		"stopAllHoverAudio": func() {
			controller.StopAllHoverAudio()
		},
		"stopAll": func(useBackgroundFade bool, fadeMs float64) {
			controller.StopAll(useBackgroundFade, time.Duration(fadeMs*float64(time.Millisecond)))
		},
		"setHover": func(hovering, suppress bool) {
			controller.SetHover(hovering, suppress)
		},
		"setProfileShown": func(shown bool) {
			engine.SetProfileShown(shown)
		},
		"enterDirectedMode": func(name string) {
			if name == "" {
				name = directedPreset
			}
			controller.ActivatePreset(name)
		},
		"exitDirectedMode": func() {
			controller.ExitDirectedMode()
		},
	})

	controller.Start()
	common.Debug("Spawnfield ready, touch:", device.IsTouch, "iOS:", device.IsIOS)

	select {}
}
