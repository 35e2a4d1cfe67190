package audio

import "errors"

// ErrInvalidConfig is returned for configs with out-of-range values.
var ErrInvalidConfig = errors.New("audio: invalid config")

// ChordWelcome names the two-stage chord played when entering the site.
const ChordWelcome = "welcome"

var AudioConfig = Config{
	// Master settings
	MasterVolume:   1.0,
	AudioAmplitude: 0.3,

	// Filter settings
	FilterCutoffMax:    5000,
	FilterRampTime:     0.02,
	FilterHoldRampTime: 0.2,
	FilterQ:            1.0,

	// Vibrato settings
	EnableVibrato:   true,
	VibratoRateMin:  0.5,
	VibratoRateMax:  10,
	VibratoDepthMin: 0.25,
	VibratoDepthMax: 1.5,
	VibratoRampTime: 0.1,

	// Throttles
	UpdateThrottle:        3,
	AmplitudeFadeThrottle: 3,

	// Ambient reverb
	SubtleReverbDuration: 2,
	SubtleReverbDecay:    2,
	SubtleReverbWet:      0.2,

	// Intense reverb
	IntenseReverbDuration: 6,
	IntenseReverbDecay:    3,
	IntenseReverbWet:      1,
	IntenseFadeIn:         0,
	IntenseFadeOut:        10,

	// Media audio
	MediaFilterFreq:     4000,
	MediaReverbDuration: 8,
	MediaReverbDecay:    3,
	MediaReverbWet:      0.8,

	// Voice lifecycle
	DisposeMargin:        0.05,
	HoverAmplitudeMult:   0.1,
	TabChordSpacing:      0.06,
	DefaultStopAllFadeMs: 2000,

	// Envelopes
	EnvWelcome:      ADSR{Attack: 0.1, Decay: 0.3, Sustain: 0.7, Release: 6.0},
	EnvTab:          ADSR{Attack: 0.01, Decay: 0.05, Sustain: 0, Release: 0.1},
	EnvPortfolio:    ADSR{Attack: 0.01, Decay: 0.5, Sustain: 0, Release: 0.1},
	EnvHover:        ADSR{Attack: 0.2, Decay: 0.3, Sustain: 0.6, Release: 0.5},
	EnvWelcomeChord: ADSR{Attack: 0.1, Decay: 0.3, Sustain: 0.4, Release: 1.0},
}
