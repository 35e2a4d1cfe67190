package audio

type Config struct {
	// Master settings
	MasterVolume   float64 `mapstructure:"master_volume"`   // 0.0 - 1.0
	AudioAmplitude float64 `mapstructure:"audio_amplitude"` // Peak amplitude of a spawn voice before loudness compensation

	// Filter settings
	FilterCutoffMax    float64 `mapstructure:"filter_cutoff_max"`     // Lowpass cutoff at screen center and on spawn
	FilterRampTime     float64 `mapstructure:"filter_ramp_time"`      // Ramp time for cursor filter updates
	FilterHoldRampTime float64 `mapstructure:"filter_hold_ramp_time"` // Ramp back to base pitch when vibrato stops
	FilterQ            float64 `mapstructure:"filter_q"`              // Lowpass resonance

	// Vibrato settings
	EnableVibrato   bool    `mapstructure:"enable_vibrato"`
	VibratoRateMin  float64 `mapstructure:"vibrato_rate_min"`  // Hz
	VibratoRateMax  float64 `mapstructure:"vibrato_rate_max"`  // Hz
	VibratoDepthMin float64 `mapstructure:"vibrato_depth_min"` // Hz
	VibratoDepthMax float64 `mapstructure:"vibrato_depth_max"` // Hz
	VibratoRampTime float64 `mapstructure:"vibrato_ramp_time"` // seconds

	// Throttles, in frames
	UpdateThrottle        int `mapstructure:"update_throttle"`         // Vibrato update period
	AmplitudeFadeThrottle int `mapstructure:"amplitude_fade_throttle"` // Fade-in amplitude update period

	// Ambient reverb send, always on
	SubtleReverbDuration float64 `mapstructure:"subtle_reverb_duration"`
	SubtleReverbDecay    float64 `mapstructure:"subtle_reverb_decay"`
	SubtleReverbWet      float64 `mapstructure:"subtle_reverb_wet"`

	// Intense reverb bus, gated by hover state
	IntenseReverbDuration float64 `mapstructure:"intense_reverb_duration"`
	IntenseReverbDecay    float64 `mapstructure:"intense_reverb_decay"`
	IntenseReverbWet      float64 `mapstructure:"intense_reverb_wet"`
	IntenseFadeIn         float64 `mapstructure:"intense_fade_in"`  // Bus ramp up time
	IntenseFadeOut        float64 `mapstructure:"intense_fade_out"` // Bus ramp down time

	// Media (video) audio chain
	MediaFilterFreq     float64 `mapstructure:"media_filter_freq"`
	MediaReverbDuration float64 `mapstructure:"media_reverb_duration"`
	MediaReverbDecay    float64 `mapstructure:"media_reverb_decay"`
	MediaReverbWet      float64 `mapstructure:"media_reverb_wet"`

	// Voice lifecycle
	DisposeMargin        float64 `mapstructure:"dispose_margin"`           // Extra seconds after release before nodes are freed
	HoverAmplitudeMult   float64 `mapstructure:"hover_amplitude_mult"`     // Hover preview loudness relative to a click
	TabChordSpacing      float64 `mapstructure:"tab_chord_spacing"`        // Seconds between tab chord notes
	DefaultStopAllFadeMs int     `mapstructure:"default_stop_all_fade_ms"` // Global stop fade when none is given

	// Envelopes per context
	EnvWelcome      ADSR `mapstructure:"env_welcome"`
	EnvTab          ADSR `mapstructure:"env_tab"`
	EnvPortfolio    ADSR `mapstructure:"env_portfolio"`
	EnvHover        ADSR `mapstructure:"env_hover"`
	EnvWelcomeChord ADSR `mapstructure:"env_welcome_chord"`
}

// Validate checks every envelope and the throttle values.
func (c Config) Validate() error {
	for _, e := range []ADSR{c.EnvWelcome, c.EnvTab, c.EnvPortfolio, c.EnvHover, c.EnvWelcomeChord} {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	if c.UpdateThrottle < 1 || c.AmplitudeFadeThrottle < 1 {
		return ErrInvalidConfig
	}
	return nil
}
