// Package config holds runtime configuration for the tuner: audio device
// settings, core analysis parameters, recording, and transport sinks.
// Values come from built-in defaults, an optional YAML file, environment
// overrides, and finally command-line flags, in that order.
package config

import "time"

// Defaults and limits for the audio and analysis configuration.
const (
	DefaultDeviceID        = MinDeviceID // system default input device
	DefaultChannels        = 1           // mono capture
	DefaultSampleRate      = 44100.0     // CD-quality audio
	DefaultFramesPerBuffer = 2048        // analysis window, ~46 ms at 44.1 kHz
	DefaultLowLatency      = false

	DefaultReferenceFrequency   = 440.0 // A4
	DefaultMinRMS               = 0.01
	DefaultCorrelationThreshold = 0.01
	DefaultMinOffset            = 8
	DefaultUpdateInterval       = 16 * time.Millisecond // ~60 Hz display cadence

	MinDeviceID        = -1     // -1 selects the system default device
	MinSampleRate      = 8000.0 // Hz
	MaxSampleRate      = 192000.0
	MinFramesPerBuffer = 16 // smallest meaningful correlation window
	MaxFramesPerBuffer = 8192
)

// Config is the root configuration structure, loadable from YAML.
type Config struct {
	LogLevel  string          `yaml:"log_level"` // "debug", "info", "warn", "error"
	Audio     AudioConfig     `yaml:"audio"`
	Tuner     TunerConfig     `yaml:"tuner"`
	Recording RecordingConfig `yaml:"recording"`
	Transport TransportConfig `yaml:"transport"`

	// Set by the CLI, never by file or environment.
	Command string `yaml:"-"` // one-off command ("list"), empty for normal runs
	TUIMode bool   `yaml:"-"` // run the terminal display
	Verbose bool   `yaml:"-"` // force debug logging
}

// AudioConfig holds capture settings.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index, -1 for default
	Channels        int     `yaml:"channels"`          // input channels; multi-channel is downmixed
	SampleRate      float64 `yaml:"sample_rate"`       // Hz
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // analysis window length in frames
	LowLatency      bool    `yaml:"low_latency"`       // request low-latency settings from the device
}

// TunerConfig holds the analysis-core parameters. The correlation threshold
// is absolute and assumes unit-scale float samples; changing the capture
// scale requires retuning it.
type TunerConfig struct {
	ReferenceFrequency   float64       `yaml:"reference_frequency"`   // tuning of A4 in Hz
	MinRMS               float64       `yaml:"min_rms"`               // signal gate level
	CorrelationThreshold float64       `yaml:"correlation_threshold"` // autocorrelation acceptance level
	MinOffset            int           `yaml:"min_offset_samples"`    // smallest trial lag
	UpdateInterval       time.Duration `yaml:"update_interval"`       // analysis cycle cadence
}

// RecordingConfig holds settings for optional WAV capture of the input.
type RecordingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputFile string `yaml:"output_file"` // auto-generated when empty
	BitDepth   int    `yaml:"bit_depth"`   // 16 or 24
}

// TransportConfig holds settings for the network result sinks.
type TransportConfig struct {
	WebSocketEnabled bool   `yaml:"websocket_enabled"`
	WebSocketAddr    string `yaml:"websocket_addr"` // listen address, e.g. ":8080"
	UDPEnabled       bool   `yaml:"udp_enabled"`
	UDPTargetAddress string `yaml:"udp_target_address"` // e.g. "127.0.0.1:9090"
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			Channels:        DefaultChannels,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
		},
		Tuner: TunerConfig{
			ReferenceFrequency:   DefaultReferenceFrequency,
			MinRMS:               DefaultMinRMS,
			CorrelationThreshold: DefaultCorrelationThreshold,
			MinOffset:            DefaultMinOffset,
			UpdateInterval:       DefaultUpdateInterval,
		},
		Recording: RecordingConfig{
			Enabled:  false,
			BitDepth: 16,
		},
		Transport: TransportConfig{
			WebSocketEnabled: false,
			WebSocketAddr:    ":8080",
			UDPEnabled:       false,
			UDPTargetAddress: "127.0.0.1:9090",
		},
	}
}
