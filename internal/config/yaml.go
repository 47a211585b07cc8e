// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file specified by path. If path
// is empty it searches default locations ("config.yaml"). If no file is found
// the built-in defaults are used. After loading, environment variable
// overrides are applied and the final configuration is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		candidates := []string{
			"config.yaml",
		}
		found := false
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				found = true
				break
			}
		}
		if !found {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment overrides apply after the file so they always win.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the engine and analysis core
// cannot operate with. It mirrors the constructor checks of the analysis
// core so misconfiguration surfaces at startup rather than mid-stream.
func (c *Config) Validate() error {
	a := c.Audio
	if a.SampleRate < MinSampleRate || a.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %v out of range [%v, %v]",
			a.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if a.FramesPerBuffer < MinFramesPerBuffer || a.FramesPerBuffer > MaxFramesPerBuffer {
		return fmt.Errorf("audio.frames_per_buffer %d out of range [%d, %d]",
			a.FramesPerBuffer, MinFramesPerBuffer, MaxFramesPerBuffer)
	}
	if a.FramesPerBuffer%2 != 0 {
		return fmt.Errorf("audio.frames_per_buffer %d must be even", a.FramesPerBuffer)
	}
	if a.Channels < 1 {
		return fmt.Errorf("audio.channels %d must be at least 1", a.Channels)
	}
	if a.InputDevice < MinDeviceID {
		return fmt.Errorf("audio.input_device %d invalid (use -1 for default)", a.InputDevice)
	}

	t := c.Tuner
	if t.ReferenceFrequency <= 0 {
		return fmt.Errorf("tuner.reference_frequency %v must be positive", t.ReferenceFrequency)
	}
	if t.MinOffset < 1 || t.MinOffset >= a.FramesPerBuffer/2 {
		return fmt.Errorf("tuner.min_offset_samples %d out of range [1, %d)",
			t.MinOffset, a.FramesPerBuffer/2)
	}
	if t.UpdateInterval <= 0 {
		return fmt.Errorf("tuner.update_interval %v must be positive", t.UpdateInterval)
	}

	if c.Recording.Enabled {
		if bd := c.Recording.BitDepth; bd != 16 && bd != 24 {
			return fmt.Errorf("recording.bit_depth %d unsupported (use 16 or 24)", bd)
		}
	}

	if c.Transport.WebSocketEnabled && c.Transport.WebSocketAddr == "" {
		return fmt.Errorf("transport.websocket_addr must be set when the websocket sink is enabled")
	}
	if c.Transport.UDPEnabled && c.Transport.UDPTargetAddress == "" {
		return fmt.Errorf("transport.udp_target_address must be set when the UDP sink is enabled")
	}

	return nil
}

// applyEnvOverrides applies TUNER_* environment variables on top of whatever
// the file (or defaults) provided. Unparseable values are ignored.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("TUNER_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv("TUNER_SAMPLE_RATE"); ok {
		if fVal, err := strconv.ParseFloat(val, 64); err == nil {
			c.Audio.SampleRate = fVal
		}
	}
	if val, ok := os.LookupEnv("TUNER_FRAMES_PER_BUFFER"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			c.Audio.FramesPerBuffer = iVal
		}
	}
	if val, ok := os.LookupEnv("TUNER_INPUT_DEVICE"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			c.Audio.InputDevice = iVal
		}
	}
	if val, ok := os.LookupEnv("TUNER_REFERENCE_FREQUENCY"); ok {
		if fVal, err := strconv.ParseFloat(val, 64); err == nil {
			c.Tuner.ReferenceFrequency = fVal
		}
	}
	if val, ok := os.LookupEnv("TUNER_UPDATE_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			c.Tuner.UpdateInterval = dur
		}
	}
	if val, ok := os.LookupEnv("TUNER_UDP_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Transport.UDPEnabled = bVal
		}
	}
	if val, ok := os.LookupEnv("TUNER_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
	}
	if val, ok := os.LookupEnv("TUNER_WEBSOCKET_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Transport.WebSocketEnabled = bVal
		}
	}
	if val, ok := os.LookupEnv("TUNER_WEBSOCKET_ADDR"); ok {
		c.Transport.WebSocketAddr = val
	}
}
