// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}
	if cfg.Audio.SampleRate != DefaultSampleRate {
		t.Errorf("sample rate = %v, want %v", cfg.Audio.SampleRate, DefaultSampleRate)
	}
	if cfg.Audio.FramesPerBuffer != DefaultFramesPerBuffer {
		t.Errorf("frames per buffer = %d, want %d", cfg.Audio.FramesPerBuffer, DefaultFramesPerBuffer)
	}
	if cfg.Tuner.ReferenceFrequency != DefaultReferenceFrequency {
		t.Errorf("reference frequency = %v, want %v", cfg.Tuner.ReferenceFrequency, DefaultReferenceFrequency)
	}
	if cfg.Tuner.UpdateInterval != DefaultUpdateInterval {
		t.Errorf("update interval = %v, want %v", cfg.Tuner.UpdateInterval, DefaultUpdateInterval)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
log_level: debug
audio:
  sample_rate: 48000
  frames_per_buffer: 4096
tuner:
  reference_frequency: 442
  update_interval: 33ms
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("sample rate = %v, want 48000", cfg.Audio.SampleRate)
	}
	if cfg.Audio.FramesPerBuffer != 4096 {
		t.Errorf("frames per buffer = %d, want 4096", cfg.Audio.FramesPerBuffer)
	}
	if cfg.Tuner.ReferenceFrequency != 442 {
		t.Errorf("reference frequency = %v, want 442", cfg.Tuner.ReferenceFrequency)
	}
	if cfg.Tuner.UpdateInterval != 33*time.Millisecond {
		t.Errorf("update interval = %v, want 33ms", cfg.Tuner.UpdateInterval)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Tuner.MinOffset != DefaultMinOffset {
		t.Errorf("min offset = %d, want default %d", cfg.Tuner.MinOffset, DefaultMinOffset)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeTempConfig(t, `
audio:
  sample_rate: 48000
`)
	t.Setenv("TUNER_SAMPLE_RATE", "96000")
	t.Setenv("TUNER_REFERENCE_FREQUENCY", "432")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Audio.SampleRate != 96000 {
		t.Errorf("sample rate = %v, want env override 96000", cfg.Audio.SampleRate)
	}
	if cfg.Tuner.ReferenceFrequency != 432 {
		t.Errorf("reference frequency = %v, want env override 432", cfg.Tuner.ReferenceFrequency)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults pass",
			mutate: func(*Config) {},
		},
		{
			name:    "sample rate too low",
			mutate:  func(c *Config) { c.Audio.SampleRate = 4000 },
			wantErr: "sample_rate",
		},
		{
			name:    "frames per buffer too large",
			mutate:  func(c *Config) { c.Audio.FramesPerBuffer = 16384 },
			wantErr: "frames_per_buffer",
		},
		{
			name:    "odd frames per buffer",
			mutate:  func(c *Config) { c.Audio.FramesPerBuffer = 2047 },
			wantErr: "must be even",
		},
		{
			name:    "zero channels",
			mutate:  func(c *Config) { c.Audio.Channels = 0 },
			wantErr: "channels",
		},
		{
			name:    "negative reference frequency",
			mutate:  func(c *Config) { c.Tuner.ReferenceFrequency = -440 },
			wantErr: "reference_frequency",
		},
		{
			name:    "min offset too large for window",
			mutate:  func(c *Config) { c.Tuner.MinOffset = 1024 },
			wantErr: "min_offset_samples",
		},
		{
			name:    "zero update interval",
			mutate:  func(c *Config) { c.Tuner.UpdateInterval = 0 },
			wantErr: "update_interval",
		},
		{
			name: "bad recording bit depth",
			mutate: func(c *Config) {
				c.Recording.Enabled = true
				c.Recording.BitDepth = 12
			},
			wantErr: "bit_depth",
		},
		{
			name: "udp sink without target",
			mutate: func(c *Config) {
				c.Transport.UDPEnabled = true
				c.Transport.UDPTargetAddress = ""
			},
			wantErr: "udp_target_address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
