// SPDX-License-Identifier: MIT
/*
Package audio implements real-time audio capture for the tuner:
  - Input capture using PortAudio with pre-allocated buffers
  - Multi-channel downmix to the mono float window the analysis core expects
  - Spectral band metering fed directly from the capture callback
  - WAV recording with atomic state management

The capture callback never allocates. Consumers read the most recent window
through Snapshot, which copies under a mutex held only for the copy.
*/
package audio

import (
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"

	"tuner/internal/analysis"
	"tuner/internal/config"
	"tuner/internal/log"
)

// Engine captures audio from one input device and maintains the latest mono
// sample window for analysis.
type Engine struct {
	config *config.Config

	// Audio input handling.
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	// Latest mono window, guarded by mu. scratch is callback-only.
	mu      sync.Mutex
	window  []float64
	scratch []float64
	frames  uint64 // windows captured so far

	// Spectral band meter, updated from the callback.
	spectrum *analysis.Spectrum

	// Recording state and buffers.
	isRecording atomic.Bool
	outputFile  *os.File
	wavEncoder  *wav.Encoder
	sampleBuf   *goaudio.IntBuffer
	pcmScale    float64 // full-scale value for the recording bit depth
}

// NewEngine resolves the configured input device and pre-allocates all
// capture buffers. The spectrum may be nil when no band meter is wanted.
func NewEngine(cfg *config.Config, spectrum *analysis.Spectrum) (*Engine, error) {
	inputDevice, err := InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, err
	}

	frames := cfg.Audio.FramesPerBuffer
	e := &Engine{
		config:      cfg,
		inputDevice: inputDevice,
		window:      make([]float64, frames),
		scratch:     make([]float64, frames),
		spectrum:    spectrum,
	}

	if cfg.Audio.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}

	return e, nil
}

// SampleRate returns the configured capture rate in Hz.
func (e *Engine) SampleRate() float64 {
	return e.config.Audio.SampleRate
}

// FramesPerBuffer returns the analysis window length in frames.
func (e *Engine) FramesPerBuffer() int {
	return e.config.Audio.FramesPerBuffer
}

// StartInputStream opens and starts the capture stream.
func (e *Engine) StartInputStream() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.config.Audio.Channels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0, // capture only
			Device:   nil,
		},
		FramesPerBuffer: e.config.Audio.FramesPerBuffer,
		SampleRate:      e.config.Audio.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return err
	}
	e.inputStream = stream

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		return err
	}

	log.Infof("audio: capture started on %q (%.0f Hz, %d frames)",
		e.inputDevice.Name, e.config.Audio.SampleRate, e.config.Audio.FramesPerBuffer)
	return nil
}

// StopInputStream stops and closes the capture stream.
func (e *Engine) StopInputStream() error {
	if e.inputStream != nil {
		if err := e.inputStream.Stop(); err != nil {
			return err
		}
		if err := e.inputStream.Close(); err != nil {
			return err
		}
		e.inputStream = nil
	}
	return nil
}

// Snapshot copies the most recent mono window into dst and reports how many
// windows the engine has captured so far. A return of 0 means no audio has
// arrived yet and dst is untouched. dst must be FramesPerBuffer long.
func (e *Engine) Snapshot(dst []float64) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frames == 0 {
		return 0
	}
	copy(dst, e.window)
	return e.frames
}

// processInputStream is the capture callback.
// Performance critical:
// - Runs in a dedicated OS thread (LockOSThread)
// - Uses pre-allocated buffers only
// - No dynamic allocations in the hot path
func (e *Engine) processInputStream(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	downmix(e.scratch, in, e.config.Audio.Channels)

	e.mu.Lock()
	copy(e.window, e.scratch)
	e.frames++
	e.mu.Unlock()

	if e.spectrum != nil {
		e.spectrum.Process(e.scratch)
	}

	if e.isRecording.Load() && e.wavEncoder != nil {
		e.writeRecording(in)
	}
}

// downmix converts interleaved multi-channel float32 samples to mono
// float64, averaging across channels. dst is zero-filled past the available
// frames.
func downmix(dst []float64, in []float32, channels int) {
	if channels < 1 {
		channels = 1
	}
	frames := len(in) / channels
	inv := 1.0 / float64(channels)
	for i := range dst {
		if i >= frames {
			dst[i] = 0
			continue
		}
		var sum float64
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += float64(in[base+c])
		}
		dst[i] = sum * inv
	}
}
