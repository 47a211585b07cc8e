// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"tuner/internal/log"
)

// StartRecording begins writing the raw input to a WAV file at the
// configured bit depth. Returns an error if a recording is already active.
func (e *Engine) StartRecording(filename string) error {
	if e.isRecording.Load() {
		return fmt.Errorf("already recording")
	}

	bitDepth := e.config.Recording.BitDepth
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("unsupported recording bit depth: %d", bitDepth)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	e.outputFile = file

	channels := e.config.Audio.Channels
	e.wavEncoder = wav.NewEncoder(file, int(e.config.Audio.SampleRate),
		bitDepth, channels, 1)

	e.sampleBuf = &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  int(e.config.Audio.SampleRate),
		},
		SourceBitDepth: bitDepth,
		Data:           make([]int, e.config.Audio.FramesPerBuffer*channels),
	}
	e.pcmScale = float64(int(1) << (bitDepth - 1))

	e.isRecording.Store(true)
	log.Infof("audio: recording to %s (%d-bit)", filename, bitDepth)

	return nil
}

// StopRecording finalizes the WAV file. Stopping when not recording is a
// no-op.
func (e *Engine) StopRecording() error {
	if !e.isRecording.Load() {
		return nil
	}

	e.isRecording.Store(false)

	if e.wavEncoder != nil {
		if err := e.wavEncoder.Close(); err != nil {
			return err
		}
		e.wavEncoder = nil
	}
	if e.outputFile != nil {
		if err := e.outputFile.Close(); err != nil {
			return err
		}
		e.outputFile = nil
	}

	return nil
}

// Close stops any active recording and the input stream.
func (e *Engine) Close() error {
	if e.isRecording.Load() {
		if err := e.StopRecording(); err != nil {
			return err
		}
	}
	return e.StopInputStream()
}

// writeRecording converts the raw callback samples to integer PCM and
// appends them to the WAV file. Called from the capture callback only.
func (e *Engine) writeRecording(in []float32) {
	n := len(in)
	if n > cap(e.sampleBuf.Data) {
		n = cap(e.sampleBuf.Data)
	}
	e.sampleBuf.Data = e.sampleBuf.Data[:n]
	for i := 0; i < n; i++ {
		e.sampleBuf.Data[i] = pcmSample(in[i], e.pcmScale)
	}

	if err := e.wavEncoder.Write(e.sampleBuf); err != nil {
		log.Errorf("audio: error writing to WAV file: %v", err)
	}
}

// pcmSample converts one float sample in [-1, 1] to integer PCM at the given
// full-scale value, clamping out-of-range input.
func pcmSample(s float32, scale float64) int {
	v := float64(s) * scale
	if v > scale-1 {
		v = scale - 1
	} else if v < -scale {
		v = -scale
	}
	return int(v)
}
