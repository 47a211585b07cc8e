// SPDX-License-Identifier: MIT

// Package analysis provides the spectral band meter shown alongside the
// tuning result. It is display-only and plays no part in pitch detection.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"tuner/pkg/bitint"
)

// band defines a named frequency range of the meter.
type band struct {
	name   string
	lowHz  float64
	highHz float64
}

// BandNames lists the meter bands in display order.
var BandNames = []string{"sub", "bass", "lowMid", "mid", "highMid", "treble"}

// NumBands is the number of meter bands.
const NumBands = 6

// levelScale maps averaged band energy onto the displayed [0, 1] range.
const levelScale = 50.0

// Pre-allocated buffers for the spectral transform.
type spectrumWorkspace struct {
	input     []float64    // windowed, zero-padded input
	fftOutput []complex128 // complex FFT results
	levels    [NumBands]float64
	mu        sync.RWMutex // protects levels
}

// Spectrum computes per-band signal levels from mono sample windows. It is
// safe for one writer (Process) and multiple readers (Levels, LevelsInto).
// All buffers are allocated up front so Process stays allocation-free.
type Spectrum struct {
	fftCalculator *fourier.FFT
	fftSize       int // power of two, >= the expected input length
	sampleRate    float64
	windowCoeffs  []float64
	bands         [NumBands]band
	workspace     spectrumWorkspace
}

// NewSpectrum creates a Spectrum sized for input windows of inputLen samples.
// The FFT size is the next power of two; shorter inputs are zero-padded.
func NewSpectrum(inputLen int, sampleRate float64) (*Spectrum, error) {
	if inputLen <= 0 {
		return nil, fmt.Errorf("input length must be positive, got %d", inputLen)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}

	fftSize := bitint.NextPowerOfTwo(inputLen)
	windowCoeffs := make([]float64, fftSize)
	for i := range windowCoeffs {
		windowCoeffs[i] = 1.0
	}
	window.Hann(windowCoeffs)

	s := &Spectrum{
		fftCalculator: fourier.NewFFT(fftSize),
		fftSize:       fftSize,
		sampleRate:    sampleRate,
		windowCoeffs:  windowCoeffs,
		bands: [NumBands]band{
			{name: "sub", lowHz: 20, highHz: 60},
			{name: "bass", lowHz: 60, highHz: 250},
			{name: "lowMid", lowHz: 250, highHz: 500},
			{name: "mid", lowHz: 500, highHz: 2000},
			{name: "highMid", lowHz: 2000, highHz: 4000},
			{name: "treble", lowHz: 4000, highHz: sampleRate / 2},
		},
		workspace: spectrumWorkspace{
			input: make([]float64, fftSize),
			// FFT output size for real input is N/2 + 1 complex values.
			fftOutput: make([]complex128, fftSize/2+1),
		},
	}
	return s, nil
}

// Process transforms one window of mono samples and updates the band levels.
// Inputs shorter than the FFT size are zero-padded; longer inputs are
// truncated.
func (s *Spectrum) Process(samples []float64) {
	inputLen := len(samples)
	for i := 0; i < s.fftSize; i++ {
		if i < inputLen {
			s.workspace.input[i] = samples[i] * s.windowCoeffs[i]
		} else {
			s.workspace.input[i] = 0
		}
	}

	s.fftCalculator.Coefficients(s.workspace.fftOutput, s.workspace.input)

	var energy [NumBands]float64
	var bins [NumBands]int
	freqPerBin := s.sampleRate / float64(s.fftSize)
	for i, c := range s.workspace.fftOutput {
		freq := float64(i) * freqPerBin
		for b := range s.bands {
			if freq >= s.bands[b].lowHz && freq < s.bands[b].highHz {
				mag := cmplx.Abs(c) / float64(s.fftSize)
				energy[b] += mag * mag
				bins[b]++
				break
			}
		}
	}

	s.workspace.mu.Lock()
	for b := range energy {
		level := 0.0
		if bins[b] > 0 {
			level = math.Sqrt(energy[b]/float64(bins[b])) * levelScale
		}
		s.workspace.levels[b] = math.Min(1.0, level)
	}
	s.workspace.mu.Unlock()
}

// Levels returns a copy of the latest band levels, one value in [0, 1] per
// entry of BandNames. The copy keeps readers isolated from Process.
func (s *Spectrum) Levels() []float64 {
	s.workspace.mu.RLock()
	defer s.workspace.mu.RUnlock()

	levels := make([]float64, NumBands)
	copy(levels, s.workspace.levels[:])
	return levels
}

// LevelsInto copies the latest band levels into dest without allocating.
// dest must have length NumBands.
func (s *Spectrum) LevelsInto(dest []float64) error {
	if len(dest) != NumBands {
		return fmt.Errorf("destination slice length %d does not match required length %d", len(dest), NumBands)
	}

	s.workspace.mu.RLock()
	defer s.workspace.mu.RUnlock()

	copy(dest, s.workspace.levels[:])
	return nil
}

// FFTSize returns the transform size in points.
func (s *Spectrum) FFTSize() int {
	return s.fftSize // immutable after creation, no lock needed
}

// FrequencyForBin returns the center frequency in Hz for an FFT bin index,
// or 0 for an index out of range.
func (s *Spectrum) FrequencyForBin(binIndex int) float64 {
	if binIndex < 0 || binIndex >= len(s.workspace.fftOutput) {
		return 0.0
	}
	return float64(binIndex) * (s.sampleRate / float64(s.fftSize))
}
