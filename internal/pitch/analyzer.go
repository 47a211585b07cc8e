// Package pitch is the analysis core of the tuner: a signal-presence gate,
// an autocorrelation pitch estimator, and a frequency-to-note mapper,
// composed into one analysis cycle. Everything here is pure computation:
// no I/O, no logging, no shared mutable state. Each cycle is independent,
// so a bad window can never corrupt the next one.
package pitch

import "fmt"

// MinBufferLen is the shortest analysis window for which the correlation
// search is meaningful.
const MinBufferLen = 16

// Config holds the tuning parameters for an Analyzer. It is read-only after
// construction; cycles never mutate it, so no synchronization is needed.
type Config struct {
	ReferenceFrequency   float64 // tuning of A4 in Hz
	MinRMS               float64 // signal gate threshold
	CorrelationThreshold float64 // absolute autocorrelation acceptance level
	MinOffset            int     // smallest trial lag in samples
}

// DefaultConfig returns the standard tuner parameters: A4 = 440 Hz and
// thresholds tuned for float samples in roughly unit range.
func DefaultConfig() Config {
	return Config{
		ReferenceFrequency:   440.0,
		MinRMS:               0.01,
		CorrelationThreshold: 0.01,
		MinOffset:            8,
	}
}

// Result is the outcome of one successful analysis cycle: the observed
// fundamental and the equal-tempered note it resolves to.
type Result struct {
	Frequency float64 `json:"frequency"` // observed fundamental in Hz
	Note      Note    `json:"note"`
}

// Analyzer runs the per-cycle pipeline: gate, estimate, map. The window
// length and sample rate are fixed at construction; the capture collaborator
// must deliver windows of exactly that length.
type Analyzer struct {
	bufferLen  int
	sampleRate float64
	gate       Gate
	estimator  Estimator
	mapper     Mapper
}

// NewAnalyzer validates the window geometry and tuning parameters and
// returns a ready analyzer. Violations are integration errors and are
// reported loudly here rather than degrading per cycle.
func NewAnalyzer(bufferLen int, sampleRate float64, cfg Config) (*Analyzer, error) {
	if bufferLen < MinBufferLen {
		return nil, fmt.Errorf("pitch: buffer length %d below minimum %d", bufferLen, MinBufferLen)
	}
	if bufferLen%2 != 0 {
		return nil, fmt.Errorf("pitch: buffer length %d must be even", bufferLen)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("pitch: sample rate must be positive, got %g", sampleRate)
	}
	if cfg.ReferenceFrequency <= 0 {
		return nil, fmt.Errorf("pitch: reference frequency must be positive, got %g", cfg.ReferenceFrequency)
	}
	if cfg.MinOffset < 1 || cfg.MinOffset >= bufferLen/2 {
		return nil, fmt.Errorf("pitch: minimum offset %d outside [1, %d)", cfg.MinOffset, bufferLen/2)
	}

	return &Analyzer{
		bufferLen:  bufferLen,
		sampleRate: sampleRate,
		gate:       NewGate(cfg.MinRMS),
		estimator:  NewEstimator(cfg.MinOffset, cfg.CorrelationThreshold),
		mapper:     NewMapper(cfg.ReferenceFrequency),
	}, nil
}

// BufferLen returns the window length the analyzer was built for.
func (a *Analyzer) BufferLen() int { return a.bufferLen }

// SampleRate returns the sample rate the analyzer was built for.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// RMS returns the root-mean-square amplitude of buf, for level display.
func (a *Analyzer) RMS(buf []float64) float64 { return a.gate.RMS(buf) }

// Analyze runs one cycle over buf. ok is false when the window is too quiet
// or no lag clears the correlation threshold; both are expected steady
// states (silence, noise), not errors. Analyze allocates nothing.
//
// Analyze panics when len(buf) differs from the configured window length;
// the capture collaborator delivering a wrong-sized window is a bug.
func (a *Analyzer) Analyze(buf []float64) (Result, bool) {
	if len(buf) != a.bufferLen {
		panic(fmt.Sprintf("pitch: window length %d, analyzer built for %d", len(buf), a.bufferLen))
	}
	if !a.gate.HasSignal(buf) {
		return Result{}, false
	}
	freq, ok := a.estimator.Estimate(buf, a.sampleRate)
	if !ok {
		return Result{}, false
	}
	return Result{Frequency: freq, Note: a.mapper.Map(freq)}, true
}
