package pitch

import "math"

// Gate decides whether a sample window carries enough energy to analyze.
// Autocorrelation of near-silence produces spurious peaks at arbitrary
// offsets, so the gate must run before any periodicity search; a rejected
// window short-circuits the cycle and skips the O(N²) scan entirely.
type Gate struct {
	minRMS float64
}

// NewGate returns a gate that rejects windows whose RMS amplitude falls
// below minRMS.
func NewGate(minRMS float64) Gate {
	return Gate{minRMS: minRMS}
}

// RMS returns the root-mean-square amplitude of buf.
func (g Gate) RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	var sum float64
	for _, s := range buf {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(buf)))
}

// HasSignal reports whether buf is loud enough for pitch analysis.
func (g Gate) HasSignal(buf []float64) bool {
	return g.RMS(buf) >= g.minRMS
}
