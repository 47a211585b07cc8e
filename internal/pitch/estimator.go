package pitch

// Estimator finds the dominant periodicity of a sample window by brute-force
// time-domain autocorrelation. The correlation threshold is absolute, not
// normalized against zero-lag energy, and is tuned for samples in roughly
// unit range; callers that change the buffer scale must retune it.
type Estimator struct {
	minOffset int
	threshold float64
}

// NewEstimator returns an estimator scanning trial lags starting at
// minOffset and accepting the best lag only when its correlation sum
// exceeds threshold.
func NewEstimator(minOffset int, threshold float64) Estimator {
	return Estimator{minOffset: minOffset, threshold: threshold}
}

// Estimate returns the fundamental frequency of buf in Hz, or false when no
// lag clears the correlation threshold. The caller is responsible for gating
// silence first; Estimate does not re-check signal level.
//
// Trial lags run from minOffset to len(buf)/2 - 1. The lower bound rejects
// implausibly high frequencies near zero lag, where autocorrelation is
// trivially maximal. The upper bound keeps the inner sum inside the buffer:
// the highest index read is len/2 - 1 + offset < len. On exact ties the
// smaller lag wins, which biases toward higher frequencies on ambiguous
// harmonic content; a different tie-break changes the detected pitch.
//
// O(N²) in the window length, which is fine at display-refresh cadence for
// windows of a few thousand samples.
func (e Estimator) Estimate(buf []float64, sampleRate float64) (float64, bool) {
	half := len(buf) / 2
	bestOffset := -1
	bestCorrelation := 0.0

	for offset := e.minOffset; offset < half; offset++ {
		var correlation float64
		for i := 0; i < half; i++ {
			correlation += buf[i] * buf[i+offset]
		}
		if correlation > bestCorrelation {
			bestCorrelation = correlation
			bestOffset = offset
		}
	}

	if bestOffset < 0 || bestCorrelation <= e.threshold {
		return 0, false
	}
	return sampleRate / float64(bestOffset), true
}
