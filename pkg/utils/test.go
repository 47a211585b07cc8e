// SPDX-License-Identifier: MIT
//
// Package utils provides shared helpers for tests: deterministic signal
// generators and a mock sink for inspecting published data.
package utils

import (
	"math"
	"sync"
)

// MockSink records everything sent to it instead of transmitting.
// It satisfies the transport.Transport interface and is safe for
// concurrent use.
type MockSink struct {
	mu   sync.Mutex
	Sent []any
}

// Send stores data for later inspection.
func (m *MockSink) Send(data any) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, data)
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *MockSink) Close() error { return nil }

// Last returns the most recently sent value, or nil when nothing was sent.
func (m *MockSink) Last() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	return m.Sent[len(m.Sent)-1]
}

// Count returns how many values were sent.
func (m *MockSink) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// GenerateSineWave returns a pure sine of the given frequency and amplitude,
// sampled at sampleRate. Samples are in unit range when amplitude <= 1.
func GenerateSineWave(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = amplitude * math.Sin(2*math.Pi*frequency*t)
	}
	return buffer
}

// GenerateComplexWave returns a 440 Hz fundamental with two weaker harmonics,
// approximating a plucked-string spectrum.
func GenerateComplexWave(size int, sampleRate float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*440*t)*0.5 +
			math.Sin(2*math.Pi*880*t)*0.3 +
			math.Sin(2*math.Pi*1320*t)*0.2
	}
	return buffer
}
