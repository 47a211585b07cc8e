// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"testing"
)

func TestMockSink(t *testing.T) {
	sink := &MockSink{}

	if sink.Last() != nil {
		t.Error("Last() on empty sink should be nil")
	}

	for i := 0; i < 3; i++ {
		if err := sink.Send(i); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	if sink.Count() != 3 {
		t.Errorf("Count() = %d, expected 3", sink.Count())
	}
	if last, ok := sink.Last().(int); !ok || last != 2 {
		t.Errorf("Last() = %v, expected 2", sink.Last())
	}
}

func TestGenerateSineWave(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		frequency float64
		amplitude float64
	}{
		{"A4 full scale", 2048, 440.0, 1.0},
		{"Low E quiet", 4096, 82.41, 0.2},
		{"Half scale", 1024, 1000.0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wave := GenerateSineWave(tt.size, 44100, tt.frequency, tt.amplitude)

			if len(wave) != tt.size {
				t.Fatalf("length = %d, expected %d", len(wave), tt.size)
			}
			if wave[0] != 0 {
				t.Errorf("sine should start at zero, got %f", wave[0])
			}

			peak := 0.0
			for _, s := range wave {
				if a := math.Abs(s); a > peak {
					peak = a
				}
			}
			if peak > tt.amplitude+1e-9 {
				t.Errorf("peak = %f exceeds amplitude %f", peak, tt.amplitude)
			}
			if peak < tt.amplitude*0.95 {
				t.Errorf("peak = %f, expected near amplitude %f", peak, tt.amplitude)
			}
		})
	}
}

func TestGenerateComplexWaveBounded(t *testing.T) {
	wave := GenerateComplexWave(2048, 44100)
	for i, s := range wave {
		if math.Abs(s) > 1.0 {
			t.Fatalf("sample %d = %f outside unit range", i, s)
		}
	}
}
