// SPDX-License-Identifier: MIT
package audio

import "testing"

func TestPCMSample(t *testing.T) {
	t.Parallel()
	const scale16 = 32768.0
	tests := []struct {
		name  string
		in    float32
		scale float64
		want  int
	}{
		{"zero", 0, scale16, 0},
		{"half scale", 0.5, scale16, 16384},
		{"negative half", -0.5, scale16, -16384},
		{"full scale clamps to max", 1.0, scale16, 32767},
		{"negative full scale", -1.0, scale16, -32768},
		{"over range clamps", 1.5, scale16, 32767},
		{"under range clamps", -1.5, scale16, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pcmSample(tt.in, tt.scale); got != tt.want {
				t.Errorf("pcmSample(%v, %v) = %d, want %d", tt.in, tt.scale, got, tt.want)
			}
		})
	}
}

func TestStartRecordingRejectsBadBitDepth(t *testing.T) {
	t.Parallel()
	e := testEngine(16, 1)
	e.config.Recording.BitDepth = 12

	if err := e.StartRecording(t.TempDir() + "/out.wav"); err == nil {
		t.Error("expected error for unsupported bit depth, got nil")
	}
}

func TestRecordingLifecycle(t *testing.T) {
	t.Parallel()
	e := testEngine(4, 1)
	e.config.Recording.BitDepth = 16
	path := t.TempDir() + "/out.wav"

	if err := e.StartRecording(path); err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}
	if err := e.StartRecording(path); err == nil {
		t.Error("expected error for second StartRecording, got nil")
	}

	// Feed one buffer through the callback path.
	e.processInputStream([]float32{0.5, -0.5, 0.25, -0.25})

	if err := e.StopRecording(); err != nil {
		t.Fatalf("StopRecording failed: %v", err)
	}
	// Stop when idle is a no-op.
	if err := e.StopRecording(); err != nil {
		t.Errorf("second StopRecording failed: %v", err)
	}
}
