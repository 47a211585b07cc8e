// SPDX-License-Identifier: MIT
package audio

import (
	"math"
	"testing"

	"tuner/internal/config"
)

func testEngine(frames, channels int) *Engine {
	cfg := config.NewConfig()
	cfg.Audio.FramesPerBuffer = frames
	cfg.Audio.Channels = channels
	return &Engine{
		config:  cfg,
		window:  make([]float64, frames),
		scratch: make([]float64, frames),
	}
}

func TestDownmixMono(t *testing.T) {
	t.Parallel()
	in := []float32{0.1, -0.2, 0.3, -0.4}
	dst := make([]float64, 4)
	downmix(dst, in, 1)

	for i := range in {
		if math.Abs(dst[i]-float64(in[i])) > 1e-7 {
			t.Errorf("sample %d: got %v, want %v", i, dst[i], in[i])
		}
	}
}

func TestDownmixStereoAverages(t *testing.T) {
	t.Parallel()
	// Two frames: (0.2, 0.4) and (-1.0, 0.0).
	in := []float32{0.2, 0.4, -1.0, 0.0}
	dst := make([]float64, 2)
	downmix(dst, in, 2)

	want := []float64{0.3, -0.5}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-7 {
			t.Errorf("frame %d: got %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestDownmixShortInputZeroFills(t *testing.T) {
	t.Parallel()
	dst := []float64{9, 9, 9, 9}
	downmix(dst, []float32{0.5, 0.5}, 2)

	if dst[0] != 0.5 {
		t.Errorf("frame 0: got %v, want 0.5", dst[0])
	}
	for i := 1; i < len(dst); i++ {
		if dst[i] != 0 {
			t.Errorf("frame %d: got %v, want 0 past input end", i, dst[i])
		}
	}
}

func TestSnapshotBeforeCapture(t *testing.T) {
	t.Parallel()
	e := testEngine(8, 1)
	dst := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	if n := e.Snapshot(dst); n != 0 {
		t.Errorf("Snapshot() = %d before any capture, want 0", n)
	}
	if dst[0] != 1 {
		t.Error("Snapshot modified dst with no data available")
	}
}

func TestSnapshotReturnsLatestWindow(t *testing.T) {
	t.Parallel()
	e := testEngine(4, 1)

	e.processInputStream([]float32{0.1, 0.2, 0.3, 0.4})
	e.processInputStream([]float32{0.5, 0.6, 0.7, 0.8})

	dst := make([]float64, 4)
	n := e.Snapshot(dst)
	if n != 2 {
		t.Errorf("Snapshot() = %d windows, want 2", n)
	}
	want := []float64{0.5, 0.6, 0.7, 0.8}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-7 {
			t.Errorf("sample %d: got %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestDownmixZeroAllocations(t *testing.T) {
	in := make([]float32, 4096)
	dst := make([]float64, 2048)

	allocs := testing.AllocsPerRun(100, func() {
		downmix(dst, in, 2)
	})
	if allocs != 0 {
		t.Errorf("downmix allocated %v times per run, want 0", allocs)
	}
}

func BenchmarkDownmixStereo(b *testing.B) {
	in := make([]float32, 4096)
	for i := range in {
		in[i] = float32(i%100) / 100
	}
	dst := make([]float64, 2048)

	b.ReportAllocs()
	for b.Loop() {
		downmix(dst, in, 2)
	}
}
