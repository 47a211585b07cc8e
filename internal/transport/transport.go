// SPDX-License-Identifier: MIT

// Package transport fans tuning results out to one or more sinks: the
// terminal display, WebSocket clients, UDP listeners, or the log.
package transport

import (
	"time"

	"tuner/internal/pitch"
)

// Transport defines a generic interface for sending tuning updates.
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(data any) error
	Close() error
}

// Update is one tuning result as published to every sink. When Detected is
// false the gate or the estimator rejected the window and the pitch fields
// hold zero values.
type Update struct {
	Seq       uint32     `json:"seq"`
	Timestamp time.Time  `json:"timestamp"`
	Detected  bool       `json:"detected"`
	Frequency float64    `json:"frequency"`
	Note      pitch.Note `json:"note"`
	RMS       float64    `json:"rms"`
	Bands     []float64  `json:"bands,omitempty"`
}

// SampleSource provides the most recent capture window. Snapshot copies the
// window into dst and returns a generation counter, 0 when nothing has been
// captured yet.
type SampleSource interface {
	Snapshot(dst []float64) uint64
	SampleRate() float64
}

// BandLevelProvider exposes spectral band levels for display alongside the
// tuning result.
type BandLevelProvider interface {
	LevelsInto(dst []float64) error
}
