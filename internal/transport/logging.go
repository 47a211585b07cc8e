// SPDX-License-Identifier: MIT
package transport

import (
	applog "tuner/internal/log"
)

// LoggingTransport implements the Transport interface by writing updates to
// the application log at debug level. Useful for headless runs and
// troubleshooting sink wiring.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	applog.Debugf("transport: using logging sink")
	return &LoggingTransport{}
}

// Send logs the update. It never fails.
func (lt *LoggingTransport) Send(data any) error {
	if u, ok := data.(Update); ok {
		if u.Detected {
			applog.Debugf("tuning: seq=%d note=%s freq=%.2fHz cents=%+.1f rms=%.4f",
				u.Seq, u.Note, u.Frequency, u.Note.Cents, u.RMS)
		} else {
			applog.Debugf("tuning: seq=%d no pitch (rms=%.4f)", u.Seq, u.RMS)
		}
		return nil
	}
	applog.Debugf("tuning: %+v", data)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
