package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"tuner/internal/transport"
)

// Sink adapts a running Bubble Tea program to the transport.Transport
// interface so the display receives the same updates as the network sinks.
type Sink struct {
	program *tea.Program
}

// NewSink wraps the program as a sink.
func NewSink(program *tea.Program) *Sink {
	return &Sink{program: program}
}

// Send forwards a tuning update to the display.
func (s *Sink) Send(data any) error {
	if update, ok := data.(transport.Update); ok {
		s.program.Send(UpdateMsg(update))
	}
	return nil
}

// Close is a no-op; the program lifecycle is owned by main.
func (s *Sink) Close() error {
	return nil
}

var _ transport.Transport = (*Sink)(nil)
