// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	applog "tuner/internal/log"
	"tuner/internal/transport"
)

/*
UDP Packet Structure (BigEndian)

+------------------------------------------------------------------------------+
| Field              | Data Type      | Size (Bytes) | Description              |
|--------------------|----------------|--------------|--------------------------|
| Sequence Number    | uint32         | 4            | Monotonically increasing |
| Timestamp          | int64          | 8            | Nanoseconds since epoch  |
| Detected           | uint8          | 1            | 1 when a pitch was found |
| Frequency          | float64        | 8            | Estimated pitch in Hz    |
| Note Frequency     | float64        | 8            | Exact frequency of note  |
| Cents              | float64        | 8            | Deviation from the note  |
| MIDI Note          | int16          | 2            | MIDI note number         |
| Octave             | int8           | 1            | Scientific octave        |
| RMS                | float64        | 8            | Window signal level      |
| Band Count         | uint16         | 2            | Number of floats (N)     |
| Band Levels        | []float32      | N * 4        | Spectral band levels     |
+------------------------------------------------------------------------------+

All pitch fields are zero when Detected is 0.
*/

// Transport adapts a Sender to the transport.Transport interface by packing
// each Update into the binary packet format above.
type Transport struct {
	sender *Sender

	mu           sync.Mutex // serializes access to the packing buffers
	packetBuffer *bytes.Buffer
	f32Buffer    []float32
}

// NewTransport creates a UDP transport sending to targetAddress.
func NewTransport(targetAddress string) (*Transport, error) {
	sender, err := NewSender(targetAddress)
	if err != nil {
		return nil, err
	}
	return &Transport{
		sender:       sender,
		packetBuffer: new(bytes.Buffer),
	}, nil
}

// Send packs the update and transmits it as one packet. Non-Update values
// are rejected.
func (t *Transport) Send(data any) error {
	update, ok := data.(transport.Update)
	if !ok {
		return fmt.Errorf("UDP transport: unsupported payload type %T", data)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.packetBuffer.Reset()
	if cap(t.f32Buffer) < len(update.Bands) {
		t.f32Buffer = make([]float32, len(update.Bands))
	}
	t.f32Buffer = t.f32Buffer[:len(update.Bands)]
	for i, v := range update.Bands {
		t.f32Buffer[i] = float32(v)
	}

	if err := encodeUpdate(t.packetBuffer, update, t.f32Buffer); err != nil {
		applog.Errorf("transport: error packing UDP packet: %v", err)
		return err
	}

	if err := t.sender.Send(t.packetBuffer.Bytes()); err != nil {
		return err
	}
	applog.Debugf("transport: sent UDP packet %d (%d bytes)", update.Seq, t.packetBuffer.Len())
	return nil
}

// Close closes the underlying sender.
func (t *Transport) Close() error {
	return t.sender.Close()
}

// encodeUpdate writes the binary representation of an update to buf. bands
// holds the float32 conversion of update.Bands.
func encodeUpdate(buf *bytes.Buffer, update transport.Update, bands []float32) error {
	detected := uint8(0)
	if update.Detected {
		detected = 1
	}

	fields := []any{
		update.Seq,
		update.Timestamp.UnixNano(),
		detected,
		update.Frequency,
		update.Note.Frequency,
		update.Note.Cents,
		int16(update.Note.Midi),
		int8(update.Note.Octave),
		update.RMS,
		uint16(len(bands)),
	}
	for _, field := range fields {
		if err := binary.Write(buf, binary.BigEndian, field); err != nil {
			return err
		}
	}
	if len(bands) > 0 {
		return binary.Write(buf, binary.BigEndian, bands)
	}
	return nil
}

var _ transport.Transport = (*Transport)(nil)
