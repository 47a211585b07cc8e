// SPDX-License-Identifier: MIT
package transport

import (
	"testing"
	"time"
)

func TestWebSocketTransportCloseStopsSending(t *testing.T) {
	t.Parallel()
	wst := NewWebSocketTransport("127.0.0.1:0")

	if err := wst.Send(Update{Seq: 1}); err != nil {
		t.Errorf("Send before Close failed: %v", err)
	}

	if err := wst.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := wst.Send(Update{Seq: 2}); err == nil {
		t.Error("expected error sending on closed transport, got nil")
	}
	// A second Close is a no-op, not a double close of the channel.
	if err := wst.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestWebSocketTransportSendNeverBlocks(t *testing.T) {
	t.Parallel()
	wst := NewWebSocketTransport("127.0.0.1:0")
	defer wst.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More sends than the queue holds; the overflow must be dropped,
		// not block the caller.
		for i := 0; i < 1000; i++ {
			wst.Send(Update{Seq: uint32(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Send blocked on a full broadcast queue")
	}
}
