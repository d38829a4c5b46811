package ws

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHubReconnectReplacesOldClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	first := NewClient(hub, nil, userID)
	second := NewClient(hub, nil, userID)

	hub.register <- first
	hub.register <- second

	// The replaced connection is shut down, not leaked.
	select {
	case <-first.done:
	case <-time.After(time.Second):
		t.Fatal("replaced connection was not shut down")
	}

	// Broadcasts reach the new connection.
	hub.Broadcast(&Event{Type: EventTypePong}, nil)
	select {
	case data := <-second.send:
		require.NotEmpty(t, data)
	case <-time.After(time.Second):
		t.Fatal("broadcast did not reach the replacement connection")
	}

	// The old connection's late unregister must not tear down the new one.
	hub.unregister <- first
	hub.Broadcast(&Event{Type: EventTypePong}, nil)
	select {
	case data := <-second.send:
		require.NotEmpty(t, data)
	case <-time.After(time.Second):
		t.Fatal("replacement connection was deregistered by the stale client")
	}
}
