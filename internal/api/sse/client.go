package sse

import (
	"net/http"
	"time"

	"github.com/mcoot/spellduel-go/internal/model"
)

const (
	// keepaliveInterval is how often an idle stream emits a comment so
	// intermediaries don't reap the connection
	keepaliveInterval = 20 * time.Second

	// sendBufferSize bounds undelivered messages per stream; the hub
	// drops messages once a stream falls this far behind
	sendBufferSize = 256
)

// Client is one participant's event stream within a room hub
type Client struct {
	hub         *Hub
	identity    model.IdentityID
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a stream for the given participant
func NewClient(hub *Hub, identity model.IdentityID) *Client {
	return &Client{
		hub:         hub,
		identity:    identity,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE runs the event stream over the request's connection until
// the client disconnects or the hub closes the stream.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, identity model.IdentityID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub, identity)
	hub.Register(client)
	defer hub.Unregister(client)

	// Confirm the subscription before any room event arrives
	_, _ = w.Write(formatSSEMessage("connected", `{"room_code":"`+string(hub.roomCode)+`"}`))
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				// Stream closed by the hub, either shutdown or a newer
				// stream for the same participant
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
