package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/spellduel-go/internal/model"
)

// Broadcaster fans room events out to that room's SSE clients. Events
// are delivered as named SSE events with a JSON data payload.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

var _ model.Broadcaster = (*Broadcaster)(nil)

// Broadcast delivers an event to every client subscribed to the room.
// A room with no hub has no subscribers, so the event is dropped.
func (b *Broadcaster) Broadcast(code model.RoomCode, event model.Event) {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to marshal event",
			slog.String("room", string(code)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}

// CloseRoom disconnects all of a room's clients and removes its hub
func (b *Broadcaster) CloseRoom(code model.RoomCode) {
	b.hubManager.RemoveHub(code)
}
