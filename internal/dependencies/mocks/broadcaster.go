package mocks

import (
	"sync"

	"github.com/mcoot/spellduel-go/internal/model"
)

// MockBroadcaster is a mock implementation of Broadcaster for testing.
// Events are recorded in order for later inspection.
type MockBroadcaster struct {
	mu     sync.Mutex
	Events []model.Event
	Closed []model.RoomCode
}

// Ensure MockBroadcaster implements Broadcaster
var _ model.Broadcaster = (*MockBroadcaster)(nil)

// NewMockBroadcaster creates a new MockBroadcaster
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

// Broadcast records the event
func (b *MockBroadcaster) Broadcast(code model.RoomCode, event model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = append(b.Events, event)
}

// CloseRoom records the room closure
func (b *MockBroadcaster) CloseRoom(code model.RoomCode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Closed = append(b.Closed, code)
}

// EventsOfType returns all recorded events with the given type
func (b *MockBroadcaster) EventsOfType(t model.EventType) []model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Event
	for _, e := range b.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// ClosedRoom reports whether CloseRoom was called for the room
func (b *MockBroadcaster) ClosedRoom(code model.RoomCode) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.Closed {
		if c == code {
			return true
		}
	}
	return false
}

// Reset clears all recorded events and closures
func (b *MockBroadcaster) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = nil
	b.Closed = nil
}
