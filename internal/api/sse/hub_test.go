package sse

import (
	"testing"
	"time"

	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "round_started",
			data:      `{"round":1}`,
			expected:  "event: round_started\ndata: {\"round\":1}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "round_ended",
			data:      "line1\nline2",
			expected:  "event: round_ended\ndata: line1\ndata: line2\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single line",
			input:    "hello",
			expected: []string{"hello"},
		},
		{
			name:     "two lines",
			input:    "line1\nline2",
			expected: []string{"line1", "line2"},
		},
		{
			name:     "trailing newline",
			input:    "line1\n",
			expected: []string{"line1"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{""},
		},
		{
			name:     "crlf line endings",
			input:    "line1\r\nline2\r\n",
			expected: []string{"line1", "line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("splitLines(%q) returned %d lines, want %d",
					tt.input, len(result), len(tt.expected))
				return
			}
			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q",
						tt.input, i, line, tt.expected[i])
				}
			}
		})
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub("1234", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "id-a")
	hub.Register(client)

	// Give the hub time to process registration
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.BroadcastEvent("round_started", "test data")

	select {
	case msg := <-client.send:
		expected := "event: round_started\ndata: test data\n\n"
		if string(msg) != expected {
			t.Errorf("client received %q, want %q", string(msg), expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}
}

func TestHub_SecondStreamForSameIdentityDisplacesFirst(t *testing.T) {
	hub := NewHub("1234", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	first := NewClient(hub, "id-a")
	hub.Register(first)
	time.Sleep(10 * time.Millisecond)

	second := NewClient(hub, "id-a")
	hub.Register(second)
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	// The displaced stream's channel is closed
	select {
	case _, ok := <-first.send:
		if ok {
			t.Error("first stream received a message instead of being closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("first stream's send channel was not closed")
	}

	// Only the newer stream receives broadcasts
	hub.BroadcastEvent("round_started", "data")
	select {
	case <-second.send:
	case <-time.After(100 * time.Millisecond):
		t.Error("second stream did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub("1234", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "id-a")
	hub.Register(client)

	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", hub.ClientCount())
	}
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := NewHub("1234", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client1 := NewClient(hub, "id-a")
	client2 := NewClient(hub, "id-b")

	hub.Register(client1)
	hub.Register(client2)

	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 2 {
		t.Errorf("ClientCount() = %d, want 2", hub.ClientCount())
	}

	hub.BroadcastEvent("round_ended", "data")

	for i, client := range []*Client{client1, client2} {
		select {
		case msg := <-client.send:
			expected := "event: round_ended\ndata: data\n\n"
			if string(msg) != expected {
				t.Errorf("client %d received %q, want %q", i+1, string(msg), expected)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i+1)
		}
	}
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	hub1 := manager.GetOrCreateHub("1234")
	if hub1 == nil {
		t.Fatal("GetOrCreateHub returned nil")
	}

	// Getting again should return the same hub
	hub2 := manager.GetOrCreateHub("1234")
	if hub1 != hub2 {
		t.Error("GetOrCreateHub returned different hub for same code")
	}

	// Different code should return different hub
	hub3 := manager.GetOrCreateHub("5678")
	if hub3 == hub1 {
		t.Error("GetOrCreateHub returned same hub for different code")
	}

	manager.RemoveHub("1234")
	manager.RemoveHub("5678")
}

func TestHubManager_GetHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	// GetHub on non-existent hub should return nil
	hub := manager.GetHub("9999")
	if hub != nil {
		t.Error("GetHub returned non-nil for non-existent hub")
	}

	created := manager.GetOrCreateHub("1234")
	got := manager.GetHub("1234")
	if got != created {
		t.Error("GetHub returned different hub than GetOrCreateHub")
	}

	manager.RemoveHub("1234")
}

func TestHubManager_RemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("1234")
	manager.RemoveHub("1234")

	if manager.GetHub("1234") != nil {
		t.Error("Hub still exists after RemoveHub")
	}

	// Removing non-existent hub should not panic
	manager.RemoveHub("9999")
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	// Create a hub with no clients
	manager.GetOrCreateHub(model.RoomCode("1111"))

	// Create a hub with a client
	active := manager.GetOrCreateHub(model.RoomCode("2222"))
	client := NewClient(active, "id-a")
	active.Register(client)
	time.Sleep(10 * time.Millisecond)

	manager.CleanupEmptyHubs()

	if manager.GetHub("1111") != nil {
		t.Error("Empty hub still exists after cleanup")
	}
	if manager.GetHub("2222") == nil {
		t.Error("Active hub was removed during cleanup")
	}

	manager.RemoveHub("2222")
}
