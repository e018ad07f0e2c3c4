package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Participant events
	EventParticipantJoined       EventType = "participant_joined"
	EventParticipantDisconnected EventType = "participant_disconnected"
	EventParticipantReconnected  EventType = "participant_reconnected"
	EventParticipantReadyChanged EventType = "participant_ready_changed"

	// Round/match events
	EventRoundStarted   EventType = "round_started"
	EventRoundEnded     EventType = "round_ended"
	EventMatchFinished  EventType = "match_finished"
	EventMatchRestarted EventType = "match_restarted"
)

// Event is the base structure for all room-scoped events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RoomCode  RoomCode  `json:"room_code"`
	Payload   any       `json:"payload,omitempty"`
}

// Broadcaster delivers events to every participant of a room.
// Implemented by the transport layer; delivery is fire-and-forget and
// never affects room state.
type Broadcaster interface {
	Broadcast(code RoomCode, event Event)

	// CloseRoom releases transport resources when a room is torn down
	CloseRoom(code RoomCode)
}

// ParticipantJoinedPayload contains data for participant joined events
type ParticipantJoinedPayload struct {
	Identity    IdentityID `json:"identity"`
	DisplayName string     `json:"display_name"`
}

// ParticipantDisconnectedPayload contains data for disconnect events
type ParticipantDisconnectedPayload struct {
	Identity           IdentityID `json:"identity"`
	ConnectedRemaining int        `json:"connected_remaining"`
}

// ParticipantReconnectedPayload contains data for reconnect events
type ParticipantReconnectedPayload struct {
	Identity    IdentityID `json:"identity"`
	DisplayName string     `json:"display_name"`
}

// ReadyChangedPayload contains data for ready-flag change events
type ReadyChangedPayload struct {
	Identity IdentityID `json:"identity"`
	Ready    bool       `json:"ready"`
}

// RoundStartedPayload contains data for round started events
type RoundStartedPayload struct {
	Round    int       `json:"round"`
	Puzzle   *Puzzle   `json:"puzzle"`
	Deadline time.Time `json:"deadline"`
}

// RoundEndedPayload contains data for round ended events
type RoundEndedPayload struct {
	Summary RoundSummary `json:"summary"`
}

// MatchFinishedPayload contains data for match finished events
type MatchFinishedPayload struct {
	Outcome MatchOutcome `json:"outcome"`
}
