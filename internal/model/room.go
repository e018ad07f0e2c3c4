package model

import "time"

// RoomCode is the short human-typeable identifier for joining rooms
type RoomCode string

// IdentityID uniquely identifies one live connection's participant slot
type IdentityID string

// MatchStatus represents the current phase of a match
type MatchStatus string

const (
	MatchStatusWaiting       MatchStatus = "waiting"        // Waiting for both participants to be ready
	MatchStatusPlaying       MatchStatus = "playing"        // A round is in progress
	MatchStatusBetweenRounds MatchStatus = "between_rounds" // Round ended, waiting for ready-up
	MatchStatusFinished      MatchStatus = "finished"       // All rounds played, outcome recorded
)

// RoundStatus represents the state of the current round.
// Only meaningful while the match is in playing/between_rounds.
type RoundStatus string

const (
	RoundStatusWaiting RoundStatus = "waiting"
	RoundStatusActive  RoundStatus = "active"
	RoundStatusEnded   RoundStatus = "ended"
)

// RoomConfig holds the fixed match parameters for a room
type RoomConfig struct {
	TotalRounds   int
	RoundDuration time.Duration
	MaxPlayers    int
}

// DefaultRoomConfig returns the standard duel configuration
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		TotalRounds:   3,
		RoundDuration: 90 * time.Second,
		MaxPlayers:    2,
	}
}

// WordSubmission is one accepted word in a participant's round result
type WordSubmission struct {
	Word      string `json:"word"`
	Points    int    `json:"points"`
	IsPangram bool   `json:"is_pangram"`
}

// Participant is one player's standing within a Room.
// Created on join and never destroyed mid-match; disconnects only flip
// Connected, the slot is released when the room itself is torn down.
type Participant struct {
	Identity    IdentityID
	DisplayName string

	// ExternalID links to a registered player account for stats recording.
	// Empty for guests.
	ExternalID PlayerID

	Connected bool
	Ready     bool

	// Per-round state, reset at every round start
	SubmittedWords []WordSubmission
	RoundScore     int
	HasSubmitted   bool

	// TotalScore accumulates RoundScore only at round end
	TotalScore int

	JoinedAt time.Time
}

// ResetRound clears the participant's per-round fields
func (p *Participant) ResetRound() {
	p.SubmittedWords = nil
	p.RoundScore = 0
	p.HasSubmitted = false
	p.Ready = false
}

// Room represents one active match between two participants
type Room struct {
	Code   RoomCode
	Config RoomConfig

	Participants map[IdentityID]*Participant

	// Puzzle is the current round's puzzle; PuzzleHistory records one
	// entry per round, append-only
	Puzzle        *Puzzle
	PuzzleHistory []*Puzzle

	MatchStatus MatchStatus
	RoundStatus RoundStatus

	// CurrentRound is 0 before the first round and never exceeds
	// Config.TotalRounds
	CurrentRound  int
	RoundDeadline *time.Time

	RoundHistory []RoundSummary
	FinalOutcome *MatchOutcome

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy of the room sharing no mutable state with the
// original. Puzzles and recorded round summaries are written once and
// never modified afterwards, so their inner data is shared.
func (r *Room) Clone() *Room {
	c := *r

	c.Participants = make(map[IdentityID]*Participant, len(r.Participants))
	for id, p := range r.Participants {
		pc := *p
		pc.SubmittedWords = append([]WordSubmission(nil), p.SubmittedWords...)
		c.Participants[id] = &pc
	}

	c.PuzzleHistory = append([]*Puzzle(nil), r.PuzzleHistory...)
	c.RoundHistory = append([]RoundSummary(nil), r.RoundHistory...)

	if r.RoundDeadline != nil {
		d := *r.RoundDeadline
		c.RoundDeadline = &d
	}
	if r.FinalOutcome != nil {
		o := *r.FinalOutcome
		o.FinalScores = make(map[IdentityID]int, len(r.FinalOutcome.FinalScores))
		for id, score := range r.FinalOutcome.FinalScores {
			o.FinalScores[id] = score
		}
		c.FinalOutcome = &o
	}

	return &c
}

// GetParticipant returns the participant with the given identity, or nil
func (r *Room) GetParticipant(identity IdentityID) *Participant {
	return r.Participants[identity]
}

// IsFull returns true if the room has reached its participant limit
func (r *Room) IsFull() bool {
	return len(r.Participants) >= r.Config.MaxPlayers
}

// ConnectedCount returns the number of currently connected participants
func (r *Room) ConnectedCount() int {
	count := 0
	for _, p := range r.Participants {
		if p.Connected {
			count++
		}
	}
	return count
}

// AllConnectedReady returns true if every connected participant is ready.
// False when nobody is connected.
func (r *Room) AllConnectedReady() bool {
	any := false
	for _, p := range r.Participants {
		if !p.Connected {
			continue
		}
		any = true
		if !p.Ready {
			return false
		}
	}
	return any
}

// AllConnectedSubmitted returns true if every connected participant has
// submitted this round. False when nobody is connected.
func (r *Room) AllConnectedSubmitted() bool {
	any := false
	for _, p := range r.Participants {
		if !p.Connected {
			continue
		}
		any = true
		if !p.HasSubmitted {
			return false
		}
	}
	return any
}

// IsFinalRound returns true if the current round is the last of the match
func (r *Room) IsFinalRound() bool {
	return r.CurrentRound >= r.Config.TotalRounds
}
