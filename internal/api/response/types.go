package response

import (
	"sort"
	"time"

	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/auth"
)

// SessionResponse is the response for authentication endpoints
type SessionResponse struct {
	SessionToken string `json:"session_token"`
	Identity     string `json:"identity"`
	PlayerID     string `json:"player_id,omitempty"`
	DisplayName  string `json:"display_name"`
	IsGuest      bool   `json:"is_guest"`
}

// SessionFromModel creates a SessionResponse from a session
func SessionFromModel(s *auth.Session) SessionResponse {
	return SessionResponse{
		SessionToken: s.Token,
		Identity:     string(s.Identity),
		PlayerID:     string(s.PlayerID),
		DisplayName:  s.DisplayName,
		IsGuest:      s.IsGuest,
	}
}

// Puzzle represents a puzzle in API responses
type Puzzle struct {
	CenterLetter string   `json:"center_letter"`
	OuterLetters []string `json:"outer_letters"`
	ValidWords   []string `json:"valid_words"`
	Pangrams     []string `json:"pangrams"`
}

// PuzzleFromModel converts a model.Puzzle
func PuzzleFromModel(p *model.Puzzle) *Puzzle {
	if p == nil {
		return nil
	}
	return &Puzzle{
		CenterLetter: p.CenterLetter,
		OuterLetters: p.OuterLetters,
		ValidWords:   p.ValidWords,
		Pangrams:     p.Pangrams,
	}
}

// Participant represents one participant in API responses.
// Mid-round submissions are private until the round ends, so only the
// submitted flag is exposed here; words and scores surface through
// round summaries.
type Participant struct {
	Identity     string `json:"identity"`
	DisplayName  string `json:"display_name"`
	Connected    bool   `json:"connected"`
	Ready        bool   `json:"ready"`
	HasSubmitted bool   `json:"has_submitted"`
	TotalScore   int    `json:"total_score"`
}

// ParticipantFromModel converts a model.Participant
func ParticipantFromModel(p *model.Participant) Participant {
	return Participant{
		Identity:     string(p.Identity),
		DisplayName:  p.DisplayName,
		Connected:    p.Connected,
		Ready:        p.Ready,
		HasSubmitted: p.HasSubmitted,
		TotalScore:   p.TotalScore,
	}
}

// Room represents a room in API responses
type Room struct {
	Code          string               `json:"code"`
	MatchStatus   string               `json:"match_status"`
	RoundStatus   string               `json:"round_status"`
	CurrentRound  int                  `json:"current_round"`
	TotalRounds   int                  `json:"total_rounds"`
	RoundDeadline *time.Time           `json:"round_deadline,omitempty"`
	Puzzle        *Puzzle              `json:"puzzle,omitempty"`
	Participants  []Participant        `json:"participants"`
	RoundHistory  []model.RoundSummary `json:"round_history,omitempty"`
	FinalOutcome  *model.MatchOutcome  `json:"final_outcome,omitempty"`
}

// RoomFromModel converts a model.Room. The puzzle is included only once
// a round is underway; it must not leak to a participant waiting for
// the match to start.
func RoomFromModel(r *model.Room) Room {
	participants := make([]Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, ParticipantFromModel(p))
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Identity < participants[j].Identity
	})

	var puzzle *Puzzle
	if r.CurrentRound > 0 {
		puzzle = PuzzleFromModel(r.Puzzle)
	}

	return Room{
		Code:          string(r.Code),
		MatchStatus:   string(r.MatchStatus),
		RoundStatus:   string(r.RoundStatus),
		CurrentRound:  r.CurrentRound,
		TotalRounds:   r.Config.TotalRounds,
		RoundDeadline: r.RoundDeadline,
		Puzzle:        puzzle,
		Participants:  participants,
		RoundHistory:  r.RoundHistory,
		FinalOutcome:  r.FinalOutcome,
	}
}

// ReadyResponse is the response after setting the ready flag
type ReadyResponse struct {
	Room     Room `json:"room"`
	AllReady bool `json:"all_ready"`
}

// SubmissionAckResponse acknowledges a recorded submission
type SubmissionAckResponse struct {
	AcceptedWords int `json:"accepted_words"`
	RoundScore    int `json:"round_score"`
}

// SubmissionAckFromModel converts a model.SubmissionAck
func SubmissionAckFromModel(a *model.SubmissionAck) SubmissionAckResponse {
	return SubmissionAckResponse{
		AcceptedWords: a.AcceptedWords,
		RoundScore:    a.RoundScore,
	}
}

// PlayerStats represents a player's durable stats in API responses
type PlayerStats struct {
	PlayerID      string `json:"player_id"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Ties          int    `json:"ties"`
	TotalPoints   int    `json:"total_points"`
}

// PlayerStatsFromModel converts a model.PlayerStats
func PlayerStatsFromModel(s *model.PlayerStats) PlayerStats {
	return PlayerStats{
		PlayerID:      string(s.PlayerID),
		MatchesPlayed: s.MatchesPlayed,
		Wins:          s.Wins,
		Losses:        s.Losses,
		Ties:          s.Ties,
		TotalPoints:   s.TotalPoints,
	}
}
