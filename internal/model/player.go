package model

import "time"

// PlayerID uniquely identifies a registered player account
type PlayerID string

// RegisteredPlayer holds account data for a player with a login.
// Stored separately from room state; rooms only carry the PlayerID link.
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PlayerStats is the durable win/loss record for a registered player
type PlayerStats struct {
	PlayerID      PlayerID `json:"player_id"`
	MatchesPlayed int      `json:"matches_played"`
	Wins          int      `json:"wins"`
	Losses        int      `json:"losses"`
	Ties          int      `json:"ties"`
	TotalPoints   int      `json:"total_points"`
	UpdatedAt     time.Time
}
