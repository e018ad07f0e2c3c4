package model

import "time"

// ParticipantRoundResult is one participant's snapshot within a RoundSummary
type ParticipantRoundResult struct {
	Identity    IdentityID       `json:"identity"`
	DisplayName string           `json:"display_name"`
	Words       []WordSubmission `json:"words"`
	RoundScore  int              `json:"round_score"`
	TotalScore  int              `json:"total_score"`
}

// RoundSummary is the immutable record of one completed round
type RoundSummary struct {
	Round   int                      `json:"round"`
	EndedAt time.Time                `json:"ended_at"`
	Puzzle  *Puzzle                  `json:"puzzle"`
	Results []ParticipantRoundResult `json:"results"`
}

// MatchOutcome records the final result of a finished match
type MatchOutcome struct {
	// Winner is the identity with the strictly highest total score.
	// Empty when IsTie is true.
	Winner      IdentityID         `json:"winner,omitempty"`
	IsTie       bool               `json:"is_tie"`
	FinalScores map[IdentityID]int `json:"final_scores"`
	FinishedAt  time.Time          `json:"finished_at"`
}

// SubmissionAck acknowledges a recorded round submission to its sender
type SubmissionAck struct {
	AcceptedWords int `json:"accepted_words"`
	RoundScore    int `json:"round_score"`
}
