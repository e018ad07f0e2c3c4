package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrAlreadyInRoom      = errors.New("identity is already in a room")
	ErrNotInRoom          = errors.New("identity is not in a room")
	ErrRoomCodesExhausted = errors.New("room code space exhausted")

	// Match errors
	ErrParticipantNotFound = errors.New("participant not found in room")
	ErrMatchNotStartable   = errors.New("match is not ready to start")
	ErrMatchNotFinished    = errors.New("match is not finished")
	ErrMaxRoundsReached    = errors.New("all rounds have been played")
	ErrRoundNotStartable   = errors.New("round cannot start in current state")
	ErrNoActiveRound       = errors.New("no round is active")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrStatsNotFound  = errors.New("player stats not found")

	// Puzzle errors
	ErrNoPuzzlesLoaded = errors.New("no puzzles loaded")
	ErrInvalidPuzzle   = errors.New("invalid puzzle")
)
