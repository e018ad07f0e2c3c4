package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodeRoomFull            = "ROOM_FULL"
	CodeRoomCodesExhausted  = "ROOM_CODES_EXHAUSTED"
	CodeAlreadyInRoom       = "ALREADY_IN_ROOM"
	CodeNotInRoom           = "NOT_IN_ROOM"
	CodeParticipantNotFound = "PARTICIPANT_NOT_FOUND"
	CodeMatchNotStartable   = "MATCH_NOT_STARTABLE"
	CodeMatchNotFinished    = "MATCH_NOT_FINISHED"
	CodeMaxRoundsReached    = "MAX_ROUNDS_REACHED"
	CodeRoundNotStartable   = "ROUND_NOT_STARTABLE"
	CodeNoActiveRound       = "NO_ACTIVE_ROUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrRoomCodesExhausted):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeRoomCodesExhausted, "No room codes available, try again later"}}
	case errors.Is(err, model.ErrAlreadyInRoom):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInRoom, "Already in another room"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Not in a room"}}
	case errors.Is(err, model.ErrParticipantNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeParticipantNotFound, "Participant not found in room"}}
	case errors.Is(err, model.ErrMatchNotStartable):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotStartable, "Match is not ready to start"}}
	case errors.Is(err, model.ErrMatchNotFinished):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotFinished, "Match is not finished"}}
	case errors.Is(err, model.ErrMaxRoundsReached):
		return &httpError{http.StatusConflict, APIError{CodeMaxRoundsReached, "All rounds have been played"}}
	case errors.Is(err, model.ErrRoundNotStartable):
		return &httpError{http.StatusConflict, APIError{CodeRoundNotStartable, "Round cannot start in the current state"}}
	case errors.Is(err, model.ErrNoActiveRound):
		return &httpError{http.StatusConflict, APIError{CodeNoActiveRound, "No round is active"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
