package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/spellduel-go/internal/api/middleware"
	"github.com/mcoot/spellduel-go/internal/api/request"
	"github.com/mcoot/spellduel-go/internal/api/response"
	"github.com/mcoot/spellduel-go/internal/api/sse"
	"github.com/mcoot/spellduel-go/internal/dependencies/clock"
	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/auth"
	"github.com/mcoot/spellduel-go/internal/services/match"
	"github.com/mcoot/spellduel-go/internal/services/reconnect"
	"github.com/mcoot/spellduel-go/internal/services/registry"
)

// RoomHandler handles room and match endpoints
type RoomHandler struct {
	registry         *registry.Service
	matchController  *match.Controller
	reconnectManager *reconnect.Manager
	hubManager       *sse.HubManager
	broadcaster      model.Broadcaster
	clock            clock.Clock
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(
	registry *registry.Service,
	matchController *match.Controller,
	reconnectManager *reconnect.Manager,
	hubManager *sse.HubManager,
	broadcaster model.Broadcaster,
	clock clock.Clock,
) *RoomHandler {
	return &RoomHandler{
		registry:         registry,
		matchController:  matchController,
		reconnectManager: reconnectManager,
		hubManager:       hubManager,
		broadcaster:      broadcaster,
		clock:            clock,
	}
}

func (h *RoomHandler) broadcast(code model.RoomCode, eventType model.EventType, payload any) {
	h.broadcaster.Broadcast(code, model.Event{
		Type:      eventType,
		Timestamp: h.clock.Now(),
		RoomCode:  code,
		Payload:   payload,
	})
}

// displayName resolves the name to show for a participant, falling back
// to the session's name when the request omits one
func displayName(requested string, session *auth.Session) string {
	if requested != "" {
		return requested
	}
	return session.DisplayName
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body
		req = request.CreateRoomRequest{}
	}

	room, err := h.registry.CreateRoom(r.Context(), session.Identity, session.PlayerID, displayName(req.DisplayName, session))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(room))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	room, err := h.registry.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = request.JoinRoomRequest{}
	}

	room, rejoined, err := h.registry.JoinRoom(r.Context(), code, session.Identity, session.PlayerID, displayName(req.DisplayName, session))
	if err != nil {
		WriteError(w, err)
		return
	}

	name := room.GetParticipant(session.Identity).DisplayName
	if rejoined {
		h.reconnectManager.CancelTeardown(code)
		h.broadcast(code, model.EventParticipantReconnected, model.ParticipantReconnectedPayload{
			Identity:    session.Identity,
			DisplayName: name,
		})
	} else {
		h.broadcast(code, model.EventParticipantJoined, model.ParticipantJoinedPayload{
			Identity:    session.Identity,
			DisplayName: name,
		})
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	room, remaining, err := h.registry.LeaveRoom(r.Context(), session.Identity)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcast(room.Code, model.EventParticipantDisconnected, model.ParticipantDisconnectedPayload{
		Identity:           session.Identity,
		ConnectedRemaining: remaining,
	})

	if remaining == 0 {
		h.reconnectManager.ScheduleTeardown(room.Code)
	}

	response.NoContent(w)
}

// Reconnect handles POST /api/v1/rooms/{code}/reconnect
func (h *RoomHandler) Reconnect(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.ReconnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = request.ReconnectRequest{}
	}

	room, err := h.reconnectManager.Reconnect(r.Context(), code, session.Identity, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcast(code, model.EventParticipantReconnected, model.ParticipantReconnectedPayload{
		Identity:    session.Identity,
		DisplayName: room.GetParticipant(session.Identity).DisplayName,
	})

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}

// Ready handles POST /api/v1/rooms/{code}/ready
func (h *RoomHandler) Ready(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.ReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.matchController.SetParticipantReady(r.Context(), code, session.Identity, req.Ready)
	if err != nil {
		WriteError(w, err)
		return
	}

	room := result.Room
	if result.StartFirstRound || result.StartNextRound {
		started, err := h.matchController.StartRound(r.Context(), code)
		if err != nil {
			WriteError(w, err)
			return
		}
		room = started
	}

	response.JSON(w, http.StatusOK, response.ReadyResponse{
		Room:     response.RoomFromModel(room),
		AllReady: result.AllReady,
	})
}

// Submit handles POST /api/v1/rooms/{code}/submit
func (h *RoomHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	words := make([]model.WordSubmission, len(req.Words))
	for i, word := range req.Words {
		words[i] = model.WordSubmission{
			Word:      word.Word,
			Points:    word.Points,
			IsPangram: word.IsPangram,
		}
	}

	ack, err := h.matchController.RecordSubmission(r.Context(), code, session.Identity, words, req.TotalScore)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SubmissionAckFromModel(ack))
}

// Restart handles POST /api/v1/rooms/{code}/restart
func (h *RoomHandler) Restart(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	room, err := h.matchController.RestartMatch(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}

// Events handles GET /api/v1/rooms/{code}/events (SSE stream).
// Only a participant of the room may subscribe.
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	room, err := h.registry.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	if room.GetParticipant(session.Identity) == nil {
		WriteError(w, model.ErrParticipantNotFound)
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, session.Identity)
}
