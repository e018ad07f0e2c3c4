package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/spellduel-go/internal/dependencies/clock"
	"github.com/mcoot/spellduel-go/internal/dependencies/random"
	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/puzzle"
	"github.com/mcoot/spellduel-go/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 4
	// RoomCodeAlphabet is the characters used in room codes
	RoomCodeAlphabet = "0123456789"
	// maxCodeAttempts bounds collision retries during code generation.
	// Exhaustion means the live-room count is approaching the code
	// space, which is a deployment problem rather than a user error.
	maxCodeAttempts = 128
)

// Service is the room registry: the single source of truth for which
// rooms exist and which identity belongs to which room.
type Service struct {
	storage storage.Storage
	puzzles puzzle.Provider
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	locks *roomLocks

	// createMu serializes room creation so code generation and the
	// identity index never race against themselves
	createMu sync.Mutex
}

// New creates a new room registry
func New(
	storage storage.Storage,
	puzzles puzzle.Provider,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		puzzles: puzzles,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "registry")),
		locks:   newRoomLocks(),
	}
}

// WithRoom runs fn against the room under its lock and persists the
// room afterwards. Every room mutation in the system routes through
// here, so no two operations ever interleave on the same room.
func (s *Service) WithRoom(ctx context.Context, code model.RoomCode, fn func(room *model.Room) error) error {
	m := s.locks.acquire(code)
	defer m.Unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	if err := fn(room); err != nil {
		return err
	}

	room.UpdatedAt = s.clock.Now()
	return s.storage.SaveRoom(ctx, room)
}

// CreateRoom allocates a new room with a unique code and the creator
// as its first participant. The initial puzzle is fetched up front so
// a room can never exist without one.
func (s *Service) CreateRoom(ctx context.Context, identity model.IdentityID, externalID model.PlayerID, displayName string) (*model.Room, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	// An identity can be in at most one room at a time
	if _, err := s.storage.GetRoomCodeForIdentity(ctx, identity); err == nil {
		return nil, model.ErrAlreadyInRoom
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.puzzles.GetRandomPuzzle(ctx)
	if err != nil {
		s.logger.Error("puzzle fetch failed during room creation",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	now := s.clock.Now()
	room := &model.Room{
		Code:   code,
		Config: model.DefaultRoomConfig(),
		Participants: map[model.IdentityID]*model.Participant{
			identity: {
				Identity:    identity,
				DisplayName: displayName,
				ExternalID:  externalID,
				Connected:   true,
				JoinedAt:    now,
			},
		},
		Puzzle:        p,
		PuzzleHistory: []*model.Puzzle{p},
		MatchStatus:   model.MatchStatusWaiting,
		RoundStatus:   model.RoundStatusWaiting,
		CurrentRound:  0,
		RoundHistory:  []model.RoundSummary{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	if err := s.storage.SaveIdentityRoom(ctx, identity, code); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("identity", string(identity)),
	)

	return room, nil
}

// generateCode picks a code not used by any live room, with bounded
// retries. Caller must hold createMu.
func (s *Service) generateCode(ctx context.Context) (model.RoomCode, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := model.RoomCode(s.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := s.storage.RoomExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	s.logger.Error("room code generation exhausted retries",
		slog.Int("attempts", maxCodeAttempts),
	)
	return "", model.ErrRoomCodesExhausted
}

// JoinRoom adds a participant to a room. Joining a room the identity
// already belongs to degrades to a reconnection (rejoined=true) rather
// than an error, so an app restart can recover its seat.
func (s *Service) JoinRoom(ctx context.Context, code model.RoomCode, identity model.IdentityID, externalID model.PlayerID, displayName string) (*model.Room, bool, error) {
	var room *model.Room
	var rejoined bool

	err := s.WithRoom(ctx, code, func(r *model.Room) error {
		if p := r.GetParticipant(identity); p != nil {
			p.Connected = true
			if displayName != "" {
				p.DisplayName = displayName
			}
			rejoined = true
			room = r
			return nil
		}

		if existing, err := s.storage.GetRoomCodeForIdentity(ctx, identity); err == nil && existing != code {
			return model.ErrAlreadyInRoom
		}

		if r.IsFull() {
			return model.ErrRoomFull
		}

		r.Participants[identity] = &model.Participant{
			Identity:    identity,
			DisplayName: displayName,
			ExternalID:  externalID,
			Connected:   true,
			JoinedAt:    s.clock.Now(),
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if err := s.storage.SaveIdentityRoom(ctx, identity, code); err != nil {
		return nil, false, err
	}

	s.logger.Info("participant joined room",
		slog.String("room", string(code)),
		slog.String("identity", string(identity)),
		slog.Bool("rejoined", rejoined),
	)

	return room, rejoined, nil
}

// LeaveRoom marks the identity's participant disconnected without
// removing it; match state survives for a possible reconnection.
// Returns the room and how many participants remain connected.
func (s *Service) LeaveRoom(ctx context.Context, identity model.IdentityID) (*model.Room, int, error) {
	code, err := s.storage.GetRoomCodeForIdentity(ctx, identity)
	if err != nil {
		return nil, 0, err
	}

	var room *model.Room
	var remaining int

	err = s.WithRoom(ctx, code, func(r *model.Room) error {
		p := r.GetParticipant(identity)
		if p == nil {
			return model.ErrParticipantNotFound
		}
		p.Connected = false
		p.Ready = false
		remaining = r.ConnectedCount()
		room = r
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.logger.Info("participant disconnected",
		slog.String("room", string(code)),
		slog.String("identity", string(identity)),
		slog.Int("connected_remaining", remaining),
	)

	return room, remaining, nil
}

// GetRoom retrieves a room by code
func (s *Service) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return s.storage.GetRoom(ctx, code)
}

// GetRoomForIdentity returns the room the identity belongs to
func (s *Service) GetRoomForIdentity(ctx context.Context, identity model.IdentityID) (*model.Room, error) {
	code, err := s.storage.GetRoomCodeForIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.storage.GetRoom(ctx, code)
}

// RemoveRoomIfAbandoned deletes the room and releases its identity
// mappings, but only if no participant is connected at call time. The
// check and the delete run under the room's lock, so a reconnection
// that lands first always wins.
func (s *Service) RemoveRoomIfAbandoned(ctx context.Context, code model.RoomCode) (bool, error) {
	m := s.locks.acquire(code)
	defer m.Unlock()

	room, err := s.storage.GetRoom(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return false, nil
		}
		return false, err
	}

	if room.ConnectedCount() > 0 {
		return false, nil
	}

	for identity := range room.Participants {
		if err := s.storage.DeleteIdentityRoom(ctx, identity); err != nil {
			return false, err
		}
	}
	if err := s.storage.DeleteRoom(ctx, code); err != nil {
		return false, err
	}

	s.locks.drop(code)

	s.logger.Info("abandoned room removed", slog.String("room", string(code)))
	return true, nil
}
