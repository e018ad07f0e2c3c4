package memory

import (
	"context"
	"sync"

	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms             map[model.RoomCode]*model.Room
	identityRooms     map[model.IdentityID]model.RoomCode
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	playerStats       map[model.PlayerID]*model.PlayerStats
	puzzles           []model.Puzzle
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:             make(map[model.RoomCode]*model.Room),
		identityRooms:     make(map[model.IdentityID]model.RoomCode),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		playerStats:       make(map[model.PlayerID]*model.PlayerStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations.
// Rooms cross the storage boundary by copy in both directions: a room
// handed out here is never the stored one, so callers reading outside
// the room lock cannot observe a concurrent WithRoom mutation.

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

// Identity index operations

func (s *Storage) SaveIdentityRoom(ctx context.Context, identity model.IdentityID, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identityRooms[identity] = code
	return nil
}

func (s *Storage) GetRoomCodeForIdentity(ctx context.Context, identity model.IdentityID) (model.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.identityRooms[identity]
	if !ok {
		return "", model.ErrNotInRoom
	}
	return code, nil
}

func (s *Storage) DeleteIdentityRoom(ctx context.Context, identity model.IdentityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.identityRooms, identity)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *rp
	s.registeredPlayers[rp.PlayerID] = &stored
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	result := *rp
	return &result, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	result := *rp
	return &result, nil
}

// Player stats operations

func (s *Storage) SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *stats
	s.playerStats[stats.PlayerID] = &stored
	return nil
}

func (s *Storage) GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.playerStats[playerID]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	result := *stats
	return &result, nil
}

// Puzzle set operations

func (s *Storage) SavePuzzles(ctx context.Context, puzzles []model.Puzzle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puzzles = make([]model.Puzzle, len(puzzles))
	copy(s.puzzles, puzzles)
	return nil
}

func (s *Storage) GetPuzzles(ctx context.Context) ([]model.Puzzle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.puzzles == nil {
		return nil, model.ErrNoPuzzlesLoaded
	}
	result := make([]model.Puzzle, len(s.puzzles))
	copy(result, s.puzzles)
	return result, nil
}
