package storage

import (
	"context"

	"github.com/mcoot/spellduel-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)

	// Identity -> room index operations
	SaveIdentityRoom(ctx context.Context, identity model.IdentityID, code model.RoomCode) error
	GetRoomCodeForIdentity(ctx context.Context, identity model.IdentityID) (model.RoomCode, error)
	DeleteIdentityRoom(ctx context.Context, identity model.IdentityID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Player stats operations
	SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error
	GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error)

	// Puzzle set operations
	SavePuzzles(ctx context.Context, puzzles []model.Puzzle) error
	GetPuzzles(ctx context.Context) ([]model.Puzzle, error)
}
