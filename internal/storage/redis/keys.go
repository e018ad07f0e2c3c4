package redis

import (
	"fmt"

	"github.com/mcoot/spellduel-go/internal/model"
)

// Key prefix for all duel-related data
const keyPrefix = "spellduel"

// Key generation functions for each entity type

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// identityRoomKey returns the Redis key for the identity -> room_code index
func identityRoomKey(identity model.IdentityID) string {
	return fmt.Sprintf("%s:idx:identity_room:%s", keyPrefix, identity)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// playerStatsKey returns the Redis key for a player's stats record
func playerStatsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, playerID)
}

// puzzlesKey returns the Redis key for the loaded puzzle set
func puzzlesKey() string {
	return fmt.Sprintf("%s:puzzles", keyPrefix)
}
