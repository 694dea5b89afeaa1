package redis

import (
	"fmt"

	"github.com/guessroom/guessroom/internal/model"
)

// Key prefix for all room data
const keyPrefix = "guessroom"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of all room keys,
// used to enumerate rooms for listing
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
