package storage

import (
	"context"

	"github.com/guessroom/guessroom/internal/model"
)

// Storage defines the interface for room persistence. Implementations
// provide record-level durability only; per-room serialization of
// read-modify-write sequences is the room controller's job.
type Storage interface {
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	// ListRooms returns all rooms in no particular order
	ListRooms(ctx context.Context) ([]*model.Room, error)
}
