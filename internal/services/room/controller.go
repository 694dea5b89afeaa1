package room

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/guessroom/guessroom/internal/dependencies/clock"
	"github.com/guessroom/guessroom/internal/dependencies/random"
	"github.com/guessroom/guessroom/internal/model"
	"github.com/guessroom/guessroom/internal/services/scoring"
	"github.com/guessroom/guessroom/internal/storage"
)

const (
	// RoomIDSuffixLength is the length of the random part of room IDs
	RoomIDSuffixLength = 9
	// RoomIDAlphabet is the characters used in room ID suffixes
	RoomIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Controller owns all room, player, and guess state. Every
// read-modify-write sequence on a single room runs under that room's
// mutex, so concurrent operations on the same room observe one
// linearizable order while different rooms never block each other.
type Controller struct {
	storage storage.Storage
	scoring *scoring.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	// Per-room mutexes, keyed by room ID. Entries are dropped when the
	// room is deleted; a goroutine still blocked on the stale mutex will
	// observe ErrRoomNotFound from storage once it proceeds.
	locks sync.Map

	// onRoomDeleted is invoked after a room is removed, so connection
	// state for that room can be torn down with it
	onRoomDeleted func(model.RoomID)
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	scoring *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		scoring: scoring,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "room")),
	}
}

// SetOnRoomDeleted registers a hook called whenever a room is deleted
// because its last player left. Must be set before the controller is used.
func (c *Controller) SetOnRoomDeleted(fn func(model.RoomID)) {
	c.onRoomDeleted = fn
}

// lockRoom acquires the mutex for a room ID and returns its unlock func
func (c *Controller) lockRoom(id model.RoomID) func() {
	mu, _ := c.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// CreateRoomParams holds the inputs for CreateRoom
type CreateRoomParams struct {
	Name        string
	IsPublic    bool
	Password    string
	MaxPlayers  int
	CreatorID   model.PlayerID
	CreatorName string
	// TargetNumber is optional; generated when empty
	TargetNumber string
	// TargetDigits defaults to model.DefaultTargetDigits when zero
	TargetDigits int
}

// CreateRoom creates a new room with the creator as its sole player
func (c *Controller) CreateRoom(ctx context.Context, params CreateRoomParams) (*model.Room, error) {
	if params.MaxPlayers < model.MinPlayers || params.MaxPlayers > model.MaxPlayers {
		return nil, model.ErrInvalidRoomConfig
	}

	targetDigits := params.TargetDigits
	if targetDigits == 0 {
		targetDigits = model.DefaultTargetDigits
	}

	target := params.TargetNumber
	if target == "" {
		target = c.scoring.GenerateTarget(c.random, targetDigits)
	} else if err := c.scoring.ValidateTarget(target, targetDigits); err != nil {
		return nil, err
	}

	var passwordHash string
	if !params.IsPublic {
		hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passwordHash = string(hash)
	}

	now := c.clock.Now()

	// Generate a unique room ID
	var id model.RoomID
	for {
		id = model.RoomID(fmt.Sprintf("room_%d_%s",
			now.UnixMilli(), c.random.String(RoomIDSuffixLength, RoomIDAlphabet)))
		exists, err := c.storage.RoomExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	room := &model.Room{
		ID:           id,
		Name:         params.Name,
		IsPublic:     params.IsPublic,
		PasswordHash: passwordHash,
		MaxPlayers:   params.MaxPlayers,
		TargetNumber: target,
		TargetDigits: targetDigits,
		CreatorID:    params.CreatorID,
		CreatedAt:    now,
		Status:       model.RoomStatusNotStarted,
		Players: []model.Player{
			{
				ID:        params.CreatorID,
				Name:      params.CreatorName,
				IsCreator: true,
				Guesses:   []model.Guess{},
			},
		},
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("creator_id", string(params.CreatorID)),
		slog.Int("target_digits", targetDigits),
		slog.Bool("public", params.IsPublic))

	return room, nil
}

// GetRoom retrieves a room by ID
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// ListPublicRooms returns all public rooms, newest-created-first
func (c *Controller) ListPublicRooms(ctx context.Context) ([]*model.Room, error) {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]*model.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.IsPublic {
			public = append(public, r)
		}
	}
	sortNewestFirst(public)
	return public, nil
}

// ListRoomsByCreator returns all rooms created by a user, newest-first
func (c *Controller) ListRoomsByCreator(ctx context.Context, userID model.PlayerID) ([]*model.Room, error) {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	created := make([]*model.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.CreatorID == userID {
			created = append(created, r)
		}
	}
	sortNewestFirst(created)
	return created, nil
}

func sortNewestFirst(rooms []*model.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
		}
		return rooms[i].ID > rooms[j].ID
	})
}

// ValidateJoin pre-checks whether a join would succeed, without mutating
// any state. The reason string is user-facing.
func (c *Controller) ValidateJoin(ctx context.Context, id model.RoomID, password string) (bool, string) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return false, "Room not found"
	}
	if room.IsFull() {
		return false, "Room is full"
	}
	if !c.checkPassword(room, password) {
		return false, "Incorrect password"
	}
	return true, ""
}

func (c *Controller) checkPassword(room *model.Room, password string) bool {
	if room.IsPublic {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(password)) == nil
}

// JoinRoom adds a player to a room. Joining a room the player is already
// in succeeds without adding a duplicate entry.
func (c *Controller) JoinRoom(ctx context.Context, id model.RoomID, playerID model.PlayerID, playerName string, password string) (*model.Room, error) {
	unlock := c.lockRoom(id)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if !c.checkPassword(room, password) {
		return nil, model.ErrWrongPassword
	}

	// Idempotent rejoin, checked before capacity so a member of a full
	// room can still reconnect
	if room.GetPlayer(playerID) != nil {
		return room, nil
	}

	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	room.Players = append(room.Players, model.Player{
		ID:      playerID,
		Name:    playerName,
		Guesses: []model.Guess{},
	})

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("room_id", string(id)),
		slog.String("player_id", string(playerID)),
		slog.Int("players", room.CurrentPlayers()))

	return room, nil
}

// LeaveRoom removes a player from a room. It is a no-op when the room or
// player is absent. When the last player leaves, the room is deleted and
// the deletion hook fires so no broadcast targets survive it.
func (c *Controller) LeaveRoom(ctx context.Context, id model.RoomID, playerID model.PlayerID) (*model.Room, error) {
	unlock := c.lockRoom(id)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, nil
	}

	idx := -1
	for i := range room.Players {
		if room.Players[i].ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return room, nil
	}

	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)

	if len(room.Players) == 0 {
		if err := c.storage.DeleteRoom(ctx, id); err != nil {
			return nil, err
		}
		c.locks.Delete(id)
		if c.onRoomDeleted != nil {
			c.onRoomDeleted(id)
		}
		c.logger.Info("room deleted, last player left", slog.String("room_id", string(id)))
		return nil, nil
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("player left",
		slog.String("room_id", string(id)),
		slog.String("player_id", string(playerID)),
		slog.Int("players", room.CurrentPlayers()))

	return room, nil
}

// SubmitGuess scores a guess, appends it to the player's history, and
// advances the room status. A full-position match marks the player as
// winner and finishes the room; neither flag is ever cleared by later
// guesses.
func (c *Controller) SubmitGuess(ctx context.Context, id model.RoomID, playerID model.PlayerID, number string) (*model.Guess, *model.Room, error) {
	unlock := c.lockRoom(id)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	player := room.GetPlayer(playerID)
	if player == nil {
		return nil, nil, model.ErrPlayerNotInRoom
	}

	if err := c.scoring.ValidateGuess(number, room.TargetDigits); err != nil {
		return nil, nil, err
	}

	correctCount, correctPositionCount := c.scoring.Score(number, room.TargetNumber)

	guess := model.Guess{
		Number:               number,
		CorrectCount:         correctCount,
		CorrectPositionCount: correctPositionCount,
		Timestamp:            c.clock.Now(),
		PlayerID:             player.ID,
		PlayerName:           player.Name,
	}

	player.Guesses = append(player.Guesses, guess)

	if room.Status == model.RoomStatusNotStarted {
		room.Status = model.RoomStatusPlaying
	}

	if c.scoring.IsWinning(guess, room.TargetDigits) {
		player.HasWon = true
		room.Status = model.RoomStatusFinished
		c.logger.Info("game won",
			slog.String("room_id", string(id)),
			slog.String("player_id", string(playerID)))
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, nil, err
	}

	return &guess, room, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, params CreateRoomParams) (*model.Room, error)
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	ListPublicRooms(ctx context.Context) ([]*model.Room, error)
	ListRoomsByCreator(ctx context.Context, userID model.PlayerID) ([]*model.Room, error)
	ValidateJoin(ctx context.Context, id model.RoomID, password string) (bool, string)
	JoinRoom(ctx context.Context, id model.RoomID, playerID model.PlayerID, playerName string, password string) (*model.Room, error)
	LeaveRoom(ctx context.Context, id model.RoomID, playerID model.PlayerID) (*model.Room, error)
	SubmitGuess(ctx context.Context, id model.RoomID, playerID model.PlayerID, number string) (*model.Guess, *model.Room, error)
}

var _ ControllerInterface = (*Controller)(nil)
