package room

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/guessroom/guessroom/internal/dependencies/mocks"
	"github.com/guessroom/guessroom/internal/model"
	"github.com/guessroom/guessroom/internal/services/scoring"
	"github.com/guessroom/guessroom/internal/storage/memory"
	"github.com/guessroom/guessroom/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, scoring.New(), s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) createRoom(target string, maxPlayers int) *model.Room {
	s.random.QueueString("abc123def")
	room, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name:         "Test Room",
		IsPublic:     true,
		MaxPlayers:   maxPlayers,
		CreatorID:    "creator-1",
		CreatorName:  "Alice",
		TargetNumber: target,
		TargetDigits: len(target),
	})
	s.Require().NoError(err)
	return room
}

// CreateRoom tests

func (s *ControllerSuite) TestCreateRoomSucceeds() {
	room := s.createRoom("1234", 4)

	s.Equal(model.RoomStatusNotStarted, room.Status)
	s.Equal("1234", room.TargetNumber)
	s.Equal(4, room.TargetDigits)
	s.Len(room.Players, 1)
	s.Equal(model.PlayerID("creator-1"), room.Players[0].ID)
	s.True(room.Players[0].IsCreator)
	s.False(room.Players[0].HasWon)
}

func (s *ControllerSuite) TestCreateRoomGeneratesTarget() {
	s.random.QueueString("abc123def")
	s.random.QueueDigits("0935")

	room, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name:        "Generated",
		IsPublic:    true,
		MaxPlayers:  4,
		CreatorID:   "creator-1",
		CreatorName: "Alice",
	})
	s.Require().NoError(err)
	s.Equal("0935", room.TargetNumber)
	s.Equal(model.DefaultTargetDigits, room.TargetDigits)
}

func (s *ControllerSuite) TestCreateRoomRejectsBadTarget() {
	s.random.QueueString("abc123def")
	_, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name:         "Bad Target",
		IsPublic:     true,
		MaxPlayers:   4,
		CreatorID:    "creator-1",
		CreatorName:  "Alice",
		TargetNumber: "12ab",
		TargetDigits: 4,
	})
	s.ErrorIs(err, model.ErrInvalidTargetNumber)
}

func (s *ControllerSuite) TestCreateRoomRejectsBadMaxPlayers() {
	for _, maxPlayers := range []int{0, 1, 11} {
		_, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
			Name:        "Bad Config",
			IsPublic:    true,
			MaxPlayers:  maxPlayers,
			CreatorID:   "creator-1",
			CreatorName: "Alice",
		})
		s.ErrorIs(err, model.ErrInvalidRoomConfig)
	}
}

func (s *ControllerSuite) TestCreateRoomIsPersisted() {
	room := s.createRoom("1234", 4)

	retrieved, err := s.controller.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
}

func (s *ControllerSuite) TestCreatePrivateRoomHashesPassword() {
	s.random.QueueString("abc123def")
	room, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name:         "Private",
		IsPublic:     false,
		Password:     "hunter2",
		MaxPlayers:   4,
		CreatorID:    "creator-1",
		CreatorName:  "Alice",
		TargetNumber: "1234",
		TargetDigits: 4,
	})
	s.Require().NoError(err)
	s.NotEmpty(room.PasswordHash)
	s.NotEqual("hunter2", room.PasswordHash)
}

// Listing tests

func (s *ControllerSuite) TestListPublicRoomsNewestFirst() {
	s.random.QueueString("aaaaaaaaa", "bbbbbbbbb", "ccccccccc")

	first, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name: "First", IsPublic: true, MaxPlayers: 4,
		CreatorID: "creator-1", CreatorName: "Alice",
		TargetNumber: "1234", TargetDigits: 4,
	})
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	second, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name: "Second", IsPublic: true, MaxPlayers: 4,
		CreatorID: "creator-2", CreatorName: "Bob",
		TargetNumber: "1234", TargetDigits: 4,
	})
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	_, err = s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name: "Hidden", IsPublic: false, Password: "pw", MaxPlayers: 4,
		CreatorID: "creator-3", CreatorName: "Carol",
		TargetNumber: "1234", TargetDigits: 4,
	})
	s.Require().NoError(err)

	rooms, err := s.controller.ListPublicRooms(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 2)
	s.Equal(second.ID, rooms[0].ID)
	s.Equal(first.ID, rooms[1].ID)
}

func (s *ControllerSuite) TestListRoomsByCreator() {
	s.random.QueueString("aaaaaaaaa", "bbbbbbbbb")

	mine, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name: "Mine", IsPublic: false, Password: "pw", MaxPlayers: 4,
		CreatorID: "creator-1", CreatorName: "Alice",
		TargetNumber: "1234", TargetDigits: 4,
	})
	s.Require().NoError(err)

	_, err = s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name: "Theirs", IsPublic: true, MaxPlayers: 4,
		CreatorID: "creator-2", CreatorName: "Bob",
		TargetNumber: "1234", TargetDigits: 4,
	})
	s.Require().NoError(err)

	rooms, err := s.controller.ListRoomsByCreator(s.ctx, "creator-1")
	s.Require().NoError(err)
	s.Len(rooms, 1)
	s.Equal(mine.ID, rooms[0].ID)
}

// JoinRoom tests

func (s *ControllerSuite) TestJoinRoomSucceeds() {
	room := s.createRoom("1234", 4)

	updated, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "")
	s.Require().NoError(err)
	s.Len(updated.Players, 2)
	s.Equal(model.PlayerID("player-2"), updated.Players[1].ID)
	s.False(updated.Players[1].IsCreator)
}

func (s *ControllerSuite) TestJoinRoomIsIdempotent() {
	room := s.createRoom("1234", 4)

	_, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "")
	s.Require().NoError(err)

	again, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "")
	s.Require().NoError(err)
	s.Len(again.Players, 2)
}

func (s *ControllerSuite) TestJoinRoomNotFound() {
	_, err := s.controller.JoinRoom(s.ctx, "nonexistent", "player-2", "Bob", "")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestJoinRoomWrongPassword() {
	s.random.QueueString("abc123def")
	room, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name: "Private", IsPublic: false, Password: "hunter2", MaxPlayers: 4,
		CreatorID: "creator-1", CreatorName: "Alice",
		TargetNumber: "1234", TargetDigits: 4,
	})
	s.Require().NoError(err)

	_, err = s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "wrong")
	s.ErrorIs(err, model.ErrWrongPassword)

	_, err = s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "hunter2")
	s.NoError(err)
}

func (s *ControllerSuite) TestJoinRoomFull() {
	room := s.createRoom("1234", 2)

	_, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "")
	s.Require().NoError(err)

	_, err = s.controller.JoinRoom(s.ctx, room.ID, "player-3", "Carol", "")
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *ControllerSuite) TestJoinFullRoomAsExistingMemberSucceeds() {
	room := s.createRoom("1234", 2)

	_, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "")
	s.Require().NoError(err)

	rejoined, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "")
	s.Require().NoError(err)
	s.Len(rejoined.Players, 2)
}

// LeaveRoom tests

func (s *ControllerSuite) TestLeaveRoomRemovesPlayer() {
	room := s.createRoom("1234", 4)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "")
	s.Require().NoError(err)

	remaining, err := s.controller.LeaveRoom(s.ctx, room.ID, "player-2")
	s.Require().NoError(err)
	s.Len(remaining.Players, 1)
	s.Nil(remaining.GetPlayer("player-2"))
}

func (s *ControllerSuite) TestLeaveRoomDeletesEmptyRoom() {
	room := s.createRoom("1234", 4)

	var deleted []model.RoomID
	s.controller.SetOnRoomDeleted(func(id model.RoomID) {
		deleted = append(deleted, id)
	})

	remaining, err := s.controller.LeaveRoom(s.ctx, room.ID, "creator-1")
	s.Require().NoError(err)
	s.Nil(remaining)

	_, err = s.controller.GetRoom(s.ctx, room.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
	s.Equal([]model.RoomID{room.ID}, deleted)
}

func (s *ControllerSuite) TestLeaveRoomAbsentRoomIsNoOp() {
	room, err := s.controller.LeaveRoom(s.ctx, "nonexistent", "player-1")
	s.NoError(err)
	s.Nil(room)
}

func (s *ControllerSuite) TestLeaveRoomAbsentPlayerIsNoOp() {
	room := s.createRoom("1234", 4)

	unchanged, err := s.controller.LeaveRoom(s.ctx, room.ID, "stranger")
	s.NoError(err)
	s.Len(unchanged.Players, 1)
}

// ValidateJoin tests

func (s *ControllerSuite) TestValidateJoin() {
	room := s.createRoom("1234", 2)

	canJoin, reason := s.controller.ValidateJoin(s.ctx, room.ID, "")
	s.True(canJoin)
	s.Empty(reason)

	canJoin, reason = s.controller.ValidateJoin(s.ctx, "nonexistent", "")
	s.False(canJoin)
	s.Equal("Room not found", reason)

	_, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "")
	s.Require().NoError(err)

	canJoin, reason = s.controller.ValidateJoin(s.ctx, room.ID, "")
	s.False(canJoin)
	s.Equal("Room is full", reason)
}

func (s *ControllerSuite) TestValidateJoinWrongPassword() {
	s.random.QueueString("abc123def")
	room, err := s.controller.CreateRoom(s.ctx, CreateRoomParams{
		Name: "Private", IsPublic: false, Password: "hunter2", MaxPlayers: 4,
		CreatorID: "creator-1", CreatorName: "Alice",
		TargetNumber: "1234", TargetDigits: 4,
	})
	s.Require().NoError(err)

	canJoin, reason := s.controller.ValidateJoin(s.ctx, room.ID, "wrong")
	s.False(canJoin)
	s.Equal("Incorrect password", reason)

	canJoin, _ = s.controller.ValidateJoin(s.ctx, room.ID, "hunter2")
	s.True(canJoin)

	// ValidateJoin never mutates membership
	unchanged, err := s.controller.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Len(unchanged.Players, 1)
}

// SubmitGuess tests

func (s *ControllerSuite) TestSubmitGuessScoresAndAppends() {
	room := s.createRoom("1111", 4)

	guess, updated, err := s.controller.SubmitGuess(s.ctx, room.ID, "creator-1", "1123")
	s.Require().NoError(err)

	s.Equal("1123", guess.Number)
	s.Equal(3, guess.CorrectCount)
	s.Equal(2, guess.CorrectPositionCount)
	s.Equal(model.PlayerID("creator-1"), guess.PlayerID)
	s.Equal("Alice", guess.PlayerName)
	s.Equal(s.clock.Now(), guess.Timestamp)

	s.Equal(model.RoomStatusPlaying, updated.Status)
	s.Len(updated.GetPlayer("creator-1").Guesses, 1)
	s.False(updated.GetPlayer("creator-1").HasWon)
}

func (s *ControllerSuite) TestSubmitGuessPreservesSubmissionOrder() {
	room := s.createRoom("1234", 4)

	for i, number := range []string{"0000", "1111", "2222"} {
		s.clock.Advance(time.Second)
		_, _, err := s.controller.SubmitGuess(s.ctx, room.ID, "creator-1", number)
		s.Require().NoError(err, "guess %d", i)
	}

	updated, _ := s.controller.GetRoom(s.ctx, room.ID)
	guesses := updated.GetPlayer("creator-1").Guesses
	s.Require().Len(guesses, 3)
	s.Equal("0000", guesses[0].Number)
	s.Equal("1111", guesses[1].Number)
	s.Equal("2222", guesses[2].Number)
	s.True(guesses[0].Timestamp.Before(guesses[1].Timestamp))
	s.True(guesses[1].Timestamp.Before(guesses[2].Timestamp))
}

func (s *ControllerSuite) TestSubmitGuessRoomNotFound() {
	_, _, err := s.controller.SubmitGuess(s.ctx, "nonexistent", "player-1", "1234")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestSubmitGuessPlayerNotInRoom() {
	room := s.createRoom("1234", 4)

	_, _, err := s.controller.SubmitGuess(s.ctx, room.ID, "stranger", "1234")
	s.ErrorIs(err, model.ErrPlayerNotInRoom)
}

func (s *ControllerSuite) TestSubmitGuessInvalidFormat() {
	room := s.createRoom("1234", 4)

	for _, number := range []string{"123", "12345", "12a4", ""} {
		_, _, err := s.controller.SubmitGuess(s.ctx, room.ID, "creator-1", number)
		s.ErrorIs(err, model.ErrInvalidGuessFormat, "guess %q", number)
	}

	// Rejected guesses leave no trace
	updated, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Empty(updated.GetPlayer("creator-1").Guesses)
	s.Equal(model.RoomStatusNotStarted, updated.Status)
}

func (s *ControllerSuite) TestSubmitWinningGuessFinishesRoom() {
	room := s.createRoom("1234", 4)

	guess, updated, err := s.controller.SubmitGuess(s.ctx, room.ID, "creator-1", "1234")
	s.Require().NoError(err)

	s.Equal(4, guess.CorrectPositionCount)
	s.True(updated.GetPlayer("creator-1").HasWon)
	s.Equal(model.RoomStatusFinished, updated.Status)
}

func (s *ControllerSuite) TestWinFlagsSurviveLaterGuesses() {
	room := s.createRoom("1234", 4)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "Bob", "")
	s.Require().NoError(err)

	_, _, err = s.controller.SubmitGuess(s.ctx, room.ID, "creator-1", "1234")
	s.Require().NoError(err)

	// Another player keeps guessing after the win
	_, updated, err := s.controller.SubmitGuess(s.ctx, room.ID, "player-2", "9999")
	s.Require().NoError(err)

	s.True(updated.GetPlayer("creator-1").HasWon)
	s.Equal(model.RoomStatusFinished, updated.Status)
}

func (s *ControllerSuite) TestConcurrentGuessesOnSameRoomAllRecorded() {
	room := s.createRoom("1234", 10)
	for i := 2; i <= 5; i++ {
		_, err := s.controller.JoinRoom(s.ctx, room.ID,
			model.PlayerID(fmt.Sprintf("player-%d", i)), fmt.Sprintf("P%d", i), "")
		s.Require().NoError(err)
	}

	var wg sync.WaitGroup
	for i := 2; i <= 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _, err := s.controller.SubmitGuess(s.ctx, room.ID,
					model.PlayerID(fmt.Sprintf("player-%d", n)), "0000")
				s.NoError(err)
			}
		}(i)
	}
	wg.Wait()

	updated, err := s.controller.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	for i := 2; i <= 5; i++ {
		s.Len(updated.GetPlayer(model.PlayerID(fmt.Sprintf("player-%d", i))).Guesses, 20)
	}
}

func (s *ControllerSuite) TestGetRoomSafeDuringConcurrentGuesses() {
	room := s.createRoom("1234", 10)
	_, err := s.controller.JoinRoom(s.ctx, room.ID, "player-2", "P2", "")
	s.Require().NoError(err)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, _, err := s.controller.SubmitGuess(s.ctx, room.ID, "player-2", "0000")
			s.NoError(err)
		}
	}()

	// Unlocked readers traverse guess history while the writer appends.
	// Snapshots must be fully detached from the writer's room.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			got, err := s.controller.GetRoom(s.ctx, room.ID)
			s.NoError(err)
			for j := range got.Players {
				for _, g := range got.Players[j].Guesses {
					s.Equal("0000", g.Number)
				}
			}
		}
	}()

	wg.Wait()
}
