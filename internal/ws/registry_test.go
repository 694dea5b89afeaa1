package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/guessroom/guessroom/internal/model"
	"github.com/guessroom/guessroom/internal/testutil"
)

type RegistryTestSuite struct {
	suite.Suite

	registry *Registry
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	s.registry = NewRegistry(testutil.NopLogger())
}

func (s *RegistryTestSuite) newSession() *Session {
	return &Session{
		logger: testutil.NopLogger(),
		send:   make(chan []byte, sendBufferSize),
	}
}

// drain returns every message currently queued on the session
func (s *RegistryTestSuite) drain(sess *Session) [][]byte {
	var out [][]byte
	for {
		select {
		case data := <-sess.send:
			out = append(out, data)
		default:
			return out
		}
	}
}

func (s *RegistryTestSuite) TestBroadcast_ReachesEverySessionInRoom() {
	roomID := model.RoomID("room_1_abc")
	a := s.newSession()
	b := s.newSession()
	c := s.newSession()
	s.registry.Register(roomID, a)
	s.registry.Register(roomID, b)
	s.registry.Register(roomID, c)

	s.registry.Broadcast(roomID, ErrorMessage{Type: TypeError, Message: "hello"})

	for _, sess := range []*Session{a, b, c} {
		msgs := s.drain(sess)
		s.Require().Len(msgs, 1)

		var msg ErrorMessage
		s.Require().NoError(json.Unmarshal(msgs[0], &msg))
		s.Equal("hello", msg.Message)
	}
}

func (s *RegistryTestSuite) TestBroadcastExcept_SkipsSender() {
	roomID := model.RoomID("room_1_abc")
	sender := s.newSession()
	other := s.newSession()
	s.registry.Register(roomID, sender)
	s.registry.Register(roomID, other)

	s.registry.BroadcastExcept(roomID, ErrorMessage{Type: TypeError, Message: "hi"}, sender)

	s.Empty(s.drain(sender))
	s.Len(s.drain(other), 1)
}

func (s *RegistryTestSuite) TestBroadcast_DoesNotCrossRooms() {
	roomA := model.RoomID("room_1_aaa")
	roomB := model.RoomID("room_2_bbb")
	inA := s.newSession()
	inB := s.newSession()
	s.registry.Register(roomA, inA)
	s.registry.Register(roomB, inB)

	s.registry.Broadcast(roomA, ErrorMessage{Type: TypeError, Message: "a only"})

	s.Len(s.drain(inA), 1)
	s.Empty(s.drain(inB))
}

func (s *RegistryTestSuite) TestBroadcast_UnknownRoomIsNoOp() {
	s.registry.Broadcast(model.RoomID("room_9_zzz"), ErrorMessage{Type: TypeError, Message: "void"})
}

func (s *RegistryTestSuite) TestUnregister_StopsDelivery() {
	roomID := model.RoomID("room_1_abc")
	sess := s.newSession()
	s.registry.Register(roomID, sess)
	s.registry.Unregister(roomID, sess)

	s.registry.Broadcast(roomID, ErrorMessage{Type: TypeError, Message: "gone"})

	s.Empty(s.drain(sess))
	s.Equal(0, s.registry.SessionCount(roomID))
}

func (s *RegistryTestSuite) TestUnregister_UnknownSessionIsNoOp() {
	roomID := model.RoomID("room_1_abc")
	s.registry.Unregister(roomID, s.newSession())
	s.Equal(0, s.registry.SessionCount(roomID))
}

func (s *RegistryTestSuite) TestDropRoom_RemovesAllSessions() {
	roomID := model.RoomID("room_1_abc")
	a := s.newSession()
	b := s.newSession()
	s.registry.Register(roomID, a)
	s.registry.Register(roomID, b)

	s.registry.DropRoom(roomID)

	s.Equal(0, s.registry.SessionCount(roomID))
	s.registry.Broadcast(roomID, ErrorMessage{Type: TypeError, Message: "gone"})
	s.Empty(s.drain(a))
	s.Empty(s.drain(b))
}

func (s *RegistryTestSuite) TestEnqueue_DropsWhenBufferFull() {
	sess := s.newSession()
	for i := 0; i < sendBufferSize+5; i++ {
		sess.enqueue([]byte(`{}`))
	}
	s.Len(s.drain(sess), sendBufferSize)
}

func (s *RegistryTestSuite) TestEnqueue_AfterCloseIsNoOp() {
	sess := s.newSession()
	sess.closeSend()
	sess.enqueue([]byte(`{}`))
	sess.closeSend()
}
