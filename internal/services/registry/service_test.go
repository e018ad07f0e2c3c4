package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/spellduel-go/internal/dependencies/mocks"
	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/puzzle"
	"github.com/mcoot/spellduel-go/internal/storage/memory"
	"github.com/mcoot/spellduel-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	puzzleService := puzzle.New(s.storage, s.random, logger)
	s.service = New(s.storage, puzzleService, s.clock, s.random, logger)
	s.ctx = context.Background()

	// Load a single puzzle; Intn with an empty queue returns 0
	err := puzzleService.LoadPuzzles(s.ctx, []model.Puzzle{
		{
			CenterLetter: "e",
			OuterLetters: []string{"a", "c", "n", "o", "s", "b"},
			ValidWords:   []string{"ocean", "bean", "canoe", "beacons"},
			Pangrams:     []string{"beacons"},
		},
	})
	s.Require().NoError(err)
}

// CreateRoom tests

func (s *ServiceSuite) TestCreateRoomSucceeds() {
	s.random.QueueString("1234")

	room, err := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	s.Require().NoError(err)

	s.Equal(model.RoomCode("1234"), room.Code)
	s.Equal(model.MatchStatusWaiting, room.MatchStatus)
	s.Equal(model.RoundStatusWaiting, room.RoundStatus)
	s.Equal(0, room.CurrentRound)
	s.Len(room.Participants, 1)
	s.Require().NotNil(room.Puzzle)
	s.Equal("e", room.Puzzle.CenterLetter)

	p := room.GetParticipant("id-a")
	s.Require().NotNil(p)
	s.Equal("Alice", p.DisplayName)
	s.True(p.Connected)
	s.False(p.Ready)
}

func (s *ServiceSuite) TestCreateRoomHasDefaultConfig() {
	s.random.QueueString("1234")

	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")

	s.Equal(3, room.Config.TotalRounds)
	s.Equal(90*time.Second, room.Config.RoundDuration)
	s.Equal(2, room.Config.MaxPlayers)
}

func (s *ServiceSuite) TestCreateRoomIsPersisted() {
	s.random.QueueString("1234")

	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")

	retrieved, err := s.service.GetRoom(s.ctx, room.Code)
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)
}

func (s *ServiceSuite) TestCreateRoomIndexesCreatorIdentity() {
	s.random.QueueString("1234")

	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")

	retrieved, err := s.service.GetRoomForIdentity(s.ctx, "id-a")
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)
}

func (s *ServiceSuite) TestCreateRoomRetriesOnCodeCollision() {
	s.random.QueueString("1234")
	_, err := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	s.Require().NoError(err)

	// First candidate collides with the existing room
	s.random.QueueString("1234", "5678")
	room, err := s.service.CreateRoom(s.ctx, "id-b", "", "Bob")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("5678"), room.Code)
}

func (s *ServiceSuite) TestCreateRoomFailsWhenCodesExhausted() {
	s.random.QueueString("1234")
	_, err := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	s.Require().NoError(err)

	// Every retry collides; the queue is empty afterwards so String
	// returns "", which the mock never marks as free
	for i := 0; i < maxCodeAttempts; i++ {
		s.random.QueueString("1234")
	}
	_, err = s.service.CreateRoom(s.ctx, "id-b", "", "Bob")
	s.ErrorIs(err, model.ErrRoomCodesExhausted)
}

func (s *ServiceSuite) TestCreateRoomFailsIfAlreadyInRoom() {
	s.random.QueueString("1234")
	_, err := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	s.Require().NoError(err)

	_, err = s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

// JoinRoom tests

func (s *ServiceSuite) TestJoinRoomSucceeds() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")

	joined, rejoined, err := s.service.JoinRoom(s.ctx, room.Code, "id-b", "", "Bob")
	s.Require().NoError(err)
	s.False(rejoined)
	s.Len(joined.Participants, 2)

	p := joined.GetParticipant("id-b")
	s.Require().NotNil(p)
	s.Equal("Bob", p.DisplayName)
	s.True(p.Connected)
}

func (s *ServiceSuite) TestJoinRoomIndexesIdentity() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")

	_, _, err := s.service.JoinRoom(s.ctx, room.Code, "id-b", "", "Bob")
	s.Require().NoError(err)

	retrieved, err := s.service.GetRoomForIdentity(s.ctx, "id-b")
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)
}

func (s *ServiceSuite) TestJoinRoomFailsIfNotFound() {
	_, _, err := s.service.JoinRoom(s.ctx, "9999", "id-b", "", "Bob")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ServiceSuite) TestJoinRoomFailsIfFull() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	_, _, err := s.service.JoinRoom(s.ctx, room.Code, "id-b", "", "Bob")
	s.Require().NoError(err)

	_, _, err = s.service.JoinRoom(s.ctx, room.Code, "id-c", "", "Carol")
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *ServiceSuite) TestJoinRoomFailsIfInAnotherRoom() {
	s.random.QueueString("1234", "5678")
	_, _ = s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	other, err := s.service.CreateRoom(s.ctx, "id-b", "", "Bob")
	s.Require().NoError(err)

	_, _, err = s.service.JoinRoom(s.ctx, other.Code, "id-a", "", "Alice")
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

func (s *ServiceSuite) TestJoinOwnRoomDegradesToRejoin() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	_, _, _ = s.service.JoinRoom(s.ctx, room.Code, "id-b", "", "Bob")

	// Bob drops and joins again with the same identity
	_, _, err := s.service.LeaveRoom(s.ctx, "id-b")
	s.Require().NoError(err)

	joined, rejoined, err := s.service.JoinRoom(s.ctx, room.Code, "id-b", "", "")
	s.Require().NoError(err)
	s.True(rejoined)
	s.Len(joined.Participants, 2)
	s.True(joined.GetParticipant("id-b").Connected)
	s.Equal("Bob", joined.GetParticipant("id-b").DisplayName)
}

func (s *ServiceSuite) TestRejoinCanRename() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")

	joined, rejoined, err := s.service.JoinRoom(s.ctx, room.Code, "id-a", "", "Alicia")
	s.Require().NoError(err)
	s.True(rejoined)
	s.Equal("Alicia", joined.GetParticipant("id-a").DisplayName)
}

// LeaveRoom tests

func (s *ServiceSuite) TestLeaveRoomMarksDisconnected() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	_, _, _ = s.service.JoinRoom(s.ctx, room.Code, "id-b", "", "Bob")

	left, remaining, err := s.service.LeaveRoom(s.ctx, "id-b")
	s.Require().NoError(err)
	s.Equal(1, remaining)

	// The participant slot survives the disconnect
	s.Len(left.Participants, 2)
	s.False(left.GetParticipant("id-b").Connected)
	s.False(left.GetParticipant("id-b").Ready)
}

func (s *ServiceSuite) TestLeaveRoomReportsZeroWhenLastLeaves() {
	s.random.QueueString("1234")
	_, _ = s.service.CreateRoom(s.ctx, "id-a", "", "Alice")

	_, remaining, err := s.service.LeaveRoom(s.ctx, "id-a")
	s.Require().NoError(err)
	s.Equal(0, remaining)
}

func (s *ServiceSuite) TestLeaveRoomFailsIfNotInRoom() {
	_, _, err := s.service.LeaveRoom(s.ctx, "id-x")
	s.ErrorIs(err, model.ErrNotInRoom)
}

// RemoveRoomIfAbandoned tests

func (s *ServiceSuite) TestRemoveRoomIfAbandonedRemoves() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	_, _, _ = s.service.LeaveRoom(s.ctx, "id-a")

	removed, err := s.service.RemoveRoomIfAbandoned(s.ctx, room.Code)
	s.Require().NoError(err)
	s.True(removed)

	_, err = s.service.GetRoom(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)

	// The identity index is released with the room
	_, err = s.service.GetRoomForIdentity(s.ctx, "id-a")
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *ServiceSuite) TestRemoveRoomIfAbandonedSkipsConnected() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	_, _, _ = s.service.JoinRoom(s.ctx, room.Code, "id-b", "", "Bob")
	_, _, _ = s.service.LeaveRoom(s.ctx, "id-a")

	removed, err := s.service.RemoveRoomIfAbandoned(s.ctx, room.Code)
	s.Require().NoError(err)
	s.False(removed)

	_, err = s.service.GetRoom(s.ctx, room.Code)
	s.NoError(err)
}

func (s *ServiceSuite) TestRemoveRoomIfAbandonedMissingRoomIsNoop() {
	removed, err := s.service.RemoveRoomIfAbandoned(s.ctx, "9999")
	s.Require().NoError(err)
	s.False(removed)
}

// WithRoom tests

func (s *ServiceSuite) TestWithRoomPersistsMutation() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")

	err := s.service.WithRoom(s.ctx, room.Code, func(r *model.Room) error {
		r.GetParticipant("id-a").Ready = true
		return nil
	})
	s.Require().NoError(err)

	updated, _ := s.service.GetRoom(s.ctx, room.Code)
	s.True(updated.GetParticipant("id-a").Ready)
	s.Equal(s.clock.Now(), updated.UpdatedAt)
}

func (s *ServiceSuite) TestWithRoomPropagatesCallbackError() {
	s.random.QueueString("1234")
	room, _ := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")

	err := s.service.WithRoom(s.ctx, room.Code, func(r *model.Room) error {
		return model.ErrParticipantNotFound
	})
	s.ErrorIs(err, model.ErrParticipantNotFound)
}

func (s *ServiceSuite) TestWithRoomFailsIfNotFound() {
	err := s.service.WithRoom(s.ctx, "9999", func(r *model.Room) error {
		return nil
	})
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ServiceSuite) TestGetRoomSafeDuringConcurrentMutation() {
	s.random.QueueString("1234")
	_, err := s.service.CreateRoom(s.ctx, "id-a", "", "Alice")
	s.Require().NoError(err)

	// Reads outside the room lock must never share live state with a
	// WithRoom mutation writing the participant map
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			err := s.service.WithRoom(s.ctx, "1234", func(r *model.Room) error {
				r.Participants["id-b"] = &model.Participant{Identity: "id-b", Connected: true}
				delete(r.Participants, "id-b")
				return nil
			})
			s.NoError(err)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			room, err := s.service.GetRoom(s.ctx, "1234")
			s.NoError(err)
			s.GreaterOrEqual(room.ConnectedCount(), 1)
		}
	}()

	wg.Wait()
}
