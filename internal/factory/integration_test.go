package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/auth"
)

// IntegrationSuite drives a complete duel through the wired services,
// exercising the same paths the HTTP handlers use.
type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.Require().NoError(s.app.LoadTestPuzzles())
	s.ctx = context.Background()
}

func (s *IntegrationSuite) guest(name string) *auth.Session {
	session, err := s.app.AuthService.CreateGuestSession(s.ctx, name)
	s.Require().NoError(err)
	return session
}

func (s *IntegrationSuite) createDuel(alice, bob *auth.Session) model.RoomCode {
	s.app.MockRandom.QueueString("1234")

	room, err := s.app.Registry.CreateRoom(s.ctx, alice.Identity, alice.PlayerID, alice.DisplayName)
	s.Require().NoError(err)

	_, rejoined, err := s.app.Registry.JoinRoom(s.ctx, room.Code, bob.Identity, bob.PlayerID, bob.DisplayName)
	s.Require().NoError(err)
	s.False(rejoined)

	return room.Code
}

// readyBoth marks both participants ready and starts the round when the
// second ready makes the room startable, mirroring the HTTP handler.
func (s *IntegrationSuite) readyBoth(code model.RoomCode, alice, bob *auth.Session) {
	_, err := s.app.MatchController.SetParticipantReady(s.ctx, code, alice.Identity, true)
	s.Require().NoError(err)

	result, err := s.app.MatchController.SetParticipantReady(s.ctx, code, bob.Identity, true)
	s.Require().NoError(err)
	s.Require().True(result.AllReady)

	if result.StartFirstRound || result.StartNextRound {
		_, err = s.app.MatchController.StartRound(s.ctx, code)
		s.Require().NoError(err)
	}
}

func (s *IntegrationSuite) submit(code model.RoomCode, identity model.IdentityID, score int) {
	_, err := s.app.MatchController.RecordSubmission(s.ctx, code, identity,
		[]model.WordSubmission{{Word: "ocean", Points: score}}, score)
	s.Require().NoError(err)
}

func (s *IntegrationSuite) getRoom(code model.RoomCode) *model.Room {
	room, err := s.app.Registry.GetRoom(s.ctx, code)
	s.Require().NoError(err)
	return room
}

func (s *IntegrationSuite) TestFullDuelLifecycle() {
	alice := s.guest("Alice")
	bob := s.guest("Bob")
	code := s.createDuel(alice, bob)

	room := s.getRoom(code)
	s.Equal(model.MatchStatusWaiting, room.MatchStatus)
	s.Len(room.Participants, 2)

	for round := 1; round <= 3; round++ {
		s.readyBoth(code, alice, bob)

		room = s.getRoom(code)
		s.Equal(model.MatchStatusPlaying, room.MatchStatus)
		s.Equal(model.RoundStatusActive, room.RoundStatus)
		s.Equal(round, room.CurrentRound)
		s.Require().NotNil(room.RoundDeadline)
		s.Equal(s.app.MockClock.Now().Add(90*time.Second), *room.RoundDeadline)
		s.True(s.app.MockTimer.Armed(code))

		s.submit(code, alice.Identity, 10)
		s.submit(code, bob.Identity, 4)

		room = s.getRoom(code)
		s.Equal(model.RoundStatusEnded, room.RoundStatus)
		s.Len(room.RoundHistory, round)
	}

	room = s.getRoom(code)
	s.Equal(model.MatchStatusFinished, room.MatchStatus)
	s.Require().NotNil(room.FinalOutcome)
	s.Equal(alice.Identity, room.FinalOutcome.Winner)
	s.False(room.FinalOutcome.IsTie)
	s.Equal(30, room.Participants[alice.Identity].TotalScore)
	s.Equal(12, room.Participants[bob.Identity].TotalScore)
}

func (s *IntegrationSuite) TestTimerExpiryEndsRound() {
	alice := s.guest("Alice")
	bob := s.guest("Bob")
	code := s.createDuel(alice, bob)

	s.readyBoth(code, alice, bob)
	s.submit(code, alice.Identity, 7)

	// Bob never submits; the deadline fires instead
	s.True(s.app.MockTimer.Fire(code))

	room := s.getRoom(code)
	s.Equal(model.RoundStatusEnded, room.RoundStatus)
	s.Require().Len(room.RoundHistory, 1)
	s.Equal(7, room.Participants[alice.Identity].TotalScore)
	s.Equal(0, room.Participants[bob.Identity].TotalScore)
}

func (s *IntegrationSuite) TestRegisteredPlayersAccrueStats() {
	alice, err := s.app.AuthService.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)
	bob, err := s.app.AuthService.Register(s.ctx, "bob", "secret123", "Bob")
	s.Require().NoError(err)

	code := s.createDuel(alice, bob)

	for round := 1; round <= 3; round++ {
		s.readyBoth(code, alice, bob)
		s.submit(code, alice.Identity, 10)
		s.submit(code, bob.Identity, 4)
	}

	aliceStats, err := s.app.StatsService.GetStats(s.ctx, alice.PlayerID)
	s.Require().NoError(err)
	s.Equal(1, aliceStats.MatchesPlayed)
	s.Equal(1, aliceStats.Wins)
	s.Equal(30, aliceStats.TotalPoints)

	bobStats, err := s.app.StatsService.GetStats(s.ctx, bob.PlayerID)
	s.Require().NoError(err)
	s.Equal(1, bobStats.Losses)
	s.Equal(12, bobStats.TotalPoints)
}

func (s *IntegrationSuite) TestGuestsDoNotAccrueStats() {
	alice := s.guest("Alice")
	bob := s.guest("Bob")
	code := s.createDuel(alice, bob)

	for round := 1; round <= 3; round++ {
		s.readyBoth(code, alice, bob)
		s.submit(code, alice.Identity, 10)
		s.submit(code, bob.Identity, 4)
	}

	stats, err := s.app.StatsService.GetStats(s.ctx, "")
	s.Require().NoError(err)
	s.Equal(0, stats.MatchesPlayed)
}

func (s *IntegrationSuite) TestRematchAfterFinish() {
	alice := s.guest("Alice")
	bob := s.guest("Bob")
	code := s.createDuel(alice, bob)

	for round := 1; round <= 3; round++ {
		s.readyBoth(code, alice, bob)
		s.submit(code, alice.Identity, 10)
		s.submit(code, bob.Identity, 4)
	}

	// Both ready up again to consent to the rematch
	_, err := s.app.MatchController.SetParticipantReady(s.ctx, code, alice.Identity, true)
	s.Require().NoError(err)
	result, err := s.app.MatchController.SetParticipantReady(s.ctx, code, bob.Identity, true)
	s.Require().NoError(err)
	s.True(result.CanRestart)

	room, err := s.app.MatchController.RestartMatch(s.ctx, code)
	s.Require().NoError(err)
	s.Equal(model.MatchStatusWaiting, room.MatchStatus)
	s.Equal(0, room.CurrentRound)
	s.Empty(room.RoundHistory)
	s.Nil(room.FinalOutcome)
	s.Equal(0, room.Participants[alice.Identity].TotalScore)

	// The reset room is fully playable again
	s.readyBoth(code, alice, bob)
	room = s.getRoom(code)
	s.Equal(model.MatchStatusPlaying, room.MatchStatus)
	s.Equal(1, room.CurrentRound)
}

func (s *IntegrationSuite) TestAbandonedRoomTeardown() {
	alice := s.guest("Alice")
	bob := s.guest("Bob")
	code := s.createDuel(alice, bob)

	_, remaining, err := s.app.Registry.LeaveRoom(s.ctx, alice.Identity)
	s.Require().NoError(err)
	s.Equal(1, remaining)

	_, remaining, err = s.app.Registry.LeaveRoom(s.ctx, bob.Identity)
	s.Require().NoError(err)
	s.Equal(0, remaining)

	s.app.ReconnectManager.ScheduleTeardown(code)
	s.True(s.app.ReconnectManager.HasPendingTeardown(code))

	s.Require().NoError(s.app.ReconnectManager.Teardown(s.ctx, code))

	_, err = s.app.Registry.GetRoom(s.ctx, code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *IntegrationSuite) TestReconnectCancelsTeardown() {
	alice := s.guest("Alice")
	bob := s.guest("Bob")
	code := s.createDuel(alice, bob)

	_, _, err := s.app.Registry.LeaveRoom(s.ctx, alice.Identity)
	s.Require().NoError(err)
	_, _, err = s.app.Registry.LeaveRoom(s.ctx, bob.Identity)
	s.Require().NoError(err)

	s.app.ReconnectManager.ScheduleTeardown(code)

	_, err = s.app.ReconnectManager.Reconnect(s.ctx, code, alice.Identity, "")
	s.Require().NoError(err)
	s.False(s.app.ReconnectManager.HasPendingTeardown(code))

	// Teardown after a reconnect must not remove the room
	s.Require().NoError(s.app.ReconnectManager.Teardown(s.ctx, code))
	room := s.getRoom(code)
	s.True(room.Participants[alice.Identity].Connected)
}
