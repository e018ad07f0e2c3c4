package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/spellduel-go/internal/dependencies/mocks"
	"github.com/mcoot/spellduel-go/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

// Guest session tests

func (s *ServiceSuite) TestCreateGuestSession() {
	session, err := s.service.CreateGuestSession(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.NotEmpty(session.Identity)
	s.Empty(session.PlayerID)
	s.Equal("Alice", session.DisplayName)
	s.True(session.IsGuest)
	s.Equal(s.clock.Now(), session.CreatedAt)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestGuestSessionsHaveDistinctIdentities() {
	session1, _ := s.service.CreateGuestSession(s.ctx, "Alice")
	session2, _ := s.service.CreateGuestSession(s.ctx, "Alice")

	s.NotEqual(session1.Token, session2.Token)
	s.NotEqual(session1.Identity, session2.Identity)
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	session, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.NotEmpty(session.Identity)
	s.NotEmpty(session.PlayerID)
	s.Equal("Alice", session.DisplayName)
	s.False(session.IsGuest)
}

func (s *ServiceSuite) TestRegisterPersistsAccount() {
	session, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	rp, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, rp.PlayerID)
	s.NotEqual("secret123", rp.PasswordHash)
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameTaken() {
	_, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "other456", "Other Alice")
	s.ErrorIs(err, ErrUsernameExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	session, err := s.service.Login(s.ctx, "alice", "secret123")
	s.Require().NoError(err)

	s.Equal(registered.PlayerID, session.PlayerID)
	s.Equal("alice", session.DisplayName)
	s.False(session.IsGuest)
}

func (s *ServiceSuite) TestLoginMintsFreshIdentity() {
	registered, _ := s.service.Register(s.ctx, "alice", "secret123", "Alice")

	session, err := s.service.Login(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	s.NotEqual(registered.Identity, session.Identity)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "secret123", "Alice")

	_, err := s.service.Login(s.ctx, "alice", "wrongpass")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsForUnknownUsername() {
	_, err := s.service.Login(s.ctx, "nonexistent", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.CreateGuestSession(s.ctx, "Alice")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Identity, validated.Identity)
}

func (s *ServiceSuite) TestValidateSessionFailsForUnknownToken() {
	_, err := s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsAfterExpiry() {
	session, _ := s.service.CreateGuestSession(s.ctx, "Alice")

	s.clock.Advance(24*time.Hour + time.Minute)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionSucceedsJustBeforeExpiry() {
	session, _ := s.service.CreateGuestSession(s.ctx, "Alice")

	s.clock.Advance(24*time.Hour - time.Minute)

	_, err := s.service.ValidateSession(session.Token)
	s.NoError(err)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSession() {
	session, _ := s.service.CreateGuestSession(s.ctx, "Alice")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateUnknownTokenIsNoop() {
	s.service.InvalidateSession("sess_bogus")
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessions() {
	old, _ := s.service.CreateGuestSession(s.ctx, "Old")

	s.clock.Advance(25 * time.Hour)
	fresh, _ := s.service.CreateGuestSession(s.ctx, "Fresh")

	s.service.CleanExpiredSessions()

	_, err := s.service.ValidateSession(old.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}

// Config tests

func (s *ServiceSuite) TestCustomSessionDuration() {
	service := New(s.storage, s.clock, Config{SessionDuration: time.Hour})

	session, _ := service.CreateGuestSession(s.ctx, "Alice")
	s.Equal(s.clock.Now().Add(time.Hour), session.ExpiresAt)

	s.clock.Advance(2 * time.Hour)
	_, err := service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestZeroDurationFallsBackToDefault() {
	service := New(s.storage, s.clock, Config{})

	session, _ := service.CreateGuestSession(s.ctx, "Alice")
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}
