package stats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/spellduel-go/internal/dependencies/clock"
	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/storage"
)

// MatchResult is one registered player's outcome in a finished match
type MatchResult struct {
	PlayerID model.PlayerID
	Won      bool
	Tied     bool
	Points   int
}

// Service records durable win/loss statistics for registered players.
// Recording is best-effort: failures are logged and never propagate,
// since match state has already advanced by the time stats are written.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new stats service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// RecordMatch updates each player's stats with their match result.
// Guests (empty PlayerID) are skipped. Errors are logged per player
// and do not stop the remaining updates.
func (s *Service) RecordMatch(ctx context.Context, results []MatchResult) {
	for _, r := range results {
		if r.PlayerID == "" {
			continue
		}
		if err := s.recordOne(ctx, r); err != nil {
			s.logger.Error("failed to record match result",
				slog.String("player_id", string(r.PlayerID)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Service) recordOne(ctx context.Context, r MatchResult) error {
	stats, err := s.storage.GetPlayerStats(ctx, r.PlayerID)
	if err != nil {
		if !errors.Is(err, model.ErrStatsNotFound) {
			return err
		}
		stats = &model.PlayerStats{PlayerID: r.PlayerID}
	}

	stats.MatchesPlayed++
	stats.TotalPoints += r.Points
	switch {
	case r.Tied:
		stats.Ties++
	case r.Won:
		stats.Wins++
	default:
		stats.Losses++
	}
	stats.UpdatedAt = s.clock.Now()

	return s.storage.SavePlayerStats(ctx, stats)
}

// GetStats returns a player's stats, zero-valued if nothing has been
// recorded yet
func (s *Service) GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	stats, err := s.storage.GetPlayerStats(ctx, playerID)
	if err != nil {
		if errors.Is(err, model.ErrStatsNotFound) {
			return &model.PlayerStats{PlayerID: playerID}, nil
		}
		return nil, err
	}
	return stats, nil
}
