package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mcoot/spellduel-go/internal/dependencies/random"
	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/storage"
)

// Service supplies puzzles for rooms. The puzzle set is loaded once at
// startup; an empty or invalid set is a configuration failure, so
// GetRandomPuzzle never hands out an unplayable puzzle.
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// New creates a new puzzle service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger.With(slog.String("component", "puzzle")),
	}
}

// LoadFromFile loads a JSON puzzle set from disk into storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read puzzle file: %w", err)
	}

	var puzzles []model.Puzzle
	if err := json.Unmarshal(data, &puzzles); err != nil {
		return fmt.Errorf("failed to parse puzzle file: %w", err)
	}

	return s.LoadPuzzles(ctx, puzzles)
}

// LoadPuzzles validates and stores a puzzle set
func (s *Service) LoadPuzzles(ctx context.Context, puzzles []model.Puzzle) error {
	if len(puzzles) == 0 {
		return model.ErrNoPuzzlesLoaded
	}

	for i := range puzzles {
		if !puzzles[i].IsValid() {
			return fmt.Errorf("%w: puzzle %d", model.ErrInvalidPuzzle, i)
		}
	}

	if err := s.storage.SavePuzzles(ctx, puzzles); err != nil {
		return err
	}

	s.logger.Info("puzzle set loaded", slog.Int("count", len(puzzles)))
	return nil
}

// GetRandomPuzzle returns a random puzzle from the loaded set
func (s *Service) GetRandomPuzzle(ctx context.Context) (*model.Puzzle, error) {
	puzzles, err := s.storage.GetPuzzles(ctx)
	if err != nil {
		return nil, err
	}
	if len(puzzles) == 0 {
		return nil, model.ErrNoPuzzlesLoaded
	}

	p := puzzles[s.random.Intn(len(puzzles))]
	return &p, nil
}

// Count returns the number of loaded puzzles
func (s *Service) Count(ctx context.Context) (int, error) {
	puzzles, err := s.storage.GetPuzzles(ctx)
	if err != nil {
		return 0, err
	}
	return len(puzzles), nil
}

// Provider is the interface consumed by room/round services
type Provider interface {
	GetRandomPuzzle(ctx context.Context) (*model.Puzzle, error)
}

var _ Provider = (*Service)(nil)
