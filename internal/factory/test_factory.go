package factory

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/spellduel-go/internal/dependencies/mocks"
	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/auth"
	"github.com/mcoot/spellduel-go/internal/services/reconnect"
	"github.com/mcoot/spellduel-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockTimer  *mocks.MockRoundTimer
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockTimer := mocks.NewMockRoundTimer()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, mockTimer, auth.DefaultConfig(), reconnect.DefaultGrace, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockTimer:  mockTimer,
	}
}

// LoadTestPuzzles loads a small puzzle set for testing
func (t *TestApp) LoadTestPuzzles() error {
	puzzles := []model.Puzzle{
		{
			CenterLetter: "e",
			OuterLetters: []string{"a", "c", "n", "o", "s", "b"},
			ValidWords:   []string{"ocean", "bean", "scene", "canoe", "bone", "ace", "beacons"},
			Pangrams:     []string{"beacons"},
		},
		{
			CenterLetter: "r",
			OuterLetters: []string{"t", "a", "i", "n", "g", "o"},
			ValidWords:   []string{"rating", "train", "groan", "organ", "riot", "rotating"},
			Pangrams:     []string{"rotating"},
		},
		{
			CenterLetter: "l",
			OuterLetters: []string{"u", "p", "a", "y", "f", "e"},
			ValidWords:   []string{"play", "leap", "pale", "layup", "flue", "playful"},
			Pangrams:     []string{"playful"},
		},
	}
	return t.PuzzleService.LoadPuzzles(context.Background(), puzzles)
}
