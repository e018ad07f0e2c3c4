package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/spellduel-go/internal/model"
)

// ExpiryFunc is invoked when a room's round deadline passes
type ExpiryFunc func(code model.RoomCode)

// RoundTimer schedules the force-end deadline for active rounds.
// At most one timer is armed per room; arming again cancels the
// existing one first.
type RoundTimer interface {
	Schedule(code model.RoomCode, d time.Duration, onExpire ExpiryFunc)
	Cancel(code model.RoomCode)
}

// Service implements RoundTimer on wall-clock timers
type Service struct {
	mu      sync.Mutex
	entries map[model.RoomCode]*entry
	nextGen uint64
	logger  *slog.Logger
}

type entry struct {
	timer *time.Timer
	gen   uint64
}

// New creates a new round timer service
func New(logger *slog.Logger) *Service {
	return &Service{
		entries: make(map[model.RoomCode]*entry),
		logger:  logger.With(slog.String("component", "round-timer")),
	}
}

// Ensure Service implements RoundTimer
var _ RoundTimer = (*Service)(nil)

// Schedule arms a one-shot deadline timer for the room, replacing any
// timer already armed for it.
func (s *Service) Schedule(code model.RoomCode, d time.Duration, onExpire ExpiryFunc) {
	s.mu.Lock()
	if existing, ok := s.entries[code]; ok {
		existing.timer.Stop()
	}
	s.nextGen++
	gen := s.nextGen
	e := &entry{gen: gen}
	e.timer = time.AfterFunc(d, func() {
		s.fire(code, gen, onExpire)
	})
	s.entries[code] = e
	s.mu.Unlock()

	s.logger.Debug("round timer armed",
		slog.String("room", string(code)),
		slog.Duration("duration", d),
	)
}

// Cancel disarms any timer for the room. No-op when none is armed.
func (s *Service) Cancel(code model.RoomCode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[code]; ok {
		e.timer.Stop()
		delete(s.entries, code)
	}
}

// fire runs the expiry callback if this timer generation is still the
// room's current one. A timer that lost the race to Cancel or to a
// re-arm (e.g. a restart reusing the room) does nothing, so a stale
// timer can never force-end a later round.
func (s *Service) fire(code model.RoomCode, gen uint64, onExpire ExpiryFunc) {
	s.mu.Lock()
	e, ok := s.entries[code]
	if !ok || e.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.entries, code)
	s.mu.Unlock()

	s.logger.Debug("round timer fired", slog.String("room", string(code)))
	onExpire(code)
}

// Armed reports whether a timer is currently armed for the room
func (s *Service) Armed(code model.RoomCode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[code]
	return ok
}
