package reconnect

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/registry"
	"github.com/mcoot/spellduel-go/internal/services/timer"
)

// DefaultGrace is how long an abandoned room survives before teardown,
// tolerating brief network drops and app backgrounding
const DefaultGrace = 5 * time.Minute

// Manager tracks disconnects without destroying match state. A room
// whose last participant disconnects is torn down only after a grace
// window, and any reconnection in the interim cancels the teardown.
type Manager struct {
	registry    *registry.Service
	roundTimer  timer.RoundTimer
	broadcaster model.Broadcaster
	grace       time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	pending map[model.RoomCode]*time.Timer
}

// NewManager creates a new reconnection manager. A non-positive grace
// falls back to DefaultGrace.
func NewManager(
	registry *registry.Service,
	roundTimer timer.RoundTimer,
	broadcaster model.Broadcaster,
	grace time.Duration,
	logger *slog.Logger,
) *Manager {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Manager{
		registry:    registry,
		roundTimer:  roundTimer,
		broadcaster: broadcaster,
		grace:       grace,
		logger:      logger.With(slog.String("component", "reconnect")),
		pending:     make(map[model.RoomCode]*time.Timer),
	}
}

// Reconnect marks a previously-seen participant connected again and
// cancels any pending teardown for the room. A torn-down room is a
// NotFound: the client must create or join afresh.
func (m *Manager) Reconnect(ctx context.Context, code model.RoomCode, identity model.IdentityID, displayName string) (*model.Room, error) {
	var room *model.Room

	err := m.registry.WithRoom(ctx, code, func(r *model.Room) error {
		p := r.GetParticipant(identity)
		if p == nil {
			return model.ErrParticipantNotFound
		}
		p.Connected = true
		if displayName != "" {
			p.DisplayName = displayName
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.CancelTeardown(code)

	m.logger.Info("participant reconnected",
		slog.String("room", string(code)),
		slog.String("identity", string(identity)),
	)

	return room, nil
}

// ScheduleTeardown arms the grace timer for an abandoned room,
// replacing any already pending
func (m *Manager) ScheduleTeardown(code model.RoomCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.pending[code]; ok {
		t.Stop()
	}
	m.pending[code] = time.AfterFunc(m.grace, func() {
		if err := m.Teardown(context.Background(), code); err != nil {
			m.logger.Error("room teardown failed",
				slog.String("room", string(code)),
				slog.String("error", err.Error()),
			)
		}
	})

	m.logger.Info("room teardown scheduled",
		slog.String("room", string(code)),
		slog.Duration("grace", m.grace),
	)
}

// CancelTeardown disarms any pending teardown. No-op when none is
// pending.
func (m *Manager) CancelTeardown(code model.RoomCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.pending[code]; ok {
		t.Stop()
		delete(m.pending, code)
	}
}

// Teardown removes the room if it is still abandoned. The registry
// re-checks connectivity under the room lock, so a reconnection that
// landed before this call always aborts the teardown.
func (m *Manager) Teardown(ctx context.Context, code model.RoomCode) error {
	m.mu.Lock()
	delete(m.pending, code)
	m.mu.Unlock()

	removed, err := m.registry.RemoveRoomIfAbandoned(ctx, code)
	if err != nil {
		return err
	}
	if !removed {
		m.logger.Info("room teardown aborted, participant reconnected",
			slog.String("room", string(code)),
		)
		return nil
	}

	m.roundTimer.Cancel(code)
	m.broadcaster.CloseRoom(code)

	m.logger.Info("room torn down", slog.String("room", string(code)))
	return nil
}

// HasPendingTeardown reports whether a teardown is scheduled for the room
func (m *Manager) HasPendingTeardown(code model.RoomCode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[code]
	return ok
}
