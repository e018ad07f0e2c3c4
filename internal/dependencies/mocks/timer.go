package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/services/timer"
)

// ScheduledTimer records one Schedule call on the MockRoundTimer
type ScheduledTimer struct {
	Duration time.Duration
	OnExpire timer.ExpiryFunc
}

// MockRoundTimer is a mock implementation of RoundTimer for testing.
// Timers never fire on their own; tests trigger expiry with Fire.
type MockRoundTimer struct {
	mu        sync.Mutex
	armed     map[model.RoomCode]ScheduledTimer
	Scheduled []model.RoomCode
	Cancelled []model.RoomCode
}

// Ensure MockRoundTimer implements RoundTimer
var _ timer.RoundTimer = (*MockRoundTimer)(nil)

// NewMockRoundTimer creates a new MockRoundTimer
func NewMockRoundTimer() *MockRoundTimer {
	return &MockRoundTimer{
		armed: make(map[model.RoomCode]ScheduledTimer),
	}
}

// Schedule records the timer without starting a real one
func (m *MockRoundTimer) Schedule(code model.RoomCode, d time.Duration, onExpire timer.ExpiryFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed[code] = ScheduledTimer{Duration: d, OnExpire: onExpire}
	m.Scheduled = append(m.Scheduled, code)
}

// Cancel disarms the room's timer and records the cancellation
func (m *MockRoundTimer) Cancel(code model.RoomCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.armed, code)
	m.Cancelled = append(m.Cancelled, code)
}

// Fire synchronously invokes the armed expiry callback, if any.
// Returns true if a callback ran.
func (m *MockRoundTimer) Fire(code model.RoomCode) bool {
	m.mu.Lock()
	st, ok := m.armed[code]
	if ok {
		delete(m.armed, code)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	st.OnExpire(code)
	return true
}

// Armed reports whether a timer is armed for the room
func (m *MockRoundTimer) Armed(code model.RoomCode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.armed[code]
	return ok
}

// CancelCount returns how many times Cancel was called for the room
func (m *MockRoundTimer) CancelCount(code model.RoomCode) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.Cancelled {
		if c == code {
			count++
		}
	}
	return count
}
