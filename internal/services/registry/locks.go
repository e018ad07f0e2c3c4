package registry

import (
	"sync"

	"github.com/mcoot/spellduel-go/internal/model"
)

// roomLocks provides one mutex per room code so every mutation of a
// room happens as if by a single owner, while different rooms proceed
// independently.
type roomLocks struct {
	mu    sync.Mutex
	locks map[model.RoomCode]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{
		locks: make(map[model.RoomCode]*sync.Mutex),
	}
}

// acquire locks the room's mutex, creating it on first use
func (l *roomLocks) acquire(code model.RoomCode) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[code]
	if !ok {
		m = &sync.Mutex{}
		l.locks[code] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}

// drop forgets the room's mutex after teardown. A goroutine still
// waiting on the old mutex will simply find the room gone.
func (l *roomLocks) drop(code model.RoomCode) {
	l.mu.Lock()
	delete(l.locks, code)
	l.mu.Unlock()
}
