package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/spellduel-go/internal/model"
	"github.com/mcoot/spellduel-go/internal/testutil"
)

// expiryRecorder collects fired room codes for assertions
type expiryRecorder struct {
	mu    sync.Mutex
	fired []model.RoomCode
	ch    chan model.RoomCode
}

func newExpiryRecorder() *expiryRecorder {
	return &expiryRecorder{ch: make(chan model.RoomCode, 16)}
}

func (r *expiryRecorder) onExpire(code model.RoomCode) {
	r.mu.Lock()
	r.fired = append(r.fired, code)
	r.mu.Unlock()
	r.ch <- code
}

func (r *expiryRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func (r *expiryRecorder) waitForFire(t *testing.T) model.RoomCode {
	t.Helper()
	select {
	case code := <-r.ch:
		return code
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
		return ""
	}
}

func TestScheduleFires(t *testing.T) {
	s := New(testutil.NopLogger())
	rec := newExpiryRecorder()

	s.Schedule("1234", 10*time.Millisecond, rec.onExpire)

	code := rec.waitForFire(t)
	assert.Equal(t, model.RoomCode("1234"), code)
	assert.False(t, s.Armed("1234"))
}

func TestCancelPreventsFire(t *testing.T) {
	s := New(testutil.NopLogger())
	rec := newExpiryRecorder()

	s.Schedule("1234", 20*time.Millisecond, rec.onExpire)
	s.Cancel("1234")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
	assert.False(t, s.Armed("1234"))
}

func TestCancelWithoutScheduleIsNoop(t *testing.T) {
	s := New(testutil.NopLogger())
	s.Cancel("1234")
}

func TestRescheduleReplacesTimer(t *testing.T) {
	s := New(testutil.NopLogger())
	first := newExpiryRecorder()
	second := newExpiryRecorder()

	s.Schedule("1234", 20*time.Millisecond, first.onExpire)
	s.Schedule("1234", 10*time.Millisecond, second.onExpire)

	second.waitForFire(t)

	// The replaced timer must never fire, even after its original
	// duration has passed
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, first.count())
	assert.Equal(t, 1, second.count())
}

func TestTimersArePerRoom(t *testing.T) {
	s := New(testutil.NopLogger())
	rec := newExpiryRecorder()

	s.Schedule("1111", 10*time.Millisecond, rec.onExpire)
	s.Schedule("2222", 10*time.Millisecond, rec.onExpire)

	codes := map[model.RoomCode]bool{}
	codes[rec.waitForFire(t)] = true
	codes[rec.waitForFire(t)] = true

	assert.True(t, codes["1111"])
	assert.True(t, codes["2222"])
}

func TestCancelOneRoomLeavesOtherArmed(t *testing.T) {
	s := New(testutil.NopLogger())
	rec := newExpiryRecorder()

	s.Schedule("1111", 10*time.Millisecond, rec.onExpire)
	s.Schedule("2222", time.Hour, rec.onExpire)
	s.Cancel("2222")

	code := rec.waitForFire(t)
	assert.Equal(t, model.RoomCode("1111"), code)
	assert.False(t, s.Armed("2222"))
}

func TestArmedReflectsState(t *testing.T) {
	s := New(testutil.NopLogger())

	assert.False(t, s.Armed("1234"))

	s.Schedule("1234", time.Hour, func(model.RoomCode) {})
	assert.True(t, s.Armed("1234"))

	s.Cancel("1234")
	assert.False(t, s.Armed("1234"))
}
