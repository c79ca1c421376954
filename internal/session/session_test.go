package session

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler запоминает колбэки и срабатывает только по команде теста.
type fakeScheduler struct {
	fns       map[string]func()
	scheduled int
	cancelled int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{fns: map[string]func(){}}
}

func (s *fakeScheduler) ScheduleOnce(key string, _ time.Duration, fn func()) {
	s.fns[key] = fn
	s.scheduled++
}

func (s *fakeScheduler) Cancel(key string) {
	if _, ok := s.fns[key]; ok {
		delete(s.fns, key)
		s.cancelled++
	}
}

// fire имитирует срабатывание таймера.
func (s *fakeScheduler) fire(key string) {
	fn, ok := s.fns[key]
	if !ok {
		return
	}
	delete(s.fns, key)
	fn()
}

func newTestManager(sched Scheduler) *Manager {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(sched, 15*time.Minute, log)
}

func TestStartIssuesToken(t *testing.T) {
	sched := newFakeScheduler()
	m := newTestManager(sched)

	token := m.Start(42)
	require.NotEmpty(t, token)
	assert.True(t, m.Validate(42, token))
	assert.Equal(t, 1, m.Len())

	s, ok := m.Active(42)
	require.True(t, ok)
	assert.Equal(t, token, s.Token)
	assert.Contains(t, sched.fns, "calc_timeout_42")
}

func TestStartSupersedesPrevious(t *testing.T) {
	sched := newFakeScheduler()
	m := newTestManager(sched)

	old := m.Start(42)
	fresh := m.Start(42)
	require.NotEqual(t, old, fresh)

	// не больше одной сессии на пользователя
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.Validate(42, old))
	assert.True(t, m.Validate(42, fresh))
}

func TestTokensUniqueWithFrozenClock(t *testing.T) {
	m := newTestManager(newFakeScheduler())
	frozen := time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return frozen })

	a := m.Start(42)
	b := m.Start(42)
	assert.NotEqual(t, a, b)
}

func TestValidate(t *testing.T) {
	m := newTestManager(newFakeScheduler())

	assert.False(t, m.Validate(42, "что-угодно"))

	token := m.Start(42)
	assert.True(t, m.Validate(42, token))
	assert.False(t, m.Validate(42, ""))
	assert.False(t, m.Validate(42, token+"x"))
	assert.False(t, m.Validate(43, token))

	m.Reset(42)
	assert.False(t, m.Validate(42, token))
}

func TestTouchReschedules(t *testing.T) {
	sched := newFakeScheduler()
	m := newTestManager(sched)

	m.Start(42)
	before := sched.scheduled
	m.Touch(42)
	assert.Equal(t, before+1, sched.scheduled)

	// без сессии Touch ничего не планирует
	m.Touch(99)
	assert.Equal(t, before+1, sched.scheduled)
}

func TestTouchUpdatesLastTouch(t *testing.T) {
	m := newTestManager(newFakeScheduler())
	now := time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return now })

	m.Start(42)
	now = now.Add(5 * time.Minute)
	m.Touch(42)

	s, ok := m.Active(42)
	require.True(t, ok)
	assert.Equal(t, now, s.LastTouch)
	assert.Equal(t, now.Add(-5*time.Minute), s.CreatedAt)
}

func TestExpire(t *testing.T) {
	sched := newFakeScheduler()
	m := newTestManager(sched)

	var expired []int64
	m.SetExpiryNotifier(func(actorID int64) { expired = append(expired, actorID) })

	token := m.Start(42)
	sched.fire("calc_timeout_42")

	assert.False(t, m.Validate(42, token))
	assert.Zero(t, m.Len())
	assert.Equal(t, []int64{42}, expired)
}

func TestExpireAfterResetIsNoop(t *testing.T) {
	sched := newFakeScheduler()
	m := newTestManager(sched)

	notified := 0
	m.SetExpiryNotifier(func(int64) { notified++ })

	m.Start(42)
	fn := sched.fns["calc_timeout_42"]
	m.Reset(42)

	// таймер успел слететь с очереди до Cancel — колбэк не должен никого будить
	fn()
	assert.Zero(t, notified)
}

func TestStaleTimerDoesNotKillNewSession(t *testing.T) {
	sched := newFakeScheduler()
	m := newTestManager(sched)

	notified := 0
	m.SetExpiryNotifier(func(int64) { notified++ })

	m.Start(42)
	stale := sched.fns["calc_timeout_42"]
	fresh := m.Start(42)

	// колбэк первого таймера уже сработал и ждал мьютекс, когда пользователь
	// начал новый расчёт: чужой токен не должен убить свежую сессию
	stale()

	assert.True(t, m.Validate(42, fresh))
	assert.Equal(t, 1, m.Len())
	assert.Zero(t, notified)
}

func TestResetIdempotent(t *testing.T) {
	m := newTestManager(newFakeScheduler())

	m.Reset(42)
	m.Start(42)
	m.Reset(42)
	m.Reset(42)
	assert.Zero(t, m.Len())
}

func TestIndependentActors(t *testing.T) {
	m := newTestManager(newFakeScheduler())

	t1 := m.Start(1)
	t2 := m.Start(2)
	assert.Equal(t, 2, m.Len())

	m.Reset(1)
	assert.False(t, m.Validate(1, t1))
	assert.True(t, m.Validate(2, t2))
}

func TestTimerScheduler(t *testing.T) {
	s := NewTimerScheduler()

	done := make(chan struct{})
	s.ScheduleOnce("k", time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("таймер не сработал")
	}

	fired := make(chan struct{})
	s.ScheduleOnce("k2", 50*time.Millisecond, func() { close(fired) })
	s.Cancel("k2")
	select {
	case <-fired:
		t.Fatal("отменённый таймер сработал")
	case <-time.After(100 * time.Millisecond):
	}
}
