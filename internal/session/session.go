package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Session Активный расчёт одного пользователя. Живёт только в памяти
// процесса; после рестарта все расчёты начинаются заново.
type Session struct {
	ActorID   int64
	Token     string
	CreatedAt time.Time
	LastTouch time.Time
}

// Manager Сессии расчёта: не больше одной на пользователя, скользящий
// таймаут неактивности. Токен сессии зашивается в callback-данные каждой
// кнопки расчёта; кнопка из устаревшего расчёта отвергается по токену.
type Manager struct {
	mu       sync.Mutex
	log      *slog.Logger
	sched    Scheduler
	timeout  time.Duration
	now      func() time.Time
	seq      uint64
	sessions map[int64]*Session

	// Уведомление пользователя об автосбросе. Доставка best-effort:
	// ошибки глотает вызывающая сторона, сюда они не возвращаются.
	onExpire func(actorID int64)
}

func NewManager(sched Scheduler, timeout time.Duration, log *slog.Logger) *Manager {
	return &Manager{
		log:      log,
		sched:    sched,
		timeout:  timeout,
		now:      time.Now,
		sessions: map[int64]*Session{},
	}
}

// SetClock подменяет источник времени (для тестов).
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// SetExpiryNotifier задаёт колбэк уведомления об автосбросе.
func (m *Manager) SetExpiryNotifier(fn func(actorID int64)) { m.onExpire = fn }

// Start сбрасывает предыдущую сессию пользователя (вместе с таймером)
// и создаёт новую. Возвращает токен для встраивания в кнопки.
func (m *Manager) Start(actorID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked(actorID)

	m.seq++
	now := m.now()
	// Уникальность нужна только в пределах одного пользователя,
	// счётчик страхует от двух стартов в одну миллисекунду.
	token := fmt.Sprintf("%d-%d", now.UnixMilli(), m.seq)
	m.sessions[actorID] = &Session{
		ActorID:   actorID,
		Token:     token,
		CreatedAt: now,
		LastTouch: now,
	}
	m.sched.ScheduleOnce(timerKey(actorID), m.timeout, func() { m.expire(actorID, token) })
	return token
}

// Touch продлевает таймаут неактивности. Без активной сессии — no-op.
func (m *Manager) Touch(actorID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[actorID]
	if !ok {
		return
	}
	s.LastTouch = m.now()
	token := s.Token
	m.sched.Cancel(timerKey(actorID))
	m.sched.ScheduleOnce(timerKey(actorID), m.timeout, func() { m.expire(actorID, token) })
}

// Validate сообщает, принадлежит ли токен текущей живой сессии пользователя.
// Токен из завершённого, сброшенного или вытесненного расчёта — невалиден.
func (m *Manager) Validate(actorID int64, token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[actorID]
	return ok && token != "" && s.Token == token
}

// Active возвращает текущую сессию пользователя, если она есть.
func (m *Manager) Active(actorID int64) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[actorID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Reset снимает таймер и удаляет сессию. Идемпотентен: вызов без
// активной сессии безопасен.
func (m *Manager) Reset(actorID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked(actorID)
}

// Len количество живых сессий (для метрик и тестов).
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

func (m *Manager) resetLocked(actorID int64) {
	m.sched.Cancel(timerKey(actorID))
	delete(m.sessions, actorID)
}

// expire — колбэк таймера. Stop у time.AfterFunc не отзывает колбэк,
// который уже сработал и ждёт мьютекс: за это время сессия могла не только
// завершиться, но и смениться новой. Удаляем только сессию с тем же
// токеном, под который взводился таймер. Уведомление шлётся уже без мьютекса.
func (m *Manager) expire(actorID int64, token string) {
	m.mu.Lock()
	s, ok := m.sessions[actorID]
	if !ok || s.Token != token {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, actorID)
	m.mu.Unlock()

	m.log.Info("расчёт сброшен по таймауту", "actor", actorID)
	if m.onExpire != nil {
		m.onExpire(actorID)
	}
}

func timerKey(actorID int64) string {
	return fmt.Sprintf("calc_timeout_%d", actorID)
}
