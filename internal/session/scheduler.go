package session

import (
	"sync"
	"time"
)

// Scheduler Отложенный одноразовый вызов с дедупликацией по ключу.
// Интерфейс нужен, чтобы в тестах подменять таймеры фальшивыми часами.
type Scheduler interface {
	ScheduleOnce(key string, delay time.Duration, fn func())
	Cancel(key string)
}

// TimerScheduler Боевая реализация на time.AfterFunc.
// Повторный ScheduleOnce с тем же ключом сначала снимает старый таймер:
// двух живых таймеров на один ключ быть не должно.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: map[string]*time.Timer{}}
}

func (s *TimerScheduler) ScheduleOnce(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		fn()
	})
}

func (s *TimerScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}
