package app

import (
	"sync"
	"time"

	"github.com/xavlacey/katakana-game/internal/domain"
)

// identityRandom always picks the last index, which keeps Fisher-Yates from
// moving anything.
type identityRandom struct{}

func (identityRandom) Intn(n int) int { return n - 1 }

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Notify(ev domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) last() domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// lastOf returns the most recent event of type T.
func lastOf[T domain.Event](r *recorder) (T, bool) {
	events := r.all()
	for i := len(events) - 1; i >= 0; i-- {
		if ev, ok := events[i].(T); ok {
			return ev, true
		}
	}
	var zero T
	return zero, false
}

// manualScheduler holds deferred tasks until the test fires them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTimer
}

type manualTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, fn: f}
	s.tasks = append(s.tasks, t)
	return t
}

// fireAll runs every scheduled task, including stopped ones, so tests can
// observe that superseded callbacks are harmless.
func (s *manualScheduler) fireAll(includeStopped bool) int {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	n := 0
	for _, t := range tasks {
		if t.stopped && !includeStopped {
			continue
		}
		t.fired = true
		t.fn()
		n++
	}
	return n
}

func (s *manualScheduler) delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.delay)
	}
	return out
}

func catDog() []domain.WordRecord {
	return []domain.WordRecord{
		{Source: "A", Translation: "cat", Phonetic: "a"},
		{Source: "B", Translation: "dog", Phonetic: "bi"},
	}
}
