package app

import (
	"sync"
	"time"

	"maturity-quiz-service/internal/domain"
)

// Session is the in-memory state of one prospect's live assessment. Several
// connections (tabs, devices) may share it and all receive progress updates.
type Session struct {
	id          string
	bankID      string
	createdAt   time.Time
	now         func() time.Time
	mu          sync.RWMutex
	answers     []int
	connections int
	last        domain.Progress
	subscribers map[chan domain.Progress]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, bankID string) *Session {
	return newSessionWithClock(id, bankID, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id, bankID string, now func() time.Time) *Session {
	return newSessionWithClock(id, bankID, now)
}

func newSessionWithClock(id, bankID string, now func() time.Time) *Session {
	return &Session{
		id:          id,
		bankID:      bankID,
		createdAt:   now(),
		now:         now,
		subscribers: make(map[chan domain.Progress]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// BankID returns the bank the session is answering.
func (s *Session) BankID() string { return s.bankID }

// Answers returns a copy of the recorded answers; unanswered positions are -1.
func (s *Session) Answers() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.answers...)
}

// Restore replaces the recorded answers, used when resuming a persisted session.
func (s *Session) Restore(answers []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append([]int(nil), answers...)
}

func (s *Session) join(progress func([]int) domain.Progress) domain.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections++
	s.last = s.stampLocked(progress(s.answers))
	return s.last
}

func (s *Session) record(questionIndex, answerIndex, total int, progress func([]int) domain.Progress) domain.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.answers) < total {
		s.answers = append(s.answers, -1)
	}
	s.answers[questionIndex] = answerIndex
	s.last = s.stampLocked(progress(s.answers))
	s.broadcastLocked()
	return s.last
}

func (s *Session) leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connections > 0 {
		s.connections--
	}
}

// IsEmpty reports whether no connection is attached to the session.
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connections == 0
}

func (s *Session) subscribe() (<-chan domain.Progress, func()) {
	ch := make(chan domain.Progress, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.last
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) stampLocked(p domain.Progress) domain.Progress {
	p.SessionID = s.id
	p.BankID = s.bankID
	p.UpdatedAt = s.now()
	return p
}

func (s *Session) broadcastLocked() {
	for ch := range s.subscribers {
		select {
		case ch <- s.last:
		default:
			// Slow subscriber: drop its oldest update so the newest always lands.
			select {
			case <-ch:
			default:
			}
			ch <- s.last
		}
	}
}
