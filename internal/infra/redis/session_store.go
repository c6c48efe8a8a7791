package redis

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"maturity-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Live sessions stay in a local map so the in-process broadcast logic is reused.
//   - Redis keeps the bank ID and recorded answers of each session for ttl, so a prospect
//     who reconnects to another instance (or after the last tab closed) resumes where
//     they left off:
//     SET  assessment:session:{id}         {bankID}
//     HSET assessment:session:{id}:answers {questionIndex} {answerIndex}
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	sf       singleflight.Group
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

// GetOrCreate returns the local session or restores it from Redis. Redis I/O runs
// outside the store lock; concurrent first joins of one session share a single load.
func (s *SessionStore) GetOrCreate(ctx context.Context, sessionID, bankID string) (*app.Session, error) {
	if session, ok := s.Get(sessionID); ok {
		return session, nil
	}

	result, err, _ := s.sf.Do(sessionID, func() (interface{}, error) {
		if session, ok := s.Get(sessionID); ok {
			return session, nil
		}
		session, err := s.restore(ctx, sessionID, bankID)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.sessions[sessionID]; ok {
			return existing, nil
		}
		s.sessions[sessionID] = session
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*app.Session), nil
}

func (s *SessionStore) restore(ctx context.Context, sessionID, bankID string) (*app.Session, error) {
	storedBank, err := s.client.Get(ctx, s.key(sessionID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		storedBank = bankID
	case err != nil:
		return nil, err
	}

	session := app.NewSession(sessionID, storedBank)
	answers, err := s.loadAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		session.Restore(answers)
	}

	if err := s.client.Set(ctx, s.key(sessionID), storedBank, s.ttl).Err(); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Persist(ctx context.Context, session *app.Session) error {
	answersKey := s.answersKey(session.ID())
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, answersKey)
	fields := make(map[string]interface{})
	for i, a := range session.Answers() {
		if a >= 0 {
			fields[strconv.Itoa(i)] = a
		}
	}
	if len(fields) > 0 {
		pipe.HSet(ctx, answersKey, fields)
		pipe.Expire(ctx, answersKey, s.ttl)
	}
	pipe.Set(ctx, s.key(session.ID()), session.BankID(), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// DeleteIfEmpty releases the local session. The Redis keys are left to expire so the
// session can still be resumed.
func (s *SessionStore) DeleteIfEmpty(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	if session.IsEmpty() {
		delete(s.sessions, sessionID)
	}
}

func (s *SessionStore) loadAnswers(ctx context.Context, sessionID string) ([]int, error) {
	raw, err := s.client.HGetAll(ctx, s.answersKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	size := 0
	parsed := make(map[int]int, len(raw))
	for field, value := range raw {
		idx, err := strconv.Atoi(field)
		if err != nil || idx < 0 {
			continue
		}
		answer, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		parsed[idx] = answer
		if idx+1 > size {
			size = idx + 1
		}
	}
	answers := make([]int, size)
	for i := range answers {
		answers[i] = -1
		if a, ok := parsed[i]; ok {
			answers[i] = a
		}
	}
	return answers, nil
}

func (s *SessionStore) key(sessionID string) string {
	return "assessment:session:" + sessionID
}

func (s *SessionStore) answersKey(sessionID string) string {
	return s.key(sessionID) + ":answers"
}
