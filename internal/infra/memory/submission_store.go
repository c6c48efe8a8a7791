package memory

import (
	"context"
	"sync"

	"maturity-quiz-service/internal/domain"
)

// SubmissionStore keeps submissions in process memory. Everything is lost on restart,
// so it only suits development and tests.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions map[string]domain.Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{submissions: make(map[string]domain.Submission)}
}

func (s *SubmissionStore) SaveSubmission(_ context.Context, submission domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[submission.ID] = submission
	return nil
}

func (s *SubmissionStore) GetSubmission(_ context.Context, id string) (domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	submission, ok := s.submissions[id]
	if !ok {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	return submission, nil
}
