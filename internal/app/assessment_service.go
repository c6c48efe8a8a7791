package app

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"maturity-quiz-service/internal/domain"
	"maturity-quiz-service/internal/scoring"
)

// SessionRepository abstracts how live assessment sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(ctx context.Context, sessionID, bankID string) (*Session, error)
	Get(sessionID string) (*Session, bool)
	// Persist records the session's answers so another instance can resume it.
	Persist(ctx context.Context, session *Session) error
	DeleteIfEmpty(sessionID string)
}

// BankRepository loads validated question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (*scoring.Bank, error)
}

// SubmissionRepository stores scored submissions together with the captured lead.
type SubmissionRepository interface {
	SaveSubmission(ctx context.Context, submission domain.Submission) error
	GetSubmission(ctx context.Context, id string) (domain.Submission, error)
}

// AssessmentService contains the assessment use cases.
type AssessmentService struct {
	sessions    SessionRepository
	banks       BankRepository
	submissions SubmissionRepository
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

func NewAssessmentService(sessions SessionRepository, banks BankRepository, submissions SubmissionRepository, logger *zap.Logger) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		sessions:    sessions,
		banks:       banks,
		submissions: submissions,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Questions returns the bank's questions without scores.
func (s *AssessmentService) Questions(ctx context.Context, bankID string) ([]domain.PublicQuestion, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	return bank.PublicQuestions(), nil
}

// Score evaluates an answer sequence without storing anything.
func (s *AssessmentService) Score(ctx context.Context, bankID string, answers []int) (domain.QuizResults, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.QuizResults{}, err
	}
	return bank.Score(answers), nil
}

// Submit scores the answers and stores them with the prospect's contact details.
func (s *AssessmentService) Submit(ctx context.Context, bankID string, req domain.SubmissionRequest) (domain.Submission, error) {
	contact, err := normalizeContact(req.Contact)
	if err != nil {
		return domain.Submission{}, err
	}
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.Submission{}, err
	}
	return s.store(ctx, bank, req.Answers, contact)
}

// Submission returns a stored submission.
func (s *AssessmentService) Submission(ctx context.Context, id string) (domain.Submission, error) {
	return s.submissions.GetSubmission(ctx, id)
}

func (s *AssessmentService) store(ctx context.Context, bank *scoring.Bank, answers []int, contact domain.Contact) (domain.Submission, error) {
	submission := domain.Submission{
		ID:        s.newID(),
		BankID:    bank.ID(),
		Contact:   contact,
		Results:   bank.Score(answers),
		CreatedAt: s.now().UTC(),
	}
	if err := s.submissions.SaveSubmission(ctx, submission); err != nil {
		return domain.Submission{}, fmt.Errorf("save submission: %w", err)
	}
	s.logger.Info("submission stored",
		zap.String("submissionId", submission.ID),
		zap.String("bankId", submission.BankID),
		zap.Int("overallScore", submission.Results.OverallScore),
		zap.String("maturity", string(submission.Results.MaturityLevel)),
		zap.String("primaryPriority", string(submission.Results.PrimaryPriority)))
	return submission, nil
}

// Join registers a connection to a live session, creating it on first use.
func (s *AssessmentService) Join(ctx context.Context, sessionID, bankID string) (domain.Progress, error) {
	// Load the bank first; nobody can start an assessment on an unknown bank.
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.Progress{}, err
	}

	session, err := s.sessions.GetOrCreate(ctx, sessionID, bank.ID())
	if err != nil {
		return domain.Progress{}, err
	}
	if session.BankID() != bank.ID() {
		return domain.Progress{}, fmt.Errorf("session %s belongs to bank %s: %w", sessionID, session.BankID(), domain.ErrSessionNotFound)
	}
	return session.join(progressFunc(bank)), nil
}

// Answer records one answer of a live session and broadcasts the new progress.
// An answerIndex of -1 clears the question.
func (s *AssessmentService) Answer(ctx context.Context, sessionID string, questionIndex, answerIndex int) (domain.Progress, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Progress{}, domain.ErrSessionNotFound
	}
	bank, err := s.banks.GetBank(ctx, session.BankID())
	if err != nil {
		return domain.Progress{}, err
	}

	count := bank.AnswerCount(questionIndex)
	if count < 0 {
		return domain.Progress{}, domain.ErrQuestionNotFound
	}
	if answerIndex < -1 || answerIndex >= count {
		return domain.Progress{}, domain.ErrAnswerNotFound
	}

	progress := session.record(questionIndex, answerIndex, bank.Len(), progressFunc(bank))
	if err := s.sessions.Persist(ctx, session); err != nil {
		s.logger.Warn("persist session failed", zap.String("sessionId", sessionID), zap.Error(err))
	}
	return progress, nil
}

// Subscribe returns a channel that receives progress updates for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *AssessmentService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Progress, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Complete scores the session's answers. When contact is given the result is stored as
// a submission; otherwise the returned submission has no ID.
func (s *AssessmentService) Complete(ctx context.Context, sessionID string, contact *domain.Contact) (domain.Submission, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Submission{}, domain.ErrSessionNotFound
	}
	bank, err := s.banks.GetBank(ctx, session.BankID())
	if err != nil {
		return domain.Submission{}, err
	}

	answers := session.Answers()
	if contact == nil {
		return domain.Submission{
			BankID:    bank.ID(),
			Results:   bank.Score(answers),
			CreatedAt: s.now().UTC(),
		}, nil
	}
	normalized, err := normalizeContact(*contact)
	if err != nil {
		return domain.Submission{}, err
	}
	return s.store(ctx, bank, answers, normalized)
}

// Leave drops a connection from the session and removes the session once nobody is left.
func (s *AssessmentService) Leave(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.leave()
	if session.IsEmpty() {
		s.sessions.DeleteIfEmpty(sessionID)
	}
}

func progressFunc(bank *scoring.Bank) func([]int) domain.Progress {
	return func(answers []int) domain.Progress {
		padded := make([]int, bank.Len())
		answered := 0
		for i := range padded {
			padded[i] = -1
			if i < len(answers) && bank.ValidAnswer(i, answers[i]) {
				padded[i] = answers[i]
				answered++
			}
		}
		scores := bank.AreaScores(padded)
		overall, level := bank.Classify(scores)
		return domain.Progress{
			BankID:        bank.ID(),
			Answers:       padded,
			Answered:      answered,
			Total:         bank.Len(),
			AreaScores:    scores,
			OverallScore:  overall,
			MaturityLevel: level,
		}
	}
}

func normalizeContact(c domain.Contact) (domain.Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Company = strings.TrimSpace(c.Company)
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Email == "" {
		return c, fmt.Errorf("contact email is required: %w", domain.ErrInvalidSubmission)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return c, fmt.Errorf("contact email %q: %w", c.Email, domain.ErrInvalidSubmission)
	}
	return c, nil
}
