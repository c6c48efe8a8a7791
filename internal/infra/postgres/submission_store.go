package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"maturity-quiz-service/internal/domain"
)

// SubmissionStore persists scored submissions. Scores that are queried for lead
// routing get their own columns; the full results are kept as JSONB.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

func (s *SubmissionStore) SaveSubmission(ctx context.Context, submission domain.Submission) error {
	contact, err := json.Marshal(submission.Contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	results, err := json.Marshal(submission.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_submissions
			(id, bank_id, email, overall_score, maturity_level, primary_priority, contact, results, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9)`,
		submission.ID,
		submission.BankID,
		submission.Contact.Email,
		submission.Results.OverallScore,
		string(submission.Results.MaturityLevel),
		string(submission.Results.PrimaryPriority),
		string(contact),
		string(results),
		submission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	var (
		submission       domain.Submission
		contact, results []byte
		createdAt        time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, bank_id, contact, results, created_at FROM quiz_submissions WHERE id=$1`, id,
	).Scan(&submission.ID, &submission.BankID, &contact, &results, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return domain.Submission{}, fmt.Errorf("load submission: %w", err)
	}
	if err := json.Unmarshal(contact, &submission.Contact); err != nil {
		return domain.Submission{}, fmt.Errorf("unmarshal contact: %w", err)
	}
	if err := json.Unmarshal(results, &submission.Results); err != nil {
		return domain.Submission{}, fmt.Errorf("unmarshal results: %w", err)
	}
	submission.CreatedAt = createdAt.UTC()
	return submission, nil
}
