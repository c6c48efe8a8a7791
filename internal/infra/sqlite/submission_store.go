// Package sqlite stores submissions in a local SQLite file for single-node
// deployments that have no Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	"maturity-quiz-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS quiz_submissions (
	id               TEXT PRIMARY KEY,
	bank_id          TEXT NOT NULL,
	email            TEXT NOT NULL,
	overall_score    INTEGER NOT NULL,
	maturity_level   TEXT NOT NULL,
	primary_priority TEXT NOT NULL,
	contact          TEXT NOT NULL,
	results          TEXT NOT NULL,
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS quiz_submissions_created_at_idx ON quiz_submissions (created_at);
`

// SubmissionStore persists submissions in SQLite.
type SubmissionStore struct {
	db *sql.DB
}

// Open creates the database file if needed, applies pragmas and ensures the schema.
func Open(path string) (*SubmissionStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SubmissionStore{db: db}, nil
}

func (s *SubmissionStore) Close() error {
	return s.db.Close()
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
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_submissions
			(id, bank_id, email, overall_score, maturity_level, primary_priority, contact, results, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		submission.ID,
		submission.BankID,
		submission.Contact.Email,
		submission.Results.OverallScore,
		string(submission.Results.MaturityLevel),
		string(submission.Results.PrimaryPriority),
		string(contact),
		string(results),
		submission.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	var (
		submission                  domain.Submission
		contact, results, createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, bank_id, contact, results, created_at FROM quiz_submissions WHERE id = ?`, id,
	).Scan(&submission.ID, &submission.BankID, &contact, &results, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return domain.Submission{}, fmt.Errorf("load submission: %w", err)
	}
	if err := json.Unmarshal([]byte(contact), &submission.Contact); err != nil {
		return domain.Submission{}, fmt.Errorf("unmarshal contact: %w", err)
	}
	if err := json.Unmarshal([]byte(results), &submission.Results); err != nil {
		return domain.Submission{}, fmt.Errorf("unmarshal results: %w", err)
	}
	submission.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("parse created_at: %w", err)
	}
	return submission, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
