package memory

import (
	"context"
	"errors"
	"testing"

	"maturity-quiz-service/internal/domain"
)

func TestSubmissionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSubmissionStore()

	want := domain.Submission{ID: "sub-1", BankID: "m365-maturity", Contact: domain.Contact{Email: "a@example.com"}}
	if err := store.SaveSubmission(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.GetSubmission(ctx, "sub-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Contact.Email != "a@example.com" {
		t.Fatalf("unexpected submission %+v", got)
	}
	if _, err := store.GetSubmission(ctx, "sub-2"); !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
