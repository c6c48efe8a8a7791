package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"maturity-quiz-service/internal/domain"
	"maturity-quiz-service/internal/scoring"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(scoring.BuiltinBank())}
	repo := NewBankRepository(loader, time.Minute)

	bank, err := repo.GetBank(context.Background(), scoring.DefaultBankID)
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if bank.Len() != 12 {
		t.Fatalf("expected 12 questions, got %d", bank.Len())
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetBank(context.Background(), scoring.DefaultBankID); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(scoring.BuiltinBank())}
	repo := NewBankRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetBank(context.Background(), scoring.DefaultBankID); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetBank(context.Background(), scoring.DefaultBankID); err != nil {
		t.Fatalf("get bank after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryRejectsInvalidBank(t *testing.T) {
	broken := scoring.BuiltinBank()
	broken.TotalQuestions = 3
	loader := &countingLoader{BankLoader: NewStaticBankLoader(broken)}
	repo := NewBankRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := repo.GetBank(context.Background(), broken.ID)
		if !errors.Is(err, domain.ErrInvalidBank) {
			t.Fatalf("expected invalid bank error, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("invalid banks must not be cached, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryUnknownBank(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(), time.Minute)
	if _, err := repo.GetBank(context.Background(), "nope"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFallbackLoader(t *testing.T) {
	custom := scoring.BuiltinBank()
	custom.ID = "custom"
	loader := FallbackLoader{NewStaticBankLoader(custom), NewStaticBankLoader(scoring.BuiltinBank())}

	bank, err := loader.LoadBank(context.Background(), scoring.DefaultBankID)
	if err != nil || bank.ID != scoring.DefaultBankID {
		t.Fatalf("expected fallthrough to second loader, got %q %v", bank.ID, err)
	}
	if _, err := loader.LoadBank(context.Background(), "missing"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.QuestionBank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}
