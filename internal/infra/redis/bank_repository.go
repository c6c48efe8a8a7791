package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"maturity-quiz-service/internal/domain"
	"maturity-quiz-service/internal/infra/memory"
	"maturity-quiz-service/internal/scoring"
)

// BankRepository caches bank definitions in Redis and falls back to a loader on cache miss.
// Definitions are stored as JSON: SET bank:{bankID} {json} EX ttl
// Every hit is re-validated, so a tampered or stale entry is dropped instead of served.
type BankRepository struct {
	client *redis.Client
	loader memory.BankLoader
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewBankRepository(client *redis.Client, loader memory.BankLoader, ttl time.Duration, logger *zap.Logger) *BankRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (*scoring.Bank, error) {
	if bank, ok := r.fromCache(ctx, bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx, bankID); ok {
			return bank, nil
		}

		def, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return nil, err
		}
		bank, err := scoring.Load(def)
		if err != nil {
			return nil, fmt.Errorf("load bank %s: %w", bankID, err)
		}

		raw, err := json.Marshal(def)
		if err != nil {
			return nil, fmt.Errorf("marshal bank %s: %w", bankID, err)
		}
		if err := r.client.Set(ctx, r.key(bankID), raw, r.ttlWithJitter()).Err(); err != nil {
			r.logger.Warn("cache bank failed", zap.String("bankId", bankID), zap.Error(err))
		}
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*scoring.Bank), nil
}

func (r *BankRepository) fromCache(ctx context.Context, bankID string) (*scoring.Bank, bool) {
	raw, err := r.client.Get(ctx, r.key(bankID)).Bytes()
	if err != nil {
		return nil, false
	}
	var def domain.QuestionBank
	if err := json.Unmarshal(raw, &def); err != nil {
		r.evict(ctx, bankID, err)
		return nil, false
	}
	bank, err := scoring.Load(def)
	if err != nil {
		r.evict(ctx, bankID, err)
		return nil, false
	}
	return bank, true
}

func (r *BankRepository) evict(ctx context.Context, bankID string, cause error) {
	r.logger.Warn("dropping unusable cached bank", zap.String("bankId", bankID), zap.Error(cause))
	_ = r.client.Del(ctx, r.key(bankID)).Err()
}

func (r *BankRepository) key(bankID string) string {
	return "bank:" + bankID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
