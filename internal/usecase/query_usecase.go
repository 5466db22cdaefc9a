package usecase

import (
	"context"
	"encoding/json"

	"github.com/iho/coinsync/internal/domain"
)

// QueryUseCase serves read-only balance and history lookups. Balance
// lookups go through the cache; mutations invalidate the cached entry.
type QueryUseCase struct {
	identityRepo IdentityRepository
	recordRepo   RecordRepository
	cache        Cache
}

// NewQueryUseCase creates a new QueryUseCase. cache may be nil.
func NewQueryUseCase(identityRepo IdentityRepository, recordRepo RecordRepository, cache Cache) *QueryUseCase {
	return &QueryUseCase{
		identityRepo: identityRepo,
		recordRepo:   recordRepo,
		cache:        cache,
	}
}

// BalanceResult is the outcome of a balance lookup.
type BalanceResult struct {
	ExternalID  string `json:"external_id"`
	DisplayName string `json:"display_name"`
	Balance     int64  `json:"balance"`
}

// GetBalance returns the current balance for an external id.
func (uc *QueryUseCase) GetBalance(ctx context.Context, externalID string) (*BalanceResult, error) {
	key := balanceCacheKey(externalID)

	if uc.cache != nil {
		if cached, ok, err := uc.cache.Get(ctx, key); err == nil && ok {
			var result BalanceResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return &result, nil
			}
		}
	}

	identity, err := uc.identityRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	result := &BalanceResult{
		ExternalID:  identity.ExternalID,
		DisplayName: identity.DisplayName,
		Balance:     identity.Balance,
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(result); err == nil {
			_ = uc.cache.Set(ctx, key, string(encoded), BalanceCacheTTL)
		}
	}

	return result, nil
}

// GetHistoryInput represents input for a history lookup.
type GetHistoryInput struct {
	ExternalID string
	Limit      int
	Offset     int
}

// HistoryResult is the outcome of a history lookup: the current balance
// plus the most recent records, newest first.
type HistoryResult struct {
	Records []*domain.LedgerRecord
	Balance int64
}

// GetHistory returns the most recent ledger records for an external id.
func (uc *QueryUseCase) GetHistory(ctx context.Context, input GetHistoryInput) (*HistoryResult, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultHistoryLimit
	}

	if input.Limit > MaxHistoryLimit {
		input.Limit = MaxHistoryLimit
	}

	if input.Offset < 0 {
		input.Offset = 0
	}

	identity, err := uc.identityRepo.GetByExternalID(ctx, input.ExternalID)
	if err != nil {
		return nil, err
	}

	records, err := uc.recordRepo.ListByIdentity(ctx, identity.ID, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return &HistoryResult{Balance: identity.Balance, Records: records}, nil
}
