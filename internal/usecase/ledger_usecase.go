package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/coinsync/internal/domain"
)

// LedgerUseCase applies balance mutations. Each mutation runs as one
// transaction: lock the identity row, check the dedup reference, check
// sufficiency for debits, update the balance, append the ledger record and
// the outbox event. Two concurrent mutations on the same identity serialize
// on the row lock; a lost race on the (source, reference) unique index is
// converted into an idempotent replay, never a hard error.
type LedgerUseCase struct {
	txManager    TransactionManager
	identityRepo IdentityRepository
	recordRepo   RecordRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	cache        Cache
	retrier      Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase. cache and retrier may be
// nil, in which case invalidation and retry are skipped.
func NewLedgerUseCase(
	txManager TransactionManager,
	identityRepo IdentityRepository,
	recordRepo RecordRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	retrier Retrier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		identityRepo: identityRepo,
		recordRepo:   recordRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		cache:        cache,
		retrier:      retrier,
	}
}

// MutateInput represents one balance mutation.
type MutateInput struct {
	ExternalID        string
	Delta             int64
	Source            domain.Source
	Reason            string
	ExternalReference string
}

// MutationResult is the outcome of an accepted mutation or replay.
type MutationResult struct {
	Record   *domain.LedgerRecord
	Balance  int64
	Replayed bool
}

// SignedMutationInput is a mutation request from an external source system,
// carrying the raw wire fields plus the signature token.
type SignedMutationInput struct {
	ExternalID        string
	Amount            int64
	Source            string
	Reason            string
	ExternalReference string
	Timestamp         int64
	Token             string
}

// ApplySigned authenticates a mutation request and applies it.
func (uc *LedgerUseCase) ApplySigned(ctx context.Context, verifier TokenVerifier, input SignedMutationInput) (*MutationResult, error) {
	if err := verifier.Verify(input.ExternalID, input.Amount, input.Source, input.Timestamp, input.Token); err != nil {
		return nil, err
	}

	source, err := domain.ParseSource(input.Source)
	if err != nil {
		return nil, err
	}

	return uc.Mutate(ctx, MutateInput{
		ExternalID:        input.ExternalID,
		Delta:             input.Amount,
		Source:            source,
		Reason:            input.Reason,
		ExternalReference: input.ExternalReference,
	})
}

// Mutate atomically applies a balance delta and appends one ledger record.
// A mutation whose (source, reference) pair was already applied returns the
// previously recorded outcome with Replayed set.
func (uc *LedgerUseCase) Mutate(ctx context.Context, input MutateInput) (*MutationResult, error) {
	if input.Delta == 0 {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := domain.ParseSource(input.Source.String()); err != nil {
		return nil, err
	}

	var result *MutationResult

	op := func() error {
		r, err := uc.mutateTx(ctx, input)
		if err != nil {
			return err
		}
		result = r

		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}

	if err != nil {
		// A lost race on the unique index aborts the transaction after
		// another request committed the same (source, reference). Return
		// that request's outcome.
		if errors.Is(err, domain.ErrDuplicateReference) && input.ExternalReference != "" {
			prior, readErr := uc.recordRepo.GetByReference(ctx, input.Source, input.ExternalReference)
			if readErr != nil {
				return nil, readErr
			}

			return &MutationResult{Record: prior, Balance: prior.BalanceAfter, Replayed: true}, nil
		}

		return nil, err
	}

	if !result.Replayed {
		uc.invalidateBalance(ctx, input.ExternalID)
	}

	return result, nil
}

func (uc *LedgerUseCase) mutateTx(ctx context.Context, input MutateInput) (*MutationResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	identity, err := uc.identityRepo.GetByExternalIDForUpdate(ctx, tx, input.ExternalID)
	if err != nil {
		return nil, err
	}

	// Idempotency guard: the check shares the transaction with the
	// mutation, so it cannot observe a half-applied sibling.
	if input.ExternalReference != "" {
		prior, err := uc.recordRepo.GetByReferenceTx(ctx, tx, input.Source, input.ExternalReference)
		if err == nil {
			return &MutationResult{Record: prior, Balance: prior.BalanceAfter, Replayed: true}, nil
		}

		if !errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := identity.ValidateDelta(input.Delta); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := identity.ApplyDelta(input.Delta)

	record := &domain.LedgerRecord{
		ID:                uc.idGen.Generate(),
		IdentityID:        identity.ID,
		Delta:             input.Delta,
		BalanceBefore:     identity.Balance,
		BalanceAfter:      newBalance,
		Source:            input.Source,
		Reason:            input.Reason,
		ExternalReference: input.ExternalReference,
		CreatedAt:         now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := uc.recordRepo.Create(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := uc.identityRepo.UpdateBalance(ctx, tx, identity.ID, newBalance, now); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   record.ID,
			AggregateType: domain.AggregateTypeRecord,
			EventType:     domain.EventTypeRecordCreated,
			Payload: map[string]any{
				"record_id":          record.ID,
				"external_id":        identity.ExternalID,
				"delta":              record.Delta,
				"balance_after":      record.BalanceAfter,
				"source":             record.Source.String(),
				"external_reference": record.ExternalReference,
			},
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &MutationResult{Record: record, Balance: newBalance}, nil
}

func (uc *LedgerUseCase) invalidateBalance(ctx context.Context, externalID string) {
	if uc.cache == nil {
		return
	}

	// Best effort: a stale cache entry expires on its own TTL anyway.
	_ = uc.cache.Delete(ctx, balanceCacheKey(externalID))
}

func balanceCacheKey(externalID string) string {
	return "balance:" + externalID
}
