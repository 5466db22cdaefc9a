package usecase

import (
	"context"
	"time"

	"github.com/iho/coinsync/internal/domain"
)

// IdentityUseCase creates identities for local and dev bootstrap. In
// production the identity resolver owns the identities table and this path
// is disabled at the router.
type IdentityUseCase struct {
	txManager    TransactionManager
	identityRepo IdentityRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
}

// NewIdentityUseCase creates a new IdentityUseCase.
func NewIdentityUseCase(txManager TransactionManager, identityRepo IdentityRepository, outboxRepo OutboxRepository, idGen IDGenerator) *IdentityUseCase {
	return &IdentityUseCase{
		txManager:    txManager,
		identityRepo: identityRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// CreateIdentityInput represents input for creating an identity.
type CreateIdentityInput struct {
	ExternalID     string
	DisplayName    string
	InitialBalance int64
}

// CreateIdentity creates an identity with an initial balance.
func (uc *IdentityUseCase) CreateIdentity(ctx context.Context, input CreateIdentityInput) (*domain.Identity, error) {
	if input.InitialBalance < 0 {
		return nil, domain.ErrInsufficientBalance
	}

	now := time.Now().UTC()

	identity := &domain.Identity{
		ID:          uc.idGen.Generate(),
		ExternalID:  input.ExternalID,
		DisplayName: input.DisplayName,
		Balance:     input.InitialBalance,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.identityRepo.CreateTx(ctx, tx, identity); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   identity.ID,
			AggregateType: domain.AggregateTypeIdentity,
			EventType:     domain.EventTypeIdentityCreated,
			Payload: map[string]any{
				"identity_id":  identity.ID,
				"external_id":  identity.ExternalID,
				"display_name": identity.DisplayName,
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

	return identity, nil
}
