package usecase

import (
	"context"
	"time"

	"github.com/iho/coinsync/internal/domain"
)

// IdentityRepository defines data access for identities. Identities are
// created by the external identity resolver; the core reads and mutates
// the balance column only.
type IdentityRepository interface {
	CreateTx(ctx context.Context, tx Transaction, identity *domain.Identity) error
	GetByExternalID(ctx context.Context, externalID string) (*domain.Identity, error)
	GetByExternalIDForUpdate(ctx context.Context, tx Transaction, externalID string) (*domain.Identity, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance int64, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Identity, error)
}

// RecordRepository defines data access for ledger records. Records are
// append-only: the interface deliberately has no update or delete.
type RecordRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.LedgerRecord) error
	GetByReference(ctx context.Context, source domain.Source, reference string) (*domain.LedgerRecord, error)
	GetByReferenceTx(ctx context.Context, tx Transaction, source domain.Source, reference string) (*domain.LedgerRecord, error)
	ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]*domain.LedgerRecord, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// TokenVerifier validates a signed, time-bounded mutation request.
type TokenVerifier interface {
	Verify(externalID string, amount int64, source string, timestamp int64, token string) error
}

// Cache defines read-cache operations for balance lookups.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
