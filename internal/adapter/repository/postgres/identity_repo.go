package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/coinsync/internal/domain"
	"github.com/iho/coinsync/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// IdentityRepository implements usecase.IdentityRepository.
type IdentityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository creates a new IdentityRepository.
func NewIdentityRepository(pool *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

const identityColumns = `id, external_id, display_name, balance, created_at, updated_at`

// CreateTx creates a new identity inside a transaction.
func (r *IdentityRepository) CreateTx(ctx context.Context, tx usecase.Transaction, identity *domain.Identity) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO identities (id, external_id, display_name, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		identity.ID,
		identity.ExternalID,
		identity.DisplayName,
		identity.Balance,
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrIdentityExists
		}

		return err
	}

	return nil
}

// GetByExternalID retrieves an identity by its external id.
func (r *IdentityRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Identity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE external_id = $1
	`, externalID)

	return scanIdentity(row)
}

// GetByExternalIDForUpdate retrieves an identity with a FOR UPDATE lock,
// serializing concurrent mutations on the same identity.
func (r *IdentityRepository) GetByExternalIDForUpdate(ctx context.Context, tx usecase.Transaction, externalID string) (*domain.Identity, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE external_id = $1
		FOR UPDATE
	`, externalID)

	return scanIdentity(row)
}

// UpdateBalance updates the balance of an identity.
func (r *IdentityRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance int64, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE identities
		SET balance = $2, updated_at = $3
		WHERE id = $1
	`, id, balance, updatedAt)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

// List lists identities with pagination, ordered by external id.
func (r *IdentityRepository) List(ctx context.Context, limit, offset int) ([]*domain.Identity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		ORDER BY external_id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []*domain.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}

		identities = append(identities, identity)
	}

	return identities, rows.Err()
}

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var identity domain.Identity

	err := row.Scan(
		&identity.ID,
		&identity.ExternalID,
		&identity.DisplayName,
		&identity.Balance,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}

		return nil, err
	}

	return &identity, nil
}
