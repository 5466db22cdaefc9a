package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/coinsync/internal/domain"
	"github.com/iho/coinsync/internal/usecase"
)

// RecordRepository implements usecase.RecordRepository. Ledger records are
// append-only: this type exposes no update or delete.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

const recordColumns = `id, identity_id, delta, balance_before, balance_after,
	source, reason, external_reference, created_at`

// Create appends a ledger record inside a transaction. A unique-violation
// on the (source, external_reference) index is reported as
// domain.ErrDuplicateReference so the caller can treat the lost race as an
// idempotent replay.
func (r *RecordRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.LedgerRecord) error {
	pgxTx := tx.(*Tx).PgxTx()

	var reference any
	if record.HasReference() {
		reference = record.ExternalReference
	}

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO ledger_records (
			id, identity_id, delta, balance_before, balance_after,
			source, reason, external_reference, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		record.ID,
		record.IdentityID,
		record.Delta,
		record.BalanceBefore,
		record.BalanceAfter,
		record.Source.String(),
		record.Reason,
		reference,
		record.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateReference
		}

		return err
	}

	return nil
}

// GetByReference retrieves the record for a (source, reference) pair.
func (r *RecordRepository) GetByReference(ctx context.Context, source domain.Source, reference string) (*domain.LedgerRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM ledger_records
		WHERE source = $1 AND external_reference = $2
	`, source.String(), reference)

	return scanRecord(row)
}

// GetByReferenceTx is GetByReference inside the mutation transaction, so
// the idempotency check shares the atomic unit with the mutation itself.
func (r *RecordRepository) GetByReferenceTx(ctx context.Context, tx usecase.Transaction, source domain.Source, reference string) (*domain.LedgerRecord, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM ledger_records
		WHERE source = $1 AND external_reference = $2
	`, source.String(), reference)

	return scanRecord(row)
}

// ListByIdentity retrieves records for an identity, newest first.
func (r *RecordRepository) ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]*domain.LedgerRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM ledger_records
		WHERE identity_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, identityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.LedgerRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func scanRecord(row pgx.Row) (*domain.LedgerRecord, error) {
	var (
		record    domain.LedgerRecord
		source    string
		reference *string
	)

	err := row.Scan(
		&record.ID,
		&record.IdentityID,
		&record.Delta,
		&record.BalanceBefore,
		&record.BalanceAfter,
		&source,
		&record.Reason,
		&reference,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	record.Source = domain.Source(source)
	if reference != nil {
		record.ExternalReference = *reference
	}

	return &record, nil
}
