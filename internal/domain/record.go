package domain

import "time"

// LedgerRecord is an immutable audit entry capturing exactly one balance
// mutation. Records are append-only: nothing in the codebase updates or
// deletes them after commit.
type LedgerRecord struct {
	CreatedAt         time.Time
	ID                string
	IdentityID        string
	Source            Source
	Reason            string
	ExternalReference string
	Delta             int64
	BalanceBefore     int64
	BalanceAfter      int64
}

// Validate checks the record's internal arithmetic invariant.
func (r *LedgerRecord) Validate() error {
	if r.BalanceAfter != r.BalanceBefore+r.Delta {
		return ErrInconsistentRecord
	}
	if r.BalanceAfter < 0 {
		return ErrInsufficientBalance
	}
	if r.Delta == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// HasReference reports whether the record carries a dedup key.
func (r *LedgerRecord) HasReference() bool {
	return r.ExternalReference != ""
}
