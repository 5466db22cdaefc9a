package domain

import "time"

// Identity is the canonical owner of a single integer balance, addressed by
// the external id assigned by the identity resolver.
type Identity struct {
	ID          string
	ExternalID  string
	DisplayName string
	Balance     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateDelta checks whether the balance covers delta. Credits always
// pass; a debit must not take the balance below zero.
func (i *Identity) ValidateDelta(delta int64) error {
	if delta < 0 && i.Balance+delta < 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// ApplyDelta returns the balance after delta.
func (i *Identity) ApplyDelta(delta int64) int64 {
	return i.Balance + delta
}
