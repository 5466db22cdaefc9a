package usecase

import "time"

const (
	// DefaultHistoryLimit is the page size for history queries when the
	// caller does not supply one.
	DefaultHistoryLimit = 20

	// MaxHistoryLimit caps the page size for history queries.
	MaxHistoryLimit = 100

	// BalanceCacheTTL is how long cached balance lookups stay fresh.
	BalanceCacheTTL = 5 * time.Second
)
