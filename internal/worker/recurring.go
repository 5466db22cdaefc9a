package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/coinsync/internal/domain"
	"github.com/iho/coinsync/internal/usecase"
)

const listPageSize = 500

// RecurringReward periodically credits every identity with a fixed amount.
// The reference "recurring:{period}:{external_id}" makes each run
// idempotent: a restart inside the same period replays instead of
// double-crediting.
type RecurringReward struct {
	ledgerUC     *usecase.LedgerUseCase
	identityRepo usecase.IdentityRepository
	logger       zerolog.Logger
	amount       int64
	interval     time.Duration
	now          func() time.Time
}

// NewRecurringReward creates the worker. A zero amount disables it.
func NewRecurringReward(
	ledgerUC *usecase.LedgerUseCase,
	identityRepo usecase.IdentityRepository,
	logger zerolog.Logger,
	amount int64,
	interval time.Duration,
) *RecurringReward {
	return &RecurringReward{
		ledgerUC:     ledgerUC,
		identityRepo: identityRepo,
		logger:       logger,
		amount:       amount,
		interval:     interval,
		now:          time.Now,
	}
}

// Start runs the worker until the context is cancelled.
func (w *RecurringReward) Start(ctx context.Context) error {
	if w.amount <= 0 {
		w.logger.Info().Msg("recurring reward disabled")
		<-ctx.Done()

		return ctx.Err()
	}

	w.logger.Info().
		Int64("amount", w.amount).
		Dur("interval", w.interval).
		Msg("recurring reward worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.runOnce(ctx); err != nil {
		w.logger.Error().Err(err).Msg("recurring reward run failed")
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("recurring reward worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.logger.Error().Err(err).Msg("recurring reward run failed")
			}
		}
	}
}

// runOnce credits every identity for the current period.
func (w *RecurringReward) runOnce(ctx context.Context) error {
	reference := w.periodReference()

	offset := 0
	for {
		identities, err := w.identityRepo.List(ctx, listPageSize, offset)
		if err != nil {
			return err
		}

		if len(identities) == 0 {
			return nil
		}

		for _, identity := range identities {
			result, err := w.ledgerUC.Mutate(ctx, usecase.MutateInput{
				ExternalID:        identity.ExternalID,
				Delta:             w.amount,
				Source:            domain.SourceScheduler,
				Reason:            "recurring reward",
				ExternalReference: fmt.Sprintf("%s:%s", reference, identity.ExternalID),
			})
			if err != nil {
				// Identities removed mid-run are skipped, not fatal.
				if errors.Is(err, domain.ErrIdentityNotFound) {
					continue
				}

				return err
			}

			if !result.Replayed {
				w.logger.Debug().
					Str("external_id", identity.ExternalID).
					Int64("balance", result.Balance).
					Msg("recurring reward credited")
			}
		}

		offset += len(identities)
	}
}

// periodReference derives the dedup reference for the current period.
func (w *RecurringReward) periodReference() string {
	period := w.now().UTC().Truncate(w.interval).Format("2006-01-02T15:04:05")
	return "recurring:" + period
}
