package usecase

import (
	"context"

	"github.com/iho/coinsync/internal/domain"
)

// BatchUseCase applies an ordered list of mutations under one
// authenticating context. Each item runs in its own transaction; a failing
// item never rolls back or blocks its siblings. Processing is sequential so
// partial-failure reporting stays strictly ordered.
type BatchUseCase struct {
	ledger *LedgerUseCase
}

// NewBatchUseCase creates a new BatchUseCase.
func NewBatchUseCase(ledger *LedgerUseCase) *BatchUseCase {
	return &BatchUseCase{ledger: ledger}
}

// BatchItem is one line item of a batch mutation.
type BatchItem struct {
	ExternalID        string
	Amount            int64
	Reason            string
	ExternalReference string
}

// BatchInput is a signed batch mutation request. The token covers the
// fields of the first item only; this mirrors how the source systems sign
// batches today.
type BatchInput struct {
	Source    string
	Items     []BatchItem
	Timestamp int64
	Token     string
}

// BatchItemResult is the per-item outcome, positionally aligned with the
// input items.
type BatchItemResult struct {
	ExternalID string
	Message    string
	Balance    int64
	Success    bool
}

// BatchResult aggregates a batch run.
type BatchResult struct {
	Details      []BatchItemResult
	Total        int
	SuccessCount int
	FailedCount  int
}

// ApplyBatch authenticates the batch and applies its items in order.
func (uc *BatchUseCase) ApplyBatch(ctx context.Context, verifier TokenVerifier, input BatchInput) (*BatchResult, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	source, err := domain.ParseSource(input.Source)
	if err != nil {
		return nil, err
	}

	first := input.Items[0]
	if err := verifier.Verify(first.ExternalID, first.Amount, input.Source, input.Timestamp, input.Token); err != nil {
		return nil, err
	}

	result := &BatchResult{
		Total:   len(input.Items),
		Details: make([]BatchItemResult, 0, len(input.Items)),
	}

	for _, item := range input.Items {
		itemResult := uc.applyItem(ctx, source, item)
		if itemResult.Success {
			result.SuccessCount++
		} else {
			result.FailedCount++
		}

		result.Details = append(result.Details, itemResult)
	}

	return result, nil
}

func (uc *BatchUseCase) applyItem(ctx context.Context, source domain.Source, item BatchItem) BatchItemResult {
	res, err := uc.ledger.Mutate(ctx, MutateInput{
		ExternalID:        item.ExternalID,
		Delta:             item.Amount,
		Source:            source,
		Reason:            item.Reason,
		ExternalReference: item.ExternalReference,
	})
	if err != nil {
		return BatchItemResult{
			ExternalID: item.ExternalID,
			Success:    false,
			Message:    err.Error(),
		}
	}

	message := "ok"
	if res.Replayed {
		message = "already applied"
	}

	return BatchItemResult{
		ExternalID: item.ExternalID,
		Success:    true,
		Message:    message,
		Balance:    res.Balance,
	}
}
