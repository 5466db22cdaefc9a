package dto

import (
	"time"

	"github.com/iho/coinsync/internal/domain"
	"github.com/iho/coinsync/internal/usecase"
)

// Envelope is the uniform response wrapper. Data is omitted on errors.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// MutationData is the data payload of an accepted mutation.
type MutationData struct {
	RecordID   string `json:"record_id"`
	ExternalID string `json:"external_id"`
	Balance    int64  `json:"balance"`
	Delta      int64  `json:"delta"`
	Replayed   bool   `json:"replayed"`
}

// MutationFromResult converts a use case result to a response payload.
func MutationFromResult(externalID string, result *usecase.MutationResult) *MutationData {
	return &MutationData{
		RecordID:   result.Record.ID,
		ExternalID: externalID,
		Balance:    result.Balance,
		Delta:      result.Record.Delta,
		Replayed:   result.Replayed,
	}
}

// BatchData is the data payload of a batch run.
type BatchData struct {
	Details      []BatchItemData `json:"details"`
	Total        int             `json:"total"`
	SuccessCount int             `json:"success_count"`
	FailedCount  int             `json:"failed_count"`
}

// BatchItemData is the outcome of one batch item.
type BatchItemData struct {
	ExternalID string `json:"external_id"`
	Message    string `json:"message"`
	Balance    int64  `json:"balance"`
	Success    bool   `json:"success"`
}

// BatchFromResult converts a use case result to a response payload.
func BatchFromResult(result *usecase.BatchResult) *BatchData {
	details := make([]BatchItemData, len(result.Details))
	for i, d := range result.Details {
		details[i] = BatchItemData{
			ExternalID: d.ExternalID,
			Message:    d.Message,
			Balance:    d.Balance,
			Success:    d.Success,
		}
	}

	return &BatchData{
		Details:      details,
		Total:        result.Total,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
	}
}

// BalanceData is the data payload of a balance lookup.
type BalanceData struct {
	ExternalID  string `json:"external_id"`
	DisplayName string `json:"display_name"`
	Balance     int64  `json:"balance"`
}

// BalanceFromResult converts a use case result to a response payload.
func BalanceFromResult(result *usecase.BalanceResult) *BalanceData {
	return &BalanceData{
		ExternalID:  result.ExternalID,
		DisplayName: result.DisplayName,
		Balance:     result.Balance,
	}
}

// RecordData represents a ledger record in API responses.
type RecordData struct {
	CreatedAt         time.Time `json:"created_at"`
	ID                string    `json:"id"`
	Source            string    `json:"source"`
	Reason            string    `json:"reason"`
	ExternalReference string    `json:"external_reference,omitempty"`
	Delta             int64     `json:"delta"`
	BalanceAfter      int64     `json:"balance_after"`
}

// HistoryData is the data payload of a history lookup.
type HistoryData struct {
	Records []RecordData `json:"records"`
	Balance int64        `json:"balance"`
}

// HistoryFromResult converts a use case result to a response payload.
func HistoryFromResult(result *usecase.HistoryResult) *HistoryData {
	records := make([]RecordData, len(result.Records))
	for i, r := range result.Records {
		records[i] = RecordData{
			CreatedAt:         r.CreatedAt,
			ID:                r.ID,
			Source:            r.Source.String(),
			Reason:            r.Reason,
			ExternalReference: r.ExternalReference,
			Delta:             r.Delta,
			BalanceAfter:      r.BalanceAfter,
		}
	}

	return &HistoryData{
		Records: records,
		Balance: result.Balance,
	}
}

// IdentityData represents an identity in API responses.
type IdentityData struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	Balance     int64     `json:"balance"`
}

// IdentityFromDomain converts a domain identity to a response payload.
func IdentityFromDomain(identity *domain.Identity) *IdentityData {
	return &IdentityData{
		CreatedAt:   identity.CreatedAt,
		ID:          identity.ID,
		ExternalID:  identity.ExternalID,
		DisplayName: identity.DisplayName,
		Balance:     identity.Balance,
	}
}
