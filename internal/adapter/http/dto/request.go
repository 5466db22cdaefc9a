package dto

import (
	"github.com/iho/coinsync/internal/usecase"
)

// MutateRequest represents a signed single-mutation request.
type MutateRequest struct {
	ExternalID        string `json:"external_id"`
	Source            string `json:"source"`
	Reason            string `json:"reason"`
	ExternalReference string `json:"external_reference,omitempty"`
	Token             string `json:"token"`
	Amount            int64  `json:"amount"`
	Timestamp         int64  `json:"timestamp"`
}

// ToUseCaseInput converts to use case input.
func (r *MutateRequest) ToUseCaseInput() usecase.SignedMutationInput {
	return usecase.SignedMutationInput{
		ExternalID:        r.ExternalID,
		Amount:            r.Amount,
		Source:            r.Source,
		Reason:            r.Reason,
		ExternalReference: r.ExternalReference,
		Timestamp:         r.Timestamp,
		Token:             r.Token,
	}
}

// BatchRequest represents a signed batch mutation request.
type BatchRequest struct {
	Source    string             `json:"source"`
	Token     string             `json:"token"`
	Items     []BatchItemRequest `json:"items"`
	Timestamp int64              `json:"timestamp"`
}

// BatchItemRequest is one line item of a batch request.
type BatchItemRequest struct {
	ExternalID        string `json:"external_id"`
	Reason            string `json:"reason"`
	ExternalReference string `json:"external_reference,omitempty"`
	Amount            int64  `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *BatchRequest) ToUseCaseInput() usecase.BatchInput {
	items := make([]usecase.BatchItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = usecase.BatchItem{
			ExternalID:        item.ExternalID,
			Amount:            item.Amount,
			Reason:            item.Reason,
			ExternalReference: item.ExternalReference,
		}
	}

	return usecase.BatchInput{
		Source:    r.Source,
		Items:     items,
		Timestamp: r.Timestamp,
		Token:     r.Token,
	}
}

// CreateIdentityRequest represents a request to seed an identity.
type CreateIdentityRequest struct {
	ExternalID     string `json:"external_id"`
	DisplayName    string `json:"display_name"`
	InitialBalance int64  `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateIdentityRequest) ToUseCaseInput() usecase.CreateIdentityInput {
	return usecase.CreateIdentityInput{
		ExternalID:     r.ExternalID,
		DisplayName:    r.DisplayName,
		InitialBalance: r.InitialBalance,
	}
}
