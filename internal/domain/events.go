package domain

import "time"

// Event types
const (
	EventTypeRecordCreated   = "ledger.record.created"
	EventTypeIdentityCreated = "identity.created"
)

// Aggregate types
const (
	AggregateTypeRecord   = "ledger_record"
	AggregateTypeIdentity = "identity"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// RecordCreatedEvent payload
type RecordCreatedEvent struct {
	RecordID          string `json:"record_id"`
	ExternalID        string `json:"external_id"`
	Delta             int64  `json:"delta"`
	BalanceAfter      int64  `json:"balance_after"`
	Source            string `json:"source"`
	ExternalReference string `json:"external_reference,omitempty"`
}

// IdentityCreatedEvent payload
type IdentityCreatedEvent struct {
	IdentityID  string `json:"identity_id"`
	ExternalID  string `json:"external_id"`
	DisplayName string `json:"display_name"`
}
