package domain

import "testing"

func TestLedgerRecord_Validate(t *testing.T) {
	tests := []struct {
		name      string
		record    LedgerRecord
		errorType error
	}{
		{
			name:   "valid credit",
			record: LedgerRecord{Delta: 50, BalanceBefore: 100, BalanceAfter: 150},
		},
		{
			name:   "valid debit",
			record: LedgerRecord{Delta: -50, BalanceBefore: 100, BalanceAfter: 50},
		},
		{
			name:      "arithmetic does not hold",
			record:    LedgerRecord{Delta: 50, BalanceBefore: 100, BalanceAfter: 100},
			errorType: ErrInconsistentRecord,
		},
		{
			name:      "negative resulting balance",
			record:    LedgerRecord{Delta: -200, BalanceBefore: 100, BalanceAfter: -100},
			errorType: ErrInsufficientBalance,
		},
		{
			name:      "zero delta",
			record:    LedgerRecord{Delta: 0, BalanceBefore: 100, BalanceAfter: 100},
			errorType: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()

			if tt.errorType == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.errorType != nil && err != tt.errorType {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestLedgerRecord_HasReference(t *testing.T) {
	r := LedgerRecord{ExternalReference: "ref-1"}
	if !r.HasReference() {
		t.Error("expected HasReference to be true")
	}

	r.ExternalReference = ""
	if r.HasReference() {
		t.Error("expected HasReference to be false")
	}
}
