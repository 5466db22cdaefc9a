package dto

import (
	"reflect"
	"testing"

	"github.com/iho/coinsync/internal/usecase"
)

func TestMutateRequestToUseCaseInput(t *testing.T) {
	req := &MutateRequest{
		ExternalID:        "user-42",
		Amount:            -25,
		Source:            "game",
		Reason:            "shop purchase",
		ExternalReference: "order-99",
		Timestamp:         1700000000,
		Token:             "deadbeef",
	}

	got := req.ToUseCaseInput()
	want := usecase.SignedMutationInput{
		ExternalID:        "user-42",
		Amount:            -25,
		Source:            "game",
		Reason:            "shop purchase",
		ExternalReference: "order-99",
		Timestamp:         1700000000,
		Token:             "deadbeef",
	}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestBatchRequestToUseCaseInput(t *testing.T) {
	req := &BatchRequest{
		Source:    "media_bot",
		Timestamp: 1700000000,
		Token:     "cafebabe",
		Items: []BatchItemRequest{
			{ExternalID: "user-1", Amount: 10, Reason: "event reward", ExternalReference: "ref-1"},
			{ExternalID: "user-2", Amount: -5, Reason: "penalty"},
		},
	}

	got := req.ToUseCaseInput()
	want := usecase.BatchInput{
		Source:    "media_bot",
		Timestamp: 1700000000,
		Token:     "cafebabe",
		Items: []usecase.BatchItem{
			{ExternalID: "user-1", Amount: 10, Reason: "event reward", ExternalReference: "ref-1"},
			{ExternalID: "user-2", Amount: -5, Reason: "penalty"},
		},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestCreateIdentityRequestToUseCaseInput(t *testing.T) {
	req := &CreateIdentityRequest{
		ExternalID:     "user-42",
		DisplayName:    "Player 42",
		InitialBalance: 100,
	}

	got := req.ToUseCaseInput()
	want := usecase.CreateIdentityInput{
		ExternalID:     "user-42",
		DisplayName:    "Player 42",
		InitialBalance: 100,
	}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}
