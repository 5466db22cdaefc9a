package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSignTokenMatchesFormula(t *testing.T) {
	const (
		testSecret = "test-secret"
		externalID = "user-42"
		source     = "game"
	)
	var (
		amount    int64 = -25
		timestamp int64 = 1700000000
	)

	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%s:%d:%s:%d", externalID, amount, source, timestamp)
	want := hex.EncodeToString(mac.Sum(nil))

	if got := signToken(testSecret, externalID, amount, source, timestamp); got != want {
		t.Fatalf("signToken = %q, want %q", got, want)
	}
}

func TestMutatePayload(t *testing.T) {
	payload := mutatePayload("s", "user-1", 50, "game", "quest", "quest-7", 1700000000)

	if payload["external_id"] != "user-1" || payload["amount"].(int64) != 50 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload["reason"] != "quest" || payload["external_reference"] != "quest-7" {
		t.Fatalf("optional fields missing: %+v", payload)
	}
	if payload["token"] != signToken("s", "user-1", 50, "game", 1700000000) {
		t.Fatalf("token does not cover the wire fields")
	}
}

func TestMutatePayloadOmitsEmptyOptionals(t *testing.T) {
	payload := mutatePayload("s", "user-1", 50, "game", "", "", 1700000000)

	if _, ok := payload["reason"]; ok {
		t.Fatalf("expected reason to be omitted")
	}
	if _, ok := payload["external_reference"]; ok {
		t.Fatalf("expected external_reference to be omitted")
	}
}

func TestBatchPayloadSignsFirstItem(t *testing.T) {
	items := []batchItem{
		{ExternalID: "user-1", Amount: 10},
		{ExternalID: "user-2", Amount: -5},
	}

	payload := batchPayload("s", "media_bot", items, 1700000000)

	if payload["token"] != signToken("s", "user-1", 10, "media_bot", 1700000000) {
		t.Fatalf("expected token over the first item's fields")
	}
}

func TestBalanceCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/identities/user-42/balance" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data":    map[string]any{"external_id": "user-42", "balance": 150},
		})
	}))
	defer server.Close()

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"balance", "user-42", "--url", server.URL})

	if err := root.Execute(); err != nil {
		t.Fatalf("balance command failed: %v", err)
	}

	if !strings.Contains(out.String(), `"balance": 150`) {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestMutateCommandSendsSignedBody(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "applied"})
	}))
	defer server.Close()

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{
		"mutate",
		"--url", server.URL,
		"--secret", "test-secret",
		"--external-id", "user-42",
		"--amount", "25",
		"--source", "game",
		"--reason", "quest reward",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("mutate command failed: %v", err)
	}

	if received["external_id"] != "user-42" || received["source"] != "game" {
		t.Fatalf("unexpected request body: %+v", received)
	}

	timestamp := int64(received["timestamp"].(float64))
	want := signToken("test-secret", "user-42", 25, "game", timestamp)
	if received["token"] != want {
		t.Fatalf("expected token %q, got %v", want, received["token"])
	}
}

func TestHistoryCommandErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "identity not found"})
	}))
	defer server.Close()

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"history", "ghost", "--url", server.URL})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
