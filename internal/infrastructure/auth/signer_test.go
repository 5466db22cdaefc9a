package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/coinsync/internal/domain"
)

func newTestSigner(now time.Time) *Signer {
	s := NewSigner("test-secret", 300*time.Second)
	s.now = func() time.Time { return now }
	return s
}

func TestSignerTokenIsDeterministic(t *testing.T) {
	t.Parallel()

	s := NewSigner("test-secret", 300*time.Second)

	a := s.Token("1001", 50, "media_bot", 1700000000)
	b := s.Token("1001", 50, "media_bot", 1700000000)
	require.Equal(t, a, b)
	require.Len(t, a, 64)

	// Any field change must change the token.
	assert.NotEqual(t, a, s.Token("1002", 50, "media_bot", 1700000000))
	assert.NotEqual(t, a, s.Token("1001", 51, "media_bot", 1700000000))
	assert.NotEqual(t, a, s.Token("1001", 50, "game", 1700000000))
	assert.NotEqual(t, a, s.Token("1001", 50, "media_bot", 1700000001))
}

func TestSignerVerify(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)

	tests := []struct {
		name      string
		timestamp int64
		tamper    func(token string) string
		wantErr   error
	}{
		{
			name:      "valid fresh token",
			timestamp: now.Unix(),
		},
		{
			name:      "just inside past window",
			timestamp: now.Unix() - 300,
		},
		{
			name:      "just inside future window",
			timestamp: now.Unix() + 300,
		},
		{
			name:      "stale timestamp",
			timestamp: now.Unix() - 301,
			wantErr:   domain.ErrExpiredTimestamp,
		},
		{
			name:      "future timestamp",
			timestamp: now.Unix() + 301,
			wantErr:   domain.ErrExpiredTimestamp,
		},
		{
			name:      "tampered token",
			timestamp: now.Unix(),
			tamper:    func(string) string { return "deadbeef" },
			wantErr:   domain.ErrInvalidSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSigner(now)

			token := s.Token("1001", -25, "game", tt.timestamp)
			if tt.tamper != nil {
				token = tt.tamper(token)
			}

			err := s.Verify("1001", -25, "game", tt.timestamp, token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSignerVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)

	other := NewSigner("other-secret", 300*time.Second)
	token := other.Token("1001", 50, "media_bot", now.Unix())

	s := newTestSigner(now)
	err := s.Verify("1001", 50, "media_bot", now.Unix(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}
