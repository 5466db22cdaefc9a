package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/iho/coinsync/internal/domain"
)

// Signer validates signed, time-bounded mutation requests from source
// systems. The token formula is
//
//	hex(HMAC-SHA256(secret, "{external_id}:{amount}:{source}:{timestamp}"))
//
// with the timestamp in Unix seconds. A request is valid only while its
// timestamp is within the freshness window on either side of server time.
type Signer struct {
	secret []byte
	window time.Duration
	now    func() time.Time
}

// NewSigner creates a new Signer. The secret comes from configuration and
// must never be compiled in.
func NewSigner(secret string, window time.Duration) *Signer {
	return &Signer{
		secret: []byte(secret),
		window: window,
		now:    time.Now,
	}
}

// Token computes the signature for the given request fields.
func (s *Signer) Token(externalID string, amount int64, source string, timestamp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d:%s:%d", externalID, amount, source, timestamp)

	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the supplied token against the expected signature and
// enforces the freshness window. Timestamps too far in the future are
// rejected the same as stale ones.
func (s *Signer) Verify(externalID string, amount int64, source string, timestamp int64, token string) error {
	expected := s.Token(externalID, amount, source, timestamp)
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return domain.ErrInvalidSignature
	}

	drift := s.now().Unix() - timestamp
	if drift < 0 {
		drift = -drift
	}

	if time.Duration(drift)*time.Second > s.window {
		return domain.ErrExpiredTimestamp
	}

	return nil
}
