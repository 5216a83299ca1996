package auth

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwpark-dev/tripnote/pkg/crypto"
)

var (
	// ErrStateExpired is returned when the callback arrives after the state lifetime.
	ErrStateExpired = errors.New("oauth state: expired")
	// ErrStateInvalid is returned when the state string cannot be decrypted or parsed.
	ErrStateInvalid = errors.New("oauth state: invalid")
)

// StateCodec encodes and decodes the opaque state parameter carried through an
// external login round trip. The payload is AES-GCM encrypted so the provider
// and the browser both see only ciphertext.
type StateCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// StatePayload is the data required to validate the provider callback.
type StatePayload struct {
	Nonce    string    `json:"n"`
	IssuedAt time.Time `json:"iat"`
}

// NewStateCodec builds a codec keyed off the application secret. The key is
// derived with SHA-256 so any secret length yields a valid AES-256 key.
func NewStateCodec(secret string, ttl time.Duration, now func() time.Time) (*StateCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("oauth state: secret is required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	key := sha256.Sum256([]byte(secret))
	return &StateCodec{
		key: key[:],
		ttl: ttl,
		now: now,
	}, nil
}

// Encode encrypts a fresh payload into a compact state string.
func (c *StateCodec) Encode() (string, error) {
	nonce, err := crypto.GenerateToken(16)
	if err != nil {
		return "", fmt.Errorf("oauth state: generate nonce: %w", err)
	}

	payload := StatePayload{
		Nonce:    nonce,
		IssuedAt: c.now().UTC(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("oauth state: marshal payload: %w", err)
	}

	encoded, err := crypto.Encrypt(raw, c.key)
	if err != nil {
		return "", fmt.Errorf("oauth state: encrypt payload: %w", err)
	}

	return encoded, nil
}

// Decode decrypts the state string back into a payload while enforcing expiry.
func (c *StateCodec) Decode(token string) (StatePayload, error) {
	var payload StatePayload
	if strings.TrimSpace(token) == "" {
		return payload, ErrStateInvalid
	}

	raw, err := crypto.Decrypt(token, c.key)
	if err != nil {
		return payload, ErrStateInvalid
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, ErrStateInvalid
	}

	if payload.Nonce == "" || payload.IssuedAt.IsZero() {
		return payload, ErrStateInvalid
	}

	if c.now().UTC().After(payload.IssuedAt.Add(c.ttl)) {
		return payload, ErrStateExpired
	}

	return payload, nil
}
