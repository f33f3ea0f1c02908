// Package webhook authenticates inbound gateway callbacks.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Authenticator checks the verif-hash signature on webhook deliveries.
type Authenticator struct {
	secretHash       []byte
	requireSignature bool
}

// NewAuthenticator creates an Authenticator. When secretHash is empty,
// requireSignature decides whether deliveries are rejected or accepted
// unverified.
func NewAuthenticator(secretHash string, requireSignature bool) *Authenticator {
	return &Authenticator{
		secretHash:       []byte(secretHash),
		requireSignature: requireSignature,
	}
}

// Enabled reports whether a secret hash is configured.
func (a *Authenticator) Enabled() bool {
	return len(a.secretHash) > 0
}

// Verify reports whether signature is the HMAC-SHA256 of the canonical form
// of payload. It returns false when no secret is configured or the payload
// is not valid JSON.
func (a *Authenticator) Verify(payload []byte, signature string) bool {
	if !a.Enabled() {
		return false
	}

	expected, err := sign(a.secretHash, payload)
	if err != nil {
		return false
	}

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Allow applies the operator policy: with a secret configured the signature
// must verify, without one the delivery passes unless signatures are required.
func (a *Authenticator) Allow(payload []byte, signature string) bool {
	if !a.Enabled() {
		return !a.requireSignature
	}
	return a.Verify(payload, signature)
}

// Sign computes the signature the gateway would send for payload.
func Sign(secretHash string, payload []byte) (string, error) {
	if secretHash == "" {
		return "", fmt.Errorf("secret hash is empty")
	}
	return sign([]byte(secretHash), payload)
}

func sign(secret, payload []byte) (string, error) {
	canonical, err := Canonicalize(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalize payload: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
