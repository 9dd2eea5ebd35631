package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// stateEntropyBytes gives 128 bits of entropy per state token.
const stateEntropyBytes = 16

// StateIssuer generates the single-use CSRF state tokens that bind an
// authorize redirect to its eventual callback.
type StateIssuer struct {
	rand io.Reader
}

func NewStateIssuer() *StateIssuer {
	return &StateIssuer{rand: rand.Reader}
}

// NewStateIssuerFromReader uses the given entropy source, primarily for
// deterministic tests.
func NewStateIssuerFromReader(r io.Reader) *StateIssuer {
	return &StateIssuer{rand: r}
}

// Issue returns a fresh URL-safe state token.
func (si *StateIssuer) Issue() (string, error) {
	b := make([]byte, stateEntropyBytes)
	if _, err := io.ReadFull(si.rand, b); err != nil {
		return "", fmt.Errorf("[StateIssuer.Issue] rand.Read: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
