package domain

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credential is the single shared admin secret. It gates writes; it is not an authorization model.
type Credential struct {
	secret []byte
	hash   []byte
}

// NewCredential accepts a plain secret, a bcrypt hash, or both (the hash wins).
// With neither configured every comparison fails.
func NewCredential(secret, bcryptHash string) Credential {
	c := Credential{}
	if secret != "" {
		c.secret = []byte(secret)
	}
	if h := strings.TrimSpace(bcryptHash); h != "" {
		c.hash = []byte(h)
	}
	return c
}

// Configured reports whether any secret is set.
func (c Credential) Configured() bool {
	return len(c.secret) > 0 || len(c.hash) > 0
}

// Matches compares a presented secret against the configured one.
func (c Credential) Matches(presented string) bool {
	if presented == "" {
		return false
	}
	if len(c.hash) > 0 {
		return bcrypt.CompareHashAndPassword(c.hash, []byte(presented)) == nil
	}
	if len(c.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(c.secret, []byte(presented)) == 1
}

// BearerToken extracts the secret from an "Authorization: Bearer <secret>" header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
