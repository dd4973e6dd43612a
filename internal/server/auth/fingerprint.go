package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the sha256 hex digest of a refresh token. The server
// stores the fingerprint instead of the token itself; comparing it on
// refresh detects stale or stolen tokens without keeping a token table.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
