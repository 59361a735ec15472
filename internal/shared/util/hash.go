package util

import (
	"crypto/sha256"
	"encoding/hex"
)

const fingerprintLen = 16

// Fingerprint returns a short stable hex digest of s, safe to log in place of the text.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}
