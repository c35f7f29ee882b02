package keys

import (
	"crypto/sha256"
	"encoding/hex"
)

// Storage returns the storage key for userKey under namespace ns.
// An empty namespace leaves the key untouched.
func Storage(ns, userKey string) string {
	if ns == "" {
		return userKey
	}
	return ns + ":" + userKey
}

// Redact returns a short, stable hash of k (first 8 bytes of SHA-256, hex).
func Redact(k string) string {
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}
