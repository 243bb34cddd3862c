// Package hash provides the small hashing helpers used for log
// anonymization.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// IPHashPrefix produces a short, irreversible hash prefix of an IP address
// for log correlation without storing raw PII.
func IPHashPrefix(ip string, prefixLen int) string {
	full := SHA256Hex(ip)
	if prefixLen > len(full) {
		return full
	}
	return full[:prefixLen]
}
