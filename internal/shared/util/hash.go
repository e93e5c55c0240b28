package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// UserKey returns a filesystem-safe identifier for a caller-supplied user ID.
// Anonymous callers (empty ID) share one stable bucket.
func UserKey(s string) string {
	if strings.TrimSpace(s) == "" {
		return "anonymous"
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
