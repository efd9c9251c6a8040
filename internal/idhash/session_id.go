// Package idhash computes deterministic identifiers for persisted records.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputeSessionID computes a deterministic session ID using SHA256.
// Formula: SHA256(name|started_at|nonce)
// Returns hex-encoded hash (64 characters).
func ComputeSessionID(name string, startedAt int64, nonce string) string {
	data := fmt.Sprintf("%s|%d|%s", name, startedAt, nonce)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ShortID returns a compact base58 rendering of the first 8 bytes of a hex
// ID, for display and file naming. Falls back to the input when it is not a
// hex hash.
func ShortID(id string) string {
	raw, err := hex.DecodeString(id)
	if err != nil || len(raw) < 8 {
		return id
	}
	return base58.Encode(raw[:8])
}
