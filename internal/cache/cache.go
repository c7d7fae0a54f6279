package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented store with per-entry TTL. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable, versioned cache key from payload bytes.
// Hashing keeps arbitrarily large request bodies out of the key space.
func Key(payload []byte) string {
	hash := sha256.Sum256(payload)
	return "perisai:v1:" + hex.EncodeToString(hash[:])
}
