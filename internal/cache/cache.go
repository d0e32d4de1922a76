package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores serialized analysis reports keyed by post URL so repeat
// analyses of the same post skip the external services entirely.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a post URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "veritok:v1:" + hex.EncodeToString(hash[:])
}
