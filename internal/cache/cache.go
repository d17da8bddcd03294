package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a content-addressed cache key from the given parts. Each part
// is hashed with a trailing separator byte so ("ab", "c") and ("a", "bc")
// never collide.
func Key(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "prdgen:v1:" + hex.EncodeToString(h.Sum(nil))
}
