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

// CacheKey generates a cache key for one provider's response to a claim text
func CacheKey(source, text string) string {
	hash := sha256.Sum256([]byte(source + "\x00" + text))
	return "veristream:v1:" + hex.EncodeToString(hash[:])
}
