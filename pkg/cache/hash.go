package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Key generates a cache key by hashing the raw component under a prefix.
// The key format is: prefix:hash(raw). Hashing keeps arbitrary URLs out of
// redis key space and bounds key length.
func Key(prefix, raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}
