package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex-encoded SHA-256 of data. Site polygons are hashed
// before they enter a cache key, so vertex lists of any size produce
// fixed-width, filename-safe identifiers.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a namespaced cache key, e.g. "layout:<hex>", from the
// JSON encoding of the key components. The full 256-bit digest is kept;
// truncating would invite collisions between similar configurations.
func hashKey(prefix string, components ...any) string {
	data, _ := json.Marshal(components)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
