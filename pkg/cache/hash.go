package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ArtifactKeyOpts captures the rendering options that affect artifact
// bytes. Two renders with the same document hash but different options
// must not share a cache entry.
type ArtifactKeyOpts struct {
	Format         string `json:"format"`
	Detailed       bool   `json:"detailed"`
	IncludeOrphans bool   `json:"include_orphans"`
}

// ArtifactKey builds the cache key for a rendered artifact from the
// source document's content hash and the rendering options.
func ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}
