package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey derives "<kind>:<sha256>" for a cached merge result or readiness
// report. The digest covers the tree hash and the JSON form of opts, so
// adding a field to [MergeKeyOpts] or [CheckKeyOpts] invalidates old keys.
func hashKey(kind, treeHash string, opts any) string {
	h := sha256.New()
	h.Write([]byte(treeHash))
	h.Write([]byte{0})
	_ = json.NewEncoder(h).Encode(opts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. The pipeline hashes the canonical
// JSON encoding of a tree with it; [FileCache] uses it to name entry files.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
