// Package cache stores flatten results keyed by tree content and options.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [MemoryCache]: bounded in-process LRU, the server default
//   - [RedisCache]: shared cache for several server replicas
//   - [MongoCache]: shared cache with server-side TTL expiry
//
// All backends implement [Cache]. Keys come from a [Keyer] so every entry
// point derives identical keys for identical requests.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	// TTLMerge is how long a flatten result stays cached. Results depend
	// only on the input tree and options, so they can live long.
	TTLMerge = 7 * 24 * time.Hour

	// TTLCheck is how long a readiness report stays cached.
	TTLCheck = time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// Keyer derives cache keys.
type Keyer interface {
	// MergeKey returns the key for a flatten result of the tree whose
	// encoded form hashes to treeHash.
	MergeKey(treeHash string, opts MergeKeyOpts) string

	// CheckKey returns the key for a readiness report.
	CheckKey(treeHash string, opts CheckKeyOpts) string
}

// MergeKeyOpts are the options that change a flatten result.
type MergeKeyOpts struct {
	Flags     string `json:"flags"`
	Threshold int    `json:"threshold"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Force     bool   `json:"force,omitempty"`
	Wrap      bool   `json:"wrap,omitempty"`
	Format    string `json:"format"`

	// Capabilities is the merge capability registry generation. Results
	// computed under a replaced readiness or location provider never match.
	Capabilities uint64 `json:"capabilities,omitempty"`
}

// CheckKeyOpts are the options that change a readiness report.
type CheckKeyOpts struct {
	Threshold int  `json:"threshold"`
	Width     int  `json:"width,omitempty"`
	Height    int  `json:"height,omitempty"`
	Wrap      bool `json:"wrap,omitempty"`

	// Capabilities is the merge capability registry generation.
	Capabilities uint64 `json:"capabilities,omitempty"`
}

// DefaultKeyer hashes the tree hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MergeKey returns "merge:<sha256>".
func (DefaultKeyer) MergeKey(treeHash string, opts MergeKeyOpts) string {
	return hashKey("merge", treeHash, opts)
}

// CheckKey returns "check:<sha256>".
func (DefaultKeyer) CheckKey(treeHash string, opts CheckKeyOpts) string {
	return hashKey("check", treeHash, opts)
}
