// Package pipeline runs flatten passes for the CLI and the API server.
//
// By centralizing the decode → layout → check → merge → encode sequence,
// both entry points apply identical defaults, cache keys, and logging.
//
// # Stages
//
//  1. Decode: read a tree document (JSON, YAML, or TOML)
//  2. Layout: optionally measure the tree at a given viewport size
//  3. Check: [merge.NeedMerge] and the not-ready count
//  4. Merge: [merge.Manager.MergeChildrenLayers], then relayout
//  5. Encode: write the flattened tree in the requested format
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, root, pipeline.Options{
//	    Flags:  "background,events",
//	    Format: "json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Output)
//
// The input tree is never mutated; the pass works on a copy decoded from
// the canonical JSON encoding, which is also what the cache key hashes.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layermerge/pkg/cache"
	apperr "github.com/matzehuels/layermerge/pkg/errors"
	treeio "github.com/matzehuels/layermerge/pkg/io"
	"github.com/matzehuels/layermerge/pkg/merge"
	"github.com/matzehuels/layermerge/pkg/view"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFlags preserves nothing but leaves.
	DefaultFlags = "none"

	// DefaultThreshold is the not-ready count that blocks a pass.
	DefaultThreshold = merge.DefaultThreshold

	// DefaultFormat is the output document format.
	DefaultFormat = string(treeio.FormatJSON)
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a flatten pass. It supports JSON serialization for API
// requests.
type Options struct {
	// Flags names the container attributes kept as placeholders, in
	// [merge.ParseFlags] syntax.
	Flags string `json:"flags,omitempty"`

	// Threshold is the not-ready count that blocks the pass. nil means
	// [DefaultThreshold]; an explicit 0 disables the check and the abort.
	Threshold *int `json:"threshold,omitempty"`

	// Width and Height lay the tree out at that viewport before checking
	// readiness. Both or neither must be set; with neither, stored bounds
	// are used as-is.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Force merges even when the readiness check fails. Extraction still
	// aborts at the threshold.
	Force bool `json:"force,omitempty"`

	// WrapRoot wraps a root that is not a frame container in one before
	// merging, instead of failing.
	WrapRoot bool `json:"wrap_root,omitempty"`

	// Format is the output document format.
	Format string `json:"format,omitempty"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized). Passes with a Listener or
	// Capabilities bypass the cache, since functions cannot be keyed.
	// Replacing the process-wide registry changes every key instead; see
	// [merge.CapabilitiesGeneration].
	Logger       *log.Logger              `json:"-"`
	Listener     merge.ExtractionListener `json:"-"`
	Capabilities *merge.Capabilities      `json:"-"`

	flags      merge.Flags
	threshold  int
	generation uint64
	validated  bool
}

// ValidateAndSetDefaults checks options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Flags == "" {
		o.Flags = DefaultFlags
	}
	flags, err := merge.ParseFlags(o.Flags)
	if err != nil {
		return err
	}
	o.flags = flags
	o.Flags = flags.String()

	if o.Threshold == nil {
		o.Threshold = Threshold(DefaultThreshold)
	}
	if err := apperr.ValidateThreshold(*o.Threshold); err != nil {
		return err
	}
	o.threshold = *o.Threshold

	if o.Width < 0 || o.Height < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "viewport must be non-negative, got %dx%d", o.Width, o.Height)
	}
	if (o.Width > 0) != (o.Height > 0) {
		return apperr.New(apperr.ErrCodeInvalidInput, "viewport needs both width and height, got %dx%d", o.Width, o.Height)
	}
	o.generation = merge.CapabilitiesGeneration()

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if _, err := treeio.ParseFormat(o.Format); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Threshold returns a pointer to n for [Options.Threshold].
func Threshold(n int) *int {
	return &n
}

// HasViewport reports whether the pass lays the tree out first.
func (o *Options) HasViewport() bool {
	return o.Width > 0 && o.Height > 0
}

// Cacheable reports whether results can be cached and shared.
func (o *Options) Cacheable() bool {
	return o.Listener == nil && o.Capabilities == nil
}

// MergeKeyOpts returns cache key options for a flatten result.
func (o *Options) MergeKeyOpts() cache.MergeKeyOpts {
	return cache.MergeKeyOpts{
		Flags:     o.Flags,
		Threshold:    o.threshold,
		Width:        o.Width,
		Height:       o.Height,
		Force:        o.Force,
		Wrap:         o.WrapRoot,
		Format:       o.Format,
		Capabilities: o.generation,
	}
}

// CheckKeyOpts returns cache key options for a readiness report.
func (o *Options) CheckKeyOpts() cache.CheckKeyOpts {
	return cache.CheckKeyOpts{
		Threshold:    o.threshold,
		Width:        o.Width,
		Height:       o.Height,
		Wrap:         o.WrapRoot,
		Capabilities: o.generation,
	}
}

func (o *Options) mergeOptions() *merge.Options {
	return &merge.Options{
		Flags:        o.flags,
		Threshold:    o.threshold,
		Listener:     o.Listener,
		Capabilities: o.Capabilities,
		Logger:       o.Logger,
	}
}

func (o *Options) capabilities() merge.Capabilities {
	if o.Capabilities != nil {
		return *o.Capabilities
	}
	return merge.CurrentCapabilities()
}

// =============================================================================
// Results
// =============================================================================

// Report describes a tree's readiness for flattening.
type Report struct {
	NeedMerge bool       `json:"need_merge"`
	Ready     bool       `json:"ready"`
	NotReady  int        `json:"not_ready"`
	Threshold int        `json:"threshold"`
	Shape     view.Stats `json:"shape"`
}

// Result contains the outputs of a flatten pass.
type Result struct {
	// PassID identifies the pass in logs. Cached results keep the id of
	// the pass that produced them.
	PassID string `json:"pass_id"`

	// TreeHash is the SHA-256 of the canonical input encoding.
	TreeHash string `json:"tree_hash"`

	// Report is the readiness check run before merging.
	Report Report `json:"report"`

	// Merged is true when the pass ran to completion. It is false when
	// nothing needed merging, the readiness check failed without Force,
	// or extraction hit the threshold.
	Merged bool `json:"merged"`

	// Attempted is true when a merge pass ran, whatever its outcome.
	Attempted bool `json:"attempted"`

	// Merge holds the pass counters when Attempted.
	Merge merge.Stats `json:"merge"`

	// Shape describes the output tree.
	Shape view.Stats `json:"shape"`

	// Output is the output tree encoded in Options.Format.
	Output []byte `json:"-"`

	// Tree is the output tree. Handlers carry names only.
	Tree *view.Node `json:"-"`

	// CacheHit is true when the result came from the cache.
	CacheHit bool `json:"cache_hit"`

	// Duration is the wall time of the pass, or of the lookup on a hit.
	Duration time.Duration `json:"duration"`

	// canonical is the output tree in canonical JSON, used to give every
	// caller its own copy of Tree.
	canonical []byte
}
