package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/layermerge/pkg/cache"
	apperr "github.com/matzehuels/layermerge/pkg/errors"
	treeio "github.com/matzehuels/layermerge/pkg/io"
	"github.com/matzehuels/layermerge/pkg/merge"
	"github.com/matzehuels/layermerge/pkg/observability"
	"github.com/matzehuels/layermerge/pkg/view"
)

// Runner encapsulates flatten passes with caching.
// Both CLI and API use it so caching and logging behave the same.
//
// The Runner keeps no per-pass state. Concurrent calls with identical input
// and options share one computation.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	flight singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Decode reads a tree document in the named format.
func (r *Runner) Decode(ctx context.Context, rd io.Reader, format string) (*view.Node, error) {
	f, err := treeio.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, string(f))
	start := time.Now()

	root, err := treeio.Decode(rd, f)
	count := 0
	if root != nil {
		s := view.Measure(root)
		count = 1 + s.Containers + s.Leaves
	}
	hooks.OnDecodeComplete(ctx, string(f), count, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("decoded tree", "format", f, "nodes", count)
	return root, nil
}

// Execute runs a flatten pass over a copy of root.
func (r *Runner) Execute(ctx context.Context, root *view.Node, opts Options) (*Result, error) {
	if root == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "tree is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()

	canonical, err := canonicalJSON(root)
	if err != nil {
		return nil, err
	}
	hash := cache.Hash(canonical)

	if !opts.Cacheable() {
		res, err := r.flatten(ctx, canonical, hash, opts)
		if err != nil {
			return nil, err
		}
		res.Duration = time.Since(start)
		return res, nil
	}

	key := r.Keyer.MergeKey(hash, opts.MergeKeyOpts())
	if !opts.Refresh {
		var res Result
		if r.lookup(ctx, key, "merge", &res) {
			if res.Tree, err = decodeCanonical(res.canonical); err == nil {
				res.CacheHit = true
				res.Duration = time.Since(start)
				opts.Logger.Info("flatten result from cache", "pass", res.PassID, "merged", res.Merged)
				return &res, nil
			}
		}
	}

	v, err, shared := r.flight.Do(key, func() (any, error) {
		res, err := r.flatten(ctx, canonical, hash, opts)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, "merge", res, cache.TTLMerge)
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	res := *v.(*Result)
	if shared {
		if res.Tree, err = decodeCanonical(res.canonical); err != nil {
			return nil, err
		}
	}
	res.Duration = time.Since(start)
	return &res, nil
}

// Check reports whether a copy of root needs merging and is ready for it.
func (r *Runner) Check(ctx context.Context, root *view.Node, opts Options) (*Report, error) {
	if root == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "tree is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	canonical, err := canonicalJSON(root)
	if err != nil {
		return nil, err
	}

	key := r.Keyer.CheckKey(cache.Hash(canonical), opts.CheckKeyOpts())
	if opts.Cacheable() && !opts.Refresh {
		var rep Report
		if r.lookup(ctx, key, "check", &rep) {
			return &rep, nil
		}
	}

	tree, err := decodeCanonical(canonical)
	if err != nil {
		return nil, err
	}
	tree = prepare(tree, opts)
	rep := report(tree, opts)

	if opts.Cacheable() {
		r.store(ctx, key, "check", rep, cache.TTLCheck)
	}
	return &rep, nil
}

// flatten decodes a private copy of the canonical tree and runs the pass.
func (r *Runner) flatten(ctx context.Context, canonical []byte, hash string, opts Options) (*Result, error) {
	tree, err := decodeCanonical(canonical)
	if err != nil {
		return nil, err
	}
	tree = prepare(tree, opts)

	res := &Result{PassID: uuid.NewString(), TreeHash: hash}
	logger := opts.Logger.With("pass", res.PassID)
	res.Report = report(tree, opts)

	switch {
	case !res.Report.NeedMerge:
		logger.Info("tree is already flat", "root", tree.ID)
	case !res.Report.Ready && !opts.Force:
		logger.Warn("tree not ready to merge",
			"root", tree.ID,
			"not_ready", res.Report.NotReady,
			"threshold", res.Report.Threshold)
	default:
		if err := r.merge(ctx, tree, opts, logger, res); err != nil {
			return nil, err
		}
	}

	res.Shape = view.Measure(tree)
	res.Tree = tree

	var out bytes.Buffer
	if err := treeio.Encode(&out, tree, treeio.Format(opts.Format)); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "encode result")
	}
	res.Output = out.Bytes()
	if res.canonical, err = canonicalJSON(tree); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) merge(ctx context.Context, tree *view.Node, opts Options, logger *log.Logger, res *Result) error {
	hooks := observability.Pipeline()
	hooks.OnMergeStart(ctx, tree.ID, 1+res.Report.Shape.Containers+res.Report.Shape.Leaves)
	start := time.Now()

	mopts := opts.mergeOptions()
	mopts.Logger = logger
	m, err := merge.New(tree, mopts)
	if err != nil {
		hooks.OnMergeComplete(ctx, tree.ID, false, time.Since(start), err)
		return err
	}
	ok, err := m.MergeChildrenLayers()
	hooks.OnMergeComplete(ctx, tree.ID, ok, time.Since(start), err)
	if err != nil {
		return err
	}

	res.Attempted = true
	res.Merged = ok
	res.Merge = m.Stats()
	if tree.Measured() {
		view.Relayout(tree)
	}

	if ok {
		logger.Info("merged layers",
			"root", tree.ID,
			"leaves", res.Merge.Leaves,
			"placeholders", res.Merge.Placeholders,
			"duration", time.Since(start))
	} else {
		logger.Warn("merge stopped at not-ready threshold",
			"root", tree.ID,
			"not_ready", res.Merge.NotReady,
			"reinserted", res.Merge.Reinserted,
			"skipped", res.Merge.Skipped)
	}
	return nil
}

// prepare applies the viewport layout and root wrapping.
func prepare(tree *view.Node, opts Options) *view.Node {
	if opts.WrapRoot && (!tree.IsContainer() || tree.Orientation != view.Frame) {
		tree = view.WrapInFrame(tree, tree.ID+"-frame")
	}
	if opts.HasViewport() {
		view.Layout(tree, opts.Width, opts.Height)
	}
	return tree
}

func report(tree *view.Node, opts Options) Report {
	notReady, ready := opts.capabilities().CountNotReady(tree, 0, opts.threshold)
	return Report{
		NeedMerge: merge.NeedMerge(tree),
		Ready:     ready,
		NotReady:  notReady,
		Threshold: opts.threshold,
		Shape:     view.Measure(tree),
	}
}

// =============================================================================
// Cache Plumbing
// =============================================================================

type cachedResult struct {
	Result *Result `json:"result"`
	Output []byte  `json:"output"`
	Tree   []byte  `json:"tree"`
}

// lookup loads key into dst (a *Result or *Report). Undecodable entries are
// treated as misses.
func (r *Runner) lookup(ctx context.Context, key, keyType string, dst any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}

	switch dst := dst.(type) {
	case *Result:
		var entry cachedResult
		if err := json.Unmarshal(data, &entry); err != nil || entry.Result == nil {
			observability.Cache().OnCacheMiss(ctx, keyType)
			return false
		}
		*dst = *entry.Result
		dst.Output, dst.canonical = entry.Output, entry.Tree
	default:
		if err := json.Unmarshal(data, dst); err != nil {
			observability.Cache().OnCacheMiss(ctx, keyType)
			return false
		}
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	if res, ok := v.(*Result); ok {
		v = cachedResult{Result: res, Output: res.Output, Tree: res.canonical}
	}
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "type", keyType, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func canonicalJSON(root *view.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := treeio.Encode(&buf, root, treeio.FormatJSON); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidTree, err, "encode tree")
	}
	return buf.Bytes(), nil
}

func decodeCanonical(data []byte) (*view.Node, error) {
	return treeio.Decode(bytes.NewReader(data), treeio.FormatJSON)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
