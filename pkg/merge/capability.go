package merge

import (
	"fmt"
	"sync"
	"sync/atomic"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/view"
)

// Loc is a root-relative position.
type Loc struct {
	Left, Top int
}

// =============================================================================
// Capability Interfaces
// =============================================================================

// LocationProvider returns a node's position relative to one of its ancestors.
type LocationProvider interface {
	RelativeLocation(n, ancestor *view.Node) Loc
}

// ReadinessChecker reports whether a node's geometry is meaningful yet.
type ReadinessChecker interface {
	IsReady(n *view.Node) bool
}

// BackgroundExtractor returns the fill a container contributes to its
// placeholder, or nil. It replaces the node's own background slot, which
// lets custom paint backends supply what they draw.
type BackgroundExtractor interface {
	Extract(container *view.Node) *view.Paint
}

// EventExtractor returns a node's interaction handlers.
type EventExtractor interface {
	Click(n *view.Node) *view.Handler
	LongClick(n *view.Node) *view.Handler
}

// ExtractionListener may take over extraction of a container. Returning
// nil declines and extraction proceeds normally.
type ExtractionListener interface {
	OnExtract(container *view.Node) *ExtractionResult
}

// ExtractionResult is what an [ExtractionListener] supplies for a container.
// Views and Locs are index-aligned. Handle true means the listener dealt
// with the container's own attributes but its children should still be
// extracted; false means the container is done and is not descended into.
type ExtractionResult struct {
	Views  []*view.Node
	Locs   []Loc
	Handle bool
}

// Valid reports whether Views and Locs have equal length and no nil views.
func (r *ExtractionResult) Valid() bool {
	if len(r.Views) != len(r.Locs) {
		return false
	}
	for _, v := range r.Views {
		if v == nil {
			return false
		}
	}
	return true
}

func (r *ExtractionResult) String() string {
	return fmt.Sprintf("ExtractionResult{views: %d, locs: %d, handle: %t}", len(r.Views), len(r.Locs), r.Handle)
}

// =============================================================================
// Function Adapters
// =============================================================================

// LocationFunc adapts a function to [LocationProvider].
type LocationFunc func(n, ancestor *view.Node) Loc

func (f LocationFunc) RelativeLocation(n, ancestor *view.Node) Loc { return f(n, ancestor) }

// ReadinessFunc adapts a function to [ReadinessChecker].
type ReadinessFunc func(n *view.Node) bool

func (f ReadinessFunc) IsReady(n *view.Node) bool { return f(n) }

// BackgroundFunc adapts a function to [BackgroundExtractor].
type BackgroundFunc func(container *view.Node) *view.Paint

func (f BackgroundFunc) Extract(container *view.Node) *view.Paint { return f(container) }

// ListenerFunc adapts a function to [ExtractionListener].
type ListenerFunc func(container *view.Node) *ExtractionResult

func (f ListenerFunc) OnExtract(container *view.Node) *ExtractionResult { return f(container) }

// =============================================================================
// Defaults
// =============================================================================

type offsetLocation struct{}

func (offsetLocation) RelativeLocation(n, ancestor *view.Node) Loc {
	left, top, _ := view.AbsoluteOffset(n, ancestor)
	return Loc{Left: left, Top: top}
}

type sizeReadiness struct{}

func (sizeReadiness) IsReady(n *view.Node) bool {
	return n.Measured() && (n.Width() > 0 || n.Height() > 0)
}

type nodeEvents struct{}

func (nodeEvents) Click(n *view.Node) *view.Handler     { return n.OnClick }
func (nodeEvents) LongClick(n *view.Node) *view.Handler { return n.OnLongClick }

var (
	// DefaultLocationProvider sums measured offsets up the parent chain.
	DefaultLocationProvider LocationProvider = offsetLocation{}

	// DefaultReadinessChecker treats a node as ready once it has been
	// measured with a non-zero width or height.
	DefaultReadinessChecker ReadinessChecker = sizeReadiness{}

	// DefaultEventExtractor reads the handlers stored on the node.
	DefaultEventExtractor EventExtractor = nodeEvents{}
)

// =============================================================================
// Capabilities
// =============================================================================

// Capabilities bundles the pluggable collaborators of a merge pass.
// Background may be nil, in which case the node's own background is used.
type Capabilities struct {
	Location   LocationProvider
	Readiness  ReadinessChecker
	Background BackgroundExtractor
	Events     EventExtractor
}

// DefaultCapabilities returns the built-in collaborators.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Location:  DefaultLocationProvider,
		Readiness: DefaultReadinessChecker,
		Events:    DefaultEventExtractor,
	}
}

// withDefaults fills unset required collaborators.
func (c Capabilities) withDefaults() Capabilities {
	if c.Location == nil {
		c.Location = DefaultLocationProvider
	}
	if c.Readiness == nil {
		c.Readiness = DefaultReadinessChecker
	}
	if c.Events == nil {
		c.Events = DefaultEventExtractor
	}
	return c
}

// background returns the fill container contributes, preferring the
// configured extractor over the node's own slot.
func (c Capabilities) background(container *view.Node) *view.Paint {
	if c.Background != nil {
		return c.Background.Extract(container)
	}
	return container.Background
}

// =============================================================================
// Process-wide Registry
// =============================================================================

var (
	registry    = DefaultCapabilities()
	registryMu  sync.RWMutex
	registryGen atomic.Uint64
)

// CapabilitiesGeneration counts replacements of the process-wide registry.
// It starts at zero and grows on every successful Set and on
// [ResetCapabilities], so callers caching merge results can fold it into
// their keys.
func CapabilitiesGeneration() uint64 {
	return registryGen.Load()
}

// SetLocationProvider replaces the process-wide location provider.
// A nil provider is rejected.
func SetLocationProvider(p LocationProvider) error {
	if p == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "location provider is nil")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry.Location = p
	registryGen.Add(1)
	return nil
}

// SetReadinessChecker replaces the process-wide readiness checker.
// A nil checker is rejected.
func SetReadinessChecker(c ReadinessChecker) error {
	if c == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "readiness checker is nil")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry.Readiness = c
	registryGen.Add(1)
	return nil
}

// SetEventExtractor replaces the process-wide event extractor.
// A nil extractor is rejected.
func SetEventExtractor(e EventExtractor) error {
	if e == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "event extractor is nil")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry.Events = e
	registryGen.Add(1)
	return nil
}

// SetBackgroundExtractor replaces the process-wide background extractor.
// nil restores the node's own background slot.
func SetBackgroundExtractor(b BackgroundExtractor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry.Background = b
	registryGen.Add(1)
}

// CurrentCapabilities returns a snapshot of the process-wide registry.
func CurrentCapabilities() Capabilities {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry
}

// ResetCapabilities restores the built-in collaborators.
// This is primarily useful for testing.
func ResetCapabilities() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = DefaultCapabilities()
	registryGen.Add(1)
}
