package merge

import (
	"errors"
	"sync/atomic"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/view"
)

var (
	// ErrManagerUsed is returned by [Manager.MergeChildrenLayers] on every
	// call after the first.
	ErrManagerUsed = errors.New("merge manager already used")

	// ErrInvalidResult is returned when an [ExtractionListener] supplies a
	// result whose views and locations do not line up.
	ErrInvalidResult = apperr.New(apperr.ErrCodeInvalidResult, "invalid extraction result")

	// ErrNilRoot is returned by [New] for a nil root.
	ErrNilRoot = apperr.New(apperr.ErrCodeInvalidInput, "root is nil")

	// ErrRootNotFrame is returned by [New] when the root is a leaf or a
	// stacking container. Wrap such roots with [view.WrapInFrame].
	ErrRootNotFrame = apperr.New(apperr.ErrCodeInvalidTree, "root must be a frame container")
)

// Options configures a [Manager].
type Options struct {
	// Flags selects which container attributes become placeholders.
	Flags Flags

	// Threshold is the not-ready count at which extraction aborts.
	// Zero disables the abort.
	Threshold int

	// Listener, if set, is offered every container before extraction.
	Listener ExtractionListener

	// Capabilities overrides the process-wide registry for this manager.
	// Unset fields fall back to the built-in defaults.
	Capabilities *Capabilities

	// Logger receives debug output for each visited node.
	Logger *log.Logger
}

// DefaultOptions returns options with no placeholder extraction and the
// default threshold.
func DefaultOptions() Options {
	return Options{Flags: ExtractNone, Threshold: DefaultThreshold}
}

// Stats describes a completed pass.
type Stats struct {
	Leaves       int `json:"leaves"`       // collected nodes other than placeholders
	Placeholders int `json:"placeholders"` // synthesized placeholders
	NotReady     int `json:"not_ready"`    // unready nodes seen during extraction
	Reinserted   int `json:"reinserted"`   // nodes attached to the root
	Skipped      int `json:"skipped"`      // collected nodes not attached
}

// Manager flattens one root container exactly once.
type Manager struct {
	root          *view.Node
	width, height int

	flags     Flags
	threshold int
	listener  ExtractionListener
	caps      Capabilities
	logger    *log.Logger

	leaves []*view.Node
	locs   []Loc
	stats  Stats
	used   atomic.Bool
}

// New binds a manager to root and captures root's measured size, which the
// flattened root keeps. A nil opts uses [DefaultOptions].
func New(root *view.Node, opts *Options) (*Manager, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	if !root.IsContainer() || root.Orientation != view.Frame {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidTree, ErrRootNotFrame, "root %q is a %s %s", root.ID, root.Orientation, root.Kind())
	}
	if opts == nil {
		d := DefaultOptions()
		opts = &d
	}
	if err := apperr.ValidateThreshold(opts.Threshold); err != nil {
		return nil, err
	}

	caps := CurrentCapabilities()
	if opts.Capabilities != nil {
		caps = opts.Capabilities.withDefaults()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Manager{
		root:      root,
		width:     root.Width(),
		height:    root.Height(),
		flags:     opts.Flags,
		threshold: opts.Threshold,
		listener:  opts.Listener,
		caps:      caps,
		logger:    logger,
	}, nil
}

// MergeChildrenLayers flattens the root and reports whether extraction
// completed. On true the root holds only leaves, each offset by its former
// root-relative position. On false the not-ready threshold was reached;
// subtrees already absorbed are re-attached flat, the rest is untouched.
//
// A malformed listener result stops the pass immediately with an error
// wrapping [ErrInvalidResult]; nothing is re-attached. The manager is
// unusable after the first call whatever the outcome.
func (m *Manager) MergeChildrenLayers() (bool, error) {
	if !m.used.CompareAndSwap(false, true) {
		return false, ErrManagerUsed
	}
	defer func() { m.root = nil }()

	m.logger.Debug("merging layers",
		"root", m.root.ID,
		"width", m.width,
		"height", m.height,
		"flags", m.flags,
		"threshold", m.threshold)

	notReady, ok, err := m.extract(m.root, 0)
	m.stats.NotReady = notReady
	if err != nil {
		m.leaves, m.locs = nil, nil
		return false, err
	}
	if !ok {
		m.logger.Debug("not-ready threshold reached", "root", m.root.ID, "not_ready", notReady)
	}

	m.reinsert(ok)
	return ok, nil
}

// Stats returns counters for the pass. It is zero before the pass runs.
func (m *Manager) Stats() Stats { return m.stats }

func (m *Manager) collect(n *view.Node, loc Loc) {
	m.leaves = append(m.leaves, n)
	m.locs = append(m.locs, loc)
}
