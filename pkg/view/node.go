package view

import (
	"errors"
	"slices"
)

var (
	// ErrNotContainer is returned by [Node.AddChild] when the receiver is a leaf.
	ErrNotContainer = errors.New("node is not a container")

	// ErrAlreadyAttached is returned by [Node.AddChild] when the child already
	// has a parent. A node belongs to at most one container at a time.
	ErrAlreadyAttached = errors.New("node already has a parent")

	// ErrNilNode is returned when a nil child is added.
	ErrNilNode = errors.New("nil node")
)

// Kind distinguishes leaves from containers.
type Kind int

const (
	// KindLeaf is a node that draws content and has no children.
	KindLeaf Kind = iota
	// KindContainer is a node that holds an ordered list of children.
	KindContainer
)

func (k Kind) String() string {
	if k == KindContainer {
		return "container"
	}
	return "leaf"
}

// Orientation controls how a container positions its children.
type Orientation int

const (
	// Frame anchors each child at its top-left margin.
	Frame Orientation = iota
	// Vertical stacks children top to bottom.
	Vertical
	// Horizontal stacks children left to right.
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "frame"
	}
}

// Attr is a bitmask of visual attribute classes a node can hold.
type Attr uint8

const (
	// AttrBackground marks a background paint.
	AttrBackground Attr = 1 << iota
	// AttrClick marks a click handler.
	AttrClick
	// AttrLongClick marks a long-click handler.
	AttrLongClick
)

// Paint is a background fill.
type Paint struct {
	Color string
}

// Handler is a named interaction callback. Handlers are compared by
// identity, so the same *Handler moved between nodes is the same handler.
type Handler struct {
	Name string
	Fn   func(n *Node)
}

// Invoke calls the handler's function with n, if set.
func (h *Handler) Invoke(n *Node) {
	if h != nil && h.Fn != nil {
		h.Fn(n)
	}
}

// Placeholder records which attribute classes a synthetic node holds.
type Placeholder struct {
	Applied Attr
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// Rect is a node's measured geometry. Left and Top are relative to the
// parent's top-left corner.
type Rect struct {
	Left, Top     int
	Width, Height int
}

// Node is a single element of a view tree.
//
// The zero value is a leaf with no parameters. Use [NewLeaf] and
// [NewContainer] to construct nodes.
type Node struct {
	ID          string
	Orientation Orientation // containers only
	Params      Params
	Background  *Paint
	OnClick     *Handler
	OnLongClick *Handler
	Intrinsic   Size // content size used by WrapContent leaves

	kind        Kind
	placeholder *Placeholder
	parent      *Node
	children    []*Node
	bounds      Rect
	measured    bool
}

// NewLeaf creates a leaf with wrap-content parameters.
func NewLeaf(id string) *Node {
	return &Node{ID: id, kind: KindLeaf, Params: WrapParams()}
}

// NewContainer creates an empty container with wrap-content parameters.
func NewContainer(id string, o Orientation) *Node {
	return &Node{ID: id, kind: KindContainer, Orientation: o, Params: WrapParams()}
}

// NewPlaceholder creates a zero-content leaf of the given size that stands
// in for a removed container. The returned node reports an empty
// Placeholder record until the caller sets one with [Node.MarkPlaceholder].
func NewPlaceholder(id string, width, height int) *Node {
	return &Node{
		ID:          id,
		kind:        KindLeaf,
		Params:      FixedParams(width, height),
		placeholder: &Placeholder{},
	}
}

// Sized sets fixed width and height parameters and returns n.
func (n *Node) Sized(width, height int) *Node {
	n.Params.Width, n.Params.Height = width, height
	return n
}

// Margined sets the margin and returns n.
func (n *Node) Margined(left, top, right, bottom int) *Node {
	n.Params.Margin = Margin{Left: left, Top: top, Right: right, Bottom: bottom}
	return n
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// IsContainer reports whether n can hold children.
func (n *Node) IsContainer() bool { return n.kind == KindContainer }

// Parent returns the container n is attached to, or nil.
func (n *Node) Parent() *Node { return n.parent }

// ChildCount returns the number of direct children. Leaves return 0.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the i-th direct child.
func (n *Node) ChildAt(i int) *Node { return n.children[i] }

// Children returns a copy of the direct children in draw order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// AddChild appends child using the child's own parameters.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return ErrNilNode
	}
	return n.AddChildWithParams(child, child.Params)
}

// AddChildWithParams appends child and replaces its parameters with p.
// The child is drawn above all existing children.
func (n *Node) AddChildWithParams(child *Node, p Params) error {
	if child == nil {
		return ErrNilNode
	}
	if n.kind != KindContainer {
		return ErrNotContainer
	}
	if child.parent != nil {
		return ErrAlreadyAttached
	}
	child.Params = p
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// RemoveAllChildren detaches every direct child. Detached children keep
// their parameters and last measured geometry.
func (n *Node) RemoveAllChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// SetParams replaces n's layout parameters.
func (n *Node) SetParams(p Params) { n.Params = p }

// Bounds returns the last measured geometry.
func (n *Node) Bounds() Rect { return n.bounds }

// SetBounds assigns measured geometry directly, as if a layout pass had run.
func (n *Node) SetBounds(r Rect) {
	n.bounds = r
	n.measured = true
}

// Measured reports whether n has been given geometry by a layout pass or
// [Node.SetBounds].
func (n *Node) Measured() bool { return n.measured }

// Width returns the measured width.
func (n *Node) Width() int { return n.bounds.Width }

// Height returns the measured height.
func (n *Node) Height() int { return n.bounds.Height }

// Placeholder returns the placeholder record and true if n was created by
// [NewPlaceholder].
func (n *Node) Placeholder() (Placeholder, bool) {
	if n.placeholder == nil {
		return Placeholder{}, false
	}
	return *n.placeholder, true
}

// MarkPlaceholder records the attribute classes a placeholder holds.
// It has no effect on ordinary nodes.
func (n *Node) MarkPlaceholder(applied Attr) {
	if n.placeholder != nil {
		n.placeholder.Applied = applied
	}
}

// Attrs returns the attribute classes n currently holds.
func (n *Node) Attrs() Attr {
	var a Attr
	if n.Background != nil {
		a |= AttrBackground
	}
	if n.OnClick != nil {
		a |= AttrClick
	}
	if n.OnLongClick != nil {
		a |= AttrLongClick
	}
	return a
}
