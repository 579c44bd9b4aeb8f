package view

// Layout sizes root to width x height and positions every descendant.
//
// Sizes come from each node's [Params]; offsets from its margin and the
// parent's [Orientation]. Layout keeps root's own Left/Top unchanged.
func Layout(root *Node, width, height int) {
	root.SetBounds(Rect{Left: root.bounds.Left, Top: root.bounds.Top, Width: width, Height: height})
	place(root)
}

// Relayout repeats [Layout] with root's current parameters, falling back to
// its measured size for dimensions that are not fixed.
func Relayout(root *Node) {
	w, h := root.Params.Width, root.Params.Height
	if w < 0 {
		w = root.bounds.Width
	}
	if h < 0 {
		h = root.bounds.Height
	}
	Layout(root, w, h)
}

func place(n *Node) {
	x, y := 0, 0
	for _, c := range n.children {
		m := c.Params.Margin
		availW := n.bounds.Width - m.Left - m.Right
		availH := n.bounds.Height - m.Top - m.Bottom
		switch n.Orientation {
		case Vertical:
			availH -= y
		case Horizontal:
			availW -= x
		}

		cw, ch := measure(c, availW, availH)
		left, top := m.Left, m.Top
		switch n.Orientation {
		case Vertical:
			top += y
			y += m.Top + ch + m.Bottom
		case Horizontal:
			left += x
			x += m.Left + cw + m.Right
		}

		c.SetBounds(Rect{Left: left, Top: top, Width: cw, Height: ch})
		place(c)
	}
}

func measure(n *Node, availW, availH int) (int, int) {
	wrapW, wrapH := n.Intrinsic.Width, n.Intrinsic.Height
	if n.IsContainer() && (n.Params.Width == WrapContent || n.Params.Height == WrapContent) {
		wrapW, wrapH = contentExtent(n, availW, availH)
	}
	return resolve(n.Params.Width, availW, wrapW), resolve(n.Params.Height, availH, wrapH)
}

func contentExtent(n *Node, availW, availH int) (int, int) {
	var w, h int
	for _, c := range n.children {
		m := c.Params.Margin
		cw, ch := measure(c, availW-m.Left-m.Right, availH-m.Top-m.Bottom)
		ow, oh := m.Left+cw+m.Right, m.Top+ch+m.Bottom
		switch n.Orientation {
		case Vertical:
			w, h = max(w, ow), h+oh
		case Horizontal:
			w, h = w+ow, max(h, oh)
		default:
			w, h = max(w, ow), max(h, oh)
		}
	}
	return w, h
}

func resolve(dim, avail, wrap int) int {
	switch {
	case dim == MatchParent:
		return max(avail, 0)
	case dim == WrapContent:
		return wrap
	case dim < 0:
		return 0
	default:
		return dim
	}
}

// AbsoluteOffset returns n's top-left corner relative to ancestor by
// summing measured offsets up the parent chain. ok is false when ancestor
// is not on n's parent chain; the returned offset is then relative to the
// top of n's tree.
func AbsoluteOffset(n, ancestor *Node) (left, top int, ok bool) {
	for p := n; p != nil; p = p.parent {
		if p == ancestor {
			return left, top, true
		}
		left += p.bounds.Left
		top += p.bounds.Top
	}
	return left, top, ancestor == nil
}

// WrapInFrame inserts a new frame container with the given id between n
// and its parent. The frame takes over n's parameters and geometry; n then
// fills the frame. n's position among its siblings is kept.
func WrapInFrame(n *Node, id string) *Node {
	frame := NewContainer(id, Frame)
	frame.Params = n.Params
	frame.bounds = n.bounds
	frame.measured = n.measured

	if p := n.parent; p != nil {
		i := indexOf(p.children, n)
		p.children[i] = frame
		frame.parent = p
	}

	n.parent = frame
	n.Params = MatchParams()
	n.bounds.Left, n.bounds.Top = 0, 0
	frame.children = []*Node{n}
	return frame
}

func indexOf(nodes []*Node, n *Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}
