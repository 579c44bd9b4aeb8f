package view

// Walk visits root and its descendants in pre-order, left to right.
// If fn returns false, the children of that node are skipped.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		walk(c, depth+1, fn)
	}
}

// Leaves returns every leaf below root in pre-order, left to right.
func Leaves(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node, _ int) bool {
		if n != root && !n.IsContainer() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Containers   int `json:"containers"` // containers below the root
	Leaves       int `json:"leaves"`
	Placeholders int `json:"placeholders"`
	Depth        int `json:"depth"` // 0 for a root without children
}

// Measure counts the nodes below root.
func Measure(root *Node) Stats {
	var s Stats
	Walk(root, func(n *Node, depth int) bool {
		s.Depth = max(s.Depth, depth)
		if n == root {
			return true
		}
		switch {
		case n.IsContainer():
			s.Containers++
		default:
			s.Leaves++
			if _, ok := n.Placeholder(); ok {
				s.Placeholders++
			}
		}
		return true
	})
	return s
}
