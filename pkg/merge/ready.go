package merge

import "github.com/matzehuels/layermerge/pkg/view"

// DefaultThreshold is the not-ready count at which readiness checks and
// extraction give up.
const DefaultThreshold = 3

// NeedMerge reports whether any direct child of root is a container.
// A tree without nested containers is already flat.
func NeedMerge(root *view.Node) bool {
	for i := 0; i < root.ChildCount(); i++ {
		if root.ChildAt(i).IsContainer() {
			return true
		}
	}
	return false
}

// IsReadyToMerge reports whether fewer than [DefaultThreshold] nodes below
// root are unready, using the process-wide readiness checker.
func IsReadyToMerge(root *view.Node) bool {
	return IsReadyToMergeN(root, 0, DefaultThreshold)
}

// IsReadyToMergeN is [IsReadyToMerge] with an initial not-ready count and
// an explicit threshold. A threshold <= 0 never fails.
func IsReadyToMergeN(root *view.Node, notReady, threshold int) bool {
	_, ok := CurrentCapabilities().CountNotReady(root, notReady, threshold)
	return ok
}

// CountNotReady walks root depth-first, left to right, adding one to
// notReady for every unready descendant. The running count carries across
// subtrees and is returned. The walk stops with false as soon as the count
// reaches threshold (threshold > 0).
func (c Capabilities) CountNotReady(root *view.Node, notReady, threshold int) (int, bool) {
	c = c.withDefaults()
	return c.countNotReady(root, notReady, threshold)
}

func (c Capabilities) countNotReady(parent *view.Node, notReady, threshold int) (int, bool) {
	for i := 0; i < parent.ChildCount(); i++ {
		child := parent.ChildAt(i)
		if !c.Readiness.IsReady(child) {
			notReady++
		}
		if exhausted(notReady, threshold) {
			return notReady, false
		}
		if child.IsContainer() {
			var ok bool
			if notReady, ok = c.countNotReady(child, notReady, threshold); !ok {
				return notReady, false
			}
		}
	}
	return notReady, true
}

func exhausted(notReady, threshold int) bool {
	return threshold > 0 && notReady >= threshold
}
