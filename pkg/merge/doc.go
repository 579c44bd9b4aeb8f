// Package merge flattens a nested view tree into a single layer of leaves.
//
// # Overview
//
// List and grid item templates are convenient to author as nested
// containers, but once layout has run every node's position relative to the
// item root is known and the nesting only costs extra measure, layout and
// draw passes. A [Manager] removes it: every leaf is moved directly under
// the root with a top-left margin equal to its old root-relative position.
//
//	if !merge.NeedMerge(root) || !merge.IsReadyToMerge(root) {
//	    return
//	}
//	m, err := merge.New(root, &merge.Options{Flags: merge.ExtractAll, Threshold: 3})
//	if err != nil {
//	    return err
//	}
//	ok, err := m.MergeChildrenLayers()
//
// A Manager performs exactly one pass. Afterwards it is unusable.
//
// # Draw Order
//
// Leaves are collected in pre-order, left to right, and re-attached in that
// order, so overlap between siblings and cousins is unchanged.
//
// # Placeholders
//
// Removing a container also removes what it drew and what it reacted to.
// With [ExtractBackground], [ExtractClick] or [ExtractLongClick] set, the
// manager synthesizes a zero-content placeholder leaf for each container
// holding one of those attributes, sized like the container and drawn just
// below the container's former children. The placeholder's record
// ([view.Placeholder]) lists the attribute classes actually found.
//
// # Readiness
//
// Flattening measured-but-wrong geometry is worse than not flattening at
// all. Each visited node is checked with the [ReadinessChecker]; a small
// number of unready nodes is tolerated, but when the count reaches the
// threshold the pass stops and reports false. Containers that were already
// fully absorbed stay empty and their leaves are re-attached; placeholders
// are dropped on that path.
//
// # Capabilities
//
// Positions, readiness, background extraction and event introspection are
// pluggable ([Capabilities]). A process-wide registry holds the defaults;
// a Manager takes a snapshot at construction, or an explicit set via
// [Options.Capabilities].
//
// # Concurrency
//
// A pass runs synchronously on the calling goroutine and assumes exclusive
// ownership of the tree. Calling [Manager.MergeChildrenLayers] twice, or
// concurrently, returns [ErrManagerUsed].
package merge
