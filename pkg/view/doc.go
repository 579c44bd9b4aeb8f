// Package view provides a minimal retained-mode UI node tree.
//
// # Overview
//
// A tree is built from two kinds of [Node]: leaves, which draw content, and
// containers, which hold an ordered list of children. Child order is draw
// order: later children paint over earlier ones.
//
// Every node carries layout parameters ([Params]) describing how it wants to
// be sized and offset inside its parent, and measured geometry ([Rect]) that
// a layout pass writes once sizes and offsets are known:
//
//	root := view.NewContainer("card", view.Frame)
//	row := view.NewContainer("row", view.Horizontal)
//	row.AddChild(view.NewLeaf("icon").Sized(24, 24))
//	row.AddChild(view.NewLeaf("title").Sized(120, 24))
//	root.AddChild(row)
//	view.Layout(root, 320, 48)
//
// # Containers
//
// A container lays its children out according to its [Orientation]:
//
//   - [Frame]: every child is anchored at (margin.Left, margin.Top)
//   - [Vertical]: children are stacked top to bottom
//   - [Horizontal]: children are stacked left to right
//
// Only frames give margins a purely positional meaning, which is why a
// flattened tree is always rooted at a frame (see [WrapInFrame]).
//
// # Attributes
//
// Containers and leaves may hold a background [Paint] and click or
// long-click [Handler]s. The [Attr] bitmask names these attribute classes.
// Synthetic placeholder leaves created by [NewPlaceholder] carry a
// [Placeholder] record of which classes they hold.
//
// # Concurrency
//
// A tree is not safe for concurrent use. Callers mutating a tree from
// several goroutines must serialize access themselves.
package view
