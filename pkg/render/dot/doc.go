// Package dot renders view trees as Graphviz hierarchy diagrams.
//
// # Overview
//
// Every node becomes a graph node and every parent-child link an arrow, in
// draw order from left to right. Containers are plain boxes, leaves are
// rounded, and placeholders are dashed and grey so synthetic nodes stand out
// from real content.
//
// # Usage
//
//	src := dot.ToDOT(root, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(src)
//
// # Options
//
//   - Detailed: labels include kind, measured bounds, and attributes
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no Graphviz installation is required.
package dot
