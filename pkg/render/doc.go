// Package render provides visualizations of view trees.
//
// # Overview
//
// Two renderers are provided, each in its own subpackage:
//
//   - [dot]: hierarchy diagrams through Graphviz (DOT source, SVG, PNG)
//   - [text]: indented terminal outlines, optionally styled with lipgloss
//
// Both take a tree as-is and never lay it out or mutate it. Render before
// and after a flatten pass to compare the two shapes:
//
//	before := text.Outline(root, text.Options{})
//	// ... merge ...
//	after := text.Outline(root, text.Options{})
//
// [dot]: github.com/matzehuels/layermerge/pkg/render/dot
// [text]: github.com/matzehuels/layermerge/pkg/render/text
package render
