// Package pkg provides the core libraries for Layermerge view-tree flattening.
//
// # Overview
//
// Layermerge takes a tree of nested containers and leaves, as produced by a
// UI layout pass, and moves every leaf directly under the root at the
// position it used to occupy on screen. Intermediate containers disappear;
// the ones that painted something or handled input can leave a placeholder
// view behind so nothing visible is lost. The pkg directory is organized
// into four areas:
//
//  1. [view] and [merge] - Domain logic (the tree model and the flatten pass)
//  2. [io] and [render] - Serialization and visualization of trees
//  3. [cache] and [observability] - Infrastructure shared by every entry point
//  4. [pipeline] and [server] - Orchestration used by the CLI and HTTP API
//
// # Architecture
//
// The typical data flow through Layermerge:
//
//	JSON / YAML / TOML document
//	         ↓
//	    [io] package (decode into a view tree)
//	         ↓
//	    [view] package (optional layout at a viewport size)
//	         ↓
//	    [merge] package (readiness check, then flatten)
//	         ↓
//	    [io] or [render] (document, DOT/SVG/PNG, or text outline)
//
// # Quick Start
//
// Flatten a laid-out tree, keeping container backgrounds as placeholders:
//
//	import (
//	    "github.com/matzehuels/layermerge/pkg/merge"
//	    "github.com/matzehuels/layermerge/pkg/view"
//	)
//
//	root := view.NewContainer("root", view.Frame)
//	card := view.NewContainer("card", view.Vertical)
//	card.AddChild(view.NewLeaf("title"))
//	root.AddChild(card)
//	view.Layout(root, 1080, 1920)
//
//	if merge.NeedMerge(root) && merge.IsReadyToMerge(root) {
//	    m, _ := merge.New(root, &merge.Options{
//	        Flags:     merge.ExtractBackground,
//	        Threshold: merge.DefaultThreshold,
//	    })
//	    done, err := m.MergeChildrenLayers()
//	    // ...
//	}
//
// The [pipeline] package wraps these steps with caching, logging and
// observability hooks, and never mutates its input.
//
// # Main Packages
//
// ## Domain Logic
//
// [view] - Nodes, orientations, margins, paints and handlers. A small
// measure/layout engine stacks children horizontally or vertically, or
// overlays them in frames, and records each node's bounds.
//
// [merge] - The merge manager. [merge.NeedMerge] and [merge.IsReadyToMerge]
// decide whether a pass is worthwhile; [merge.Manager] extracts leaves in
// draw order, synthesizes placeholders for containers whose attributes are
// selected by [merge.Flags], and re-attaches everything under the root.
// Location, readiness, background and event lookups are pluggable through
// [merge.Capabilities].
//
// ## Serialization and Visualization
//
// [io] - Versioned tree documents in JSON, YAML and TOML.
//
// [render/dot] - Hierarchy diagrams through Graphviz (DOT, SVG, PNG).
//
// [render/text] - Terminal outlines styled with lipgloss.
//
// ## Infrastructure
//
// [cache] - Result caching with memory (LRU), file, Redis and MongoDB
// backends, plus key derivation from canonical tree hashes.
//
// [observability] - Hook registries for pipeline, cache, render and HTTP
// events. All hooks default to no-ops.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// ## Orchestration
//
// [pipeline] - The complete flatten pass (decode, check, merge, encode)
// used by the CLI and the API server. Ensures consistent behavior across
// entry points and deduplicates concurrent identical requests.
//
// [server] - HTTP API exposing flatten, check and render over JSON.
//
// [buildinfo] - Version information set at build time.
//
// [view]: github.com/matzehuels/layermerge/pkg/view
// [merge]: github.com/matzehuels/layermerge/pkg/merge
// [merge.NeedMerge]: github.com/matzehuels/layermerge/pkg/merge#NeedMerge
// [merge.IsReadyToMerge]: github.com/matzehuels/layermerge/pkg/merge#IsReadyToMerge
// [merge.Manager]: github.com/matzehuels/layermerge/pkg/merge#Manager
// [merge.Flags]: github.com/matzehuels/layermerge/pkg/merge#Flags
// [merge.Capabilities]: github.com/matzehuels/layermerge/pkg/merge#Capabilities
// [io]: github.com/matzehuels/layermerge/pkg/io
// [render]: github.com/matzehuels/layermerge/pkg/render
// [render/dot]: github.com/matzehuels/layermerge/pkg/render/dot
// [render/text]: github.com/matzehuels/layermerge/pkg/render/text
// [cache]: github.com/matzehuels/layermerge/pkg/cache
// [observability]: github.com/matzehuels/layermerge/pkg/observability
// [errors]: github.com/matzehuels/layermerge/pkg/errors
// [pipeline]: github.com/matzehuels/layermerge/pkg/pipeline
// [server]: github.com/matzehuels/layermerge/pkg/server
// [buildinfo]: github.com/matzehuels/layermerge/pkg/buildinfo
package pkg
