// Package io reads and writes view trees as JSON, YAML, or TOML documents.
//
// # Overview
//
// A document wraps a single root node. Every node records its kind, layout
// parameters, optional measured bounds, and attributes:
//
//	{
//	  "version": 1,
//	  "root": {
//	    "id": "screen",
//	    "kind": "container",
//	    "width": 320,
//	    "height": "wrap",
//	    "children": [
//	      {"id": "card", "kind": "container", "margin": [8, 8, 0, 0],
//	       "background": "#ffffff", "on_click": "open-card",
//	       "children": [{"id": "title", "width": 120, "height": 24}]}
//	    ]
//	  }
//	}
//
// The same schema is used for YAML and TOML; field names are identical.
//
// # Node Fields
//
// Required:
//   - id: node identifier, unique by convention but not enforced
//
// Optional:
//   - kind: "container" or "leaf" (inferred from children when omitted)
//   - orientation: "frame", "vertical", or "horizontal" (containers only)
//   - width, height: pixels, "match", or "wrap" (default "wrap")
//   - margin: [left, top, right, bottom]
//   - bounds: [left, top, width, height] measured geometry
//   - intrinsic: [width, height] content size for wrap-content leaves
//   - background: paint color
//   - on_click, on_long_click: handler names
//   - placeholder: attribute classes of a synthetic placeholder leaf,
//     "none" or a "|"-separated list of background, click, longclick
//
// Handlers are stored by name only, so a decoded tree carries handlers with
// no function attached. Callers that need behavior rebind by name.
//
// # Import and Export
//
// Use [Decode] and [Encode] with an explicit [Format], or [ImportFile] and
// [ExportFile], which pick the format from the file extension:
//
//	root, err := io.ImportFile("screen.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = io.ExportFile(root, "screen.json")
//
// Decoding rejects unknown fields, malformed dimensions, and leaves with
// children. Errors carry codes from [errors] and name the offending node by
// its path from the root.
//
// [errors]: github.com/matzehuels/layermerge/pkg/errors
package io
