package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/layermerge/pkg/view"
)

// Options configures diagram generation.
type Options struct {
	// Detailed includes kind, bounds, and attributes in node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a view tree to Graphviz DOT source.
//
// Node ids need not be unique (a placeholder keeps its container's id), so
// graph nodes are keyed by pre-order index and labeled with the view id.
func ToDOT(root *view.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	keys := make(map[*view.Node]string)
	var edges []string
	view.Walk(root, func(n *view.Node, _ int) bool {
		key := "n" + strconv.Itoa(len(keys))
		keys[n] = key
		fmt.Fprintf(&buf, "  %s [%s];\n", key, strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
		if p := n.Parent(); p != nil && n != root {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", keys[p], key))
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *view.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	kind := n.Kind().String()
	if n.IsContainer() {
		kind = n.Orientation.String() + " " + kind
	}
	if _, ok := n.Placeholder(); ok {
		kind = "placeholder"
	}
	parts := []string{kind}
	if n.Measured() {
		b := n.Bounds()
		parts = append(parts, fmt.Sprintf("%dx%d @ %d,%d", b.Width, b.Height, b.Left, b.Top))
	}
	if n.Background != nil {
		parts = append(parts, "background: "+n.Background.Color)
	}
	if n.OnClick != nil {
		parts = append(parts, "click: "+n.OnClick.Name)
	}
	if n.OnLongClick != nil {
		parts = append(parts, "longclick: "+n.OnLongClick.Name)
	}

	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *view.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch _, isPlaceholder := n.Placeholder(); {
	case isPlaceholder:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case !n.IsContainer():
		attrs = append(attrs, "style=\"rounded,filled\"")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
