package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	treeio "github.com/matzehuels/layermerge/pkg/io"
	"github.com/matzehuels/layermerge/pkg/observability"
	"github.com/matzehuels/layermerge/pkg/render/dot"
	"github.com/matzehuels/layermerge/pkg/render/text"
	"github.com/matzehuels/layermerge/pkg/view"
)

// Render output formats beyond the document formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatText = "text"
)

// RenderFormats lists every format [Render] accepts.
var RenderFormats = append([]string{FormatDOT, FormatSVG, FormatPNG, FormatText}, treeio.Formats...)

// RenderOptions configures [Render].
type RenderOptions struct {
	// Detailed adds kind, bounds, and attributes to diagram labels.
	Detailed bool

	// Styles colors text outlines. nil renders plain text.
	Styles *text.Styles

	// MaxDepth limits text outlines. Zero means no limit.
	MaxDepth int
}

// Render draws tree in format. Document formats (json, yaml, toml) encode the
// tree instead of drawing it. The tree is not modified.
func Render(ctx context.Context, tree *view.Node, format string, opts RenderOptions) ([]byte, error) {
	if tree == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "tree is required")
	}
	if err := apperr.ValidateFormat(format, RenderFormats); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	data, err := render(tree, format, opts)
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func render(tree *view.Node, format string, opts RenderOptions) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot.ToDOT(tree, dot.Options{Detailed: opts.Detailed})), nil
	case FormatSVG:
		return dot.RenderSVG(dot.ToDOT(tree, dot.Options{Detailed: opts.Detailed}))
	case FormatPNG:
		return dot.RenderPNG(dot.ToDOT(tree, dot.Options{Detailed: opts.Detailed}))
	case FormatText:
		return []byte(text.Outline(tree, text.Options{Styles: opts.Styles, MaxDepth: opts.MaxDepth})), nil
	default:
		var buf bytes.Buffer
		if err := treeio.Encode(&buf, tree, treeio.Format(format)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}
