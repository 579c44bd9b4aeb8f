// Package text renders view trees as indented terminal outlines.
//
// Each line shows a node's id, its kind, its measured size, its position
// relative to the outline's root, and any attributes it holds:
//
//	root frame 300x200 @ 0,0
//	├── A frame 100x100 @ 10,10 bg=#fff
//	│   └── L 4x4 @ 17,17
//	└── N 20x20 @ 200,0
//
// Leaves omit the kind; placeholders list the attribute classes they carry.
// Pass [DefaultStyles] to color the output with lipgloss.
package text

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/layermerge/pkg/view"
)

// Styles colors the parts of an outline line.
type Styles struct {
	Branch      lipgloss.Style
	ID          lipgloss.Style
	Kind        lipgloss.Style
	Geometry    lipgloss.Style
	Attr        lipgloss.Style
	Placeholder lipgloss.Style
}

// DefaultStyles returns the palette used by the CLI.
func DefaultStyles() *Styles {
	return &Styles{
		Branch:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ID:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		Kind:        lipgloss.NewStyle().Foreground(lipgloss.Color("36")),
		Geometry:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Attr:        lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Italic(true),
	}
}

// Options configures outline rendering.
type Options struct {
	// Styles colors the output. nil renders plain text.
	Styles *Styles

	// MaxDepth limits how deep the outline descends. Zero means no limit.
	MaxDepth int
}

// Outline renders root and its descendants, one node per line.
func Outline(root *view.Node, opts Options) string {
	return strings.Join(Lines(root, opts), "\n") + "\n"
}

// Lines is [Outline] split into lines, without trailing newlines.
func Lines(root *view.Node, opts Options) []string {
	r := renderer{root: root, styles: opts.Styles, maxDepth: opts.MaxDepth}
	r.node(root, "", "", 0)
	return r.lines
}

type renderer struct {
	root     *view.Node
	styles   *Styles
	maxDepth int
	lines    []string
}

func (r *renderer) node(n *view.Node, prefix, branch string, depth int) {
	r.lines = append(r.lines, r.style(func(s *Styles) lipgloss.Style { return s.Branch }, prefix+branch)+r.describe(n))

	if r.maxDepth > 0 && depth >= r.maxDepth {
		if n.ChildCount() > 0 {
			r.lines = append(r.lines, r.style(func(s *Styles) lipgloss.Style { return s.Branch }, prefix+indent(branch)+"└── ")+
				r.style(func(s *Styles) lipgloss.Style { return s.Geometry }, fmt.Sprintf("… %d more", n.ChildCount())))
		}
		return
	}

	childPrefix := prefix + indent(branch)
	for i := 0; i < n.ChildCount(); i++ {
		b := "├── "
		if i == n.ChildCount()-1 {
			b = "└── "
		}
		r.node(n.ChildAt(i), childPrefix, b, depth+1)
	}
}

func indent(branch string) string {
	switch branch {
	case "":
		return ""
	case "├── ":
		return "│   "
	default:
		return "    "
	}
}

func (r *renderer) describe(n *view.Node) string {
	parts := []string{r.style(func(s *Styles) lipgloss.Style { return s.ID }, n.ID)}

	if n.IsContainer() {
		parts = append(parts, r.style(func(s *Styles) lipgloss.Style { return s.Kind }, n.Orientation.String()))
	}
	if p, ok := n.Placeholder(); ok {
		parts = append(parts, r.style(func(s *Styles) lipgloss.Style { return s.Placeholder }, "placeholder["+attrNames(p.Applied)+"]"))
	}

	geom := "unmeasured"
	if n.Measured() {
		left, top, _ := view.AbsoluteOffset(n, r.root)
		geom = fmt.Sprintf("%dx%d @ %d,%d", n.Width(), n.Height(), left, top)
	}
	parts = append(parts, r.style(func(s *Styles) lipgloss.Style { return s.Geometry }, geom))

	if n.Background != nil {
		parts = append(parts, r.style(func(s *Styles) lipgloss.Style { return s.Attr }, "bg="+n.Background.Color))
	}
	if n.OnClick != nil {
		parts = append(parts, r.style(func(s *Styles) lipgloss.Style { return s.Attr }, "click="+n.OnClick.Name))
	}
	if n.OnLongClick != nil {
		parts = append(parts, r.style(func(s *Styles) lipgloss.Style { return s.Attr }, "longclick="+n.OnLongClick.Name))
	}
	return strings.Join(parts, " ")
}

func (r *renderer) style(pick func(*Styles) lipgloss.Style, s string) string {
	if r.styles == nil || s == "" {
		return s
	}
	return pick(r.styles).Render(s)
}

func attrNames(a view.Attr) string {
	var names []string
	if a&view.AttrBackground != 0 {
		names = append(names, "background")
	}
	if a&view.AttrClick != 0 {
		names = append(names, "click")
	}
	if a&view.AttrLongClick != 0 {
		names = append(names, "longclick")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
