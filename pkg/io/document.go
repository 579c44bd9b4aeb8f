package io

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/view"
)

// Version is the document version written by [Encode].
const Version = 1

// Document is the serialized form of a view tree.
type Document struct {
	Version int     `json:"version" yaml:"version" toml:"version"`
	Root    NodeDoc `json:"root" yaml:"root" toml:"root"`
}

// NodeDoc is the serialized form of a single node.
type NodeDoc struct {
	ID          string    `json:"id" yaml:"id" toml:"id"`
	Kind        string    `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Orientation string    `json:"orientation,omitempty" yaml:"orientation,omitempty" toml:"orientation,omitempty"`
	Width       Dim       `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height      Dim       `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	Margin      []int     `json:"margin,omitempty" yaml:"margin,omitempty,flow" toml:"margin,omitempty"`
	Bounds      []int     `json:"bounds,omitempty" yaml:"bounds,omitempty,flow" toml:"bounds,omitempty"`
	Intrinsic   []int     `json:"intrinsic,omitempty" yaml:"intrinsic,omitempty,flow" toml:"intrinsic,omitempty"`
	Background  string    `json:"background,omitempty" yaml:"background,omitempty" toml:"background,omitempty"`
	OnClick     string    `json:"on_click,omitempty" yaml:"on_click,omitempty" toml:"on_click,omitempty"`
	OnLongClick string    `json:"on_long_click,omitempty" yaml:"on_long_click,omitempty" toml:"on_long_click,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	Children    []NodeDoc `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

const (
	kindContainer = "container"
	kindLeaf      = "leaf"
)

// =============================================================================
// Dimensions
// =============================================================================

// Dim is a serialized width or height: a pixel count, "match", or "wrap".
// The empty Dim means "wrap".
type Dim string

const (
	DimMatch Dim = "match"
	DimWrap  Dim = "wrap"
)

// DimOf converts a [view.Params] dimension to its serialized form.
func DimOf(v int) Dim {
	switch v {
	case view.MatchParent:
		return DimMatch
	case view.WrapContent:
		return DimWrap
	default:
		return Dim(strconv.Itoa(v))
	}
}

// Value converts d to a [view.Params] dimension.
func (d Dim) Value() (int, error) {
	switch d {
	case "", DimWrap:
		return view.WrapContent, nil
	case DimMatch:
		return view.MatchParent, nil
	}
	n, err := strconv.Atoi(string(d))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid dimension %q (want pixels, %q, or %q)", string(d), DimMatch, DimWrap)
	}
	return n, nil
}

func (d Dim) pixels() (int, bool) {
	n, err := strconv.Atoi(string(d))
	return n, err == nil
}

// MarshalJSON writes pixel counts as numbers and keywords as strings.
func (d Dim) MarshalJSON() ([]byte, error) {
	if n, ok := d.pixels(); ok {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts a number or a string.
func (d *Dim) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Dim(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = Dim(n.String())
	return nil
}

// MarshalYAML writes pixel counts as integers and keywords as strings.
func (d Dim) MarshalYAML() (any, error) {
	if n, ok := d.pixels(); ok {
		return n, nil
	}
	return string(d), nil
}

// UnmarshalYAML accepts any scalar.
func (d *Dim) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: dimension must be a scalar", value.Line)
	}
	*d = Dim(value.Value)
	return nil
}

// MarshalTOML writes pixel counts as integers and keywords as strings.
func (d Dim) MarshalTOML() ([]byte, error) {
	if n, ok := d.pixels(); ok {
		return []byte(strconv.Itoa(n)), nil
	}
	return []byte(strconv.Quote(string(d))), nil
}

// UnmarshalTOML accepts an integer or a string.
func (d *Dim) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case int64:
		*d = Dim(strconv.FormatInt(v, 10))
	case string:
		*d = Dim(v)
	default:
		return fmt.Errorf("dimension must be an integer or string, got %T", v)
	}
	return nil
}

// =============================================================================
// Attributes
// =============================================================================

var attrNames = []struct {
	attr view.Attr
	name string
}{
	{view.AttrBackground, "background"},
	{view.AttrClick, "click"},
	{view.AttrLongClick, "longclick"},
}

func formatAttrs(a view.Attr) string {
	var parts []string
	for _, an := range attrNames {
		if a&an.attr != 0 {
			parts = append(parts, an.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

func parseAttrs(s string) (view.Attr, error) {
	var a view.Attr
	for _, part := range strings.Split(s, "|") {
		name := strings.TrimSpace(part)
		if name == "none" {
			continue
		}
		found := false
		for _, an := range attrNames {
			if an.name == name {
				a |= an.attr
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown placeholder attribute %q", name)
		}
	}
	return a, nil
}

// =============================================================================
// Conversion
// =============================================================================

// FromTree converts a view tree to its document form.
func FromTree(root *view.Node) Document {
	return Document{Version: Version, Root: fromNode(root)}
}

func fromNode(n *view.Node) NodeDoc {
	d := NodeDoc{
		ID:     n.ID,
		Kind:   kindLeaf,
		Width:  DimOf(n.Params.Width),
		Height: DimOf(n.Params.Height),
	}
	if n.IsContainer() {
		d.Kind = kindContainer
		d.Orientation = n.Orientation.String()
	}
	if m := n.Params.Margin; m != (view.Margin{}) {
		d.Margin = []int{m.Left, m.Top, m.Right, m.Bottom}
	}
	if n.Measured() {
		b := n.Bounds()
		d.Bounds = []int{b.Left, b.Top, b.Width, b.Height}
	}
	if n.Intrinsic != (view.Size{}) {
		d.Intrinsic = []int{n.Intrinsic.Width, n.Intrinsic.Height}
	}
	if n.Background != nil {
		d.Background = n.Background.Color
	}
	if n.OnClick != nil {
		d.OnClick = n.OnClick.Name
	}
	if n.OnLongClick != nil {
		d.OnLongClick = n.OnLongClick.Name
	}
	if p, ok := n.Placeholder(); ok {
		d.Placeholder = formatAttrs(p.Applied)
	}
	for _, c := range n.Children() {
		d.Children = append(d.Children, fromNode(c))
	}
	return d
}

// Tree builds the view tree described by doc. Measured bounds are restored
// for nodes that carry them.
func (doc Document) Tree() (*view.Node, error) {
	if doc.Version > Version {
		return nil, apperr.New(apperr.ErrCodeUnsupported, "document version %d is newer than supported version %d", doc.Version, Version)
	}
	return doc.Root.node(doc.Root.ID)
}

func (d NodeDoc) node(path string) (*view.Node, error) {
	invalid := func(format string, args ...any) error {
		return apperr.New(apperr.ErrCodeInvalidTree, "%s: %s", path, fmt.Sprintf(format, args...))
	}

	if err := apperr.ValidateNodeID(d.ID); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidTree, err, "%s", path)
	}

	kind := d.Kind
	if kind == "" {
		kind = kindLeaf
		if len(d.Children) > 0 || d.Orientation != "" {
			kind = kindContainer
		}
	}

	var n *view.Node
	switch kind {
	case kindContainer:
		o, err := parseOrientation(d.Orientation)
		if err != nil {
			return nil, invalid("%v", err)
		}
		if d.Placeholder != "" {
			return nil, invalid("a container cannot be a placeholder")
		}
		n = view.NewContainer(d.ID, o)
	case kindLeaf:
		if len(d.Children) > 0 {
			return nil, invalid("leaf has %d children", len(d.Children))
		}
		if d.Orientation != "" {
			return nil, invalid("leaf has an orientation")
		}
		if d.Placeholder != "" {
			attrs, err := parseAttrs(d.Placeholder)
			if err != nil {
				return nil, invalid("%v", err)
			}
			n = view.NewPlaceholder(d.ID, 0, 0)
			n.MarkPlaceholder(attrs)
		} else {
			n = view.NewLeaf(d.ID)
		}
	default:
		return nil, invalid("unknown kind %q", d.Kind)
	}

	w, err := d.Width.Value()
	if err != nil {
		return nil, invalid("width: %v", err)
	}
	h, err := d.Height.Value()
	if err != nil {
		return nil, invalid("height: %v", err)
	}
	n.Params = view.Params{Width: w, Height: h}

	if len(d.Margin) > 0 {
		if len(d.Margin) != 4 {
			return nil, invalid("margin needs 4 values [left, top, right, bottom], got %d", len(d.Margin))
		}
		n.Params.Margin = view.Margin{Left: d.Margin[0], Top: d.Margin[1], Right: d.Margin[2], Bottom: d.Margin[3]}
	}
	if len(d.Bounds) > 0 {
		if len(d.Bounds) != 4 {
			return nil, invalid("bounds needs 4 values [left, top, width, height], got %d", len(d.Bounds))
		}
		n.SetBounds(view.Rect{Left: d.Bounds[0], Top: d.Bounds[1], Width: d.Bounds[2], Height: d.Bounds[3]})
	}
	if len(d.Intrinsic) > 0 {
		if len(d.Intrinsic) != 2 {
			return nil, invalid("intrinsic needs 2 values [width, height], got %d", len(d.Intrinsic))
		}
		n.Intrinsic = view.Size{Width: d.Intrinsic[0], Height: d.Intrinsic[1]}
	}

	if d.Background != "" {
		n.Background = &view.Paint{Color: d.Background}
	}
	if d.OnClick != "" {
		n.OnClick = &view.Handler{Name: d.OnClick}
	}
	if d.OnLongClick != "" {
		n.OnLongClick = &view.Handler{Name: d.OnLongClick}
	}

	for i, cd := range d.Children {
		child, err := cd.node(fmt.Sprintf("%s/%s", path, childName(cd, i)))
		if err != nil {
			return nil, err
		}
		if err := n.AddChild(child); err != nil {
			return nil, invalid("child %d: %v", i, err)
		}
	}
	return n, nil
}

func childName(d NodeDoc, i int) string {
	if d.ID != "" {
		return d.ID
	}
	return fmt.Sprintf("[%d]", i)
}

func parseOrientation(s string) (view.Orientation, error) {
	switch s {
	case "", "frame":
		return view.Frame, nil
	case "vertical":
		return view.Vertical, nil
	case "horizontal":
		return view.Horizontal, nil
	default:
		return view.Frame, fmt.Errorf("unknown orientation %q", s)
	}
}
