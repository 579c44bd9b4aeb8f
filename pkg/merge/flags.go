package merge

import (
	"strings"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
	"github.com/matzehuels/layermerge/pkg/view"
)

// Flags selects which container attributes are preserved as placeholders.
type Flags uint8

const (
	// ExtractNone only moves leaves; container attributes are dropped.
	ExtractNone Flags = 0
	// ExtractBackground preserves container backgrounds.
	ExtractBackground = Flags(view.AttrBackground)
	// ExtractClick preserves container click handlers.
	ExtractClick = Flags(view.AttrClick)
	// ExtractLongClick preserves container long-click handlers.
	ExtractLongClick = Flags(view.AttrLongClick)
	// ExtractAllEvents preserves click and long-click handlers.
	ExtractAllEvents = ExtractClick | ExtractLongClick
	// ExtractAll preserves backgrounds and both handlers.
	ExtractAll = ExtractBackground | ExtractAllEvents
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{ExtractBackground, "background"},
	{ExtractClick, "click"},
	{ExtractLongClick, "longclick"},
}

// Has reports whether every bit of o is set in f.
func (f Flags) Has(o Flags) bool { return f&o == o }

// Attr converts f to the matching view attribute mask.
func (f Flags) Attr() view.Attr { return view.Attr(f) }

// String returns the set flags joined by "|", or "none".
func (f Flags) String() string {
	if f == ExtractNone {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFlags parses a comma- or pipe-separated list of flag names.
// Accepted names are none, background, click, longclick, events and all.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		switch name := strings.ToLower(strings.TrimSpace(part)); name {
		case "", "none":
		case "background", "bg":
			f |= ExtractBackground
		case "click":
			f |= ExtractClick
		case "longclick", "long-click", "long_click":
			f |= ExtractLongClick
		case "events":
			f |= ExtractAllEvents
		case "all":
			f |= ExtractAll
		default:
			return ExtractNone, apperr.New(apperr.ErrCodeInvalidFlags, "unknown extraction flag %q", name)
		}
	}
	return f, nil
}

// PlaceholderFlags returns the attributes a placeholder holds, and false if
// n is not a placeholder.
func PlaceholderFlags(n *view.Node) (Flags, bool) {
	p, ok := n.Placeholder()
	return Flags(p.Applied), ok
}
