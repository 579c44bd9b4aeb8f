package merge

import "github.com/matzehuels/layermerge/pkg/view"

// placeholderFor synthesizes a leaf carrying src's background and handlers,
// limited to the configured flags. It returns nil when flags are
// ExtractNone or src holds none of the requested attributes.
func (m *Manager) placeholderFor(src *view.Node) *view.Node {
	if m.flags == ExtractNone {
		return nil
	}

	var (
		holder  *view.Node
		applied Flags
	)
	ensure := func() *view.Node {
		if holder == nil {
			holder = view.NewPlaceholder(src.ID, src.Width(), src.Height())
		}
		return holder
	}

	if m.flags.Has(ExtractBackground) {
		if bg := m.caps.background(src); bg != nil {
			applied |= ExtractBackground
			ensure().Background = bg
		}
	}
	if m.flags.Has(ExtractClick) {
		if h := m.caps.Events.Click(src); h != nil {
			applied |= ExtractClick
			ensure().OnClick = h
		}
	}
	if m.flags.Has(ExtractLongClick) {
		if h := m.caps.Events.LongClick(src); h != nil {
			applied |= ExtractLongClick
			ensure().OnLongClick = h
		}
	}

	if holder != nil {
		holder.MarkPlaceholder(applied.Attr())
	}
	return holder
}
