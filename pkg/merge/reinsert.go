package merge

// reinsert attaches every collected node to the root in collection order
// with a top-left margin at its recorded location, then pins the root to
// the size captured at construction.
//
// Nodes that already have a parent are skipped; a listener may have placed
// them itself. When extraction failed, placeholders holding attributes are
// skipped too: their containers may still be attached and drawing.
func (m *Manager) reinsert(extracted bool) {
	for i, child := range m.leaves {
		if child.Parent() != nil {
			m.stats.Skipped++
			continue
		}
		if !extracted {
			if applied, ok := PlaceholderFlags(child); ok && applied > 0 {
				m.stats.Skipped++
				continue
			}
		}

		loc := m.locs[i]
		params := child.Params.Clone().WithMargin(loc.Left, loc.Top, 0, 0)
		if err := m.root.AddChildWithParams(child, params); err != nil {
			m.logger.Warn("reinsert failed", "id", child.ID, "err", err)
			m.stats.Skipped++
			continue
		}
		m.stats.Reinserted++
	}

	p := m.root.Params
	p.Width, p.Height = m.width, m.height
	m.root.SetParams(p)

	m.leaves, m.locs = nil, nil
}
