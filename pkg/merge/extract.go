package merge

import (
	"fmt"

	"github.com/matzehuels/layermerge/pkg/view"
)

// extract collects parent's descendants in draw order, threading the
// not-ready count through the recursion. It returns false without
// detaching parent's children once the count reaches the threshold.
func (m *Manager) extract(parent *view.Node, notReady int) (int, bool, error) {
	for _, c := range parent.Children() {
		if c.IsContainer() && m.listener != nil {
			if res := m.listener.OnExtract(c); res != nil {
				if !res.Valid() {
					return notReady, false, fmt.Errorf("container %q: %v: %w", c.ID, res, ErrInvalidResult)
				}
				for i, v := range res.Views {
					m.collect(v, res.Locs[i])
				}
				m.stats.Leaves += len(res.Views)
				if !res.Handle {
					continue
				}
			}
		}

		if !m.caps.Readiness.IsReady(c) {
			notReady++
		}
		if exhausted(notReady, m.threshold) {
			return notReady, false, nil
		}

		loc := m.caps.Location.RelativeLocation(c, m.root)
		m.logger.Debug("extract", "id", c.ID, "kind", c.Kind(), "left", loc.Left, "top", loc.Top, "not_ready", notReady)

		if !c.IsContainer() {
			m.collect(c, loc)
			m.stats.Leaves++
			continue
		}

		if holder := m.placeholderFor(c); holder != nil {
			m.collect(holder, loc)
			m.stats.Placeholders++
		}

		var ok bool
		var err error
		if notReady, ok, err = m.extract(c, notReady); !ok || err != nil {
			return notReady, false, err
		}
	}

	parent.RemoveAllChildren()
	return notReady, true, nil
}
