package dropdown

import (
	"github.com/1broseidon/termdrop/internal/geometry"
)

// slide animates the window between its target rect r and the frame edge
// named by the animation anchor. Entry folds fetch, resize and focus into
// the first frame's transaction; exit sends the scratchpad move instead of
// the last frame. With contain the off-screen end stops once the window
// centre reaches the frame edge, keeping the window on the frame's output.
func (m *Machine) slide(u units, frame, r geometry.Rect, hide, contain bool) {
	p := m.opts.Anim
	horizontal := p.Anchor == geometry.AnchorLeft || p.Anchor == geometry.AnchorRight

	var start, end int
	switch p.Anchor {
	case geometry.AnchorLeft:
		start, end = frame.X-r.Width, r.X
		if contain {
			start = frame.X - r.Width/2
		}
	case geometry.AnchorRight:
		start, end = frame.X+frame.Width, r.X
		if contain {
			start = frame.X + frame.Width - r.Width/2 - 1
		}
	case geometry.AnchorTop:
		start, end = frame.Y-r.Height, r.Y
		if contain {
			start = frame.Y - r.Height/2
		}
	case geometry.AnchorBottom:
		start, end = frame.Y+frame.Height, r.Y
		if contain {
			start = frame.Y + frame.Height - r.Height/2 - 1
		}
	}
	duration := p.Show
	if hide {
		start, end = end, start
		duration = p.Hide
	}

	moveAt := func(pos int) string {
		if horizontal {
			return u.move(pos, r.Y)
		}
		return u.move(r.X, pos)
	}
	focused := m.tracker.FocusedWS.Name

	m.driver.Animate(func(pos int, first, last bool) {
		switch {
		case first && !hide:
			m.send(cmdFetch(focused), u.resizeTo(r), moveAt(pos), cmdFocus)
		case last && hide:
			m.send(cmdHide)
		default:
			m.send(moveAt(pos))
		}
	}, start, end, duration, p.FPS, hide)
}
