package dropdown

import (
	"github.com/1broseidon/termdrop/internal/geometry"
	"github.com/1broseidon/termdrop/internal/ipc"
	"github.com/1broseidon/termdrop/internal/platform"
)

// Backend turns classified events into compositor commands. The variants
// differ in coordinate convention and in which events they trust.
type Backend interface {
	Name() string
	beforeSpawn(m *Machine)
	align(m *Machine, ev Event)
	tracksMoves() bool
}

// NewBackend returns the backend suited to the compositor family.
func NewBackend(family platform.Family) Backend {
	if family == platform.FamilySway {
		return relative{}
	}
	return absolute{}
}

// relative expresses geometry in ppt of the window's own workspace (Sway).
type relative struct{}

func (relative) Name() string { return "relative" }

// Sway reparents a moved floating window on an inactive workspace back to
// the active workspace of its output (swaywm/sway#6465), so move events
// cannot be trusted.
func (relative) tracksMoves() bool { return false }

// beforeSpawn installs a rule so the new window is floated and aligned as
// soon as it maps.
func (relative) beforeSpawn(m *Machine) {
	r := m.target(nil)
	m.sendRule(cmdFloat, percentUnits.resizeTo(r), percentUnits.moveTo(r))
}

func (b relative) align(m *Machine, ev Event) {
	if ev == EventSpawned {
		return
	}
	if ev == EventFloated && m.opts.CrosstalkDelay > 0 {
		// A resize in the same transaction as the float can be dropped.
		m.sleep(m.opts.CrosstalkDelay)
	}
	r := m.target(nil)
	switch ev {
	case EventShow:
		if m.opts.Anim.ShowEnabled() {
			m.slide(percentUnits, geometry.PercentFrame, r, false, false)
			return
		}
		m.send(cmdFetch(m.tracker.FocusedWS.Name), percentUnits.resizeTo(r), percentUnits.moveTo(r), cmdFocus)
	case EventHide:
		if m.opts.Anim.HideEnabled() && b.undisturbed(m, r) {
			m.slide(percentUnits, geometry.PercentFrame, r, true, false)
			return
		}
		m.send(cmdHide)
	default:
		m.send(percentUnits.resizeTo(r), percentUnits.moveTo(r))
	}
}

// undisturbed reports whether the window still sits exactly where a ppt
// alignment on the focused workspace put it. Sway truncates ppt to px.
func (relative) undisturbed(m *Machine, r geometry.Rect) bool {
	wr := m.tracker.FocusedWS.Rect
	cr := m.tracker.ConRect
	return cr.X == int(float64(r.X)/100*float64(wr.Width)+float64(wr.X)) &&
		cr.Y == int(float64(r.Y)/100*float64(wr.Height)+float64(wr.Y)) &&
		cr.Width == int(float64(wr.Width)*(float64(r.Width)/100)) &&
		cr.Height == int(float64(wr.Height)*(float64(r.Height)/100))
}

// absolute expresses geometry in pixels (i3). i3 resolves ppt moves against
// the bounding box of all outputs, so the destination workspace rect is
// looked up and the window placed absolutely. i3 also reassigns a floating
// window to whichever output holds its centre, so slides stop half way off
// the frame instead of leaving it.
type absolute struct{}

func (absolute) Name() string { return "absolute" }

func (absolute) tracksMoves() bool { return true }

func (absolute) beforeSpawn(*Machine) {}

func (absolute) align(m *Machine, ev Event) {
	if ev == EventSpawned {
		// The resulting floating event performs the real alignment.
		m.send(cmdFloat)
		return
	}
	name, frame := m.tracker.ConWS.Name, frameOf(m.tracker.ConWS.Rect)
	if ev == EventShow {
		name, frame = m.tracker.FocusedWS.Name, frameOf(m.tracker.FocusedWS.Rect)
	}
	r := m.target(&frame)
	switch ev {
	case EventShow:
		if m.opts.Anim.ShowEnabled() {
			m.slide(pixelUnits, frame, r, false, true)
			return
		}
		m.send(cmdFetch(name), pixelUnits.resizeTo(r), pixelUnits.moveTo(r), cmdFocus)
	case EventHide:
		if m.opts.Anim.HideEnabled() && m.tracker.ConRect == r {
			m.slide(pixelUnits, frame, r, true, true)
			return
		}
		m.send(cmdHide)
	default:
		m.send(pixelUnits.resizeTo(r), pixelUnits.moveTo(r))
	}
}

func frameOf(r ipc.Rect) geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
