// Package dropdown is the alignment state machine: it reacts to compositor
// events by spawning, hiding, showing or re-aligning the managed window.
//
// All handlers run on the IPC event loop goroutine and never overlap. A
// slide animation blocks that goroutine until it completes, so toggles
// pressed mid-animation queue at the IPC layer instead of preempting it.
//
// On i3 a slide never moves the window centre off its workspace's output,
// since i3 would move it to the neighbouring output's workspace mid-slide.
// Sway slides fully off-screen.
package dropdown

import (
	"log/slog"
	"os"
	"time"

	"github.com/1broseidon/termdrop/internal/anim"
	"github.com/1broseidon/termdrop/internal/geometry"
	"github.com/1broseidon/termdrop/internal/ipc"
	"github.com/1broseidon/termdrop/internal/tracker"
)

// Event is the classified reason for an alignment.
type Event int

const (
	EventShow Event = iota
	EventHide
	EventFloated
	EventMoved
	EventSpawned
)

func (e Event) String() string {
	switch e {
	case EventShow:
		return "show"
	case EventHide:
		return "hide"
	case EventFloated:
		return "floated"
	case EventMoved:
		return "moved"
	case EventSpawned:
		return "spawned"
	}
	return "unknown"
}

// Compositor is the IPC surface the machine needs.
type Compositor interface {
	tracker.Querier
	Commander
}

// EventSource delivers compositor events; *ipc.Conn implements it.
type EventSource interface {
	OnBinding(fn func(*ipc.BindingEvent))
	OnWindow(change string, fn func(*ipc.WindowEvent))
	OnShutdown(change string, fn func(*ipc.ShutdownEvent))
}

// Machine reacts to compositor events for a single dropdown instance.
type Machine struct {
	opts    Options
	comp    Compositor
	tracker *tracker.Tracker
	backend Backend
	memo    *geometry.Memo
	driver  *anim.Driver
	sleep   func(time.Duration)
	exit    func(code int)
	logger  *slog.Logger
}

// Option customises a Machine.
type Option func(*Machine)

// WithDriver sets the animation driver.
func WithDriver(d *anim.Driver) Option {
	return func(m *Machine) { m.driver = d }
}

// WithSleep replaces time.Sleep for the crosstalk delay.
func WithSleep(sleep func(time.Duration)) Option {
	return func(m *Machine) { m.sleep = sleep }
}

// WithExit replaces os.Exit for the shutdown handler.
func WithExit(exit func(code int)) Option {
	return func(m *Machine) { m.exit = exit }
}

// New creates a machine bound to comp, using backend for geometry and
// command emission.
func New(comp Compositor, backend Backend, opts Options, logger *slog.Logger, options ...Option) *Machine {
	m := &Machine{
		opts:    opts,
		comp:    comp,
		tracker: tracker.New(comp, opts.Name, opts.Client.Criterion, opts.Loyal, logger),
		backend: backend,
		memo:    geometry.NewMemo(),
		driver:  anim.NewDriver(),
		sleep:   time.Sleep,
		exit:    os.Exit,
		logger:  logger.With("component", "dropdown", "backend", backend.Name()),
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// Tracker exposes the association state, mainly for diagnostics.
func (m *Machine) Tracker() *tracker.Tracker {
	return m.tracker
}

// Attach registers the machine's handlers on src.
func (m *Machine) Attach(src EventSource) {
	src.OnBinding(m.HandleBinding)
	src.OnWindow("new", m.HandleWindowNew)
	src.OnWindow("floating", m.HandleWindowFloating)
	src.OnWindow("move", m.HandleWindowMove)
	src.OnShutdown("exit", m.HandleShutdown)
}

// HandleBinding toggles the window when our "nop <name>" binding fires,
// spawning a client if none exists.
func (m *Machine) HandleBinding(ev *ipc.BindingEvent) {
	if ev.Binding.Command != "nop "+m.opts.Name {
		return
	}
	m.logger.Debug("keybind", "command", ev.Binding.Command)
	m.memo.Reset()
	switch {
	case !m.tracker.Refresh():
		if !m.tracker.Bound() {
			m.spawn()
		}
	case m.tracker.OnFocusedWorkspace():
		m.align(EventHide)
	default:
		m.align(EventShow)
	}
}

// HandleWindowNew binds to a freshly created window matching our name.
func (m *Machine) HandleWindowNew(ev *ipc.WindowEvent) {
	con := &ev.Container
	if !m.tracker.Matches(con) {
		return
	}
	m.logger.Debug("matched new window",
		"criterion", string(m.opts.Client.Criterion), "name", m.opts.Name, "con_id", con.ID)
	if !m.tracker.Claim(con.ID) {
		return
	}
	m.memo.Reset()
	if m.tracker.Refresh() {
		m.align(EventSpawned)
	}
}

// HandleWindowFloating aligns the window when it transitions to floating.
func (m *Machine) HandleWindowFloating(ev *ipc.WindowEvent) {
	con := &ev.Container
	if !con.IsFloating() || !m.concerns(con, false) {
		return
	}
	m.memo.Reset()
	// Toggling while tiled floats into the scratchpad; leave it there.
	if !m.tracker.Refresh() || m.tracker.InScratchpad() {
		return
	}
	m.align(EventFloated)
}

// HandleWindowMove re-aligns the floating window after it lands on another
// workspace, typically on a differently sized output.
func (m *Machine) HandleWindowMove(ev *ipc.WindowEvent) {
	if !m.backend.tracksMoves() {
		return
	}
	con := &ev.Container
	if con.Type != "floating_con" || !m.concerns(con, true) {
		return
	}
	m.memo.Reset()
	if !m.tracker.Refresh() || m.tracker.OnFocusedWorkspace() || m.tracker.InScratchpad() {
		return
	}
	m.align(EventMoved)
}

// HandleShutdown exits as soon as the compositor announces it is leaving.
func (m *Machine) HandleShutdown(*ipc.ShutdownEvent) {
	m.logger.Debug("received IPC shutdown; exiting")
	m.exit(0)
}

// concerns reports whether an event container refers to our window. With
// nested set, the container may be a wrapper around it (i3 floating_con).
// Migratory marks are re-matched by attribute since the id may change.
func (m *Machine) concerns(con *ipc.Node, nested bool) bool {
	if m.tracker.Migratory() {
		if m.tracker.Matches(con) {
			return true
		}
		if nested {
			for _, child := range con.Descendants() {
				if m.tracker.Matches(child) {
					return true
				}
			}
		}
		return false
	}
	if !m.tracker.Bound() {
		return false
	}
	if con.ID == m.tracker.ConID {
		return true
	}
	return nested && con.FindByID(m.tracker.ConID) != nil
}

func (m *Machine) align(ev Event) {
	m.logger.Debug("align", "event", ev.String())
	m.backend.align(m, ev)
}

// target returns the memoized target rect for the current decision.
func (m *Machine) target(frame *geometry.Rect) geometry.Rect {
	return m.memo.Target(m.opts.Shape, m.opts.Position, frame)
}
