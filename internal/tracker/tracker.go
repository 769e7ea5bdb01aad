// Package tracker binds a compositor window to a logical instance name and
// resolves the workspaces needed to align it.
package tracker

import (
	"log/slog"

	"github.com/1broseidon/termdrop/internal/geometry"
	"github.com/1broseidon/termdrop/internal/ipc"
)

// Querier is the read side of the IPC connection.
type Querier interface {
	GetTree() (*ipc.Node, error)
	GetWorkspaces() ([]ipc.Workspace, error)
}

// State is the tracked window and its context. ConID 0 means unbound.
// Workspace references are snapshots and go stale as soon as they are read.
type State struct {
	ConID     int64
	ConWS     *ipc.Node
	ConRect   geometry.Rect
	FocusedWS *ipc.Workspace
}

// Tracker owns the association state. It is not safe for concurrent use;
// the event loop is its only caller.
type Tracker struct {
	q      Querier
	name   string
	attr   ipc.Criterion
	loyal  bool
	logger *slog.Logger

	State
}

// New creates an unbound tracker.
func New(q Querier, name string, attr ipc.Criterion, loyal bool, logger *slog.Logger) *Tracker {
	return &Tracker{
		q:      q,
		name:   name,
		attr:   attr,
		loyal:  loyal,
		logger: logger.With("component", "tracker"),
	}
}

// Bound reports whether a window is currently associated.
func (t *Tracker) Bound() bool { return t.ConID != 0 }

// Migratory reports whether the association must be re-validated on every
// refresh, which is the case for marks unless loyalty pins the window.
func (t *Tracker) Migratory() bool {
	return t.attr == ipc.CriterionMark && !t.loyal
}

// Matches reports whether con's criterion attribute identifies our instance.
func (t *Tracker) Matches(con *ipc.Node) bool {
	return con.Matches(t.attr, t.name)
}

// Claim binds to id unless a loyal association already exists. It returns
// false when the candidate was ignored.
func (t *Tracker) Claim(id int64) bool {
	if t.Bound() && t.loyal && t.ConID != id {
		t.logger.Warn("loyal to existing window; ignoring candidate", "con_id", t.ConID, "candidate", id)
		return false
	}
	t.ConID = id
	return true
}

// Refresh re-resolves the tracked window, its workspace and the focused
// workspace. It returns true only when all three are known.
func (t *Tracker) Refresh() bool {
	eager := !t.Bound() || t.Migratory()
	tree, err := t.q.GetTree()
	if err != nil {
		t.logger.Warn("failed to query tree", "error", err)
		return false
	}

	con := t.resolve(tree, eager)
	if con == nil && !eager {
		t.logger.Info("window has despawned; looking for an alternative", "con_id", t.ConID)
		t.unbind()
		con = t.resolve(tree, true)
	}
	if con == nil {
		t.unbind()
	} else {
		t.ConID = con.ID
		t.ConWS = con.Workspace()
		t.ConRect = geometry.Rect{X: con.Rect.X, Y: con.Rect.Y, Width: con.Rect.Width, Height: con.Rect.Height}
	}

	// Tree workspaces carry no focus state, so ask separately.
	t.FocusedWS = nil
	if workspaces, err := t.q.GetWorkspaces(); err != nil {
		t.logger.Warn("failed to query workspaces", "error", err)
	} else {
		for i := range workspaces {
			if workspaces[i].Focused {
				t.FocusedWS = &workspaces[i]
				break
			}
		}
	}

	t.logger.Debug("refreshed",
		"con_id", t.ConID,
		"con_ws", wsName(t.ConWS),
		"focused_ws", focusedName(t.FocusedWS))

	switch {
	case !t.Bound():
		t.logger.Info("no window matches", "criterion", string(t.attr), "name", t.name)
		return false
	case t.ConWS == nil || t.FocusedWS == nil:
		t.logger.Warn("missing workspace guard tripped")
		return false
	}
	return true
}

// resolve finds the first tree-order match (eager) or the tracked id (lazy).
func (t *Tracker) resolve(tree *ipc.Node, eager bool) *ipc.Node {
	for _, con := range tree.Descendants() {
		if eager && t.Matches(con) {
			return con
		}
		if !eager && con.ID == t.ConID {
			return con
		}
	}
	return nil
}

func (t *Tracker) unbind() {
	t.ConID = 0
	t.ConWS = nil
	t.ConRect = geometry.Rect{}
}

// OnFocusedWorkspace reports whether the window sits on the focused workspace.
func (t *Tracker) OnFocusedWorkspace() bool {
	return t.ConWS != nil && t.FocusedWS != nil && t.ConWS.Name == t.FocusedWS.Name
}

// InScratchpad reports whether the window is parked in the scratchpad.
func (t *Tracker) InScratchpad() bool {
	return t.ConWS != nil && t.ConWS.Name == ipc.ScratchpadName
}

func wsName(ws *ipc.Node) any {
	if ws == nil {
		return nil
	}
	return ws.Name
}

func focusedName(ws *ipc.Workspace) any {
	if ws == nil {
		return nil
	}
	return ws.Name
}
