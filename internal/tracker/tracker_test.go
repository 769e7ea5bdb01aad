package tracker

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/termdrop/internal/ipc"
)

type fakeQuerier struct {
	tree       *ipc.Node
	workspaces []ipc.Workspace
	treeErr    error
}

func (f *fakeQuerier) GetTree() (*ipc.Node, error) {
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	return f.tree, nil
}

func (f *fakeQuerier) GetWorkspaces() ([]ipc.Workspace, error) {
	return f.workspaces, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func appID(s string) *string { return &s }

// buildTree returns root > output > workspaces "1" and "2", with the given
// windows on workspace "1" and others on "2".
func buildTree(ws1, ws2 []*ipc.Node) *ipc.Node {
	root := &ipc.Node{ID: 1, Type: "root", Nodes: []*ipc.Node{
		{ID: 2, Type: "output", Name: "eDP-1", Nodes: []*ipc.Node{
			{ID: 10, Type: "workspace", Name: "1", Nodes: ws1},
			{ID: 20, Type: "workspace", Name: "2", Nodes: ws2},
		}},
	}}
	return linked(root)
}

func linked(root *ipc.Node) *ipc.Node {
	root.Link()
	return root
}

func focused(name string) []ipc.Workspace {
	return []ipc.Workspace{{Name: "1", Focused: name == "1"}, {Name: "2", Focused: name == "2"}}
}

func TestRefresh_EagerPicksFirstTreeOrderMatch(t *testing.T) {
	q := &fakeQuerier{
		tree: buildTree(
			[]*ipc.Node{{ID: 100, Type: "con", AppID: appID("dropdown")}},
			[]*ipc.Node{{ID: 200, Type: "con", AppID: appID("dropdown")}},
		),
		workspaces: focused("2"),
	}
	tr := New(q, "dropdown", ipc.CriterionAppID, false, discard())
	if !tr.Refresh() {
		t.Fatalf("expected refresh to succeed")
	}
	if tr.ConID != 100 {
		t.Fatalf("expected first match 100, got %d", tr.ConID)
	}
	if tr.ConWS.Name != "1" || tr.FocusedWS.Name != "2" {
		t.Fatalf("unexpected workspaces %q / %q", tr.ConWS.Name, tr.FocusedWS.Name)
	}
	if tr.OnFocusedWorkspace() {
		t.Fatalf("window is not on the focused workspace")
	}
}

func TestRefresh_LazyKeepsTrackedID(t *testing.T) {
	q := &fakeQuerier{
		tree: buildTree(
			[]*ipc.Node{{ID: 100, Type: "con", AppID: appID("dropdown")}},
			[]*ipc.Node{{ID: 200, Type: "con", AppID: appID("other"), Rect: ipc.Rect{X: 5, Y: 6, Width: 7, Height: 8}}},
		),
		workspaces: focused("2"),
	}
	tr := New(q, "dropdown", ipc.CriterionAppID, false, discard())
	tr.Claim(200)
	if !tr.Refresh() {
		t.Fatalf("expected refresh to succeed")
	}
	if tr.ConID != 200 {
		t.Fatalf("lazy refresh must keep tracked id, got %d", tr.ConID)
	}
	if tr.ConRect.X != 5 || tr.ConRect.Height != 8 {
		t.Fatalf("con rect not cached: %+v", tr.ConRect)
	}
	if !tr.OnFocusedWorkspace() {
		t.Fatalf("expected window on focused workspace")
	}
}

func TestRefresh_DespawnRebindsOnce(t *testing.T) {
	q := &fakeQuerier{
		tree:       buildTree([]*ipc.Node{{ID: 101, Type: "con", AppID: appID("dropdown")}}, nil),
		workspaces: focused("1"),
	}
	tr := New(q, "dropdown", ipc.CriterionAppID, false, discard())
	tr.Claim(100)
	if !tr.Refresh() {
		t.Fatalf("expected rebinding to succeed")
	}
	if tr.ConID != 101 {
		t.Fatalf("expected rebinding to 101, got %d", tr.ConID)
	}
}

func TestRefresh_DespawnWithoutReplacementUnbinds(t *testing.T) {
	q := &fakeQuerier{tree: buildTree(nil, nil), workspaces: focused("1")}
	tr := New(q, "dropdown", ipc.CriterionAppID, true, discard())
	tr.Claim(100)
	if tr.Refresh() {
		t.Fatalf("expected refresh to fail")
	}
	if tr.Bound() || tr.ConWS != nil {
		t.Fatalf("expected unbound state, got %+v", tr.State)
	}
	if tr.FocusedWS == nil {
		t.Fatalf("focused workspace should still be resolved")
	}
}

func TestRefresh_MarkMigratesUnlessLoyal(t *testing.T) {
	tree := buildTree(
		[]*ipc.Node{{ID: 100, Type: "con", Marks: []string{"other"}}},
		[]*ipc.Node{{ID: 200, Type: "con", Marks: []string{"x", "dropdown"}}},
	)

	tr := New(&fakeQuerier{tree: tree, workspaces: focused("1")}, "dropdown", ipc.CriterionMark, false, discard())
	tr.Claim(100)
	if !tr.Refresh() || tr.ConID != 200 {
		t.Fatalf("mark should migrate to 200, got %d", tr.ConID)
	}

	loyal := New(&fakeQuerier{tree: tree, workspaces: focused("1")}, "dropdown", ipc.CriterionMark, true, discard())
	loyal.Claim(100)
	if !loyal.Refresh() || loyal.ConID != 100 {
		t.Fatalf("loyal tracker must stay on 100, got %d", loyal.ConID)
	}
}

func TestRefresh_NoFocusedWorkspace(t *testing.T) {
	q := &fakeQuerier{
		tree:       buildTree([]*ipc.Node{{ID: 100, Type: "con", AppID: appID("dropdown")}}, nil),
		workspaces: focused(""),
	}
	tr := New(q, "dropdown", ipc.CriterionAppID, false, discard())
	if tr.Refresh() {
		t.Fatalf("expected refresh to fail without a focused workspace")
	}
	if tr.ConID != 100 {
		t.Fatalf("binding should survive a missing focused workspace")
	}
}

func TestRefresh_TreeErrorIsNotActionable(t *testing.T) {
	q := &fakeQuerier{treeErr: errors.New("broken pipe")}
	tr := New(q, "dropdown", ipc.CriterionAppID, false, discard())
	if tr.Refresh() {
		t.Fatalf("expected refresh to fail")
	}
}

func TestClaim_Loyalty(t *testing.T) {
	loyal := New(&fakeQuerier{}, "dropdown", ipc.CriterionAppID, true, discard())
	if !loyal.Claim(1) {
		t.Fatalf("first claim must succeed")
	}
	if loyal.Claim(2) || loyal.ConID != 1 {
		t.Fatalf("loyal tracker must ignore new candidate, got %d", loyal.ConID)
	}

	fickle := New(&fakeQuerier{}, "dropdown", ipc.CriterionAppID, false, discard())
	fickle.Claim(1)
	if !fickle.Claim(2) || fickle.ConID != 2 {
		t.Fatalf("non-loyal tracker must rebind, got %d", fickle.ConID)
	}
}

func TestInScratchpad(t *testing.T) {
	tr := New(&fakeQuerier{}, "dropdown", ipc.CriterionAppID, false, discard())
	tr.ConWS = &ipc.Node{Type: "workspace", Name: ipc.ScratchpadName}
	if !tr.InScratchpad() {
		t.Fatalf("expected scratchpad")
	}
}
