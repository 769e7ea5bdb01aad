package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"
)

// fakeCompositor speaks the wire protocol on a unix socket.
type fakeCompositor struct {
	t        *testing.T
	path     string
	listener net.Listener
	replies  map[MessageType]string
	events   []fakeEvent
	commands chan string
	subs     chan []string
}

type fakeEvent struct {
	typ     uint32
	payload string
}

func newFakeCompositor(t *testing.T) *fakeCompositor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ipc.sock")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	f := &fakeCompositor{
		t:        t,
		path:     path,
		listener: l,
		replies:  map[MessageType]string{},
		commands: make(chan string, 16),
		subs:     make(chan []string, 1),
	}
	t.Cleanup(func() { l.Close() })
	return f
}

func (f *fakeCompositor) serve() {
	go func() {
		for {
			conn, err := f.listener.Accept()
			if err != nil {
				return
			}
			go f.handle(conn)
		}
	}()
}

func (f *fakeCompositor) handle(conn net.Conn) {
	defer conn.Close()
	for {
		t, payload, err := readMessage(conn)
		if err != nil {
			return
		}
		switch MessageType(t) {
		case MessageSubscribe:
			var names []string
			json.Unmarshal(payload, &names)
			f.subs <- names
			writeMessage(conn, MessageSubscribe, []byte(`{"success":true}`))
			for _, ev := range f.events {
				writeMessage(conn, MessageType(ev.typ), []byte(ev.payload))
			}
		case MessageRunCommand:
			f.commands <- string(payload)
			writeMessage(conn, MessageRunCommand, []byte(f.replies[MessageRunCommand]))
		default:
			writeMessage(conn, MessageType(t), []byte(f.replies[MessageType(t)]))
		}
	}
}

func TestFraming_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMessage(&buf, MessageGetTree, []byte("{}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("i3-ipc")) {
		t.Fatalf("missing magic: %q", buf.Bytes())
	}
	typ, payload, err := readMessage(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if MessageType(typ) != MessageGetTree || string(payload) != "{}" {
		t.Fatalf("got type=%d payload=%q", typ, payload)
	}
}

func TestFraming_RejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("i4-ipc\x00\x00\x00\x00\x00\x00\x00\x00")
	if _, _, err := readMessage(buf); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestRunCommand_ParsesPerCommandResults(t *testing.T) {
	f := newFakeCompositor(t)
	f.replies[MessageRunCommand] = `[{"success":true},{"success":false,"error":"No such container"}]`
	f.serve()

	c, err := Dial(f.path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	results, err := c.RunCommand("[con_id=1] focus, move scratchpad")
	if err != nil {
		t.Fatalf("RunCommand: %v", err)
	}
	if got := <-f.commands; got != "[con_id=1] focus, move scratchpad" {
		t.Fatalf("server saw %q", got)
	}
	if len(results) != 2 || !results[0].Success || results[1].Success || results[1].Error != "No such container" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestGetTree_LinksParents(t *testing.T) {
	f := newFakeCompositor(t)
	f.replies[MessageGetTree] = `{"id":1,"type":"root","nodes":[
		{"id":2,"type":"output","name":"eDP-1","nodes":[
			{"id":3,"type":"workspace","name":"1","rect":{"x":0,"y":0,"width":1920,"height":1080},
			 "nodes":[{"id":4,"type":"con","name":"term","app_id":"dropdown"}],
			 "floating_nodes":[{"id":5,"type":"floating_con","nodes":[
				{"id":6,"type":"con","floating":"user_on","window_properties":{"class":"kitty","instance":"dropdown"},"marks":["dd"]}]}]}]}]}`
	f.serve()

	c, err := Dial(f.path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	tree, err := c.GetTree()
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	win := tree.FindByID(6)
	if win == nil {
		t.Fatalf("FindByID(6) = nil")
	}
	ws := win.Workspace()
	if ws == nil || ws.Name != "1" || ws.Rect.Width != 1920 {
		t.Fatalf("unexpected workspace %+v", ws)
	}
	if !win.Matches(CriterionInstance, "dropdown") || !win.Matches(CriterionMark, "dd") {
		t.Fatalf("criteria did not match %+v", win)
	}
	if win.Matches(CriterionAppID, "dropdown") {
		t.Fatalf("nil app_id must not match")
	}
	if !tree.FindByID(4).Matches(CriterionAppID, "dropdown") {
		t.Fatalf("app_id should match")
	}
	if !win.IsFloating() || !tree.FindByID(5).IsFloating() {
		t.Fatalf("floating detection failed")
	}
}

func TestDescendants_BreadthFirst(t *testing.T) {
	tree := &Node{ID: 1, Nodes: []*Node{
		{ID: 2, Nodes: []*Node{{ID: 4}}},
		{ID: 3, FloatingNodes: []*Node{{ID: 5}}},
	}}
	tree.link(nil)
	var ids []int64
	for _, n := range tree.Descendants() {
		ids = append(ids, n.ID)
	}
	want := []int64{2, 3, 4, 5}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
	if tree.FindByID(1) != nil {
		t.Fatalf("FindByID must not return the receiver")
	}
}

func TestParseCriterion(t *testing.T) {
	c, err := ParseCriterion("APP_ID")
	if err != nil || c != CriterionAppID {
		t.Fatalf("got %q, %v", c, err)
	}
	if _, err := ParseCriterion("window_role"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMain_DispatchesUntilShutdown(t *testing.T) {
	f := newFakeCompositor(t)
	f.events = []fakeEvent{
		{eventMask | 5, `{"change":"run","binding":{"command":"nop dropdown"}}`},
		{eventMask | 3, `{"change":"new","container":{"id":9,"type":"con","app_id":"dropdown"}}`},
		{eventMask | 3, `{"change":"focus","container":{"id":9,"type":"con"}}`},
		{eventMask | 6, `{"change":"exit"}`},
	}
	f.serve()

	c, err := Dial(f.path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	var got []string
	c.OnBinding(func(ev *BindingEvent) { got = append(got, "binding:"+ev.Binding.Command) })
	c.OnWindow("new", func(ev *WindowEvent) { got = append(got, "new:"+*ev.Container.AppID) })
	c.OnShutdown("exit", func(ev *ShutdownEvent) { got = append(got, "shutdown:"+ev.Change) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Main(ctx); err != nil {
		t.Fatalf("Main: %v", err)
	}

	subs := <-f.subs
	if len(subs) != 3 || subs[0] != "binding" || subs[1] != "shutdown" || subs[2] != "window" {
		t.Fatalf("unexpected subscriptions %v", subs)
	}
	want := []string{"binding:nop dropdown", "new:dropdown", "shutdown:exit"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMain_ReturnsOnCancel(t *testing.T) {
	f := newFakeCompositor(t)
	f.serve()

	c, err := Dial(f.path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()
	c.OnBinding(func(*BindingEvent) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Main(ctx) }()
	<-f.subs
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Main: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Main did not return after cancel")
	}
}
