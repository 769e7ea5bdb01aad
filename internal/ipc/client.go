package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// Conn is a connection to the i3/Sway IPC socket. Requests share one
// socket; events arrive on a second socket opened by Main.
type Conn struct {
	socketPath string
	timeout    time.Duration

	mu   sync.Mutex
	conn net.Conn

	handlers map[string][]eventHandler
	sub      net.Conn
	subMu    sync.Mutex
}

// Dial connects to the compositor socket at socketPath.
func Dial(socketPath string) (*Conn, error) {
	c := &Conn{
		socketPath: socketPath,
		timeout:    5 * time.Second,
		handlers:   make(map[string][]eventHandler),
	}
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *Conn) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to compositor at %s: %w", c.socketPath, err)
	}
	return conn, nil
}

// request sends a message and waits for the reply of the same type.
func (c *Conn) request(t MessageType, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrClosed
	}
	c.conn.SetDeadline(time.Now().Add(c.timeout))
	defer c.conn.SetDeadline(time.Time{})

	if err := writeMessage(c.conn, t, payload); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	replyType, reply, err := readMessage(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}
	if replyType != uint32(t) {
		return nil, fmt.Errorf("unexpected reply type %d for request %d", replyType, t)
	}
	return reply, nil
}

// RunCommand runs a command string and returns one result per command.
func (c *Conn) RunCommand(cmd string) ([]CommandResult, error) {
	reply, err := c.request(MessageRunCommand, []byte(cmd))
	if err != nil {
		return nil, err
	}
	var results []CommandResult
	if err := json.Unmarshal(reply, &results); err != nil {
		return nil, fmt.Errorf("failed to parse command reply: %w", err)
	}
	return results, nil
}

// GetTree returns a snapshot of the layout tree.
func (c *Conn) GetTree() (*Node, error) {
	reply, err := c.request(MessageGetTree, nil)
	if err != nil {
		return nil, err
	}
	var root Node
	if err := json.Unmarshal(reply, &root); err != nil {
		return nil, fmt.Errorf("failed to parse tree: %w", err)
	}
	root.link(nil)
	return &root, nil
}

// GetWorkspaces lists workspaces, including their focus state.
func (c *Conn) GetWorkspaces() ([]Workspace, error) {
	reply, err := c.request(MessageGetWorkspaces, nil)
	if err != nil {
		return nil, err
	}
	var workspaces []Workspace
	if err := json.Unmarshal(reply, &workspaces); err != nil {
		return nil, fmt.Errorf("failed to parse workspaces: %w", err)
	}
	return workspaces, nil
}

// GetVersion returns the compositor version.
func (c *Conn) GetVersion() (*Version, error) {
	reply, err := c.request(MessageGetVersion, nil)
	if err != nil {
		return nil, err
	}
	var v Version
	if err := json.Unmarshal(reply, &v); err != nil {
		return nil, fmt.Errorf("failed to parse version: %w", err)
	}
	return &v, nil
}

// Close closes both sockets. Errors on an already broken pipe are dropped.
func (c *Conn) Close() error {
	c.mu.Lock()
	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	c.subMu.Lock()
	if c.sub != nil {
		c.sub.Close()
		c.sub = nil
	}
	c.subMu.Unlock()

	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
