package ipc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MessageType identifies an i3/Sway IPC request.
type MessageType uint32

const (
	MessageRunCommand    MessageType = 0
	MessageGetWorkspaces MessageType = 1
	MessageSubscribe     MessageType = 2
	MessageGetTree       MessageType = 4
	MessageGetVersion    MessageType = 7
)

// Event reply types have the high bit set.
const eventMask uint32 = 1 << 31

// eventNames maps event reply types (without the high bit) to the names
// used when subscribing.
var eventNames = map[uint32]string{
	0: "workspace",
	1: "output",
	2: "mode",
	3: "window",
	4: "barconfig_update",
	5: "binding",
	6: "shutdown",
	7: "tick",
}

var magic = []byte("i3-ipc")

const headerLen = 14 // magic + uint32 length + uint32 type

// maxPayload bounds a single reply; trees on large setups stay well below.
const maxPayload = 64 << 20

var (
	ErrBadMagic = errors.New("ipc: bad magic string")
	ErrClosed   = errors.New("ipc: connection closed")
)

// writeMessage frames and writes a single request.
func writeMessage(w io.Writer, t MessageType, payload []byte) error {
	buf := make([]byte, headerLen+len(payload))
	copy(buf, magic)
	binary.LittleEndian.PutUint32(buf[6:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[10:], uint32(t))
	copy(buf[headerLen:], payload)
	_, err := w.Write(buf)
	return err
}

// readMessage reads one framed reply or event.
func readMessage(r io.Reader) (uint32, []byte, error) {
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	if !bytes.Equal(header[:6], magic) {
		return 0, nil, ErrBadMagic
	}
	size := binary.LittleEndian.Uint32(header[6:])
	t := binary.LittleEndian.Uint32(header[10:])
	if size > maxPayload {
		return 0, nil, fmt.Errorf("ipc: payload of %d bytes exceeds limit", size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return t, payload, nil
}

// Rect is a rectangle as reported by the compositor, in pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Workspace is one entry of a GET_WORKSPACES reply.
type Workspace struct {
	Num     int    `json:"num"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	Focused bool   `json:"focused"`
	Urgent  bool   `json:"urgent"`
	Rect    Rect   `json:"rect"`
	Output  string `json:"output"`
}

// CommandResult is the outcome of one command in a RUN_COMMAND batch.
type CommandResult struct {
	Success    bool   `json:"success"`
	ParseError bool   `json:"parse_error,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Version is the GET_VERSION reply.
type Version struct {
	Major         int    `json:"major"`
	Minor         int    `json:"minor"`
	Patch         int    `json:"patch"`
	HumanReadable string `json:"human_readable"`
	ConfigFile    string `json:"loaded_config_file_name"`
}

type subscribeReply struct {
	Success bool `json:"success"`
}

// Binding describes the keybinding that fired.
type Binding struct {
	Command        string   `json:"command"`
	EventStateMask []string `json:"event_state_mask"`
	InputCode      int      `json:"input_code"`
	Symbol         string   `json:"symbol"`
	InputType      string   `json:"input_type"`
}

// BindingEvent is delivered when a binding is triggered.
type BindingEvent struct {
	Change  string  `json:"change"`
	Binding Binding `json:"binding"`
}

// WindowEvent is delivered for window changes (new, floating, move, ...).
type WindowEvent struct {
	Change    string `json:"change"`
	Container Node   `json:"container"`
}

// ShutdownEvent is delivered when the compositor exits or restarts.
type ShutdownEvent struct {
	Change string `json:"change"`
}
