package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// socketAtom is set by i3 on the root window to its IPC socket path.
const socketAtom = "I3_SOCKET_PATH"

// Connection holds an X11 connection and its root window.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to the X server named by $DISPLAY.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

// Close disconnects from the X server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// SocketPath reads the IPC socket path i3 advertises on the root window.
func (c *Connection) SocketPath() (string, error) {
	reply, err := xprop.GetProperty(c.XUtil, c.Root, socketAtom)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", socketAtom, err)
	}
	path, err := xprop.PropValStr(reply, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", socketAtom, err)
	}
	return path, nil
}

// SocketPathFromRoot opens a short-lived connection to read the socket path.
func SocketPathFromRoot() (string, error) {
	c, err := NewConnection()
	if err != nil {
		return "", err
	}
	defer c.Close()
	return c.SocketPath()
}
