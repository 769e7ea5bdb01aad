package runtimepath

import (
	"errors"
	"fmt"
	"os"

	"github.com/1broseidon/termdrop/internal/x11"
)

// ErrNoSocket is returned when no compositor socket can be located.
var ErrNoSocket = errors.New("no i3/sway IPC socket found (is I3SOCK or SWAYSOCK set?)")

// rootSocketPath reads the socket path advertised on the X root window.
var rootSocketPath = x11.SocketPathFromRoot

// SocketPath returns the compositor IPC socket path. Priority:
// 1) I3SOCK (if set)
// 2) SWAYSOCK (if set)
// 3) the I3_SOCKET_PATH property of the X11 root window
func SocketPath() (string, error) {
	for _, env := range []string{"I3SOCK", "SWAYSOCK"} {
		if path := os.Getenv(env); path != "" {
			return path, nil
		}
	}
	path, err := rootSocketPath()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSocket, err)
	}
	if path == "" {
		return "", ErrNoSocket
	}
	return path, nil
}
