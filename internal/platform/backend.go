package platform

import (
	"path/filepath"
	"strings"

	"github.com/1broseidon/termdrop/internal/ipc"
)

// Family is the compositor flavour behind the IPC socket. The two differ in
// how relative moves are interpreted and in which events are reliable.
type Family string

const (
	FamilyI3   Family = "i3"
	FamilySway Family = "sway"
)

// Detect guesses the family from the socket path and, when available, the
// reported version. Sway reports major version 1; i3 reports 4.
func Detect(socketPath string, version *ipc.Version) Family {
	if strings.Contains(filepath.Base(socketPath), "sway") {
		return FamilySway
	}
	if version != nil && version.Major > 0 && version.Major < 3 {
		return FamilySway
	}
	return FamilyI3
}
