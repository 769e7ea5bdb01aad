package dropdown

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/termdrop/internal/geometry"
	"github.com/1broseidon/termdrop/internal/ipc"
)

const (
	cmdFloat = "floating enable, border none"
	cmdFocus = "focus"
	cmdHide  = "floating enable, move scratchpad"
	cmdRule  = "for_window"
)

func cmdFetch(ws string) string {
	return "move container to workspace " + ws
}

// units formats resize and move commands in one coordinate system.
type units struct {
	resize func(w, h int) string
	move   func(x, y int) string
}

var percentUnits = units{
	resize: func(w, h int) string { return fmt.Sprintf("resize set %dppt %dppt", w, h) },
	move:   func(x, y int) string { return fmt.Sprintf("move position %dppt %dppt", x, y) },
}

var pixelUnits = units{
	resize: func(w, h int) string { return fmt.Sprintf("resize set %dpx %dpx", w, h) },
	move:   func(x, y int) string { return fmt.Sprintf("move absolute position %dpx %dpx", x, y) },
}

func (u units) resizeTo(r geometry.Rect) string { return u.resize(r.Width, r.Height) }
func (u units) moveTo(r geometry.Rect) string   { return u.move(r.X, r.Y) }

// quote wraps names containing spaces so they survive command parsing.
func quote(arg string) string {
	if strings.Contains(arg, " ") {
		return `"` + arg + `"`
	}
	return arg
}

func criterion(attr ipc.Criterion, value string) string {
	return fmt.Sprintf("[%s=%s]", attr, value)
}

// Commander is the write side of the IPC connection.
type Commander interface {
	RunCommand(cmd string) ([]ipc.CommandResult, error)
}

// send runs cmds against the tracked window as one transaction.
func (m *Machine) send(cmds ...string) {
	crit := fmt.Sprintf("[con_id=%d]", m.tracker.ConID)
	payload := crit + " " + strings.Join(cmds, ", ")
	results, err := m.comp.RunCommand(payload)
	if err != nil {
		m.logger.Warn("command failed", "criterion", crit, "error", err)
		return
	}
	m.logReplies(crit, cmds, results)
}

// sendRule installs a for_window rule matching our criterion.
func (m *Machine) sendRule(cmds ...string) {
	pre := cmdRule + " " + criterion(m.opts.Client.Criterion, quote(m.opts.Name))
	body := strings.Join(cmds, ", ")
	results, err := m.comp.RunCommand(fmt.Sprintf("%s '%s'", pre, body))
	if err != nil {
		m.logger.Warn("rule failed", "rule", pre, "error", err)
		return
	}
	m.logReplies(pre, []string{"'" + body + "'"}, results)
}

func (m *Machine) logReplies(prefix string, cmds []string, results []ipc.CommandResult) {
	if !m.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	m.logger.Debug(prefix)
	for i, cmd := range cmds {
		if i >= len(results) {
			m.logger.Debug("  "+cmd, "result", "no reply")
			continue
		}
		m.logger.Debug("  "+cmd, "result", replyText(results[i]))
	}
}

func replyText(r ipc.CommandResult) string {
	if r.Success {
		return "OK"
	}
	return r.Error
}

// spawn execs the client with the instance name substituted.
func (m *Machine) spawn() {
	if m.opts.Client.Command == "" {
		m.logger.Warn("unable to comply: spawning is disabled")
		return
	}
	m.backend.beforeSpawn(m)
	cmd := "exec " + strings.Replace(m.opts.Client.Command, Placeholder, quote(m.opts.Name), 1)
	if len(m.opts.ClientArgs) > 0 {
		cmd += " " + strings.Join(m.opts.ClientArgs, " ")
	}
	results, err := m.comp.RunCommand(cmd)
	if err != nil {
		m.logger.Warn("spawn failed", "command", cmd, "error", err)
		return
	}
	m.logReplies(cmd, []string{"exec"}, results)
}
