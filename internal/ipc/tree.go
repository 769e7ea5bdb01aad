package ipc

import (
	"fmt"
	"slices"
	"strings"
)

// ScratchpadName is the internal workspace that holds hidden windows.
const ScratchpadName = "__i3_scratch"

// WindowProperties carries the X11 properties of a window (i3 and XWayland).
type WindowProperties struct {
	Class    string `json:"class"`
	Instance string `json:"instance"`
	Title    string `json:"title"`
}

// Node is a container in the compositor's layout tree.
type Node struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Type             string            `json:"type"`
	Floating         string            `json:"floating,omitempty"`
	Focused          bool              `json:"focused"`
	Rect             Rect              `json:"rect"`
	AppID            *string           `json:"app_id,omitempty"`
	WindowProperties *WindowProperties `json:"window_properties,omitempty"`
	Marks            []string          `json:"marks,omitempty"`
	Nodes            []*Node           `json:"nodes"`
	FloatingNodes    []*Node           `json:"floating_nodes"`

	parent *Node
}

// Link sets parent pointers below n, making n the root. Trees returned by
// GetTree are already linked; hand-built trees must call it.
func (n *Node) Link() {
	n.link(nil)
}

func (n *Node) link(parent *Node) {
	n.parent = parent
	for _, child := range n.Nodes {
		child.link(n)
	}
	for _, child := range n.FloatingNodes {
		child.link(n)
	}
}

// Descendants returns every node below n in breadth-first order, tiling
// children before floating children at each level.
func (n *Node) Descendants() []*Node {
	var out []*Node
	queue := append(append([]*Node{}, n.Nodes...), n.FloatingNodes...)
	for len(queue) > 0 {
		con := queue[0]
		queue = queue[1:]
		out = append(out, con)
		queue = append(queue, con.Nodes...)
		queue = append(queue, con.FloatingNodes...)
	}
	return out
}

// FindByID searches the descendants of n (not n itself).
func (n *Node) FindByID(id int64) *Node {
	for _, con := range n.Descendants() {
		if con.ID == id {
			return con
		}
	}
	return nil
}

// Workspace returns the workspace containing n, or n if it is one.
func (n *Node) Workspace() *Node {
	for con := n; con != nil; con = con.parent {
		if con.Type == "workspace" {
			return con
		}
	}
	return nil
}

// IsFloating reports whether n is a floating wrapper or a user-floated window.
func (n *Node) IsFloating() bool {
	return n.Type == "floating_con" || n.Floating == "user_on"
}

// Criterion is a window attribute usable in command criteria.
type Criterion string

const (
	CriterionAppID    Criterion = "app_id"
	CriterionClass    Criterion = "class"
	CriterionInstance Criterion = "instance"
	CriterionTitle    Criterion = "title"
	CriterionMark     Criterion = "con_mark"
)

// Criteria lists the supported criterion attributes.
func Criteria() []Criterion {
	return []Criterion{CriterionAppID, CriterionClass, CriterionInstance, CriterionTitle, CriterionMark}
}

// ParseCriterion accepts a criterion name, case-insensitively.
func ParseCriterion(s string) (Criterion, error) {
	name := Criterion(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Criteria(), name) {
		return name, nil
	}
	return "", fmt.Errorf("'%s' is not a valid criterion attribute", s)
}

// Matches reports whether the criterion attribute of n equals value, or for
// marks, whether value is among them.
func (n *Node) Matches(c Criterion, value string) bool {
	switch c {
	case CriterionAppID:
		return n.AppID != nil && *n.AppID == value
	case CriterionClass:
		return n.WindowProperties != nil && n.WindowProperties.Class == value
	case CriterionInstance:
		return n.WindowProperties != nil && n.WindowProperties.Instance == value
	case CriterionTitle:
		return n.Name == value
	case CriterionMark:
		return slices.Contains(n.Marks, value)
	}
	return false
}
