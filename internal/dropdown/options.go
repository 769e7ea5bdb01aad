package dropdown

import (
	"time"

	"github.com/1broseidon/termdrop/internal/anim"
	"github.com/1broseidon/termdrop/internal/geometry"
	"github.com/1broseidon/termdrop/internal/ipc"
)

// Client describes how to spawn the managed program and how to recognise
// its window. An empty Command disables spawning.
type Client struct {
	Command   string        `yaml:"cmd"`
	Criterion ipc.Criterion `yaml:"cattr"`
}

// Placeholder is replaced by the instance name in Client.Command.
const Placeholder = "{}"

// Options is the fully resolved configuration of one dropdown instance.
type Options struct {
	Name       string
	Client     Client
	ClientArgs []string
	Shape      geometry.Shape
	Position   geometry.Position
	Anim       anim.Params
	Loyal      bool
	// CrosstalkDelay is slept before aligning after a floating transition
	// on Sway. Zero disables it.
	CrosstalkDelay time.Duration
}
