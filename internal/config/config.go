package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/termdrop/internal/geometry"
	"github.com/1broseidon/termdrop/internal/ipc"
)

const (
	DefaultName           = "termdrop"
	DefaultPosition       = "RIGHT"
	DefaultClient         = "kitty"
	DefaultAnimEnter      = 0.15
	DefaultAnimFPS        = 60
	DefaultCrosstalkDelay = 0.015
)

// DefaultShape is given in (y, x) order because DefaultPosition is a legacy
// alias: full height, 40% width.
var DefaultShape = []string{"1.0", "0.4"}

// Config is the effective configuration after defaults, file and flags.
// Durations are in seconds; a zero AnimExit or CrosstalkDelay disables it.
type Config struct {
	Name           string   `yaml:"name"`
	Client         string   `yaml:"client,omitempty"`
	Cattr          string   `yaml:"cattr,omitempty"`
	Position       string   `yaml:"position"`
	Shape          []string `yaml:"shape,flow"`
	Loyal          bool     `yaml:"loyal"`
	Animate        bool     `yaml:"animate"`
	AnimEnter      float64  `yaml:"anim_enter"`
	AnimExit       float64  `yaml:"anim_exit"`
	AnimFPS        int      `yaml:"anim_fps"`
	CrosstalkDelay float64  `yaml:"crosstalk_delay"`
	Debug          bool     `yaml:"debug"`
}

// DefaultConfig returns the built-in defaults. Client is left empty so that
// a cattr given on its own disables spawning; Resolve falls back to kitty.
func DefaultConfig() *Config {
	return &Config{
		Name:           DefaultName,
		Position:       DefaultPosition,
		Shape:          append([]string(nil), DefaultShape...),
		AnimEnter:      DefaultAnimEnter,
		AnimFPS:        DefaultAnimFPS,
		CrosstalkDelay: DefaultCrosstalkDelay,
	}
}

type bounds struct{ min, max float64 }

func (b bounds) contains(v float64) bool { return v >= b.min && v <= b.max }

var (
	animBounds      = bounds{0.01, 1}
	fpsBounds       = bounds{1, 100}
	crosstalkBounds = bounds{0.001, 0.2}
)

// Validate checks every field. Errors are *ValidationError carrying the
// offending key.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Path: "name", Err: fmt.Errorf("name must not be empty")}
	}
	pos, err := geometry.ParsePosition(c.Position)
	if err != nil {
		return &ValidationError{Path: "position", Err: err}
	}
	if _, err := geometry.ParseShape(c.Shape, pos.Compat); err != nil {
		return &ValidationError{Path: "shape", Err: err}
	}
	if c.Cattr != "" {
		if _, err := ipc.ParseCriterion(c.Cattr); err != nil {
			return &ValidationError{Path: "cattr", Err: err}
		}
	}
	if err := c.validateClient(); err != nil {
		return err
	}
	if !animBounds.contains(c.AnimEnter) {
		return &ValidationError{Path: "anim_enter", Err: outOfRange(c.AnimEnter, animBounds)}
	}
	if c.AnimExit != 0 && !animBounds.contains(c.AnimExit) {
		return &ValidationError{Path: "anim_exit", Err: outOfRange(c.AnimExit, animBounds)}
	}
	if !fpsBounds.contains(float64(c.AnimFPS)) {
		return &ValidationError{Path: "anim_fps", Err: outOfRange(float64(c.AnimFPS), fpsBounds)}
	}
	if c.CrosstalkDelay != 0 && !crosstalkBounds.contains(c.CrosstalkDelay) {
		return &ValidationError{Path: "crosstalk_delay", Err: outOfRange(c.CrosstalkDelay, crosstalkBounds)}
	}
	return nil
}

func (c *Config) validateClient() error {
	if c.Client == "" {
		return nil
	}
	if _, ok := knownClients[c.Client]; ok {
		return nil
	}
	if c.Cattr == "" {
		return &ValidationError{Path: "client", Err: fmt.Errorf(
			"%w: '%s'; if it is a custom expression, cattr must also be provided", ErrUnknownClient, c.Client)}
	}
	if n := strings.Count(c.Client, placeholder); n != 1 {
		return &ValidationError{Path: "client", Err: fmt.Errorf(
			"%w: custom client expression '%s' must contain exactly one '{}' for the name (found %d)",
			ErrMissingPlaceholder, c.Client, n)}
	}
	return nil
}

func outOfRange(v float64, b bounds) error {
	return fmt.Errorf("%g is not in the range [%g, %g]", v, b.min, b.max)
}
