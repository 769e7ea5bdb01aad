package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownClient      = errors.New("not a known client")
	ErrMissingPlaceholder = errors.New("missing name placeholder")
)

// ValidationError ties a configuration error to the key and, when known,
// the file position or flag that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	case e.Source.Kind == SourceFlag:
		return fmt.Sprintf("%s: %v", e.Source.Name, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RawConfig mirrors the file layout. Nil fields were not set.
type RawConfig struct {
	Name      *string    `yaml:"name"`
	Client    *string    `yaml:"client"`
	Cattr     *string    `yaml:"cattr"`
	Position  *string    `yaml:"position"`
	Shape     *ShapeList `yaml:"shape"`
	Loyal     *bool      `yaml:"loyal"`
	Animate   *bool      `yaml:"animate"`
	AnimEnter *float64   `yaml:"anim_enter"`
	AnimExit  *float64   `yaml:"anim_exit"`
	AnimFPS   *int       `yaml:"anim_fps"`
	// Kept as a node so an explicit null can be told apart from absence.
	CrosstalkDelay yaml.Node `yaml:"crosstalk_delay"`
	Debug          *bool     `yaml:"debug"`
}

// ShapeList accepts either:
//
//	shape: [1.0, 0.4]
//
// or:
//
//	shape: "1.0 1/4"
type ShapeList []string

func (l *ShapeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = strings.Fields(value.Value)
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("shape entries must be numbers or fractions")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("shape must be a list of two values or a string")
	}
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Name != nil {
		cfg.Name = *raw.Name
	}
	if raw.Client != nil {
		cfg.Client = *raw.Client
	}
	if raw.Cattr != nil {
		cfg.Cattr = *raw.Cattr
	}
	if raw.Position != nil {
		cfg.Position = *raw.Position
	}
	if raw.Shape != nil {
		cfg.Shape = []string(*raw.Shape)
	}
	if raw.Loyal != nil {
		cfg.Loyal = *raw.Loyal
	}
	if raw.Animate != nil {
		cfg.Animate = *raw.Animate
	}
	if raw.AnimEnter != nil {
		cfg.AnimEnter = *raw.AnimEnter
	}
	if raw.AnimExit != nil {
		cfg.AnimExit = *raw.AnimExit
	}
	if raw.AnimFPS != nil {
		cfg.AnimFPS = *raw.AnimFPS
	}
	if raw.CrosstalkDelay.Kind != 0 {
		delay, err := parseDelay(&raw.CrosstalkDelay)
		if err != nil {
			return nil, &ValidationError{Path: "crosstalk_delay", Err: err}
		}
		cfg.CrosstalkDelay = delay
	}
	if raw.Debug != nil {
		cfg.Debug = *raw.Debug
	}
	return cfg, nil
}

// parseDelay reads seconds, or null/off/false for disabled.
func parseDelay(node *yaml.Node) (float64, error) {
	if node.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("crosstalk_delay must be a number of seconds or null")
	}
	if node.Tag == "!!null" {
		return 0, nil
	}
	switch strings.ToLower(node.Value) {
	case "off", "false", "none":
		return 0, nil
	}
	v, err := strconv.ParseFloat(node.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a number of seconds", node.Value)
	}
	return v, nil
}
