package config

import (
	"math"
	"time"

	"github.com/1broseidon/termdrop/internal/anim"
	"github.com/1broseidon/termdrop/internal/dropdown"
	"github.com/1broseidon/termdrop/internal/geometry"
	"github.com/1broseidon/termdrop/internal/ipc"
	"github.com/1broseidon/termdrop/internal/platform"
)

// Resolve validates cfg and turns it into machine options for family.
// clientArgs are appended verbatim to the spawn command.
func Resolve(cfg *Config, family platform.Family, clientArgs []string) (dropdown.Options, error) {
	if err := cfg.Validate(); err != nil {
		return dropdown.Options{}, err
	}
	// Validate has already parsed these.
	pos, _ := geometry.ParsePosition(cfg.Position)
	shape, _ := geometry.ParseShape(cfg.Shape, pos.Compat)

	return dropdown.Options{
		Name:       cfg.Name,
		Client:     resolveClient(cfg, family),
		ClientArgs: clientArgs,
		Shape:      shape,
		Position:   pos,
		Anim: anim.Params{
			Enabled: cfg.Animate,
			Anchor:  pos.Anchor(),
			Show:    seconds(cfg.AnimEnter),
			Hide:    seconds(cfg.AnimExit),
			FPS:     cfg.AnimFPS,
		},
		Loyal:          cfg.Loyal,
		CrosstalkDelay: seconds(cfg.CrosstalkDelay),
	}, nil
}

// resolveClient expands known shorthands, whose criterion always wins. With
// neither client nor cattr the kitty shorthand applies; a cattr alone
// disables spawning.
func resolveClient(cfg *Config, family platform.Family) dropdown.Client {
	name := cfg.Client
	if name == "" && cfg.Cattr == "" {
		name = DefaultClient
	}
	if c, ok := LookupClient(name, family); ok {
		return c
	}
	attr, _ := ipc.ParseCriterion(cfg.Cattr)
	return dropdown.Client{Command: name, Criterion: attr}
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
