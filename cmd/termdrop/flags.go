package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/1broseidon/termdrop/internal/config"
	"github.com/1broseidon/termdrop/internal/geometry"
	"github.com/1broseidon/termdrop/internal/ipc"
)

// flagValues holds command-line overrides. Only flags the user actually
// set are applied on top of the config file.
type flagValues struct {
	configPath string

	name      string
	client    string
	cattr     string
	position  string
	shape     []string
	loyal     bool
	animate   bool
	animEnter float64
	animExit  float64
	animFPS   int
	crosstalk float64
	noDelay   bool
	debug     bool

	listClients bool
}

func (f *flagValues) register(fs *pflag.FlagSet) {
	fs.SortFlags = false

	fs.BoolVarP(&f.animate, "animate", "a", false, "Enable slide animations")
	fs.StringVarP(&f.position, "position", "p", config.DefaultPosition,
		"Where to place the window: "+strings.Join(geometry.PositionNames(), ", ")+" (first anchor picks the slide edge)")
	fs.StringSliceVarP(&f.shape, "shape", "s", config.DefaultShape,
		"Window size relative to the workspace as 'x,y' decimals or fractions (LEFT/RIGHT read it as 'y,x')")
	fs.Float64Var(&f.animEnter, "anim-enter", config.DefaultAnimEnter, "Slide-in duration in seconds [0.01, 1]")
	fs.Float64Var(&f.animExit, "anim-exit", 0, "Slide-out duration in seconds [0.01, 1]; 0 disables")
	fs.IntVar(&f.animFPS, "anim-fps", config.DefaultAnimFPS, "Target animation frames per second [1, 100]")

	fs.StringVarP(&f.client, "client", "c", "",
		"Known client ("+strings.Join(config.ClientNames(), ", ")+") or a custom expression with a '{}' placeholder for NAME (default: kitty)")
	fs.BoolVarP(&f.loyal, "loyal", "l", false, "Keep the first associated window; with con_mark, skip mark re-validation")
	fs.StringVarP(&f.name, "name", "n", config.DefaultName, "Name identifying the window; the keybinding must be 'nop NAME'")
	fs.StringVarP(&f.cattr, "cattr", "t", "",
		"Criterion attribute matching the window to NAME: "+criteria()+"; without --client, spawning is disabled")

	fs.Float64Var(&f.crosstalk, "crosstalk-delay", config.DefaultCrosstalkDelay,
		"(sway) Seconds to wait before re-aligning a re-floated window [0.001, 0.2]")
	fs.BoolVar(&f.noDelay, "no-crosstalk-delay", false, "Disable the crosstalk delay")
	fs.BoolVar(&f.debug, "debug", false, "Enable diagnostic messages")
	fs.BoolVar(&f.listClients, "list-clients", false, "Show the known clients and exit")
	_ = fs.MarkHidden("no-crosstalk-delay")
}

func criteria() string {
	names := make([]string, 0, len(ipc.Criteria()))
	for _, c := range ipc.Criteria() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// resolve reads the config file and applies changed flags.
func (f *flagValues) resolve(fs *pflag.FlagSet) (*config.LoadResult, error) {
	res, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	f.apply(fs, res)
	return res, nil
}

// load resolves the configuration, then validates it.
func (f *flagValues) load(fs *pflag.FlagSet) (*config.LoadResult, error) {
	res, err := f.resolve(fs)
	if err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

func (f *flagValues) apply(fs *pflag.FlagSet, res *config.LoadResult) {
	cfg := res.Config
	set := func(flag, key string, assign func()) {
		if fs.Changed(flag) {
			assign()
			res.Override(key, flag)
		}
	}

	set("name", "name", func() { cfg.Name = f.name })
	set("client", "client", func() { cfg.Client = f.client })
	set("cattr", "cattr", func() { cfg.Cattr = f.cattr })
	set("position", "position", func() { cfg.Position = f.position })
	set("shape", "shape", func() { cfg.Shape = splitShape(f.shape) })
	set("loyal", "loyal", func() { cfg.Loyal = f.loyal })
	set("animate", "animate", func() { cfg.Animate = f.animate })
	set("anim-enter", "anim_enter", func() { cfg.AnimEnter = f.animEnter })
	set("anim-exit", "anim_exit", func() { cfg.AnimExit = f.animExit })
	set("anim-fps", "anim_fps", func() { cfg.AnimFPS = f.animFPS })
	set("crosstalk-delay", "crosstalk_delay", func() { cfg.CrosstalkDelay = f.crosstalk })
	set("no-crosstalk-delay", "crosstalk_delay", func() {
		if f.noDelay {
			cfg.CrosstalkDelay = 0
		}
	})
	set("debug", "debug", func() { cfg.Debug = f.debug })
}

// splitShape accepts "-s 1,0.4", "-s 1 -s 0.4" and "-s '1 0.4'".
func splitShape(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Fields(v)...)
	}
	return out
}
