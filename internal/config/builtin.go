package config

import (
	"sort"

	"github.com/1broseidon/termdrop/internal/dropdown"
	"github.com/1broseidon/termdrop/internal/ipc"
	"github.com/1broseidon/termdrop/internal/platform"
)

const placeholder = dropdown.Placeholder

// knownClients maps a shorthand to its spawn template and criterion per
// compositor family. i3 matches X11 instance or class; Sway the app_id.
var knownClients = map[string]map[platform.Family]dropdown.Client{
	"kitty": {
		platform.FamilyI3:   {Command: "--no-startup-id kitty --name {}", Criterion: ipc.CriterionInstance},
		platform.FamilySway: {Command: "kitty --class {}", Criterion: ipc.CriterionAppID},
	},
	"alacritty": {
		platform.FamilyI3:   {Command: "--no-startup-id alacritty --class {}", Criterion: ipc.CriterionInstance},
		platform.FamilySway: {Command: "alacritty --class {}", Criterion: ipc.CriterionAppID},
	},
	"firefox": {
		platform.FamilyI3:   {Command: "firefox --class {}", Criterion: ipc.CriterionClass},
		platform.FamilySway: {Command: "GDK_BACKEND=wayland firefox --name {}", Criterion: ipc.CriterionAppID},
	},
}

// KnownClient is one registry entry for one family.
type KnownClient struct {
	Name   string
	Family platform.Family
	dropdown.Client
}

// KnownClients lists the registry sorted by name, then family.
func KnownClients() []KnownClient {
	var out []KnownClient
	for name, variants := range knownClients {
		for family, client := range variants {
			out = append(out, KnownClient{Name: name, Family: family, Client: client})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Family < out[j].Family
	})
	return out
}

// ClientNames returns the registry shorthands in sorted order.
func ClientNames() []string {
	names := make([]string, 0, len(knownClients))
	for name := range knownClients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupClient returns the variant of a known client for family.
func LookupClient(name string, family platform.Family) (dropdown.Client, bool) {
	variants, ok := knownClients[name]
	if !ok {
		return dropdown.Client{}, false
	}
	c, ok := variants[family]
	return c, ok
}
