package config

import (
	"fmt"
)

// Keys lists the configuration keys in file order.
func Keys() []string {
	return []string{
		"name", "client", "cattr", "position", "shape", "loyal", "animate",
		"anim_enter", "anim_exit", "anim_fps", "crosstalk_delay", "debug",
	}
}

// Explain returns the effective value of key and where it came from.
func Explain(res *LoadResult, key string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	value, err := lookupValue(res.Config, key)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[key]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, key string) (any, error) {
	switch key {
	case "name":
		return cfg.Name, nil
	case "client":
		return cfg.Client, nil
	case "cattr":
		return cfg.Cattr, nil
	case "position":
		return cfg.Position, nil
	case "shape":
		return cfg.Shape, nil
	case "loyal":
		return cfg.Loyal, nil
	case "animate":
		return cfg.Animate, nil
	case "anim_enter":
		return cfg.AnimEnter, nil
	case "anim_exit":
		return cfg.AnimExit, nil
	case "anim_fps":
		return cfg.AnimFPS, nil
	case "crosstalk_delay":
		return cfg.CrosstalkDelay, nil
	case "debug":
		return cfg.Debug, nil
	}
	return nil, fmt.Errorf("unknown key: %s", key)
}
