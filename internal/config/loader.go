package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
	SourceFlag    SourceKind = "flag"
)

type Source struct {
	Kind   SourceKind
	Name   string // flag name for SourceFlag
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	switch s.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case SourceFlag:
		return s.Name
	}
	return string(SourceDefault)
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // key -> last writer
	File    string            // empty when no file was read
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/termdrop/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "termdrop", "config.yaml")
}

// Load reads the file at path, or the default location when path is empty.
// Only the default location may be missing.
func Load(path string) (*LoadResult, error) {
	if path == "" {
		return loadFromPath(DefaultConfigPath(), false)
	}
	return loadFromPath(path, true)
}

// LoadFromPath reads path, falling back to defaults when it does not exist.
func LoadFromPath(path string) (*LoadResult, error) {
	return loadFromPath(path, false)
}

func loadFromPath(path string, required bool) (*LoadResult, error) {
	res := &LoadResult{Sources: map[string]Source{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
		res.Config = DefaultConfig()
		return res, nil
	case err != nil:
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}
	var raw RawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Sources = collectSources(&doc, path)
	res.File = path

	cfg, err := BuildEffectiveConfig(raw)
	if err != nil {
		return nil, attachSourceContext(err, res.Sources)
	}
	res.Config = cfg
	return res, nil
}

// Validate checks the effective config, attributing errors to their source.
func (r *LoadResult) Validate() error {
	return attachSourceContext(r.Config.Validate(), r.Sources)
}

// Override records that key was set by a command-line flag.
func (r *LoadResult) Override(key, flag string) {
	r.Sources[key] = Source{Kind: SourceFlag, Name: "--" + flag}
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		valNode := node.Content[i+1]
		out[node.Content[i].Value] = Source{
			Kind:   SourceFile,
			File:   file,
			Line:   valNode.Line,
			Column: valNode.Column,
		}
	}
	return out
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
