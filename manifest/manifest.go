// Package manifest handles stateq.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the loader looks for.
const ManifestName = "stateq.toml"

// DefaultShots is used when the manifest does not set a shot count.
const DefaultShots = 1024

// Manifest represents a stateq.toml project configuration.
type Manifest struct {
	Project  Project  `toml:"project"`
	Execute  Execute  `toml:"execute"`
	Compiler Compiler `toml:"compiler"`

	// Dir is the directory containing the stateq.toml file (set at load
	// time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Execute configures bytecode execution.
type Execute struct {
	Shots   uint32 `toml:"shots"`
	Seed    int64  `toml:"seed"`
	History string `toml:"history"`
}

// Compiler configures the upstream compiler endpoint.
type Compiler struct {
	Address string            `toml:"address"`
	Options map[string]string `toml:"options"`
}

// Load parses a stateq.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	m.Dir = dir

	if m.Execute.Shots == 0 {
		m.Execute.Shots = DefaultShots
	}
	return &m, nil
}

// Find walks up from dir looking for a stateq.toml, returning the loaded
// manifest or nil when no manifest governs the directory.
func Find(dir string) (*Manifest, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ManifestName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// HistoryPath resolves the history database location relative to the
// manifest directory. Empty means history is disabled.
func (m *Manifest) HistoryPath() string {
	if m.Execute.History == "" {
		return ""
	}
	if filepath.IsAbs(m.Execute.History) {
		return m.Execute.History
	}
	return filepath.Join(m.Dir, m.Execute.History)
}
