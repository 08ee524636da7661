// Package project loads the weft.toml manifest: the projects under analysis,
// their declared package references, and per-rule configuration.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file weft looks for when discovering a workspace.
const ManifestName = "weft.toml"

const noManifestMessage = "no weft.toml found\nplease run inside a workspace or pass --manifest"

// Manifest is a parsed weft.toml plus its location.
type Manifest struct {
	Path   string // absolute path of the manifest file
	Root   string // directory containing it
	Config Config
}

// Config is the TOML shape of weft.toml.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Projects  []ProjectConfig `toml:"project"`
	Rules     RulesConfig     `toml:"rules"`
}

// WorkspaceConfig names workspace-wide inputs.
type WorkspaceConfig struct {
	// Snapshot is the semantic snapshot emitted by the frontend, relative
	// to the manifest root.
	Snapshot string `toml:"snapshot"`
}

// ProjectConfig describes one project group.
type ProjectConfig struct {
	Name       string   `toml:"name"`
	Docs       []string `toml:"docs"`
	References []string `toml:"references"`
}

// RulesConfig carries the per-rule knobs.
type RulesConfig struct {
	PkgRef       PkgRefConfig      `toml:"pkgref"`
	ObsoleteBase map[string]string `toml:"obsoletebase"` // obsolete type -> replacement
	AmbientCtx   AmbientCtxConfig  `toml:"ambientctx"`
}

// PkgRefConfig lists the package references every project must declare.
type PkgRefConfig struct {
	Required []string `toml:"required"`
}

// AmbientCtxConfig identifies the cross-cutting ambient state and how
// callers should supply it after threading.
type AmbientCtxConfig struct {
	// Type is the context type threaded through signatures.
	Type string `toml:"type"`
	// Accessor is the static access expression rules look for, e.g.
	// "ServiceContext.Current".
	Accessor string `toml:"accessor"`
	// Nullable marks the accessor result as the nullable form of Type.
	Nullable bool `toml:"nullable"`
	// Strategy selects the call-site rewrite: "reexpress" (default) or
	// "forward".
	Strategy string `toml:"strategy"`
}

// Find walks up from startDir looking for weft.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load discovers and parses the manifest starting from startDir.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(noManifestMessage)
	}
	return LoadFile(path)
}

// LoadFile parses the manifest at an explicit path.
func LoadFile(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	var cfg Config
	if _, err := toml.DecodeFile(abs, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", abs, err)
	}
	m := &Manifest{
		Path:   abs,
		Root:   filepath.Dir(abs),
		Config: cfg,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Config.Projects))
	for _, p := range m.Config.Projects {
		if p.Name == "" {
			return fmt.Errorf("%s: project with empty name", m.Path)
		}
		if seen[p.Name] {
			return fmt.Errorf("%s: duplicate project %q", m.Path, p.Name)
		}
		seen[p.Name] = true
	}
	if s := m.Config.Rules.AmbientCtx.Strategy; s != "" && s != "reexpress" && s != "forward" {
		return fmt.Errorf("%s: unknown ambientctx strategy %q (must be reexpress or forward)", m.Path, s)
	}
	return nil
}

// SnapshotPath resolves the configured snapshot relative to the root.
func (m *Manifest) SnapshotPath() string {
	if m.Config.Workspace.Snapshot == "" {
		return ""
	}
	if filepath.IsAbs(m.Config.Workspace.Snapshot) {
		return m.Config.Workspace.Snapshot
	}
	return filepath.Join(m.Root, m.Config.Workspace.Snapshot)
}
