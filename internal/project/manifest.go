// Package project loads glosa.toml and environment overrides.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file searched for from the working directory upwards.
const ManifestName = "glosa.toml"

// Manifest is a located and decoded glosa.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors glosa.toml.
type Config struct {
	Project   ProjectConfig   `toml:"project"`
	Toolchain ToolchainConfig `toml:"toolchain"`
	Vocab     VocabConfig     `toml:"vocab"`
	Cache     CacheConfig     `toml:"cache"`
}

type ProjectConfig struct {
	SourceRoot string `toml:"source_root"`
	Host       string `toml:"host"`
}

type ToolchainConfig struct {
	Javac     string   `toml:"javac"`
	Java      string   `toml:"java"`
	Go        string   `toml:"go"`
	JavacArgs []string `toml:"javac_args"`
}

type VocabConfig struct {
	Files []string `toml:"files"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Defaults used when neither glosa.toml nor the environment set a value.
const (
	DefaultSourceRoot = "src"
	DefaultHost       = "java"
)

// Find walks up from startDir looking for glosa.toml.
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

// Load locates and decodes glosa.toml starting at startDir.
// ok is false when no manifest exists; that is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile decodes the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("project", "host") && strings.TrimSpace(cfg.Project.Host) == "" {
		return nil, fmt.Errorf("%s: [project].host must not be empty", path)
	}
	if meta.IsDefined("project", "source_root") && strings.TrimSpace(cfg.Project.SourceRoot) == "" {
		return nil, fmt.Errorf("%s: [project].source_root must not be empty", path)
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// Abs resolves a manifest-relative path.
func (m *Manifest) Abs(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}
