package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env lists the environment overrides. They win over glosa.toml.
type Env struct {
	Javac      string   `env:"GLOSA_JAVAC"`
	Java       string   `env:"GLOSA_JAVA"`
	Go         string   `env:"GLOSA_GO"`
	Host       string   `env:"GLOSA_HOST"`
	SourceRoot string   `env:"GLOSA_SOURCE_ROOT"`
	CacheDir   string   `env:"GLOSA_CACHE_DIR"`
	Cache      *bool    `env:"GLOSA_CACHE"` // nil: not set
	VocabFiles []string `env:"GLOSA_VOCAB" envSeparator:","`
}

// Settings is the effective configuration after merging defaults,
// glosa.toml, .env and the process environment. Command-line flags are
// applied on top by the caller.
type Settings struct {
	Root         string // directory relative paths resolve against
	ManifestPath string // empty when no glosa.toml was found
	SourceRoot   string
	Host         string
	Javac        string
	Java         string
	Go           string
	JavacArgs    []string
	VocabFiles   []string
	CacheEnabled bool
	CacheDir     string
}

// Resolve builds Settings for a run started in startDir. environ is in
// os.Environ form; a .env file next to glosa.toml (or in startDir) fills
// variables environ does not set.
func Resolve(startDir string, environ []string) (*Settings, error) {
	if startDir == "" {
		startDir = "."
	}
	root, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	m, _, err := Load(root)
	if err != nil {
		return nil, err
	}
	return resolve(root, m, environ)
}

// ResolveManifest is Resolve with an explicit manifest path instead of the
// upward search.
func ResolveManifest(path string, environ []string) (*Settings, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	m, err := LoadFile(abs)
	if err != nil {
		return nil, err
	}
	return resolve(m.Root, m, environ)
}

func resolve(root string, m *Manifest, environ []string) (*Settings, error) {
	s := &Settings{
		Root:       root,
		SourceRoot: DefaultSourceRoot,
		Host:       DefaultHost,
	}
	if m != nil {
		s.applyManifest(m)
	}

	vars, err := mergeDotenv(filepath.Join(s.Root, ".env"), environ)
	if err != nil {
		return nil, err
	}
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	s.applyEnv(e)
	return s, nil
}

func (s *Settings) applyManifest(m *Manifest) {
	cfg := m.Config
	s.Root = m.Root
	s.ManifestPath = m.Path
	if cfg.Project.SourceRoot != "" {
		s.SourceRoot = cfg.Project.SourceRoot
	}
	if cfg.Project.Host != "" {
		s.Host = cfg.Project.Host
	}
	s.Javac = cfg.Toolchain.Javac
	s.Java = cfg.Toolchain.Java
	s.Go = cfg.Toolchain.Go
	s.JavacArgs = cfg.Toolchain.JavacArgs
	for _, f := range cfg.Vocab.Files {
		s.VocabFiles = append(s.VocabFiles, m.Abs(f))
	}
	s.CacheEnabled = cfg.Cache.Enabled
	if cfg.Cache.Dir != "" {
		s.CacheDir = m.Abs(cfg.Cache.Dir)
	}
}

func (s *Settings) applyEnv(e Env) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.Javac, e.Javac)
	set(&s.Java, e.Java)
	set(&s.Go, e.Go)
	set(&s.Host, e.Host)
	set(&s.SourceRoot, e.SourceRoot)
	if e.CacheDir != "" {
		s.CacheDir = e.CacheDir
		s.CacheEnabled = true
	}
	if e.Cache != nil {
		s.CacheEnabled = *e.Cache
	}
	s.VocabFiles = append(s.VocabFiles, e.VocabFiles...)
}

// SourcePath resolves a source file argument under the source root.
// Absolute paths and paths that already exist relative to the working
// directory are used as given.
func (s *Settings) SourcePath(arg string) string {
	if filepath.IsAbs(arg) {
		return arg
	}
	if _, err := os.Stat(arg); err == nil {
		return arg
	}
	root := s.SourceRoot
	if !filepath.IsAbs(root) {
		root = filepath.Join(s.Root, root)
	}
	return filepath.Join(root, filepath.FromSlash(arg))
}

// mergeDotenv returns environ as a map, with keys from the .env file at
// path added where environ has none. A missing file is fine.
func mergeDotenv(path string, environ []string) (map[string]string, error) {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}
	dot, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return vars, nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for k, v := range dot {
		if _, set := vars[k]; !set {
			vars[k] = v
		}
	}
	return vars, nil
}
