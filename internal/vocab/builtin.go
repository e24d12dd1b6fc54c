package vocab

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed builtin
var builtinFS embed.FS

// Hosts returns the host languages with built-in tables.
func Hosts() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	hosts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			hosts = append(hosts, e.Name())
		}
	}
	sort.Strings(hosts)
	return hosts
}

// Builtin builds a registry holding every embedded table for host,
// followed by the tables declared in extraFiles.
func Builtin(host string, extraFiles ...string) (*Registry, error) {
	dir := path.Join("builtin", host)
	entries, err := fs.ReadDir(builtinFS, dir)
	if err != nil {
		return nil, fmt.Errorf("unknown host %q (known: %v)", host, Hosts())
	}

	reg := NewRegistry(host)
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".toml" {
			continue
		}
		name := path.Join(dir, e.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		def, err := DecodeTOML(name, data)
		if err != nil {
			return nil, err
		}
		if _, err := reg.Register(def); err != nil {
			return nil, err
		}
	}

	for _, file := range extraFiles {
		def, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		if _, err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
