package vocab

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Definition is the on-disk form of a Table.
type Definition struct {
	Language string   `toml:"language" yaml:"language"`
	Host     string   `toml:"host" yaml:"host"`
	Locale   string   `toml:"locale" yaml:"locale"`
	Aliases  []string `toml:"aliases" yaml:"aliases"`
	Keywords []Pair   `toml:"keyword" yaml:"keyword"`

	source string // file the definition came from, for errors
}

// DecodeTOML parses a TOML vocabulary definition.
func DecodeTOML(name string, data []byte) (Definition, error) {
	var def Definition
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&def)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Definition{}, fmt.Errorf("%s: unknown keys: %s", name, strings.Join(keys, ", "))
	}
	def.source = name
	return def, nil
}

// DecodeYAML parses a YAML vocabulary definition.
func DecodeYAML(name string, data []byte) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("%s: failed to parse YAML: %w", name, err)
	}
	def.source = name
	return def, nil
}

// LoadFile reads a definition from path, choosing the decoder by extension.
func LoadFile(path string) (Definition, error) {
	// #nosec G304 -- path comes from the project manifest or a CLI flag
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return DecodeTOML(path, data)
	case ".yaml", ".yml":
		return DecodeYAML(path, data)
	default:
		return Definition{}, fmt.Errorf("%s: unsupported vocabulary format (want .toml, .yaml or .yml)", path)
	}
}
