package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// FileFormat is the syntax of a configuration file.
type FileFormat string

const (
	FileFormatYAML FileFormat = "yaml"
	FileFormatTOML FileFormat = "toml"
)

// ParseFileFormat parses "yaml", "yml" or "toml".
func ParseFileFormat(s string) (FileFormat, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml", "":
		return FileFormatYAML, nil
	case "toml":
		return FileFormatTOML, nil
	default:
		return "", fmt.Errorf("unknown config format %q; valid formats: yaml, toml", s)
	}
}

// FileFormatFor picks the syntax of a config file from its extension.
// Anything that is not ".toml" is read as YAML.
func FileFormatFor(path string) FileFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FileFormatTOML
	}
	return FileFormatYAML
}

// knownKeys lists the dotted keys a config file may set.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownKeys = []string{
	"extensions",
	"ignore",
	"follow_symlinks",
	"jobs",
	"indent",
	"markdown",
	"markdown.enabled",
	"markdown.info_strings",
	"markdown.extensions",
}

// IsKnownKey reports whether a dotted key names a config field.
func IsKnownKey(key string) bool {
	return slices.Contains(knownKeys, key)
}

// Decode parses config file content in the given syntax. Keys that do
// not name a config field are returned sorted, for reporting as warnings.
func Decode(format FileFormat, data []byte) (*Config, []string, error) {
	switch format {
	case FileFormatTOML:
		return FromTOML(data)
	case FileFormatYAML:
		return FromYAML(data)
	default:
		return nil, nil, fmt.Errorf("unknown config format %q", format)
	}
}

// Encode serializes the configuration in the given syntax.
func (c *Config) Encode(format FileFormat) ([]byte, error) {
	switch format {
	case FileFormatTOML:
		return c.ToTOML()
	case FileFormatYAML:
		return c.ToYAML()
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}
