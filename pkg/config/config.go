// Package config defines the configuration types for structparse.
// These types are pure data structures; resolution across files, the
// environment and flags lives in internal/configloader.
package config

import "slices"

// OutputFormat specifies the output format for reports.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
	FormatDiff    OutputFormat = "diff"
)

// OutputFormats lists every known output format.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatSARIF, FormatSummary, FormatDiff}
}

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	return slices.Contains(OutputFormats(), f)
}

// Default values.
const (
	DefaultIndent = "    "
)

// DefaultExtensions returns the file extensions scanned in directories.
func DefaultExtensions() []string {
	return []string{".sdef", ".struct"}
}

// DefaultInfoStrings returns the fence languages holding definitions in
// Markdown files.
func DefaultInfoStrings() []string {
	return []string{"structdef", "sdef"}
}

// MarkdownConfig controls extraction of definitions from Markdown files.
type MarkdownConfig struct {
	// Enabled turns on fenced block extraction. Nil means unset.
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty"`

	// InfoStrings are the fence languages holding definitions.
	InfoStrings []string `yaml:"info_strings,omitempty" toml:"info_strings,omitempty"`

	// Extensions are extra file extensions treated as Markdown.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
}

// Config is the root configuration structure for structparse.
type Config struct {
	// Extensions are the file extensions picked up when walking directories.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains glob patterns for files and directories to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// FollowSymlinks follows symlinked directories while walking.
	// Nil means unset.
	FollowSymlinks *bool `yaml:"follow_symlinks,omitempty" toml:"follow_symlinks,omitempty"`

	// Jobs is the number of parallel workers; 0 means one per CPU.
	Jobs int `yaml:"jobs,omitempty" toml:"jobs,omitempty"`

	// Indent is the field indentation used by fmt.
	Indent string `yaml:"indent,omitempty" toml:"indent,omitempty"`

	// Markdown configures Markdown extraction.
	Markdown MarkdownConfig `yaml:"markdown,omitempty" toml:"markdown,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the report format.
	Format OutputFormat `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Extensions:     DefaultExtensions(),
		FollowSymlinks: Bool(false),
		Jobs:           0,
		Indent:         DefaultIndent,
		Markdown: MarkdownConfig{
			Enabled:     Bool(true),
			InfoStrings: DefaultInfoStrings(),
		},
		Format: FormatText,
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// FollowSymlinksEnabled reports whether symlinked directories are followed.
func (c *Config) FollowSymlinksEnabled() bool {
	return c.FollowSymlinks != nil && *c.FollowSymlinks
}

// MarkdownEnabled reports whether Markdown extraction is on.
func (c *Config) MarkdownEnabled() bool {
	return c.Markdown.Enabled != nil && *c.Markdown.Enabled
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Ignore = slices.Clone(c.Ignore)
	clone.Markdown.InfoStrings = slices.Clone(c.Markdown.InfoStrings)
	clone.Markdown.Extensions = slices.Clone(c.Markdown.Extensions)

	if c.FollowSymlinks != nil {
		clone.FollowSymlinks = Bool(*c.FollowSymlinks)
	}
	if c.Markdown.Enabled != nil {
		clone.Markdown.Enabled = Bool(*c.Markdown.Enabled)
	}

	return &clone
}
