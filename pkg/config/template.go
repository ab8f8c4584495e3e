package config

import "fmt"

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the file syntax of the template.
	Format FileFormat
}

// DefaultTemplateHeader returns the header comment of generated files.
func DefaultTemplateHeader() string {
	return `# structparse configuration
# See: https://github.com/yaklabco/structparse`
}

// ProjectConfigName returns the project config file name for a syntax.
func ProjectConfigName(format FileFormat) string {
	if format == FileFormatTOML {
		return ".structparse.toml"
	}
	return ".structparse.yml"
}

// GenerateTemplate creates a commented configuration file holding the
// default settings.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case FileFormatTOML:
		return []byte(tomlTemplate), nil
	case FileFormatYAML, "":
		return []byte(yamlTemplate), nil
	default:
		return nil, fmt.Errorf("unknown config format %q", opts.Format)
	}
}

const yamlTemplate = `# structparse configuration
# See: https://github.com/yaklabco/structparse

# File extensions picked up when walking directories
extensions:
  - .sdef
  - .struct

# Glob patterns for files and directories to skip
# ignore:
#   - "build/**"
#   - "**/testdata/**"

# Follow symlinked directories while walking
follow_symlinks: false

# Number of parallel workers (0 = one per CPU)
jobs: 0

# Field indentation used by fmt
indent: "    "

# Struct definitions inside Markdown fenced code blocks
markdown:
  enabled: true
  info_strings:
    - structdef
    - sdef
  # Extra extensions treated as Markdown
  # extensions:
  #   - .mdx
`

const tomlTemplate = `# structparse configuration
# See: https://github.com/yaklabco/structparse

# File extensions picked up when walking directories
extensions = [".sdef", ".struct"]

# Glob patterns for files and directories to skip
# ignore = ["build/**", "**/testdata/**"]

# Follow symlinked directories while walking
follow_symlinks = false

# Number of parallel workers (0 = one per CPU)
jobs = 0

# Field indentation used by fmt
indent = "    "

# Struct definitions inside Markdown fenced code blocks
[markdown]
enabled = true
info_strings = ["structdef", "sdef"]
# Extra extensions treated as Markdown
# extensions = [".mdx"]
`
