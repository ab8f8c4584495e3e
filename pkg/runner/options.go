// Package runner discovers struct-definition files and processes them
// concurrently through a pipeline.
package runner

import "github.com/yaklabco/structparse/pkg/mdextract"

// Options controls discovery and the worker pool.
type Options struct {
	// Paths are files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process
	// working directory.
	WorkingDir string

	// Extensions are the struct-definition file extensions
	// (lowercase, with leading dot). Empty means DefaultExtensions().
	Extensions []string

	// Markdown also discovers Markdown files.
	Markdown bool

	// MarkdownExtensions are extra extensions treated as Markdown.
	MarkdownExtensions []string

	// ExcludeGlobs skip matching files and directories, relative to
	// WorkingDir.
	ExcludeGlobs []string

	// FollowSymlinks traverses symlinked directories.
	FollowSymlinks bool

	// IncludeVendor disables skipping of vendored directories such as
	// vendor/ and node_modules/.
	IncludeVendor bool

	// Jobs is the number of workers. Zero or negative means runtime.NumCPU().
	Jobs int
}

// DefaultExtensions returns the default struct-definition file extensions.
func DefaultExtensions() []string {
	return []string{".sdef", ".struct"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) isMarkdown(path string) bool {
	return o.Markdown && mdextract.IsMarkdownPath(path, o.MarkdownExtensions)
}
