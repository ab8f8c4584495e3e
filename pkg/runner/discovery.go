package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Discover resolves opts.Paths into a sorted, deduplicated list of
// absolute file paths. Directories are walked recursively and filtered
// by extension; files named explicitly are kept whatever their
// extension, unless an exclude glob matches them.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	disc := &discoverer{
		workDir:    workDir,
		opts:       opts,
		extensions: opts.effectiveExtensions(),
		seen:       make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := input
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if !disc.excluded(absPath) {
				disc.add(absPath)
			}
			continue
		}

		if err := disc.walk(ctx, absPath); err != nil {
			return nil, err
		}
	}

	slices.Sort(disc.files)
	return disc.files, nil
}

type discoverer struct {
	workDir    string
	opts       Options
	extensions []string
	seen       map[string]struct{}
	files      []string
}

func (d *discoverer) add(path string) {
	if _, dup := d.seen[path]; dup {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (d *discoverer) excluded(path string) bool {
	rel := d.rel(path)
	for _, pattern := range d.opts.ExcludeGlobs {
		if matchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

func (d *discoverer) wanted(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && slices.ContainsFunc(d.extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	}) {
		return true
	}
	return d.opts.isMarkdown(path)
}

func (d *discoverer) skipDir(root, path string, name string) bool {
	if path == root {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	if !d.opts.IncludeVendor && enry.IsVendor(filepath.ToSlash(d.rel(path))+"/") {
		return true
	}
	return d.excluded(path)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if d.skipDir(root, path, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(ctx, path)
		}

		if d.wanted(path) && !d.excluded(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink handles a symlink met during a walk. Broken links are ignored;
// directory links are followed only with FollowSymlinks, by walking the
// target so WalkDir does not recurse through the link itself.
func (d *discoverer) symlink(ctx context.Context, path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // broken symlink
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable target
	}

	if info.IsDir() {
		if !d.opts.FollowSymlinks {
			return nil
		}
		return d.walk(ctx, target)
	}

	if d.wanted(path) && !d.excluded(path) {
		d.add(path)
	}
	return nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// matchGlob matches a slash-separated relative path against a pattern.
// Besides filepath.Match syntax it understands "**/name", "dir/**" and
// "prefix/**/suffix". Patterns without a slash also match the base name.
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if !strings.Contains(pattern, "**") {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		ok, _ := filepath.Match(pattern, filepath.Base(path))
		return ok
	}

	prefix, suffix, _ := strings.Cut(pattern, "**")
	prefix = strings.TrimSuffix(prefix, "/")
	suffix = strings.TrimPrefix(suffix, "/")

	if prefix != "" && path != prefix && !strings.HasPrefix(path, prefix+"/") {
		return false
	}
	if suffix == "" {
		return true
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(path, prefix), "/")
	components := strings.Split(rest, "/")
	for i := range components {
		if ok, _ := filepath.Match(suffix, strings.Join(components[i:], "/")); ok {
			return true
		}
		if ok, _ := filepath.Match(suffix, components[i]); ok {
			return true
		}
	}
	return false
}
