package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/structparse/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func isolatedOptions(workDir string) LoadOptions {
	return LoadOptions{
		WorkingDir:       workDir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Paths.Project)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: ".structparse.yml",
			content: `jobs: 3
follow_symlinks: true
markdown:
  enabled: false
`,
		},
		{
			name: "toml",
			file: ".structparse.toml",
			content: `jobs = 3
follow_symlinks = true

[markdown]
enabled = false
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
			writeFile(t, filepath.Join(tmpDir, tt.file), tt.content)

			workDir := filepath.Join(tmpDir, "nested", "deeper")
			require.NoError(t, os.MkdirAll(workDir, 0o755))

			result, err := Load(context.Background(), isolatedOptions(workDir))
			require.NoError(t, err)

			assert.Equal(t, []string{filepath.Join(tmpDir, tt.file)}, result.LoadedFrom)
			assert.Equal(t, 3, result.Config.Jobs)
			assert.True(t, result.Config.FollowSymlinksEnabled())
			assert.False(t, result.Config.MarkdownEnabled())

			// Unset fields keep their defaults.
			assert.Equal(t, config.DefaultExtensions(), result.Config.Extensions)
			assert.Equal(t, config.DefaultInfoStrings(), result.Config.Markdown.InfoStrings)
		})
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".structparse.yml"), "jobs: 1\n")

	repo := filepath.Join(tmpDir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "sub"), 0o755))

	path, err := FindProjectConfig(context.Background(), filepath.Join(repo, "sub"))
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = FindProjectConfig(context.Background(), tmpDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ".structparse.yml"), path)
}

func TestFindProjectConfig_Preference(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".structparse.toml"), "jobs = 1\n")
	writeFile(t, filepath.Join(tmpDir, ".structparse.yml"), "jobs: 1\n")

	path, err := FindProjectConfig(context.Background(), tmpDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ".structparse.yml"), path)
}

func TestFindProjectConfig_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindProjectConfig(ctx, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_Precedence(t *testing.T) {
	tmpDir := t.TempDir()

	xdg := filepath.Join(tmpDir, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	userPath := filepath.Join(xdg, "structparse", "config.toml")
	writeFile(t, userPath, "extensions = [\".u\"]\nindent = \"\\t\"\njobs = 1\n")

	project := filepath.Join(tmpDir, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".git"), 0o755))
	projectPath := filepath.Join(project, ".structparse.yml")
	writeFile(t, projectPath, "jobs: 2\nfollow_symlinks: true\n")

	explicitPath := filepath.Join(tmpDir, "explicit.yaml")
	writeFile(t, explicitPath, "jobs: 3\nmarkdown:\n  enabled: false\n")

	t.Setenv("STRUCTPARSE_JOBS", "6")
	t.Setenv("STRUCTPARSE_FORMAT", "json")

	cli := &config.Config{FollowSymlinks: config.Bool(false)}

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:   project,
		ExplicitPath: explicitPath,
		CLIConfig:    cli,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{userPath, projectPath, explicitPath}, result.LoadedFrom)

	cfg := result.Config
	assert.Equal(t, []string{".u"}, cfg.Extensions, "user config")
	assert.Equal(t, "\t", cfg.Indent, "user config")
	assert.False(t, cfg.MarkdownEnabled(), "explicit config")
	assert.Equal(t, 6, cfg.Jobs, "environment")
	assert.Equal(t, config.FormatJSON, cfg.Format, "environment")
	assert.False(t, cfg.FollowSymlinksEnabled(), "CLI overrides project")
}

func TestLoad_IgnoreLayers(t *testing.T) {
	tmpDir := t.TempDir()

	xdg := filepath.Join(tmpDir, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	writeFile(t, filepath.Join(xdg, "structparse", "config.yml"), "jobs: 1\n")
	writeFile(t, filepath.Join(tmpDir, ".structparse.yml"), "jobs: 2\n")
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	t.Setenv("STRUCTPARSE_JOBS", "9")

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:          tmpDir,
		IgnoreUserConfig:    true,
		IgnoreProjectConfig: true,
		IgnoreEnv:           true,
	})
	require.NoError(t, err)
	assert.Zero(t, result.Config.Jobs)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STRUCTPARSE_IGNORE", " gen/** , ,vendor/**")
	t.Setenv("STRUCTPARSE_EXTENSIONS", ".a,.b")
	t.Setenv("STRUCTPARSE_MARKDOWN", "0")
	t.Setenv("STRUCTPARSE_FOLLOW_SYMLINKS", "true")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, []string{"gen/**", "vendor/**"}, cfg.Ignore)
	assert.Equal(t, []string{".a", ".b"}, cfg.Extensions)
	assert.False(t, cfg.MarkdownEnabled())
	assert.True(t, cfg.FollowSymlinksEnabled())

	require.NoError(t, LoadFromEnv(nil))
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("STRUCTPARSE_MARKDOWN", "maybe")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRUCTPARSE_MARKDOWN")

	t.Setenv("STRUCTPARSE_MARKDOWN", "")
	t.Setenv("STRUCTPARSE_JOBS", "many")

	err = LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRUCTPARSE_JOBS")
}

func TestEnvVarHelp(t *testing.T) {
	t.Parallel()

	help := EnvVarHelp()
	assert.Len(t, help, len(envMappings))
	for name, text := range help {
		assert.True(t, strings.HasPrefix(name, envVarPrefix), name)
		assert.NotEmpty(t, text, name)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	configPath := filepath.Join(tmpDir, ".structparse.yml")
	writeFile(t, configPath, "jobs: -1\n")

	_, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "jobs", validationErr.Field)
	assert.Equal(t, configPath, validationErr.FilePath)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	opts := isolatedOptions(tmpDir)
	opts.IgnoreProjectConfig = true
	opts.ExplicitPath = filepath.Join(tmpDir, "broken.toml")
	writeFile(t, opts.ExplicitPath, "jobs = \n")

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load explicit config")

	opts.ExplicitPath = filepath.Join(tmpDir, "missing.yml")
	_, err = Load(context.Background(), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_UnknownKeysWarn(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755))
	writeFile(t, filepath.Join(tmpDir, ".structparse.yml"), "jobs: 1\ncolour: blue\n")

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `unknown key "colour"`)
}

func TestLoad_InvalidCLIFormat(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t.TempDir())
	opts.IgnoreProjectConfig = true
	opts.CLIConfig = &config.Config{Format: "xml"}

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Ignore = []string{"a/**"}

	override := &config.Config{
		Jobs:     4,
		Ignore:   []string{"b/**"},
		Markdown: config.MarkdownConfig{Enabled: config.Bool(false)},
	}

	merged := merge(base, override)

	assert.Equal(t, 4, merged.Jobs)
	assert.Equal(t, []string{"b/**"}, merged.Ignore)
	assert.False(t, merged.MarkdownEnabled())
	assert.Equal(t, base.Extensions, merged.Extensions)
	assert.Equal(t, base.Indent, merged.Indent)

	// Inputs are not mutated.
	assert.True(t, base.MarkdownEnabled())
	assert.Equal(t, []string{"a/**"}, base.Ignore)

	merged.Ignore[0] = "changed"
	assert.Equal(t, []string{"b/**"}, override.Ignore)

	assert.Nil(t, merge(nil, nil))
	assert.Equal(t, base, merge(base, nil))
	assert.Equal(t, override, merge(nil, override))
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MergeAll())

	merged := MergeAll(config.NewConfig(), &config.Config{Jobs: 1}, &config.Config{Jobs: 2, Indent: "\t"})
	assert.Equal(t, 2, merged.Jobs)
	assert.Equal(t, "\t", merged.Indent)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantField string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{name: "unknown format", mutate: func(c *config.Config) { c.Format = "xml" }, wantField: "format"},
		{name: "negative jobs", mutate: func(c *config.Config) { c.Jobs = -2 }, wantField: "jobs"},
		{name: "extension without dot", mutate: func(c *config.Config) { c.Extensions = []string{".ok", "sdef"} }, wantField: "extensions[1]"},
		{name: "bare dot extension", mutate: func(c *config.Config) { c.Extensions = []string{"."} }, wantField: "extensions[0]"},
		{name: "markdown extension", mutate: func(c *config.Config) { c.Markdown.Extensions = []string{"mdx"} }, wantField: "markdown.extensions[0]"},
		{name: "info string with space", mutate: func(c *config.Config) { c.Markdown.InfoStrings = []string{"struct def"} }, wantField: "markdown.info_strings[0]"},
		{name: "empty info string", mutate: func(c *config.Config) { c.Markdown.InfoStrings = []string{""} }, wantField: "markdown.info_strings[0]"},
		{name: "indent with letters", mutate: func(c *config.Config) { c.Indent = "ab" }, wantField: "indent"},
		{name: "bad glob", mutate: func(c *config.Config) { c.Ignore = []string{"[a-"} }, wantField: "ignore[0]"},
		{name: "double star glob", mutate: func(c *config.Config) { c.Ignore = []string{"**/gen/**"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)

			result := Validate(cfg)
			if tt.wantField == "" {
				assert.True(t, result.Valid(), result.AllMessages())
				return
			}

			require.False(t, result.Valid())
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
		})
	}
}

func TestValidate_JobsWarning(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Jobs = 1 << 20

	result := Validate(cfg)
	assert.True(t, result.Valid())
	assert.True(t, result.HasWarnings())
	assert.Len(t, result.AllMessages(), 1)
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := &ValidationError{FilePath: "/x/.structparse.yml", Field: "jobs", Message: "jobs must be >= 0"}
	assert.Equal(t, "/x/.structparse.yml: jobs: jobs must be >= 0", err.Error())

	err = &ValidationError{Message: "bare"}
	assert.Equal(t, "bare", err.Error())
}
