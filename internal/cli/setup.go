package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/structparse/internal/configloader"
	"github.com/yaklabco/structparse/internal/logging"
	"github.com/yaklabco/structparse/pkg/config"
	"github.com/yaklabco/structparse/pkg/pipeline"
	"github.com/yaklabco/structparse/pkg/runner"
)

// stdinName is the display name of standard input.
const stdinName = "<stdin>"

// session is the resolved state shared by the processing commands.
type session struct {
	ctx     context.Context
	logger  *log.Logger
	workDir string
	cfg     *config.Config
	color   string
	version string
}

// globalString returns the value of a persistent root flag, or def when
// the flag is not defined on cmd.
func globalString(cmd *cobra.Command, name, def string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return def
	}
	return value
}

// newSession loads the configuration for cmd with cliCfg as the
// highest-precedence layer.
func newSession(cmd *cobra.Command, cliCfg *config.Config, version string) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: globalString(cmd, "config", ""),
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	logger := logging.Default().With(logging.FieldCommand, cmd.Name())
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldJobs, cfg.Jobs,
		logging.FieldFormat, cfg.Format,
		logging.FieldMarkdown, cfg.MarkdownEnabled(),
	)

	return &session{
		ctx:     logging.WithLogger(ctx, logger),
		logger:  logger,
		workDir: workDir,
		cfg:     cfg,
		color:   globalString(cmd, "color", "auto"),
		version: version,
	}, nil
}

// pipelineOptions returns the per-file options implied by the configuration.
func (s *session) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Markdown:           s.cfg.MarkdownEnabled(),
		InfoStrings:        s.cfg.Markdown.InfoStrings,
		MarkdownExtensions: s.cfg.Markdown.Extensions,
		Indent:             s.cfg.Indent,
	}
}

// runnerOptions returns discovery options for paths.
func (s *session) runnerOptions(paths []string) runner.Options {
	return runner.Options{
		Paths:              paths,
		WorkingDir:         s.workDir,
		Extensions:         s.cfg.Extensions,
		Markdown:           s.cfg.MarkdownEnabled(),
		MarkdownExtensions: s.cfg.Markdown.Extensions,
		ExcludeGlobs:       s.cfg.Ignore,
		FollowSymlinks:     s.cfg.FollowSymlinksEnabled(),
		Jobs:               s.cfg.Jobs,
	}
}

// run processes paths, or standard input when paths is exactly "-".
func (s *session) run(cmd *cobra.Command, opts pipeline.Options, paths []string) (*runner.Result, error) {
	proc := runner.New(pipeline.New(opts))

	if isStdinArg(paths) {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("%w: read standard input: %w", ErrIO, err)
		}
		s.logger.Debug("processing standard input", logging.FieldFiles, 1)
		return proc.RunContent(s.ctx, stdinName, content), nil
	}

	runOpts := s.runnerOptions(paths)
	s.logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := proc.Run(s.ctx, runOpts)
	if err != nil {
		return nil, errors.Join(errors.New("run failed"), err)
	}

	s.logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithErrors, result.Stats.FilesWithErrors,
		logging.FieldStructs, result.Stats.StructsParsed,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	return result, nil
}

func isStdinArg(paths []string) bool {
	return len(paths) == 1 && paths[0] == "-"
}

// isInteractive reports whether r is a terminal.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w if it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
