package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/structparse/internal/ui/pretty"
	"github.com/yaklabco/structparse/pkg/ast"
	"github.com/yaklabco/structparse/pkg/fsutil"
	"github.com/yaklabco/structparse/pkg/parser"
	"github.com/yaklabco/structparse/pkg/pipeline"
)

func newTokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [path]",
		Short: "Print the token stream of a struct definition",
		Long: `Tokenize a struct definition and print every token with its kind,
byte span, line:column location and source text.

With no path, or with "-", the input is read from standard input.

Examples:
  structparse tokens point.sdef
  echo 'struct P { x: [u8; 4] }' | structparse tokens`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokens,
	}

	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	args, err := stdinDefault(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	name, content, err := readInput(ctx, cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	src := ast.NewSource(name, string(content))
	styles := pretty.NewStyles(pretty.IsColorEnabled(globalString(cmd, "color", "auto"), cmd.OutOrStdout()))

	tokens, err := parser.Tokenize(src.Content)
	if err != nil {
		diag := pipeline.NewDiagnostic(src, err, nil)
		errStyles := pretty.NewStyles(pretty.IsColorEnabled(globalString(cmd, "color", "auto"), cmd.ErrOrStderr()))
		if _, werr := io.WriteString(cmd.ErrOrStderr(),
			errStyles.FormatDiagnostic(diag, src.LineContent(diag.StartLine))); werr != nil {
			return fmt.Errorf("%w: %w", ErrIO, werr)
		}
		return ErrParseErrorsFound
	}

	table := pretty.NewTokenTableFormatter(styles, terminalWidth(cmd.OutOrStdout()))
	if _, err := io.WriteString(cmd.OutOrStdout(), table.Format(pretty.TokenRows(src, tokens))); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}

// readInput reads path, or standard input when path is "-".
func readInput(ctx context.Context, stdin io.Reader, path string) (string, []byte, error) {
	if path == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", nil, fmt.Errorf("%w: read standard input: %w", ErrIO, err)
		}
		return stdinName, content, nil
	}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return path, content, nil
}
