package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/structparse/internal/configloader"
	"github.com/yaklabco/structparse/pkg/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
		Long: `Inspect how structparse resolves its configuration.

Settings are layered, later layers winning: defaults, the user config
file, the project config file, the --config file, STRUCTPARSE_*
environment variables and finally command-line flags.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigPathCommand())
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileFormat, err := config.ParseFileFormat(format)
			if err != nil {
				return &UsageError{Message: err.Error()}
			}

			loaded, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			data, err := loaded.Config.Encode(fileFormat)
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}

			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return fmt.Errorf("%w: %w", ErrIO, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or toml")

	return cmd
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List the configuration files that were loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			lines := loaded.LoadedFrom
			if len(lines) == 0 {
				lines = []string{"no configuration files found; using defaults"}
			}
			for _, line := range lines {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return fmt.Errorf("%w: %w", ErrIO, err)
				}
			}
			return nil
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			help := configloader.EnvVarHelp()

			names := make([]string, 0, len(help))
			width := 0
			for name := range help {
				names = append(names, name)
				width = max(width, len(name))
			}
			slices.Sort(names)

			var builder strings.Builder
			for _, name := range names {
				fmt.Fprintf(&builder, "%-*s  %s\n", width, name, help[name])
			}

			if _, err := fmt.Fprint(cmd.OutOrStdout(), builder.String()); err != nil {
				return fmt.Errorf("%w: %w", ErrIO, err)
			}
			return nil
		},
	}
}

// loadConfig resolves the configuration without any CLI layer.
func loadConfig(cmd *cobra.Command) (*configloader.LoadResult, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: globalString(cmd, "config", ""),
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}
	return loaded, nil
}
