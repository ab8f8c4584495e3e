package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/structparse/internal/logging"
	"github.com/yaklabco/structparse/pkg/pipeline"
)

const formatJSON = "json"

// codeInfo represents a diagnostic code in JSON output.
type codeInfo struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func newCodesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List diagnostic codes",
		Long: `List every diagnostic code that check can report, with a short
description of the parse failure it stands for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codes := pipeline.Codes()

			switch format {
			case formatJSON:
				return outputCodesJSON(cmd, codes)
			case "text", "":
			default:
				return &UsageError{Message: fmt.Sprintf("invalid format %q: must be text or json", format)}
			}

			logger := logging.NewInteractiveWithWriter(cmd.OutOrStdout())
			for _, code := range codes {
				logger.Info(string(code), logging.FieldDescription, code.Describe())
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

// outputCodesJSON writes the codes as a JSON array.
func outputCodesJSON(cmd *cobra.Command, codes []pipeline.Code) error {
	infos := make([]codeInfo, 0, len(codes))
	for _, code := range codes {
		infos = append(infos, codeInfo{Code: string(code), Description: code.Describe()})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding codes: %w", err)
	}
	return nil
}
