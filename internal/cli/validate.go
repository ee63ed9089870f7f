package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwalczyk/oasc/internal/config"
	"github.com/mwalczyk/oasc/internal/loader"
	"github.com/mwalczyk/oasc/internal/merge"
	"github.com/mwalczyk/oasc/internal/validate"
)

func ValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI specification",
		RunE:  runValidate,
	}

	flags := cmd.Flags()
	flags.Bool("multipart", false, "Merge sibling part files before validating")
	flags.StringSlice("parts", nil, "Explicit part file list")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	tier := cfg.Tier()

	var errors int
	if cfg.Multipart.Enabled {
		result := merge.MergeFiles(cfg.Spec, cfg.MergeConfig())
		diags := result.Diagnostics
		if result.Spec != nil {
			diags = append(diags, validate.Run(result.Spec, tier)...)
		}
		errors = printDiagnostics(cmd, diags)
	} else {
		f := loader.Load(cfg.Spec)
		errors = printDiagnostics(cmd, validate.RunFile(f, tier))
	}

	if errors > 0 {
		return fmt.Errorf("validation failed with %d error(s)", errors)
	}

	cmd.PrintErrf("Validation passed (strictness: %s)\n", tier)
	return nil
}
