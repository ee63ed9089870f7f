package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwalczyk/oasc/internal/config"
	"github.com/mwalczyk/oasc/internal/merge"
	"github.com/mwalczyk/oasc/internal/render"
)

func MergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge a multi-file specification into one document",
		RunE:  runMerge,
	}

	flags := cmd.Flags()
	flags.StringSlice("parts", nil, "Explicit part file list (default: discover siblings)")
	flags.String("paths-strategy", "", "Conflict strategy for paths")
	flags.String("schemas-strategy", "", "Conflict strategy for schemas")
	flags.String("parameters-strategy", "", "Conflict strategy for parameters")
	flags.String("tags-strategy", "", "Conflict strategy for tags")

	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	// The command itself is the opt-in; the multipart.enabled setting only
	// gates implicit merging inside other commands.
	mcfg := cfg.MergeConfig()
	mcfg.Enabled = true

	result := merge.MergeFiles(cfg.Spec, mcfg)
	errors := printDiagnostics(cmd, result.Diagnostics)

	if result.Spec == nil {
		return fmt.Errorf("merge failed: no document produced")
	}

	cmd.PrintErrf("Merged %d part file(s) into %s\n", len(result.Parts), result.Base.Path)
	cmd.PrintErrf("  Paths: %d\n", len(result.Spec.Paths))
	cmd.PrintErrf("  Schemas: %d\n", len(result.Spec.Schemas))

	content, err := render.Spec(result.Spec)
	if err != nil {
		return fmt.Errorf("rendering merged document: %w", err)
	}

	if cfg.Output == "" {
		cmd.Print(content)
	} else {
		if err := os.WriteFile(cfg.Output, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", cfg.Output, err)
		}
		cmd.PrintErrf("Written: %s\n", cfg.Output)
	}

	if errors > 0 {
		return fmt.Errorf("merge completed with %d error(s)", errors)
	}
	return nil
}
