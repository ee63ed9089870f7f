package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwalczyk/oasc/internal/config"
	"github.com/mwalczyk/oasc/internal/model"
	"github.com/mwalczyk/oasc/internal/project"
)

func TypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Project component schemas to type descriptors",
		RunE:  runTypes,
	}

	flags := cmd.Flags()
	flags.Bool("multipart", false, "Merge sibling part files before projecting")
	flags.StringSlice("parts", nil, "Explicit part file list")
	flags.Bool("native-dates", false, "Project date formats to the native date type")
	flags.Bool("null-unions", false, "Union optional fields with null")

	return cmd
}

func runTypes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	spec, _, diags := loadDocument(cfg)
	printDiagnostics(cmd, diags)
	if spec == nil {
		return fmt.Errorf("types failed: no document loaded")
	}

	opts := cfg.ProjectOptions()

	var sb strings.Builder
	for i := range spec.Schemas {
		s := &spec.Schemas[i]
		if s.Type == model.TypeObject && len(s.Properties) > 0 {
			sb.WriteString(s.Name + ":\n")
			for _, p := range s.Properties {
				required := slices.Contains(s.Required, p.Name)
				sb.WriteString("  " + p.Name + ": " + project.Type(p.Schema, required, opts) + "\n")
			}
			continue
		}
		sb.WriteString(s.Name + ": " + project.Type(s, true, opts) + "\n")
	}

	if cfg.Output == "" {
		cmd.Print(sb.String())
		return nil
	}
	if err := os.WriteFile(cfg.Output, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output, err)
	}
	cmd.PrintErrf("Written: %s\n", cfg.Output)
	return nil
}
