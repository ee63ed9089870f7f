package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwalczyk/oasc/internal/config"
	"github.com/mwalczyk/oasc/internal/split"
)

func SplitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a large specification into domain part files",
		RunE:  runSplit,
	}

	flags := cmd.Flags()
	flags.String("strategy", "", "Grouping strategy: by-tag, by-path-segment, by-domain")
	flags.Bool("analyze", false, "Report split statistics without writing files")

	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	spec, base, diags := loadDocument(cfg)
	errors := printDiagnostics(cmd, diags)
	if spec == nil {
		return fmt.Errorf("split failed: no document loaded")
	}

	analysis := split.Analyze(spec, base.LineCount)

	analyzeOnly, _ := cmd.Flags().GetBool("analyze")
	if analyzeOnly {
		printAnalysis(cmd, analysis)
		return nil
	}

	strategy := split.Strategy(cfg.Split.Strategy)
	if strategy == "" {
		strategy = analysis.Recommended
	}

	baseName := strings.TrimSuffix(filepath.Base(base.Path), filepath.Ext(base.Path))
	result := split.Split(spec, strategy, baseName)
	errors += printDiagnostics(cmd, result.Diagnostics)
	if !result.Success() {
		return fmt.Errorf("split failed with %d error(s)", errors)
	}

	outputDir := cfg.Split.OutputDir
	if outputDir == "" {
		outputDir = cfg.Output
	}
	if outputDir == "" {
		outputDir = "."
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, f := range result.AllFiles() {
		path := filepath.Join(outputDir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		cmd.PrintErrf("Written: %s\n", path)
	}

	return nil
}

func printAnalysis(cmd *cobra.Command, a *split.Analysis) {
	cmd.Printf("Lines: %d\n", a.TotalLines)
	cmd.Printf("Paths: %d\n", a.TotalPaths)
	cmd.Printf("Operations: %d\n", a.TotalOperations)
	cmd.Printf("Schemas: %d\n", a.TotalSchemas)
	cmd.Printf("Parameters: %d\n", a.TotalParameters)

	if len(a.TagStats) > 0 {
		cmd.Printf("Tag groups:\n")
		for _, g := range a.TagStats {
			cmd.Printf("  %s: %d path(s), %d operation(s), %d schema(s)\n", g.Name, g.Paths, g.Operations, g.Schemas)
		}
	}
	if len(a.SegmentStats) > 0 {
		cmd.Printf("Path segment groups:\n")
		for _, g := range a.SegmentStats {
			cmd.Printf("  %s: %d path(s), %d operation(s), %d schema(s)\n", g.Name, g.Paths, g.Operations, g.Schemas)
		}
	}
	if len(a.SharedSchemas) > 0 {
		cmd.Printf("Shared schemas: %s\n", strings.Join(a.SharedSchemas, ", "))
	}

	if a.ShouldSplit {
		cmd.Printf("Recommendation: split %s (%s)\n", a.Recommended, a.Reason)
		for _, f := range a.SuggestedFiles {
			cmd.Printf("  %s\n", f)
		}
	} else {
		cmd.Printf("Recommendation: keep as a single file (%s)\n", a.Reason)
	}
}
