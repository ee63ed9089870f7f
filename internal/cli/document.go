package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwalczyk/oasc/internal/config"
	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/loader"
	"github.com/mwalczyk/oasc/internal/merge"
	"github.com/mwalczyk/oasc/internal/model"
)

// loadDocument loads the configured specification, merging the multi-file
// set first when multipart mode is on. The returned file is the base source
// file; the spec is nil when loading failed, with the reason in the
// diagnostics.
func loadDocument(cfg *config.Config) (*model.Spec, *loader.SpecFile, []diag.Diagnostic) {
	if cfg.Multipart.Enabled {
		result := merge.MergeFiles(cfg.Spec, cfg.MergeConfig())
		return result.Spec, result.Base, result.Diagnostics
	}

	f := loader.Load(cfg.Spec)
	var diags []diag.Diagnostic
	if d := f.Diagnostic(); d != nil {
		diags = append(diags, *d)
	}
	return f.Spec, f, diags
}

// printDiagnostics writes diagnostics to the command's error stream in
// discovery order and returns the number of errors.
func printDiagnostics(cmd *cobra.Command, diags []diag.Diagnostic) int {
	errors := 0
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			errors++
		}

		location := d.File
		if d.Line > 0 {
			location = fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
		}
		if location != "" {
			cmd.PrintErrf("%s [%s] %s: %s\n", d.Severity, d.Rule, location, d.Message)
		} else {
			cmd.PrintErrf("%s [%s] %s\n", d.Severity, d.Rule, d.Message)
		}

		for _, s := range d.Suggestions {
			cmd.PrintErrf("  suggestion: %s\n", s)
		}
		if d.DocURL != "" {
			cmd.PrintErrf("  see: %s\n", d.DocURL)
		}
	}
	return errors
}
