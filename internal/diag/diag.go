// Package diag provides the severity-tagged finding type shared by the
// merge, split, and validation engines.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Severity indicates how serious a finding is. Only Error blocks downstream
// use of a document; Warning and Info are advisory.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reportable finding. Rule is a stable identifier that
// downstream tooling may filter on; everything else is presentation.
type Diagnostic struct {
	// Rule is the stable rule identifier (e.g. "merge-duplicate-path").
	Rule     string
	Message  string
	Severity Severity
	// File, Line, Column locate the finding in a source file when known.
	File   string
	Line   int
	Column int
	// Context is a free-form label (path key, schema name, diff output).
	Context string
	// Suggestions are optional remediation hints.
	Suggestions []string
	// DocURL links to documentation for the rule.
	DocURL string

	// order is the discovery index assigned by Sort; used as a tie break.
	order int
}

// String renders the diagnostic as a single plain-text line, with context
// and suggestions indented below when present.
func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s: %s", d.Severity, d.Rule, d.Message))
	if d.File != "" {
		if d.Line > 0 {
			sb.WriteString(fmt.Sprintf(" (%s:%d:%d)", d.File, d.Line, d.Column))
		} else {
			sb.WriteString(fmt.Sprintf(" (%s)", d.File))
		}
	}
	if d.Context != "" {
		sb.WriteString("\n    context: " + d.Context)
	}
	for _, s := range d.Suggestions {
		sb.WriteString("\n    suggestion: " + s)
	}
	return sb.String()
}

// Error constructs an error-severity diagnostic.
func Error(rule, format string, args ...any) Diagnostic {
	return Diagnostic{Rule: rule, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Warning constructs a warning-severity diagnostic.
func Warning(rule, format string, args ...any) Diagnostic {
	return Diagnostic{Rule: rule, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Info constructs an info-severity diagnostic.
func Info(rule, format string, args ...any) Diagnostic {
	return Diagnostic{Rule: rule, Severity: SeverityInfo, Message: fmt.Sprintf(format, args...)}
}

// HasErrors reports whether any diagnostic carries Error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics at or above the given severity.
func Filter(diags []Diagnostic, min Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity >= min {
			out = append(out, d)
		}
	}
	return out
}

// SortStable orders diagnostics by the priority assigned to each rule
// identifier, falling back to discovery order for equal priorities. Rules
// without an assigned priority sort after prioritized ones. The sort is
// deterministic: two runs over identical findings produce identical output.
func SortStable(diags []Diagnostic, priority map[string]int) {
	for i := range diags {
		diags[i].order = i
	}
	sort.SliceStable(diags, func(i, j int) bool {
		pi, iok := priority[diags[i].Rule]
		pj, jok := priority[diags[j].Rule]
		if iok != jok {
			return iok
		}
		if iok && pi != pj {
			return pi < pj
		}
		return diags[i].order < diags[j].order
	})
}
