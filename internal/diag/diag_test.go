package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	require.Equal(t, "info", SeverityInfo.String())
	require.Equal(t, "warning", SeverityWarning.String())
	require.Equal(t, "error", SeverityError.String())
}

func TestConstructors(t *testing.T) {
	d := Error("merge-duplicate-paths", "path %q declared in %d files", "/pets", 2)
	require.Equal(t, SeverityError, d.Severity)
	require.Equal(t, "merge-duplicate-paths", d.Rule)
	require.Equal(t, `path "/pets" declared in 2 files`, d.Message)

	require.Equal(t, SeverityWarning, Warning("r", "m").Severity)
	require.Equal(t, SeverityInfo, Info("r", "m").Severity)
}

func TestHasErrors(t *testing.T) {
	require.False(t, HasErrors(nil))
	require.False(t, HasErrors([]Diagnostic{Warning("r", "m"), Info("r", "m")}))
	require.True(t, HasErrors([]Diagnostic{Info("r", "m"), Error("r", "m")}))
}

func TestFilter(t *testing.T) {
	diags := []Diagnostic{
		Info("a", "m"),
		Warning("b", "m"),
		Error("c", "m"),
	}

	require.Len(t, Filter(diags, SeverityInfo), 3)
	require.Len(t, Filter(diags, SeverityWarning), 2)
	require.Len(t, Filter(diags, SeverityError), 1)
	require.Equal(t, "c", Filter(diags, SeverityError)[0].Rule)
}

func TestSortStable(t *testing.T) {
	priority := map[string]int{
		"structure-missing-info": 0,
		"naming-schema":          1,
	}

	diags := []Diagnostic{
		Info("naming-schema", "second rule, first finding"),
		Info("unknown-rule", "no priority"),
		Error("structure-missing-info", "first rule"),
		Info("naming-schema", "second rule, second finding"),
	}

	SortStable(diags, priority)

	require.Equal(t, "structure-missing-info", diags[0].Rule)
	require.Equal(t, "second rule, first finding", diags[1].Message)
	require.Equal(t, "second rule, second finding", diags[2].Message)
	require.Equal(t, "unknown-rule", diags[3].Rule)
}

func TestSortStableDeterministic(t *testing.T) {
	priority := map[string]int{"a": 0, "b": 1}

	build := func() []Diagnostic {
		return []Diagnostic{
			Info("b", "1"),
			Info("a", "2"),
			Info("b", "3"),
			Info("a", "4"),
		}
	}

	first := build()
	second := build()
	SortStable(first, priority)
	SortStable(second, priority)
	require.Equal(t, first, second)
}

func TestDiagnosticString(t *testing.T) {
	d := Error("structure-unresolved-ref", "unresolved reference")
	d.File = "api.yaml"
	d.Line = 12
	d.Column = 3
	d.Context = "#/components/schemas/Missing"
	d.Suggestions = []string{"declare the schema under components"}

	s := d.String()
	require.Contains(t, s, "[error] structure-unresolved-ref: unresolved reference")
	require.Contains(t, s, "api.yaml:12:3")
	require.Contains(t, s, "context: #/components/schemas/Missing")
	require.Contains(t, s, "suggestion: declare the schema under components")
}
