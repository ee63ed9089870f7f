package validate

import (
	"strings"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/model"
	"github.com/mwalczyk/oasc/internal/naming"
)

func checkOperationIDCasing(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Operations {
		op := &spec.Operations[i]
		if op.ID == "" {
			continue
		}
		if !naming.IsPascalCase(op.ID) {
			d := diag.Warning("naming-operation-id", "operationId %q should be PascalCase", op.ID)
			d.Context = string(op.Method) + " " + op.Path
			d.Suggestions = []string{naming.PascalCase(op.ID)}
			out = append(out, d)
		}
	}
	return out
}

// verbPrefixes maps each HTTP method to the operation-id prefixes the
// convention accepts for it.
var verbPrefixes = map[model.Method][]string{
	model.MethodGet:    {"Get", "List", "Find", "Search"},
	model.MethodPost:   {"Create", "Add", "Post", "Submit"},
	model.MethodPut:    {"Update", "Set", "Replace", "Put"},
	model.MethodPatch:  {"Update", "Patch"},
	model.MethodDelete: {"Delete", "Remove"},
}

func checkOperationVerbPrefix(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Operations {
		op := &spec.Operations[i]
		prefixes, ok := verbPrefixes[op.Method]
		if !ok || op.ID == "" {
			continue
		}
		id := naming.PascalCase(op.ID)
		matched := false
		for _, p := range prefixes {
			if strings.HasPrefix(id, p) {
				matched = true
				break
			}
		}
		if !matched {
			d := diag.Info("naming-operation-verb", "operationId %q does not follow the %s convention (expected prefix: %s)",
				op.ID, op.Method, strings.Join(prefixes, ", "))
			d.Context = string(op.Method) + " " + op.Path
			out = append(out, d)
		}
	}
	return out
}

func checkSchemaCasing(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Schemas {
		name := spec.Schemas[i].Name
		if !naming.IsPascalCase(name) {
			d := diag.Warning("naming-schema", "schema name %q should be PascalCase", name)
			d.Suggestions = []string{naming.PascalCase(name)}
			out = append(out, d)
		}
	}
	return out
}

func checkPropertyCasing(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Schemas {
		s := &spec.Schemas[i]
		for _, p := range s.Properties {
			if !naming.IsCamelCase(p.Name) && !isSnakeCase(p.Name) {
				d := diag.Info("naming-property", "property %q of schema %s mixes casing styles", p.Name, s.Name)
				d.Suggestions = []string{naming.CamelCase(p.Name)}
				out = append(out, d)
			}
		}
	}
	return out
}

func checkParameterCasing(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	check := func(where string, p *model.Parameter) {
		// Header parameter names follow HTTP conventions, not ours.
		if p.In == model.LocationHeader {
			return
		}
		if !naming.IsCamelCase(p.Name) && !isSnakeCase(p.Name) {
			d := diag.Info("naming-parameter", "parameter %q mixes casing styles", p.Name)
			d.Context = where
			d.Suggestions = []string{naming.CamelCase(p.Name)}
			out = append(out, d)
		}
	}
	for i := range spec.Parameters {
		check("components", &spec.Parameters[i])
	}
	for i := range spec.Operations {
		op := &spec.Operations[i]
		for j := range op.Parameters {
			check(string(op.Method)+" "+op.Path, &op.Parameters[j])
		}
	}
	return out
}

// checkEnumValueCasing flags enums whose string values mix casing styles;
// any single consistent style is accepted.
func checkEnumValueCasing(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Schemas {
		s := &spec.Schemas[i]
		walkSchema(s, func(inner *model.Schema) {
			if len(inner.Enum) < 2 {
				return
			}
			styles := make(map[string]bool)
			for _, v := range inner.Enum {
				str, ok := v.(string)
				if !ok {
					return
				}
				styles[casingStyle(str)] = true
			}
			if len(styles) > 1 {
				d := diag.Info("naming-enum-value", "enum values of schema %s mix casing styles", s.Name)
				out = append(out, d)
			}
		})
	}
	return out
}

func checkTagCasing(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, t := range spec.Tags {
		if strings.Contains(t.Name, " ") || t.Name != strings.TrimSpace(t.Name) {
			d := diag.Warning("naming-tag", "tag %q should not contain spaces", t.Name)
			d.Suggestions = []string{naming.PascalCase(t.Name)}
			out = append(out, d)
		}
	}
	return out
}

func isSnakeCase(s string) bool {
	return s != "" && s == naming.SnakeCase(s)
}

func casingStyle(s string) string {
	switch {
	case s == strings.ToUpper(s):
		return "upper"
	case strings.Contains(s, "_"):
		return "snake"
	case strings.Contains(s, "-"):
		return "kebab"
	case naming.IsPascalCase(s):
		return "pascal"
	default:
		return "camel"
	}
}
