package validate

import (
	"slices"
	"strings"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/extensions"
	"github.com/mwalczyk/oasc/internal/model"
)

// checkPathParameters verifies that route templates and declared parameters
// agree: every {param} is declared, every declared path parameter appears in
// the template, and path parameters are required.
func checkPathParameters(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic

	// Path-level parameters are declared once and shared by every operation
	// under the path; their own findings are reported once, against the path.
	shared := make(map[string]map[string]*model.Parameter)
	for i := range spec.Paths {
		path := &spec.Paths[i]
		if len(path.Parameters) == 0 {
			continue
		}
		templateParams := templateParamNames(path.Path)
		decl := make(map[string]*model.Parameter)
		for j := range path.Parameters {
			p := &path.Parameters[j]
			if p.In != model.LocationPath {
				continue
			}
			decl[p.Name] = p
			if !p.Required {
				d := diag.Error("consistency-path-parameter", "path parameter %q must be required", p.Name)
				d.Context = path.Path
				out = append(out, d)
			}
			if p.Schema != nil && p.Schema.Nullable {
				d := diag.Error("consistency-path-parameter", "path parameter %q cannot be nullable", p.Name)
				d.Context = path.Path
				out = append(out, d)
			}
		}
		for _, name := range sortedParamNames(decl) {
			if !slices.Contains(templateParams, name) {
				d := diag.Error("consistency-path-parameter", "declared path parameter %q does not appear in the route template", name)
				d.Context = path.Path
				out = append(out, d)
			}
		}
		shared[path.Path] = decl
	}

	for i := range spec.Operations {
		op := &spec.Operations[i]
		where := string(op.Method) + " " + op.Path
		templateParams := templateParamNames(op.Path)

		declared := make(map[string]*model.Parameter)
		for j := range op.Parameters {
			p := &op.Parameters[j]
			if p.In != model.LocationPath {
				continue
			}
			declared[p.Name] = p
			if !p.Required {
				d := diag.Error("consistency-path-parameter", "path parameter %q must be required", p.Name)
				d.Context = where
				out = append(out, d)
			}
			if p.Schema != nil && p.Schema.Nullable {
				d := diag.Error("consistency-path-parameter", "path parameter %q cannot be nullable", p.Name)
				d.Context = where
				out = append(out, d)
			}
		}

		for _, name := range templateParams {
			if _, ok := declared[name]; ok {
				continue
			}
			if _, ok := shared[op.Path][name]; ok {
				continue
			}
			d := diag.Error("consistency-path-parameter", "template parameter {%s} is not declared", name)
			d.Context = where
			out = append(out, d)
		}
		for _, name := range sortedParamNames(declared) {
			if !slices.Contains(templateParams, name) {
				d := diag.Error("consistency-path-parameter", "declared path parameter %q does not appear in the route template", name)
				d.Context = where
				out = append(out, d)
			}
		}
	}
	return out
}

// checkUnauthorizedResponses flags a 401 response on an operation with no
// security requirement at any level.
func checkUnauthorizedResponses(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Operations {
		op := &spec.Operations[i]
		if op.ResponseByCode("401") == nil {
			continue
		}
		if len(op.Security) == 0 && len(spec.Security) == 0 {
			d := diag.Warning("consistency-response-401", "operation declares a 401 response but no security requirement")
			d.Context = string(op.Method) + " " + op.Path
			out = append(out, d)
		}
	}
	return out
}

// checkRateLimitResponses flags a 429 response without a rate-limit
// annotation at operation, path, or document scope.
func checkRateLimitResponses(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Operations {
		op := &spec.Operations[i]
		if op.ResponseByCode("429") == nil {
			continue
		}
		path := spec.PathByKey(op.Path)
		var pathExt map[string]any
		if path != nil {
			pathExt = path.Extensions
		}
		if !extensions.HasFamily(extensions.RateLimitPrefix, op.Extensions, pathExt, spec.Extensions) {
			d := diag.Warning("consistency-response-429", "operation declares a 429 response but no rate-limit configuration")
			d.Context = string(op.Method) + " " + op.Path
			out = append(out, d)
		}
	}
	return out
}

// checkConflictResponses flags a 409 response on a verb that cannot cause a
// conflict.
func checkConflictResponses(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Operations {
		op := &spec.Operations[i]
		if op.ResponseByCode("409") == nil || op.Method.Mutating() {
			continue
		}
		d := diag.Warning("consistency-response-409", "409 response on non-mutating %s operation", op.Method)
		d.Context = string(op.Method) + " " + op.Path
		out = append(out, d)
	}
	return out
}

// checkSuccessResponses requires at least one declared response and at least
// one 2xx among them.
func checkSuccessResponses(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Operations {
		op := &spec.Operations[i]
		where := string(op.Method) + " " + op.Path
		if len(op.Responses) == 0 {
			d := diag.Error("consistency-response-success", "operation declares no responses")
			d.Context = where
			out = append(out, d)
			continue
		}
		has2xx := false
		for _, r := range op.Responses {
			if strings.HasPrefix(r.StatusCode, "2") {
				has2xx = true
				break
			}
		}
		if !has2xx {
			d := diag.Warning("consistency-response-success", "operation declares no success response")
			d.Context = where
			out = append(out, d)
		}
	}
	return out
}

func templateParamNames(path string) []string {
	var names []string
	rest := path
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			return names
		}
		closed := strings.Index(rest[open:], "}")
		if closed < 0 {
			return names
		}
		names = append(names, rest[open+1:open+closed])
		rest = rest[open+closed+1:]
	}
}

func sortedParamNames(m map[string]*model.Parameter) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
