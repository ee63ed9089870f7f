package validate

import (
	"strings"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/model"
)

func checkMissingInfo(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	if spec.Info.Title == "" {
		out = append(out, diag.Error("structure-missing-info", "document info is missing a title"))
	}
	if spec.Info.Version == "" {
		out = append(out, diag.Error("structure-missing-info", "document info is missing a version"))
	}
	return out
}

func checkEmptyPaths(spec *model.Spec) []diag.Diagnostic {
	if len(spec.Paths) > 0 {
		return nil
	}
	return []diag.Diagnostic{diag.Warning("structure-empty-paths", "document declares no paths")}
}

func checkDuplicateOperationIDs(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	seen := make(map[string]string)
	for i := range spec.Operations {
		op := &spec.Operations[i]
		if op.ID == "" {
			d := diag.Warning("structure-duplicate-operation-id", "%s %s has no operationId", op.Method, op.Path)
			out = append(out, d)
			continue
		}
		if prev, ok := seen[op.ID]; ok {
			d := diag.Error("structure-duplicate-operation-id", "operationId %q used by both %s and %s %s", op.ID, prev, op.Method, op.Path)
			out = append(out, d)
			continue
		}
		seen[op.ID] = string(op.Method) + " " + op.Path
	}
	return out
}

// checkUnresolvedRefs walks every schema in the document and reports
// references with no matching component schema.
func checkUnresolvedRefs(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	report := func(where, ref string) {
		d := diag.Error("structure-unresolved-ref", "unresolved reference %q", ref)
		d.Context = where
		out = append(out, d)
	}

	check := func(where string, s *model.Schema) {
		walkSchema(s, func(inner *model.Schema) {
			if inner.Ref == "" {
				return
			}
			if !strings.HasPrefix(inner.Ref, "#/components/schemas/") {
				report(where, inner.Ref)
				return
			}
			if spec.SchemaByRef(inner.Ref) == nil {
				report(where, inner.Ref)
			}
		})
	}

	for i := range spec.Schemas {
		check("schema "+spec.Schemas[i].Name, &spec.Schemas[i])
	}
	for i := range spec.Parameters {
		check("parameter "+spec.Parameters[i].Name, spec.Parameters[i].Schema)
	}
	eachOperationSchema(spec, check)
	return out
}

func checkArrayItems(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	check := func(where string, s *model.Schema) {
		walkSchema(s, func(inner *model.Schema) {
			if inner.Type == model.TypeArray && inner.Items == nil && inner.Ref == "" {
				d := diag.Error("structure-array-items", "array schema is missing items")
				d.Context = where
				out = append(out, d)
			}
		})
	}
	for i := range spec.Schemas {
		check("schema "+spec.Schemas[i].Name, &spec.Schemas[i])
	}
	eachOperationSchema(spec, check)
	return out
}

func checkPathTemplates(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Paths {
		key := spec.Paths[i].Path
		if !strings.HasPrefix(key, "/") {
			out = append(out, diag.Error("structure-path-template", "path %q must start with a slash", key))
		}
		depth := 0
		for _, seg := range strings.Split(key, "/") {
			open := strings.Count(seg, "{")
			closed := strings.Count(seg, "}")
			depth += open - closed
			if seg == "{}" {
				out = append(out, diag.Error("structure-path-template", "path %q contains an empty parameter", key))
			}
		}
		if depth != 0 {
			out = append(out, diag.Error("structure-path-template", "path %q has unbalanced braces", key))
		}
	}
	return out
}

// walkSchema visits s and every nested schema exactly once per call site.
func walkSchema(s *model.Schema, visit func(*model.Schema)) {
	if s == nil {
		return
	}
	visit(s)
	if s.Ref != "" {
		return
	}
	for _, p := range s.Properties {
		walkSchema(p.Schema, visit)
	}
	walkSchema(s.Items, visit)
	walkSchema(s.AdditionalProperties, visit)
	for _, m := range s.AllOf {
		walkSchema(m, visit)
	}
	for _, m := range s.OneOf {
		walkSchema(m, visit)
	}
	for _, m := range s.AnyOf {
		walkSchema(m, visit)
	}
}

// eachOperationSchema calls check for every schema attached to an operation:
// parameters, request bodies, responses, and response headers.
func eachOperationSchema(spec *model.Spec, check func(where string, s *model.Schema)) {
	for i := range spec.Operations {
		op := &spec.Operations[i]
		where := string(op.Method) + " " + op.Path
		for j := range op.Parameters {
			check(where+" parameter "+op.Parameters[j].Name, op.Parameters[j].Schema)
		}
		if op.RequestBody != nil {
			for _, c := range op.RequestBody.Content {
				check(where+" request body", c.Schema)
			}
		}
		for _, resp := range op.Responses {
			for _, c := range resp.Content {
				check(where+" response "+resp.StatusCode, c.Schema)
			}
			for _, h := range resp.Headers {
				check(where+" response header "+h.Name, h.Schema)
			}
		}
	}
}
