package split

import (
	"sort"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/model"
	"github.com/mwalczyk/oasc/internal/render"
)

// File is one emitted document: a suggested file name and its YAML content.
type File struct {
	Name    string
	Content string
}

// Result is the outcome of splitting a document.
type Result struct {
	BaseFile    File
	PartFiles   []File
	CommonFile  *File
	Diagnostics []diag.Diagnostic
	Strategy    Strategy
}

// AllFiles returns base + parts + common (when present), in emission order.
func (r *Result) AllFiles() []File {
	files := append([]File{r.BaseFile}, r.PartFiles...)
	if r.CommonFile != nil {
		files = append(files, *r.CommonFile)
	}
	return files
}

// Success reports whether no error-severity diagnostic was raised.
func (r *Result) Success() bool {
	return !diag.HasErrors(r.Diagnostics)
}

// Split partitions the document under the given strategy. Every path lands
// in exactly one part file together with the schemas only that part uses;
// schemas referenced by two or more parts are promoted to a common file. The
// base file keeps the document-level metadata (info, servers, tags, security
// scheme declarations, component parameters) and carries no paths or
// schemas.
func Split(spec *model.Spec, strategy Strategy, baseName string) *Result {
	result := &Result{Strategy: strategy}

	groups := groupPaths(spec, strategy)

	// Attribute schema usage to groups, tracking unresolvable references.
	missing := make(map[string]bool)
	usage := make(map[string][]int) // schema name -> group indexes
	for gi, g := range groups {
		seen := map[string]bool{}
		for _, key := range g.paths {
			p := spec.PathByKey(key)
			for _, name := range pathSchemaRefs(spec, p, missing) {
				if !seen[name] {
					seen[name] = true
					usage[name] = append(usage[name], gi)
				}
			}
		}
	}

	for _, ref := range sortedRefs(missing) {
		d := diag.Error("split-unresolved-ref", "reference %q does not resolve to a component schema", ref)
		result.Diagnostics = append(result.Diagnostics, d)
	}

	base := &model.Spec{
		Info:       spec.Info,
		Servers:    spec.Servers,
		Tags:       spec.Tags,
		Security:   spec.Security,
		Parameters: spec.Parameters,
		Extensions: spec.Extensions,
	}
	result.BaseFile = renderFile(result, baseName+".yaml", base)

	var common []model.Schema
	for i := range spec.Schemas {
		name := spec.Schemas[i].Name
		// Schemas used by several parts, and schemas no operation
		// references at all, go to the common file so nothing is lost.
		if len(usage[name]) >= 2 || len(usage[name]) == 0 {
			common = append(common, spec.Schemas[i])
		}
	}

	for gi, g := range groups {
		part := &model.Spec{
			Info: model.Info{
				Title:   spec.Info.Title + " (" + g.name + ")",
				Version: spec.Info.Version,
			},
		}
		for _, key := range g.paths {
			if p := spec.PathByKey(key); p != nil {
				part.Paths = append(part.Paths, *p)
			}
		}
		for i := range spec.Schemas {
			name := spec.Schemas[i].Name
			if len(usage[name]) == 1 && usage[name][0] == gi {
				part.Schemas = append(part.Schemas, spec.Schemas[i])
			}
		}
		result.PartFiles = append(result.PartFiles, renderFile(result, baseName+"_"+g.name+".yaml", part))
	}

	if len(common) > 0 {
		commonSpec := &model.Spec{
			Info: model.Info{
				Title:   spec.Info.Title + " (common)",
				Version: spec.Info.Version,
			},
			Schemas: common,
		}
		f := renderFile(result, baseName+"_common.yaml", commonSpec)
		result.CommonFile = &f
	}

	return result
}

func renderFile(result *Result, name string, spec *model.Spec) File {
	content, err := render.Spec(spec)
	if err != nil {
		d := diag.Error("split-render-failure", "rendering %q: %v", name, err)
		result.Diagnostics = append(result.Diagnostics, d)
	}
	return File{Name: name, Content: content}
}

func sortedRefs(m map[string]bool) []string {
	refs := make([]string, 0, len(m))
	for ref := range m {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
