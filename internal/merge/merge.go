// Package merge combines one base specification file with an ordered list of
// part files into a single logical document. Each section (paths, schemas,
// parameters, tags) is folded under its own conflict strategy; everything a
// caller needs to know about what happened is reported as diagnostics, never
// as errors.
package merge

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/loader"
	"github.com/mwalczyk/oasc/internal/model"
	"github.com/mwalczyk/oasc/internal/render"
)

// Result is the outcome of a merge. Spec is nil when the base document was
// absent; diagnostics may be present even on success.
type Result struct {
	Spec        *model.Spec
	Base        *loader.SpecFile
	Parts       []*loader.SpecFile
	Diagnostics []diag.Diagnostic
}

// Success reports whether a merged document was produced and no diagnostic
// carries error severity. An error diagnostic degrades the result even when
// a document was partially constructed.
func (r *Result) Success() bool {
	return r.Spec != nil && !diag.HasErrors(r.Diagnostics)
}

// entry is one section value attributed to its source file.
type entry[T any] struct {
	key    string
	value  T
	source string
}

// Merge folds the part files into the base document in declared order. The
// fold is sequential by design: FirstWins/LastWins and diagnostic ordering
// depend on traversal order.
func Merge(base *loader.SpecFile, parts []*loader.SpecFile, cfg MultipartConfig) *Result {
	result := &Result{Base: base, Parts: parts}

	if base == nil || base.Spec == nil {
		d := diag.Error("merge-base-unparsed", "base file has no parsed document; merge aborted")
		if base != nil {
			d.File = base.Path
			if pd := base.Diagnostic(); pd != nil {
				d.Context = pd.Message
			}
		}
		result.Diagnostics = append(result.Diagnostics, d)
		return result
	}

	usable := make([]*loader.SpecFile, 0, len(parts))
	for _, p := range parts {
		if p.Spec == nil {
			d := diag.Warning("merge-part-unparsed", "part file %q has no parsed document; skipped", p.Path)
			d.File = p.Path
			result.Diagnostics = append(result.Diagnostics, d)
			continue
		}
		usable = append(usable, p)
	}

	if len(usable) == 0 {
		result.Spec = base.Spec
		return result
	}

	merged := &model.Spec{
		Info:       base.Spec.Info,
		Servers:    base.Spec.Servers,
		Security:   base.Spec.Security,
		Extensions: base.Spec.Extensions,
	}

	// Sections fold in a fixed order so diagnostics are reproducible.
	merged.Paths, result.Diagnostics = foldSection(
		collect(base, usable, func(s *model.Spec) []model.Path { return s.Paths }, func(p model.Path) string { return p.Path }),
		cfg.Strategies.Paths, "path",
		func(a, b model.Path) bool { return model.EqualPath(&a, &b) },
		func(p model.Path) string { return render.PathFragment(&p) },
		result.Diagnostics,
	)

	merged.Schemas, result.Diagnostics = foldSection(
		collect(base, usable, func(s *model.Spec) []model.Schema { return s.Schemas }, func(s model.Schema) string { return s.Name }),
		cfg.Strategies.Schemas, "schema",
		func(a, b model.Schema) bool { return model.EqualSchema(&a, &b) },
		func(s model.Schema) string { return render.SchemaFragment(&s) },
		result.Diagnostics,
	)

	merged.Parameters, result.Diagnostics = foldSection(
		collect(base, usable, func(s *model.Spec) []model.Parameter { return s.Parameters }, func(p model.Parameter) string { return p.Name }),
		cfg.Strategies.Parameters, "parameter",
		func(a, b model.Parameter) bool { return model.EqualParameter(&a, &b) },
		func(p model.Parameter) string { return render.ParameterFragment(&p) },
		result.Diagnostics,
	)

	merged.Tags, result.Diagnostics = foldSection(
		collect(base, usable, func(s *model.Spec) []model.Tag { return s.Tags }, func(t model.Tag) string { return t.Name }),
		cfg.Strategies.Tags, "tag",
		model.EqualTag,
		func(t model.Tag) string { return t.Name + ": " + t.Description },
		result.Diagnostics,
	)

	for i := range merged.Paths {
		merged.Operations = append(merged.Operations, merged.Paths[i].Operations...)
	}

	result.Spec = merged
	return result
}

// collect gathers one section from the base and every usable part, in
// traversal order, attributing each value to its source file.
func collect[T any](base *loader.SpecFile, parts []*loader.SpecFile, section func(*model.Spec) []T, keyOf func(T) string) []entry[T] {
	var entries []entry[T]
	add := func(f *loader.SpecFile) {
		for _, v := range section(f.Spec) {
			entries = append(entries, entry[T]{key: keyOf(v), value: v, source: f.Path})
		}
	}
	add(base)
	for _, p := range parts {
		add(p)
	}
	return entries
}

// foldSection applies the strategy to all entries of one section and returns
// the surviving values in deterministic order plus any new diagnostics.
func foldSection[T any](entries []entry[T], strat Strategy, section string, equal func(a, b T) bool, fragment func(T) string, diags []diag.Diagnostic) ([]T, []diag.Diagnostic) {
	byKey := make(map[string][]entry[T])
	var keyOrder []string
	for _, e := range entries {
		if _, seen := byKey[e.key]; !seen {
			keyOrder = append(keyOrder, e.key)
		}
		byKey[e.key] = append(byKey[e.key], e)
	}

	var out []T
	for _, key := range keyOrder {
		group := byKey[key]
		if len(group) == 1 {
			out = append(out, group[0].value)
			continue
		}

		switch strat {
		case StrategyErrorOnDuplicate:
			d := diag.Error("merge-duplicate-"+section, "%s %q defined in multiple files", section, key)
			d.Context = sourceList(group)
			d.Suggestions = []string{"move the " + section + " to a single file, or switch the section strategy"}
			diags = append(diags, d)

		case StrategyMergeIfIdentical:
			if conflict := firstConflict(group, equal); conflict >= 0 {
				d := diag.Error("merge-conflict-"+section, "%s %q differs between %s and %s", section, key, group[0].source, group[conflict].source)
				d.Context = fragmentDiff(fragment(group[0].value), fragment(group[conflict].value))
				diags = append(diags, d)
			} else {
				out = append(out, group[0].value)
			}

		case StrategyAppendUnique:
			// Duplicates by equality fold once; a differing value under the
			// same key keeps the first occurrence.
			out = append(out, group[0].value)

		case StrategyFirstWins:
			out = append(out, group[0].value)

		case StrategyLastWins:
			out = append(out, group[len(group)-1].value)

		default:
			d := diag.Error("merge-unknown-strategy", "unknown merge strategy %q for section %s", strat, section)
			diags = append(diags, d)
		}
	}
	return out, diags
}

func firstConflict[T any](group []entry[T], equal func(a, b T) bool) int {
	for i := 1; i < len(group); i++ {
		if !equal(group[0].value, group[i].value) {
			return i
		}
	}
	return -1
}

func sourceList[T any](group []entry[T]) string {
	s := group[0].source
	for _, e := range group[1:] {
		s += ", " + e.source
	}
	return s
}

// fragmentDiff renders a plain-text patch between the two conflicting
// fragment renderings.
func fragmentDiff(before, after string) string {
	if before == "" || after == "" {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	patches := dmp.PatchMake(before, diffs)
	return dmp.PatchToText(patches)
}
