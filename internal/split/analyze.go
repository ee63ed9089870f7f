// Package split decomposes one large document into a base file, domain
// partitioned part files, and an optional common file for shared schemas.
// It is an on-demand utility: nothing in the generation pipeline depends on
// it.
package split

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mwalczyk/oasc/internal/model"
)

// Strategy selects how paths are grouped into part files.
type Strategy string

const (
	// StrategyByTag groups operations by their first tag.
	StrategyByTag Strategy = "by-tag"
	// StrategyByPathSegment groups by the first static path segment.
	StrategyByPathSegment Strategy = "by-path-segment"
	// StrategyByDomain groups by schema-relationship clusters: operations
	// that touch the same component schemas belong together.
	StrategyByDomain Strategy = "by-domain"
)

// IsValidStrategy checks whether a strategy string is accepted.
func IsValidStrategy(s string) bool {
	switch Strategy(s) {
	case StrategyByTag, StrategyByPathSegment, StrategyByDomain:
		return true
	default:
		return false
	}
}

// Split thresholds: exceeding any one of them alone recommends a split.
const (
	maxLines      = 500
	maxOperations = 15
	maxSchemas    = 20
)

// tagCoverageFloor is the share of tagged operations required before the
// tag grouping is considered representative.
const tagCoverageFloor = 0.9

// sharedSchemaCeiling is the largest share of cross-group schemas for which
// domain clusters still count as cohesive.
const sharedSchemaCeiling = 0.3

// GroupStats summarizes one candidate partition group.
type GroupStats struct {
	Name       string
	Paths      int
	Operations int
	Schemas    int
}

// Analysis holds the pre-split statistics for a document.
type Analysis struct {
	TotalLines      int
	TotalPaths      int
	TotalOperations int
	TotalSchemas    int
	TotalParameters int

	TagStats     []GroupStats
	SegmentStats []GroupStats

	// SharedSchemas are component schemas referenced from more than one
	// group under the recommended strategy.
	SharedSchemas []string

	Recommended Strategy
	Reason      string
	ShouldSplit bool

	// SuggestedFiles are the part names the recommended strategy would emit.
	SuggestedFiles []string
}

// Analyze scans the document once and recommends a split strategy. The line
// count comes from the raw source because the model does not preserve it.
func Analyze(spec *model.Spec, lineCount int) *Analysis {
	a := &Analysis{
		TotalLines:      lineCount,
		TotalPaths:      len(spec.Paths),
		TotalOperations: len(spec.Operations),
		TotalSchemas:    len(spec.Schemas),
		TotalParameters: len(spec.Parameters),
	}

	// A document with nothing to partition never recommends a split, no
	// matter how long its source is.
	if a.TotalOperations > 0 || a.TotalSchemas > 0 {
		a.ShouldSplit = a.TotalLines > maxLines ||
			a.TotalOperations > maxOperations ||
			a.TotalSchemas > maxSchemas
	}

	tagGroups := groupPaths(spec, StrategyByTag)
	segGroups := groupPaths(spec, StrategyByPathSegment)
	a.TagStats = groupStats(spec, tagGroups)
	a.SegmentStats = groupStats(spec, segGroups)

	domainGroups := groupPaths(spec, StrategyByDomain)
	a.Recommended, a.Reason = recommend(spec, domainGroups, sharedSchemas(spec, domainGroups))

	recommended := groupPaths(spec, a.Recommended)
	a.SharedSchemas = sharedSchemas(spec, recommended)
	for _, g := range recommended {
		a.SuggestedFiles = append(a.SuggestedFiles, g.name)
	}

	return a
}

func recommend(spec *model.Spec, domainGroups []pathGroup, shared []string) (Strategy, string) {
	if len(domainGroups) >= 2 && len(spec.Schemas) > 0 {
		ratio := float64(len(shared)) / float64(len(spec.Schemas))
		if ratio <= sharedSchemaCeiling {
			return StrategyByDomain, fmt.Sprintf(
				"schema usage forms %d clusters with %.0f%% shared schemas", len(domainGroups), ratio*100)
		}
	}

	// Coverage counts the path-embedded operations, the same view the tag
	// grouping partitions; the flat operation list may disagree with it.
	tagged, total := 0, 0
	for i := range spec.Paths {
		for j := range spec.Paths[i].Operations {
			total++
			if len(spec.Paths[i].Operations[j].Tags) > 0 {
				tagged++
			}
		}
	}
	if total > 0 {
		coverage := float64(tagged) / float64(total)
		if coverage >= tagCoverageFloor {
			return StrategyByTag, fmt.Sprintf("%.0f%% of operations carry tags", coverage*100)
		}
	}

	return StrategyByPathSegment, "path segments are the only grouping available"
}

// pathGroup is one partition: a name and the path keys assigned to it, in
// document order.
type pathGroup struct {
	name  string
	paths []string
}

// groupPaths partitions every path into exactly one group under the given
// strategy.
func groupPaths(spec *model.Spec, strategy Strategy) []pathGroup {
	switch strategy {
	case StrategyByDomain:
		return domainClusters(spec)
	case StrategyByTag:
		return keyedGroups(spec, tagKey)
	default:
		return keyedGroups(spec, segmentKey)
	}
}

func keyedGroups(spec *model.Spec, keyOf func(*model.Path) string) []pathGroup {
	index := make(map[string]int)
	var groups []pathGroup
	for i := range spec.Paths {
		p := &spec.Paths[i]
		key := keyOf(p)
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, pathGroup{name: key})
		}
		groups[gi].paths = append(groups[gi].paths, p.Path)
	}
	return groups
}

// tagKey groups a path by the first tag of its first tagged operation.
func tagKey(p *model.Path) string {
	for i := range p.Operations {
		if len(p.Operations[i].Tags) > 0 {
			return slugify(p.Operations[i].Tags[0])
		}
	}
	return "untagged"
}

// segmentKey groups a path by its first static segment.
func segmentKey(p *model.Path) string {
	for _, seg := range strings.Split(strings.TrimPrefix(p.Path, "/"), "/") {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		return slugify(seg)
	}
	return "root"
}

// domainClusters computes connected components over the bipartite
// path/schema usage graph: two paths land in the same cluster when any of
// their operations reference a common component schema.
func domainClusters(spec *model.Spec) []pathGroup {
	n := len(spec.Paths)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	schemaOwner := make(map[string]int)
	pathSchemas := make([][]string, n)
	for i := range spec.Paths {
		used := pathSchemaRefs(spec, &spec.Paths[i], nil)
		pathSchemas[i] = used
		for _, name := range used {
			if owner, ok := schemaOwner[name]; ok {
				union(owner, i)
			} else {
				schemaOwner[name] = i
			}
		}
	}

	clusterIndex := make(map[int]int)
	var groups []pathGroup
	for i := range spec.Paths {
		root := find(i)
		gi, ok := clusterIndex[root]
		if !ok {
			gi = len(groups)
			clusterIndex[root] = gi
			groups = append(groups, pathGroup{})
		}
		groups[gi].paths = append(groups[gi].paths, spec.Paths[i].Path)
	}

	// Name each cluster after its alphabetically first schema; clusters
	// without schema usage fall back to the segment of their first path.
	for gi := range groups {
		var names []string
		for i := range spec.Paths {
			if clusterIndex[find(i)] != gi {
				continue
			}
			names = append(names, pathSchemas[i]...)
		}
		if len(names) > 0 {
			sort.Strings(names)
			groups[gi].name = slugify(names[0])
		} else {
			groups[gi].name = segmentKey(spec.PathByKey(groups[gi].paths[0]))
		}
	}
	return groups
}

// groupStats produces per-group counts for the analysis report.
func groupStats(spec *model.Spec, groups []pathGroup) []GroupStats {
	var stats []GroupStats
	for _, g := range groups {
		s := GroupStats{Name: g.name, Paths: len(g.paths)}
		seen := map[string]bool{}
		for _, key := range g.paths {
			p := spec.PathByKey(key)
			if p == nil {
				continue
			}
			s.Operations += len(p.Operations)
			for _, name := range pathSchemaRefs(spec, p, nil) {
				seen[name] = true
			}
		}
		s.Schemas = len(seen)
		stats = append(stats, s)
	}
	return stats
}

// sharedSchemas lists component schemas referenced from more than one group,
// sorted for stable output.
func sharedSchemas(spec *model.Spec, groups []pathGroup) []string {
	usage := make(map[string]int)
	for _, g := range groups {
		seen := map[string]bool{}
		for _, key := range g.paths {
			p := spec.PathByKey(key)
			if p == nil {
				continue
			}
			for _, name := range pathSchemaRefs(spec, p, nil) {
				seen[name] = true
			}
		}
		for name := range seen {
			usage[name]++
		}
	}
	var shared []string
	for name, count := range usage {
		if count >= 2 {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	return shared
}

// pathSchemaRefs returns the component schemas referenced transitively by a
// path's operations, in first-reference order. missing, when non-nil,
// collects refs that do not resolve to a component schema.
func pathSchemaRefs(spec *model.Spec, p *model.Path, missing map[string]bool) []string {
	seen := make(map[string]bool)
	var order []string

	var walk func(s *model.Schema)
	walk = func(s *model.Schema) {
		if s == nil {
			return
		}
		if s.Ref != "" {
			name := refName(s.Ref)
			if seen[name] {
				return
			}
			target := spec.SchemaByName(name)
			if target == nil {
				if missing != nil {
					missing[s.Ref] = true
				}
				return
			}
			seen[name] = true
			order = append(order, name)
			walk(target)
			return
		}
		for _, prop := range s.Properties {
			walk(prop.Schema)
		}
		walk(s.Items)
		walk(s.AdditionalProperties)
		for _, m := range s.AllOf {
			walk(m)
		}
		for _, m := range s.OneOf {
			walk(m)
		}
		for _, m := range s.AnyOf {
			walk(m)
		}
	}

	for i := range p.Operations {
		op := &p.Operations[i]
		for j := range op.Parameters {
			walk(op.Parameters[j].Schema)
		}
		if op.RequestBody != nil {
			for _, c := range op.RequestBody.Content {
				walk(c.Schema)
			}
		}
		for _, resp := range op.Responses {
			for _, c := range resp.Content {
				walk(c.Schema)
			}
			for _, h := range resp.Headers {
				walk(h.Schema)
			}
		}
	}
	return order
}

func refName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func slugify(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			sb.WriteRune('-')
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		return "misc"
	}
	return out
}
