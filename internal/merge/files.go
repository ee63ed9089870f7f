package merge

import (
	"os"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/loader"
)

// MergeFiles loads a base file and its parts from disk and merges them. Part
// selection follows the configured discovery mode: auto enumerates sibling
// files named {base}_{part}.{ext} in lexicographic order, explicit uses the
// configured list in order. An explicit part that does not exist is reported
// as a warning and skipped; the run continues.
func MergeFiles(basePath string, cfg MultipartConfig) *Result {
	base := loader.Load(basePath)

	if !cfg.Enabled {
		result := &Result{Base: base, Spec: base.Spec}
		if d := base.Diagnostic(); d != nil {
			result.Diagnostics = append(result.Diagnostics, *d)
		}
		return result
	}

	var preDiags []diag.Diagnostic
	var partPaths []string
	switch cfg.Discovery {
	case DiscoveryExplicit:
		for _, p := range cfg.Parts {
			if _, err := os.Stat(p); err != nil {
				d := diag.Warning("merge-part-missing", "configured part file %q not found; skipped", p)
				d.File = p
				preDiags = append(preDiags, d)
				continue
			}
			partPaths = append(partPaths, p)
		}
	default:
		discovered, err := loader.DiscoverParts(basePath)
		if err != nil {
			d := diag.Warning("merge-discovery-failed", "part discovery failed: %v", err)
			preDiags = append(preDiags, d)
		}
		partPaths = discovered
	}

	parts := make([]*loader.SpecFile, 0, len(partPaths))
	for _, p := range partPaths {
		parts = append(parts, loader.Load(p))
	}

	all := append([]*loader.SpecFile{base}, parts...)
	loader.ClassifySet(all)

	result := Merge(base, parts, cfg)
	if len(preDiags) > 0 {
		result.Diagnostics = append(preDiags, result.Diagnostics...)
	}
	return result
}
