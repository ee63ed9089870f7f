// Package validate runs an ordered battery of rule checks against a document
// model. Rules are independent pure functions; the engine accumulates every
// finding rather than stopping at the first, and its output ordering is
// deterministic so snapshot based tooling can rely on it.
package validate

import (
	"fmt"
	"strings"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/model"
)

// Tier is the validation strictness level.
type Tier int

const (
	// TierNone skips all checks.
	TierNone Tier = iota
	// TierStandard runs only checks required for structural soundness.
	TierStandard
	// TierStrict additionally runs the naming-convention and consistency
	// ruleset.
	TierStrict
)

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierStandard:
		return "standard"
	case TierStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseTier converts a configuration string to a Tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(s) {
	case "none":
		return TierNone, nil
	case "", "standard":
		return TierStandard, nil
	case "strict":
		return TierStrict, nil
	default:
		return TierNone, fmt.Errorf("invalid strictness tier: %s (valid: none, standard, strict)", s)
	}
}

// rule is one registered check. Registration order doubles as rule priority
// for output sorting.
type rule struct {
	id    string
	tier  Tier
	check func(*model.Spec) []diag.Diagnostic
}

// The registry. Standard rules first, strict rules after; within a tier the
// order fixes how findings are grouped in reports.
var rules = []rule{
	{"structure-missing-info", TierStandard, checkMissingInfo},
	{"structure-empty-paths", TierStandard, checkEmptyPaths},
	{"structure-duplicate-operation-id", TierStandard, checkDuplicateOperationIDs},
	{"structure-unresolved-ref", TierStandard, checkUnresolvedRefs},
	{"structure-array-items", TierStandard, checkArrayItems},
	{"structure-path-template", TierStandard, checkPathTemplates},

	{"naming-operation-id", TierStrict, checkOperationIDCasing},
	{"naming-operation-verb", TierStrict, checkOperationVerbPrefix},
	{"naming-schema", TierStrict, checkSchemaCasing},
	{"naming-property", TierStrict, checkPropertyCasing},
	{"naming-parameter", TierStrict, checkParameterCasing},
	{"naming-enum-value", TierStrict, checkEnumValueCasing},
	{"naming-tag", TierStrict, checkTagCasing},

	{"consistency-path-parameter", TierStrict, checkPathParameters},
	{"consistency-response-401", TierStrict, checkUnauthorizedResponses},
	{"consistency-response-429", TierStrict, checkRateLimitResponses},
	{"consistency-response-409", TierStrict, checkConflictResponses},
	{"consistency-response-success", TierStrict, checkSuccessResponses},
	{"consistency-security-scheme", TierStrict, checkSecuritySchemeRefs},
	{"consistency-security-scope", TierStrict, checkSecurityScopeRefs},
}

// Run executes every rule at or below the given tier and returns the
// accumulated findings in deterministic order. Running twice over the same
// document yields identical lists.
func Run(spec *model.Spec, tier Tier) []diag.Diagnostic {
	if tier == TierNone || spec == nil {
		return nil
	}

	var out []diag.Diagnostic
	priority := make(map[string]int, len(rules))
	for i, r := range rules {
		priority[r.id] = i
		if r.tier > tier {
			continue
		}
		out = append(out, r.check(spec)...)
	}

	diag.SortStable(out, priority)
	return out
}
