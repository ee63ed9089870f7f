package merge

// Strategy is the conflict policy applied to one section when folding part
// files into a base document.
type Strategy string

const (
	// StrategyErrorOnDuplicate reports any key present in more than one
	// source file as an error and excludes it from the merged result.
	StrategyErrorOnDuplicate Strategy = "error-on-duplicate"
	// StrategyMergeIfIdentical folds a duplicate silently when its value is
	// structurally identical across sources, and errors otherwise.
	StrategyMergeIfIdentical Strategy = "merge-if-identical"
	// StrategyAppendUnique unions values, folding duplicates once and
	// preserving first-occurrence order.
	StrategyAppendUnique Strategy = "append-unique"
	// StrategyFirstWins keeps the value from the earliest file in traversal
	// order without reporting the shadowed value.
	StrategyFirstWins Strategy = "first-wins"
	// StrategyLastWins keeps the value from the latest file in traversal
	// order without reporting the shadowed value.
	StrategyLastWins Strategy = "last-wins"
)

// ValidStrategies returns all accepted strategy strings.
func ValidStrategies() []string {
	return []string{
		string(StrategyErrorOnDuplicate),
		string(StrategyMergeIfIdentical),
		string(StrategyAppendUnique),
		string(StrategyFirstWins),
		string(StrategyLastWins),
	}
}

// IsValidStrategy checks whether a strategy string is one of the accepted
// policies.
func IsValidStrategy(s string) bool {
	switch Strategy(s) {
	case StrategyErrorOnDuplicate, StrategyMergeIfIdentical, StrategyAppendUnique,
		StrategyFirstWins, StrategyLastWins:
		return true
	default:
		return false
	}
}

// DiscoveryMode selects how part files are found for a base file.
type DiscoveryMode string

const (
	// DiscoveryAuto enumerates directory siblings matching {base}_{part}.{ext}.
	DiscoveryAuto DiscoveryMode = "auto"
	// DiscoveryExplicit uses the ordered list from the configuration.
	DiscoveryExplicit DiscoveryMode = "explicit"
)

// SectionStrategies holds the per-section conflict policies.
type SectionStrategies struct {
	Paths      Strategy
	Schemas    Strategy
	Parameters Strategy
	Tags       Strategy
}

// MultipartConfig declares how a multi-file set is combined.
type MultipartConfig struct {
	Enabled    bool
	Discovery  DiscoveryMode
	Parts      []string
	Strategies SectionStrategies
}

// DefaultConfig returns the section defaults: paths and schemas fail on
// duplicates, parameters merge when identical, tags append uniquely.
func DefaultConfig() MultipartConfig {
	return MultipartConfig{
		Enabled:   true,
		Discovery: DiscoveryAuto,
		Strategies: SectionStrategies{
			Paths:      StrategyErrorOnDuplicate,
			Schemas:    StrategyErrorOnDuplicate,
			Parameters: StrategyMergeIfIdentical,
			Tags:       StrategyAppendUnique,
		},
	}
}
