// Package extensions resolves the custom operational annotations (caching,
// rate limiting, retry, security overrides) attached to documents, paths,
// and operations into flat configuration objects.
//
// Resolution is a pure three-way coalesce: operation values win over path
// values, which win over document values, independently per field. A family
// whose discriminator field is absent at every scope resolves to nil;
// "not configured" is distinct from "configured with defaults".
package extensions

import "strings"

// Annotation key prefixes, one per family.
const (
	CachePrefix     = "x-cache-"
	RateLimitPrefix = "x-ratelimit-"
	RetryPrefix     = "x-retry-"
	AuthPrefix      = "x-auth-"
)

// Scopes bundles the extension maps of the three levels in precedence
// order. Any map may be nil.
type Scopes struct {
	Operation map[string]any
	Path      map[string]any
	Document  map[string]any
}

// HasFamily reports whether any scope carries a key of the given family.
func HasFamily(prefix string, scopes ...map[string]any) bool {
	for _, scope := range scopes {
		for key := range scope {
			if strings.HasPrefix(key, prefix) {
				return true
			}
		}
	}
	return false
}

// lookup returns the highest-precedence value for key across the scopes.
func (s Scopes) lookup(key string) (any, bool) {
	for _, scope := range []map[string]any{s.Operation, s.Path, s.Document} {
		if v, ok := scope[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s Scopes) str(key, fallback string) string {
	if v, ok := s.lookup(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return fallback
}

func (s Scopes) strDefined(key string) (string, bool) {
	if v, ok := s.lookup(key); ok {
		if str, ok := v.(string); ok {
			return str, true
		}
	}
	return "", false
}

func (s Scopes) integer(key string, fallback int) int {
	if v, ok := s.lookup(key); ok {
		if n, ok := asInt(v); ok {
			return n
		}
	}
	return fallback
}

func (s Scopes) intDefined(key string) (int, bool) {
	if v, ok := s.lookup(key); ok {
		return asInt(v)
	}
	return 0, false
}

func (s Scopes) boolean(key string, fallback bool) bool {
	if v, ok := s.lookup(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

func (s Scopes) strings(key string) []string {
	v, ok := s.lookup(key)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		var out []string
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case string:
		return []string{list}
	default:
		return nil
	}
}

// operationDisabled reports an explicit enabled:false at operation scope.
// Lower scopes do not participate: disabling one operation must not be
// undone by a path or document default.
func (s Scopes) operationDisabled(prefix string) bool {
	if v, ok := s.Operation[prefix+"enabled"]; ok {
		if b, ok := v.(bool); ok {
			return !b
		}
	}
	return false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
