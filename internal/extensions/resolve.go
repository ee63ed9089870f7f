package extensions

import "github.com/mwalczyk/oasc/internal/model"

// ForOperation collects the three extension scopes for an operation. The
// enclosing path is looked up by the operation's route template.
func ForOperation(spec *model.Spec, op *model.Operation) Scopes {
	s := Scopes{Operation: op.Extensions, Document: spec.Extensions}
	if p := spec.PathByKey(op.Path); p != nil {
		s.Path = p.Extensions
	}
	return s
}

// CacheConfig is the resolved caching behavior for one operation.
// Discriminator: x-cache-ttl.
type CacheConfig struct {
	Enabled     bool
	TTLSeconds  int
	Scope       string   // "public" or "private"; default public
	VaryHeaders []string // x-cache-vary
	KeyTemplate string   // x-cache-key
}

// ResolveCache resolves the cache family. Returns nil when no scope defines
// a TTL, and a disabled config when the operation opts out explicitly.
func ResolveCache(s Scopes) *CacheConfig {
	if s.operationDisabled(CachePrefix) {
		return &CacheConfig{Enabled: false}
	}
	ttl, ok := s.intDefined("x-cache-ttl")
	if !ok {
		return nil
	}
	return &CacheConfig{
		Enabled:     s.boolean("x-cache-enabled", true),
		TTLSeconds:  ttl,
		Scope:       s.str("x-cache-scope", "public"),
		VaryHeaders: s.strings("x-cache-vary"),
		KeyTemplate: s.str("x-cache-key", ""),
	}
}

// RateLimitConfig is the resolved rate limiting behavior for one operation.
// Discriminator: x-ratelimit-policy.
type RateLimitConfig struct {
	Enabled       bool
	Policy        string
	Limit         int
	WindowSeconds int
	Algorithm     string // default token-bucket
	Burst         int
	PerClient     bool
}

// ResolveRateLimit resolves the rate-limit family. Returns nil when no scope
// names a policy.
func ResolveRateLimit(s Scopes) *RateLimitConfig {
	if s.operationDisabled(RateLimitPrefix) {
		return &RateLimitConfig{Enabled: false}
	}
	policy, ok := s.strDefined("x-ratelimit-policy")
	if !ok {
		return nil
	}
	return &RateLimitConfig{
		Enabled:       s.boolean("x-ratelimit-enabled", true),
		Policy:        policy,
		Limit:         s.integer("x-ratelimit-limit", 100),
		WindowSeconds: s.integer("x-ratelimit-window", 60),
		Algorithm:     s.str("x-ratelimit-algorithm", "token-bucket"),
		Burst:         s.integer("x-ratelimit-burst", 0),
		PerClient:     s.boolean("x-ratelimit-per-client", true),
	}
}

// RetryConfig is the resolved resilience behavior for one operation.
// Discriminator: x-retry-max-attempts.
type RetryConfig struct {
	Enabled        bool
	MaxAttempts    int
	Backoff        string // fixed, linear, exponential; default exponential
	InitialDelayMS int
	MaxDelayMS     int
	RetryOn        []string // status codes, e.g. "502", "503"
}

// ResolveRetry resolves the retry family. Returns nil when no scope defines
// a max-attempts count.
func ResolveRetry(s Scopes) *RetryConfig {
	if s.operationDisabled(RetryPrefix) {
		return &RetryConfig{Enabled: false}
	}
	attempts, ok := s.intDefined("x-retry-max-attempts")
	if !ok {
		return nil
	}
	return &RetryConfig{
		Enabled:        s.boolean("x-retry-enabled", true),
		MaxAttempts:    attempts,
		Backoff:        s.str("x-retry-backoff", "exponential"),
		InitialDelayMS: s.integer("x-retry-initial-delay-ms", 200),
		MaxDelayMS:     s.integer("x-retry-max-delay-ms", 5000),
		RetryOn:        s.strings("x-retry-on"),
	}
}

// SecurityConfig is the resolved security override for one operation.
// Discriminator: x-auth-scheme or x-auth-roles.
type SecurityConfig struct {
	Enabled        bool
	Scheme         string
	Roles          []string
	Scopes         []string
	AllowAnonymous bool
}

// ResolveSecurity resolves the security-override family. Returns nil when no
// scope names a scheme or a role list.
func ResolveSecurity(s Scopes) *SecurityConfig {
	if s.operationDisabled(AuthPrefix) {
		return &SecurityConfig{Enabled: false}
	}
	scheme, hasScheme := s.strDefined("x-auth-scheme")
	roles := s.strings("x-auth-roles")
	if !hasScheme && len(roles) == 0 {
		return nil
	}
	return &SecurityConfig{
		Enabled:        s.boolean("x-auth-enabled", true),
		Scheme:         scheme,
		Roles:          roles,
		Scopes:         s.strings("x-auth-scopes"),
		AllowAnonymous: s.boolean("x-auth-allow-anonymous", false),
	}
}

// Resolved bundles all four families for one operation.
type Resolved struct {
	Cache     *CacheConfig
	RateLimit *RateLimitConfig
	Retry     *RetryConfig
	Security  *SecurityConfig
}

// ResolveAll resolves every family for an operation in one call.
func ResolveAll(spec *model.Spec, op *model.Operation) Resolved {
	s := ForOperation(spec, op)
	return Resolved{
		Cache:     ResolveCache(s),
		RateLimit: ResolveRateLimit(s),
		Retry:     ResolveRetry(s),
		Security:  ResolveSecurity(s),
	}
}
