package validate

import (
	"strings"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/model"
)

// checkSecuritySchemeRefs verifies that every security requirement names a
// globally declared scheme with exactly matching casing. A declaration that
// differs only in case produces a suggestion.
func checkSecuritySchemeRefs(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Operations {
		op := &spec.Operations[i]
		for _, req := range op.Security {
			if spec.SecuritySchemeByName(req.Name) != nil {
				continue
			}
			d := diag.Error("consistency-security-scheme", "security requirement references undeclared scheme %q", req.Name)
			d.Context = string(op.Method) + " " + op.Path
			if match := caseInsensitiveScheme(spec, req.Name); match != "" {
				d.Suggestions = []string{"declared scheme is named " + match}
			}
			out = append(out, d)
		}
	}
	return out
}

// checkSecurityScopeRefs verifies that requested OAuth2 scopes are declared
// by one of the scheme's flows.
func checkSecurityScopeRefs(spec *model.Spec) []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range spec.Operations {
		op := &spec.Operations[i]
		for _, req := range op.Security {
			scheme := spec.SecuritySchemeByName(req.Name)
			if scheme == nil || scheme.Type != model.SecurityTypeOAuth2 {
				continue
			}
			declared := declaredScopes(scheme)
			for _, scope := range req.Scopes {
				if declared[scope] {
					continue
				}
				d := diag.Error("consistency-security-scope", "scope %q is not declared by scheme %q", scope, req.Name)
				d.Context = string(op.Method) + " " + op.Path
				out = append(out, d)
			}
		}
	}
	return out
}

func caseInsensitiveScheme(spec *model.Spec, name string) string {
	for i := range spec.Security {
		if strings.EqualFold(spec.Security[i].Name, name) {
			return spec.Security[i].Name
		}
	}
	return ""
}

func declaredScopes(scheme *model.SecurityScheme) map[string]bool {
	scopes := make(map[string]bool)
	if scheme.Flows == nil {
		return scopes
	}
	for _, flow := range []*model.OAuthFlow{
		scheme.Flows.Implicit,
		scheme.Flows.Password,
		scheme.Flows.ClientCredentials,
		scheme.Flows.AuthorizationCode,
	} {
		if flow == nil {
			continue
		}
		for scope := range flow.Scopes {
			scopes[scope] = true
		}
	}
	return scopes
}
