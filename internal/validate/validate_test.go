package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/model"
)

func rulesOf(diags []diag.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Rule)
	}
	return out
}

func hasRule(diags []diag.Diagnostic, rule string) bool {
	for _, d := range diags {
		if d.Rule == rule {
			return true
		}
	}
	return false
}

// cleanSpec builds a document that passes every rule at strict tier.
func cleanSpec() *model.Spec {
	op := model.Operation{
		ID:     "GetPet",
		Method: model.MethodGet,
		Path:   "/pets/{petKey}",
		Tags:   []string{"pets"},
		Parameters: []model.Parameter{
			{Name: "petKey", In: model.LocationPath, Required: true, Schema: &model.Schema{Type: model.TypeString}},
		},
		Responses: []model.Response{
			{StatusCode: "200", Description: "OK", Content: []model.MediaTypeContent{
				{MediaType: "application/json", Schema: &model.Schema{Ref: "#/components/schemas/Pet"}},
			}},
		},
	}
	spec := &model.Spec{
		Info: model.Info{Title: "Pet Store", Version: "1.0.0"},
		Tags: []model.Tag{{Name: "pets"}},
		Paths: []model.Path{
			{Path: "/pets/{petKey}", Operations: []model.Operation{op}},
		},
		Operations: []model.Operation{op},
		Schemas: []model.Schema{
			{Name: "Pet", Type: model.TypeObject, Properties: []model.Property{
				{Name: "id", Schema: &model.Schema{Type: model.TypeString}},
				{Name: "displayName", Schema: &model.Schema{Type: model.TypeString}},
			}},
		},
	}
	return spec
}

func TestRunCleanSpec(t *testing.T) {
	assert.Empty(t, Run(cleanSpec(), TierStrict))
}

func TestRunTierNone(t *testing.T) {
	spec := &model.Spec{} // would trip several rules
	assert.Nil(t, Run(spec, TierNone))
	assert.Nil(t, Run(nil, TierStrict))
}

func TestTierGating(t *testing.T) {
	spec := cleanSpec()
	spec.Operations[0].ID = "fetchPet" // casing and verb findings, strict only
	spec.Paths[0].Operations[0].ID = "fetchPet"

	standard := Run(spec, TierStandard)
	assert.Empty(t, standard)

	strict := Run(spec, TierStrict)
	assert.Equal(t, []string{"naming-operation-id", "naming-operation-verb"}, rulesOf(strict))
}

func TestStructuralRules(t *testing.T) {
	t.Run("missing info", func(t *testing.T) {
		spec := cleanSpec()
		spec.Info = model.Info{}
		diags := Run(spec, TierStandard)
		require.Len(t, diags, 2)
		assert.Equal(t, "structure-missing-info", diags[0].Rule)
		assert.Equal(t, diag.SeverityError, diags[0].Severity)
	})

	t.Run("empty paths warns", func(t *testing.T) {
		spec := cleanSpec()
		spec.Paths = nil
		spec.Operations = nil
		diags := Run(spec, TierStandard)
		require.True(t, hasRule(diags, "structure-empty-paths"))
		assert.False(t, diag.HasErrors(diags))
	})

	t.Run("duplicate operation ids", func(t *testing.T) {
		spec := cleanSpec()
		dup := spec.Operations[0]
		dup.Path = "/pets/{petKey}/owner"
		spec.Operations = append(spec.Operations, dup)
		diags := Run(spec, TierStandard)
		require.True(t, hasRule(diags, "structure-duplicate-operation-id"))
		assert.True(t, diag.HasErrors(diags))
	})

	t.Run("missing operation id warns", func(t *testing.T) {
		spec := cleanSpec()
		spec.Operations[0].ID = ""
		spec.Paths[0].Operations[0].ID = ""
		diags := Run(spec, TierStandard)
		require.True(t, hasRule(diags, "structure-duplicate-operation-id"))
		assert.False(t, diag.HasErrors(diags))
	})

	t.Run("unresolved ref", func(t *testing.T) {
		spec := cleanSpec()
		spec.Schemas[0].Properties[0].Schema = &model.Schema{Ref: "#/components/schemas/Ghost"}
		diags := Run(spec, TierStandard)
		require.True(t, hasRule(diags, "structure-unresolved-ref"))
	})

	t.Run("non-component ref", func(t *testing.T) {
		spec := cleanSpec()
		spec.Schemas[0].Properties[0].Schema = &model.Schema{Ref: "#/components/responses/NotFound"}
		diags := Run(spec, TierStandard)
		require.True(t, hasRule(diags, "structure-unresolved-ref"))
	})

	t.Run("array without items", func(t *testing.T) {
		spec := cleanSpec()
		spec.Schemas[0].Properties[0].Schema = &model.Schema{Type: model.TypeArray}
		diags := Run(spec, TierStandard)
		require.True(t, hasRule(diags, "structure-array-items"))
	})

	t.Run("path templates", func(t *testing.T) {
		spec := cleanSpec()
		spec.Paths = append(spec.Paths,
			model.Path{Path: "pets"},
			model.Path{Path: "/pets/{}"},
			model.Path{Path: "/pets/{id"},
		)
		diags := Run(spec, TierStandard)
		findings := 0
		for _, d := range diags {
			if d.Rule == "structure-path-template" {
				findings++
			}
		}
		assert.Equal(t, 3, findings)
	})
}

func TestNamingRules(t *testing.T) {
	t.Run("schema casing", func(t *testing.T) {
		spec := cleanSpec()
		spec.Schemas[0].Name = "pet_record"
		// Keep the response ref resolving.
		spec.Operations[0].Responses[0].Content[0].Schema.Ref = "#/components/schemas/pet_record"
		spec.Paths[0].Operations[0].Responses[0].Content[0].Schema.Ref = "#/components/schemas/pet_record"

		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "naming-schema"))
		for _, d := range diags {
			if d.Rule == "naming-schema" {
				assert.Equal(t, []string{"PetRecord"}, d.Suggestions)
			}
		}
	})

	t.Run("property casing accepts camel and snake", func(t *testing.T) {
		spec := cleanSpec()
		spec.Schemas[0].Properties[1].Name = "display_name"
		assert.Empty(t, Run(spec, TierStrict))

		spec.Schemas[0].Properties[1].Name = "Display-Name"
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "naming-property"))
	})

	t.Run("verb prefix convention", func(t *testing.T) {
		spec := cleanSpec()
		spec.Operations[0].ID = "PetFetcher"
		spec.Paths[0].Operations[0].ID = "PetFetcher"
		diags := Run(spec, TierStrict)
		require.Equal(t, []string{"naming-operation-verb"}, rulesOf(diags))
		assert.Equal(t, diag.SeverityInfo, diags[0].Severity)
	})

	t.Run("tag with spaces", func(t *testing.T) {
		spec := cleanSpec()
		spec.Tags[0].Name = "pet operations"
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "naming-tag"))
	})

	t.Run("enum mixing styles", func(t *testing.T) {
		spec := cleanSpec()
		spec.Schemas[0].Properties[1].Schema.Enum = []any{"active", "ON_HOLD"}
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "naming-enum-value"))

		spec.Schemas[0].Properties[1].Schema.Enum = []any{"active", "onHold"}
		assert.Empty(t, Run(spec, TierStrict))
	})
}

func TestConsistencyRules(t *testing.T) {
	t.Run("undeclared template parameter", func(t *testing.T) {
		spec := cleanSpec()
		spec.Operations[0].Parameters = nil
		spec.Paths[0].Operations[0].Parameters = nil
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-path-parameter"))
	})

	t.Run("path-level declaration satisfies the template", func(t *testing.T) {
		spec := cleanSpec()
		param := spec.Operations[0].Parameters[0]
		spec.Operations[0].Parameters = nil
		spec.Paths[0].Operations[0].Parameters = nil
		spec.Paths[0].Parameters = []model.Parameter{param}
		diags := Run(spec, TierStrict)
		assert.False(t, hasRule(diags, "consistency-path-parameter"))
	})

	t.Run("optional path-level parameter", func(t *testing.T) {
		spec := cleanSpec()
		param := spec.Operations[0].Parameters[0]
		param.Required = false
		spec.Paths[0].Parameters = []model.Parameter{param}
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-path-parameter"))
	})

	t.Run("optional path parameter", func(t *testing.T) {
		spec := cleanSpec()
		spec.Operations[0].Parameters[0].Required = false
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-path-parameter"))
	})

	t.Run("401 without security", func(t *testing.T) {
		spec := cleanSpec()
		spec.Operations[0].Responses = append(spec.Operations[0].Responses,
			model.Response{StatusCode: "401", Description: "Unauthorized"})
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-response-401"))

		spec.Security = []model.SecurityScheme{{Name: "bearerAuth", Type: model.SecurityTypeHTTP, Scheme: "bearer"}}
		assert.False(t, hasRule(Run(spec, TierStrict), "consistency-response-401"))
	})

	t.Run("429 without rate limit config", func(t *testing.T) {
		spec := cleanSpec()
		spec.Operations[0].Responses = append(spec.Operations[0].Responses,
			model.Response{StatusCode: "429", Description: "Too Many Requests"})
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-response-429"))

		spec.Extensions = map[string]any{"x-ratelimit-policy": "default"}
		assert.False(t, hasRule(Run(spec, TierStrict), "consistency-response-429"))
	})

	t.Run("409 on read operation", func(t *testing.T) {
		spec := cleanSpec()
		spec.Operations[0].Responses = append(spec.Operations[0].Responses,
			model.Response{StatusCode: "409", Description: "Conflict"})
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-response-409"))

		spec.Operations[0].Method = model.MethodPost
		spec.Operations[0].ID = "CreatePet"
		assert.False(t, hasRule(Run(spec, TierStrict), "consistency-response-409"))
	})

	t.Run("no success response", func(t *testing.T) {
		spec := cleanSpec()
		spec.Operations[0].Responses = []model.Response{{StatusCode: "404", Description: "Not Found"}}
		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-response-success"))
		assert.False(t, diag.HasErrors(diags))

		spec.Operations[0].Responses = nil
		diags = Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-response-success"))
		assert.True(t, diag.HasErrors(diags))
	})

	t.Run("undeclared security scheme", func(t *testing.T) {
		spec := cleanSpec()
		spec.Operations[0].Security = []model.SecurityRequirement{{Name: "BearerAuth"}}
		spec.Security = []model.SecurityScheme{{Name: "bearerAuth", Type: model.SecurityTypeHTTP}}

		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-security-scheme"))
		for _, d := range diags {
			if d.Rule == "consistency-security-scheme" {
				require.Len(t, d.Suggestions, 1)
				assert.Contains(t, d.Suggestions[0], "bearerAuth")
			}
		}
	})

	t.Run("undeclared oauth scope", func(t *testing.T) {
		spec := cleanSpec()
		spec.Security = []model.SecurityScheme{{
			Name: "oauth",
			Type: model.SecurityTypeOAuth2,
			Flows: &model.OAuthFlows{
				AuthorizationCode: &model.OAuthFlow{Scopes: map[string]string{"read:pets": "read"}},
			},
		}}
		spec.Operations[0].Security = []model.SecurityRequirement{{Name: "oauth", Scopes: []string{"write:pets"}}}

		diags := Run(spec, TierStrict)
		require.True(t, hasRule(diags, "consistency-security-scope"))

		spec.Operations[0].Security[0].Scopes = []string{"read:pets"}
		assert.False(t, hasRule(Run(spec, TierStrict), "consistency-security-scope"))
	})
}

func TestRunDeterministic(t *testing.T) {
	build := func() *model.Spec {
		spec := cleanSpec()
		spec.Info.Version = ""
		spec.Operations[0].ID = "fetchPet"
		spec.Paths[0].Operations[0].ID = "fetchPet"
		spec.Schemas[0].Properties[1].Name = "Display-Name"
		return spec
	}

	first := Run(build(), TierStrict)
	second := Run(build(), TierStrict)
	require.Equal(t, first, second)

	// Findings come out grouped in registry order.
	assert.Equal(t, []string{
		"structure-missing-info",
		"naming-operation-id",
		"naming-operation-verb",
		"naming-property",
	}, rulesOf(first))
}
