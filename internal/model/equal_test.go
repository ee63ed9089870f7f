package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualSchema(t *testing.T) {
	min := func(v float64) *float64 { return &v }

	base := func() *Schema {
		return &Schema{
			Type:    TypeObject,
			Minimum: min(1),
			Properties: []Property{
				{Name: "id", Schema: &Schema{Type: TypeString, Format: "uuid"}},
				{Name: "count", Schema: &Schema{Type: TypeInteger}},
			},
			Required: []string{"id"},
		}
	}

	tests := []struct {
		name     string
		mutate   func(*Schema)
		expected bool
	}{
		{"identical", func(s *Schema) {}, true},
		{"name ignored", func(s *Schema) { s.Name = "Renamed" }, true},
		{"description differs", func(s *Schema) { s.Description = "A thing" }, false},
		{"type differs", func(s *Schema) { s.Type = TypeString }, false},
		{"nullable differs", func(s *Schema) { s.Nullable = true }, false},
		{"minimum differs", func(s *Schema) { s.Minimum = min(2) }, false},
		{"minimum dropped", func(s *Schema) { s.Minimum = nil }, false},
		{"property renamed", func(s *Schema) { s.Properties[0].Name = "uid" }, false},
		{"property type changed", func(s *Schema) { s.Properties[1].Schema.Type = TypeNumber }, false},
		{"required changed", func(s *Schema) { s.Required = nil }, false},
		{"enum added", func(s *Schema) { s.Enum = []any{"a"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := base(), base()
			tt.mutate(b)
			require.Equal(t, tt.expected, EqualSchema(a, b))
		})
	}
}

func TestEqualSchemaRefs(t *testing.T) {
	a := &Schema{Ref: "#/components/schemas/Pet"}
	b := &Schema{Ref: "#/components/schemas/Pet"}
	c := &Schema{Ref: "#/components/schemas/Order"}

	require.True(t, EqualSchema(a, b))
	require.False(t, EqualSchema(a, c))

	// A ref never compares equal to an inline schema, even a similar one.
	inline := &Schema{Type: TypeObject}
	require.False(t, EqualSchema(a, inline))
}

func TestEqualSchemaNil(t *testing.T) {
	s := &Schema{Type: TypeString}
	require.True(t, EqualSchema(nil, nil))
	require.False(t, EqualSchema(s, nil))
	require.False(t, EqualSchema(nil, s))
}

func TestEqualParameter(t *testing.T) {
	a := &Parameter{Name: "petId", In: LocationPath, Required: true, Schema: &Schema{Type: TypeString}}
	b := &Parameter{Name: "petId", In: LocationPath, Required: true, Schema: &Schema{Type: TypeString}}
	require.True(t, EqualParameter(a, b))

	b.In = LocationQuery
	require.False(t, EqualParameter(a, b))

	b.In = LocationPath
	b.Schema.Type = TypeInteger
	require.False(t, EqualParameter(a, b))

	// Two declarations differing only in wording are not interchangeable;
	// folding them would silently discard one description.
	b.Schema.Type = TypeString
	b.Description = "The pet identifier"
	require.False(t, EqualParameter(a, b))
}

func TestEqualPath(t *testing.T) {
	build := func() *Path {
		return &Path{
			Path: "/pets",
			Operations: []Operation{
				{ID: "ListPets", Method: MethodGet, Path: "/pets"},
			},
		}
	}

	a, b := build(), build()
	require.True(t, EqualPath(a, b))

	b.Operations[0].ID = "GetPets"
	require.False(t, EqualPath(a, b))

	b = build()
	b.Operations = append(b.Operations, Operation{ID: "CreatePet", Method: MethodPost, Path: "/pets"})
	require.False(t, EqualPath(a, b))

	b = build()
	b.Parameters = []Parameter{{Name: "petKey", In: LocationPath, Required: true}}
	require.False(t, EqualPath(a, b))
}

func TestEqualOperationResponses(t *testing.T) {
	build := func() *Operation {
		return &Operation{
			ID:     "GetPet",
			Method: MethodGet,
			Path:   "/pets/{petId}",
			Responses: []Response{
				{StatusCode: "200", Content: []MediaTypeContent{
					{MediaType: "application/json", Schema: &Schema{Ref: "#/components/schemas/Pet"}},
				}},
			},
		}
	}

	a, b := build(), build()
	require.True(t, EqualOperation(a, b))

	b.Responses[0].Content[0].Schema.Ref = "#/components/schemas/Order"
	require.False(t, EqualOperation(a, b))
}

func TestEqualTag(t *testing.T) {
	require.True(t, EqualTag(Tag{Name: "pets"}, Tag{Name: "pets"}))
	require.False(t, EqualTag(Tag{Name: "pets"}, Tag{Name: "pets", Description: "Pet operations"}))
}
