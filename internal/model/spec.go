package model

import "strings"

// Spec is the in-memory representation of one parsed description document.
// Instances are built once by the loader (or the merge engine) and treated
// as read-only afterwards.
type Spec struct {
	Info       Info
	Servers    []Server
	Tags       []Tag
	Paths      []Path
	Operations []Operation
	Schemas    []Schema
	Parameters []Parameter
	Security   []SecurityScheme

	// Extensions holds document-level x-* annotation values.
	Extensions map[string]any
}

// SchemaByRef returns a schema by its $ref path (e.g., "#/components/schemas/User").
// Returns nil if the schema is not found.
func (s *Spec) SchemaByRef(ref string) *Schema {
	parts := strings.Split(ref, "/")
	if len(parts) == 0 {
		return nil
	}
	return s.SchemaByName(parts[len(parts)-1])
}

// SchemaByName returns a component schema by name, or nil.
func (s *Spec) SchemaByName(name string) *Schema {
	for i := range s.Schemas {
		if s.Schemas[i].Name == name {
			return &s.Schemas[i]
		}
	}
	return nil
}

// PathByKey returns the path item for a route template, or nil.
func (s *Spec) PathByKey(key string) *Path {
	for i := range s.Paths {
		if s.Paths[i].Path == key {
			return &s.Paths[i]
		}
	}
	return nil
}

// SecuritySchemeByName returns a declared security scheme by name, or nil.
func (s *Spec) SecuritySchemeByName(name string) *SecurityScheme {
	for i := range s.Security {
		if s.Security[i].Name == name {
			return &s.Security[i]
		}
	}
	return nil
}

type Info struct {
	Title       string
	Description string
	Version     string
}

type Server struct {
	URL         string
	Description string
}

type Tag struct {
	Name        string
	Description string
}

type Path struct {
	Path       string
	Operations []Operation

	// Parameters are declared once at the path level and shared by every
	// operation under the path.
	Parameters []Parameter

	// Extensions holds path-level x-* annotation values.
	Extensions map[string]any
}
