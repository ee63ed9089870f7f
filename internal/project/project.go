// Package project maps schema fragments to target-language-agnostic type
// descriptor strings for downstream generators: "Pet", "Pet[]",
// "Pet[] | null", "Record<string, number>", and so on.
package project

import (
	"strings"

	"github.com/mwalczyk/oasc/internal/model"
	"github.com/mwalczyk/oasc/internal/naming"
)

// Unknown is the sentinel descriptor for shapes the projector does not
// recognize. It is a valid descriptor, not a failure.
const Unknown = "unknown"

// Options adjusts how fragments project.
type Options struct {
	// NativeDates projects date and date-time strings to the native date
	// type instead of plain strings.
	NativeDates bool
	// NullUnions decorates optional fragments with a null union in addition
	// to explicitly nullable ones.
	NullUnions bool
}

// Type projects a schema fragment to its type descriptor. required reports
// whether the enclosing context (property list, parameter) marks the
// fragment as required.
func Type(s *model.Schema, required bool, opts Options) string {
	if s == nil {
		return Unknown
	}

	base := baseType(s, opts)
	if s.Nullable || (!required && opts.NullUnions) {
		return base + " | null"
	}
	return base
}

func baseType(s *model.Schema, opts Options) string {
	if s.Ref != "" {
		return refToTypeName(s.Ref)
	}

	// A one-element allOf/oneOf wrapping a reference is the conventional
	// way to decorate a ref with nullability or a description; it projects
	// to the referenced type.
	if wrapped := s.SingleComposedRef(); wrapped != nil {
		return refToTypeName(wrapped.Ref)
	}

	if union := unionMembers(s); len(union) > 0 {
		return projectUnion(union, opts)
	}

	if len(s.AllOf) > 0 {
		return Unknown
	}

	switch s.Type {
	case model.TypeString:
		return stringType(s.Format, opts)
	case model.TypeInteger, model.TypeNumber:
		return "number"
	case model.TypeBoolean:
		return "boolean"
	case model.TypeArray:
		return Type(s.Items, true, opts) + "[]"
	case model.TypeObject:
		return objectType(s, opts)
	default:
		return Unknown
	}
}

func stringType(format string, opts Options) string {
	switch format {
	case "binary", "byte":
		return "Blob"
	case "date", "date-time":
		if opts.NativeDates {
			return "Date"
		}
		return "string"
	case "uuid", "guid":
		return "Uuid"
	case "uri", "email", "password", "":
		return "string"
	default:
		// Unrecognized string formats still hold strings.
		return "string"
	}
}

func objectType(s *model.Schema, opts Options) string {
	if s.IsMap() {
		return "Record<string, " + Type(s.AdditionalProperties, true, opts) + ">"
	}
	if len(s.Properties) == 0 {
		return "Record<string, unknown>"
	}
	if s.Name != "" {
		return naming.PascalCase(s.Name)
	}
	return Unknown
}

func unionMembers(s *model.Schema) []*model.Schema {
	if len(s.OneOf) > 1 {
		return s.OneOf
	}
	if len(s.AnyOf) > 1 {
		return s.AnyOf
	}
	if len(s.AnyOf) == 1 {
		// A one-element anyOf behaves like its sole member.
		return s.AnyOf
	}
	return nil
}

func projectUnion(members []*model.Schema, opts Options) string {
	var parts []string
	seen := make(map[string]bool)
	for _, m := range members {
		p := Type(m, true, opts)
		if !seen[p] {
			seen[p] = true
			parts = append(parts, p)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts, " | ")
}

func refToTypeName(ref string) string {
	if len(ref) > 0 && ref[0] == '#' {
		parts := strings.Split(ref, "/")
		if len(parts) > 0 {
			return naming.PascalCase(parts[len(parts)-1])
		}
	}
	return Unknown
}
