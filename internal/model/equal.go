package model

import "reflect"

// EqualSchema reports deep structural equality of two schemas. References are
// compared by target, everything else field by field, descriptions included.
// Name is deliberately ignored so a schema keeps comparing equal after a
// rename-free move between files.
func EqualSchema(a, b *Schema) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Ref != "" || b.Ref != "" {
		return a.Ref == b.Ref
	}
	if a.Description != b.Description {
		return false
	}
	if a.Type != b.Type || a.Format != b.Format || a.Nullable != b.Nullable ||
		a.Deprecated != b.Deprecated || a.Pattern != b.Pattern ||
		a.UniqueItems != b.UniqueItems ||
		a.ExclusiveMinimum != b.ExclusiveMinimum ||
		a.ExclusiveMaximum != b.ExclusiveMaximum {
		return false
	}
	if !reflect.DeepEqual(a.Default, b.Default) || !reflect.DeepEqual(a.Example, b.Example) {
		return false
	}
	if !reflect.DeepEqual(a.Enum, b.Enum) || !reflect.DeepEqual(a.Required, b.Required) {
		return false
	}
	if !equalFloatPtr(a.Minimum, b.Minimum) || !equalFloatPtr(a.Maximum, b.Maximum) {
		return false
	}
	if !equalIntPtr(a.MinLength, b.MinLength) || !equalIntPtr(a.MaxLength, b.MaxLength) ||
		!equalIntPtr(a.MinItems, b.MinItems) || !equalIntPtr(a.MaxItems, b.MaxItems) ||
		!equalIntPtr(a.MinProperties, b.MinProperties) || !equalIntPtr(a.MaxProperties, b.MaxProperties) {
		return false
	}
	if len(a.Properties) != len(b.Properties) {
		return false
	}
	for i := range a.Properties {
		if a.Properties[i].Name != b.Properties[i].Name {
			return false
		}
		if !EqualSchema(a.Properties[i].Schema, b.Properties[i].Schema) {
			return false
		}
	}
	if !EqualSchema(a.Items, b.Items) || !EqualSchema(a.AdditionalProperties, b.AdditionalProperties) {
		return false
	}
	if !equalSchemaSlice(a.AllOf, b.AllOf) || !equalSchemaSlice(a.OneOf, b.OneOf) || !equalSchemaSlice(a.AnyOf, b.AnyOf) {
		return false
	}
	return equalDiscriminator(a.Discriminator, b.Discriminator)
}

// EqualParameter reports deep structural equality of two parameters,
// including their schemas.
func EqualParameter(a, b *Parameter) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.In != b.In || a.Required != b.Required || a.Deprecated != b.Deprecated {
		return false
	}
	if a.Description != b.Description {
		return false
	}
	return EqualSchema(a.Schema, b.Schema)
}

// EqualPath reports deep structural equality of two path items: same route
// template, same shared parameters, same operations in the same order.
func EqualPath(a, b *Path) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Path != b.Path || len(a.Operations) != len(b.Operations) {
		return false
	}
	if len(a.Parameters) != len(b.Parameters) {
		return false
	}
	for i := range a.Parameters {
		if !EqualParameter(&a.Parameters[i], &b.Parameters[i]) {
			return false
		}
	}
	for i := range a.Operations {
		if !EqualOperation(&a.Operations[i], &b.Operations[i]) {
			return false
		}
	}
	return true
}

// EqualOperation reports deep structural equality of two operations.
func EqualOperation(a, b *Operation) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Method != b.Method || a.Path != b.Path || a.Deprecated != b.Deprecated {
		return false
	}
	if !reflect.DeepEqual(a.Tags, b.Tags) || !reflect.DeepEqual(a.Security, b.Security) {
		return false
	}
	if len(a.Parameters) != len(b.Parameters) {
		return false
	}
	for i := range a.Parameters {
		if !EqualParameter(&a.Parameters[i], &b.Parameters[i]) {
			return false
		}
	}
	if !equalRequestBody(a.RequestBody, b.RequestBody) {
		return false
	}
	if len(a.Responses) != len(b.Responses) {
		return false
	}
	for i := range a.Responses {
		if !equalResponse(&a.Responses[i], &b.Responses[i]) {
			return false
		}
	}
	return true
}

// EqualTag compares tags by name and description.
func EqualTag(a, b Tag) bool {
	return a.Name == b.Name && a.Description == b.Description
}

func equalRequestBody(a, b *RequestBody) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Required != b.Required || len(a.Content) != len(b.Content) {
		return false
	}
	for i := range a.Content {
		if a.Content[i].MediaType != b.Content[i].MediaType {
			return false
		}
		if !EqualSchema(a.Content[i].Schema, b.Content[i].Schema) {
			return false
		}
	}
	return true
}

func equalResponse(a, b *Response) bool {
	if a.StatusCode != b.StatusCode || len(a.Content) != len(b.Content) || len(a.Headers) != len(b.Headers) {
		return false
	}
	for i := range a.Content {
		if a.Content[i].MediaType != b.Content[i].MediaType {
			return false
		}
		if !EqualSchema(a.Content[i].Schema, b.Content[i].Schema) {
			return false
		}
	}
	for i := range a.Headers {
		if a.Headers[i].Name != b.Headers[i].Name || a.Headers[i].Required != b.Headers[i].Required {
			return false
		}
		if !EqualSchema(a.Headers[i].Schema, b.Headers[i].Schema) {
			return false
		}
	}
	return true
}

func equalSchemaSlice(a, b []*Schema) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualSchema(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalDiscriminator(a, b *Discriminator) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.PropertyName == b.PropertyName && reflect.DeepEqual(a.Mapping, b.Mapping)
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalIntPtr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
