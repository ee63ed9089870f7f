package model

type Schema struct {
	Name        string
	Description string
	Type        SchemaType
	Format      string
	Nullable    bool
	Deprecated  bool
	Default     any
	Example     any

	// Object properties
	Properties []Property
	Required   []string

	// Array items
	Items *Schema

	// Enum values
	Enum []any

	// Composition
	AllOf []*Schema
	OneOf []*Schema
	AnyOf []*Schema

	// Discriminator for oneOf/anyOf polymorphism
	Discriminator *Discriminator

	// Reference
	Ref string

	// Additional properties for maps
	AdditionalProperties *Schema

	// Constraints
	Minimum          *float64
	Maximum          *float64
	MinLength        *int64
	MaxLength        *int64
	Pattern          string
	MinItems         *int64
	MaxItems         *int64
	UniqueItems      bool
	MinProperties    *int64
	MaxProperties    *int64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
}

// IsMap reports whether the schema is a free-form map: an object shape whose
// only constraint is additionalProperties.
func (s *Schema) IsMap() bool {
	return s != nil && s.AdditionalProperties != nil && len(s.Properties) == 0
}

// SingleComposedRef returns the sole reference wrapped by a one-element
// allOf/oneOf composition, or nil when the schema is not that shape.
func (s *Schema) SingleComposedRef() *Schema {
	var members []*Schema
	switch {
	case len(s.AllOf) == 1 && len(s.OneOf) == 0 && len(s.AnyOf) == 0:
		members = s.AllOf
	case len(s.OneOf) == 1 && len(s.AllOf) == 0 && len(s.AnyOf) == 0:
		members = s.OneOf
	default:
		return nil
	}
	if members[0] != nil && members[0].Ref != "" {
		return members[0]
	}
	return nil
}

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
	TypeNull    SchemaType = "null"
)

type Property struct {
	Name   string
	Schema *Schema
}

type Discriminator struct {
	PropertyName string
	Mapping      map[string]string
}

type SecurityScheme struct {
	Name         string
	Type         SecuritySchemeType
	Description  string
	In           string
	Scheme       string
	BearerFormat string
	Flows        *OAuthFlows
}

type SecuritySchemeType string

const (
	SecurityTypeAPIKey        SecuritySchemeType = "apiKey"
	SecurityTypeHTTP          SecuritySchemeType = "http"
	SecurityTypeOAuth2        SecuritySchemeType = "oauth2"
	SecurityTypeOpenIDConnect SecuritySchemeType = "openIdConnect"
	SecurityTypeMutualTLS     SecuritySchemeType = "mutualTLS"
)

type OAuthFlows struct {
	Implicit          *OAuthFlow
	Password          *OAuthFlow
	ClientCredentials *OAuthFlow
	AuthorizationCode *OAuthFlow
}

type OAuthFlow struct {
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string
	Scopes           map[string]string
}
