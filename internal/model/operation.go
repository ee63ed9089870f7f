package model

type Operation struct {
	ID          string
	Method      Method
	Path        string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []Response
	Deprecated  bool
	Security    []SecurityRequirement

	// Extensions holds operation-level x-* annotation values.
	Extensions map[string]any
}

// ResponseByCode returns the response declared for a status code, or nil.
func (o *Operation) ResponseByCode(code string) *Response {
	for i := range o.Responses {
		if o.Responses[i].StatusCode == code {
			return &o.Responses[i]
		}
	}
	return nil
}

type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// Mutating reports whether the method is expected to change server state.
func (m Method) Mutating() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	default:
		return false
	}
}

type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
)

type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Deprecated  bool
	Schema      *Schema
}

type RequestBody struct {
	Description string
	Required    bool
	Content     []MediaTypeContent
}

type MediaTypeContent struct {
	MediaType string
	Schema    *Schema
}

type Response struct {
	StatusCode  string
	Description string
	Content     []MediaTypeContent
	Headers     []Header
}

type Header struct {
	Name        string
	Description string
	Required    bool
	Schema      *Schema
}

type SecurityRequirement struct {
	Name   string
	Scopes []string
}
