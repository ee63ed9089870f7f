package loader

import (
	"strings"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"

	"github.com/mwalczyk/oasc/internal/model"
)

type transformer struct {
	componentSchemas map[*base.Schema]string
}

// Transform converts a built libopenapi model into the internal document
// model. The result is self-contained; nothing retains the libopenapi tree.
func Transform(built *libopenapi.DocumentModel[v3.Document]) *model.Spec {
	doc := built.Model

	t := &transformer{
		componentSchemas: make(map[*base.Schema]string),
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, schemaProxy := range doc.Components.Schemas.FromOldest() {
			t.componentSchemas[schemaProxy.Schema()] = "#/components/schemas/" + name
		}
	}

	spec := &model.Spec{
		Info:       transformInfo(doc.Info),
		Servers:    transformServers(doc.Servers),
		Tags:       transformTags(doc.Tags),
		Extensions: extensionMap(doc.Extensions),
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, schemaProxy := range doc.Components.Schemas.FromOldest() {
			schema := t.transformSchema(name, schemaProxy.Schema())
			spec.Schemas = append(spec.Schemas, *schema)
		}
	}

	if doc.Components != nil && doc.Components.Parameters != nil {
		for name, param := range doc.Components.Parameters.FromOldest() {
			p := t.transformParameter(param)
			if p.Name == "" {
				p.Name = name
			}
			spec.Parameters = append(spec.Parameters, p)
		}
	}

	if doc.Paths != nil {
		for pathStr, pathItem := range doc.Paths.PathItems.FromOldest() {
			path, ops := t.transformPath(pathStr, pathItem)
			spec.Paths = append(spec.Paths, path)
			spec.Operations = append(spec.Operations, ops...)
		}
	}

	if doc.Components != nil && doc.Components.SecuritySchemes != nil {
		for name, scheme := range doc.Components.SecuritySchemes.FromOldest() {
			spec.Security = append(spec.Security, transformSecurityScheme(name, scheme))
		}
	}

	return spec
}

func transformInfo(info *base.Info) model.Info {
	if info == nil {
		return model.Info{}
	}
	return model.Info{
		Title:       info.Title,
		Description: info.Description,
		Version:     info.Version,
	}
}

func transformServers(servers []*v3.Server) []model.Server {
	var result []model.Server
	for _, s := range servers {
		result = append(result, model.Server{
			URL:         s.URL,
			Description: s.Description,
		})
	}
	return result
}

func transformTags(tags []*base.Tag) []model.Tag {
	var result []model.Tag
	for _, t := range tags {
		result = append(result, model.Tag{
			Name:        t.Name,
			Description: t.Description,
		})
	}
	return result
}

func (t *transformer) transformPath(pathStr string, pathItem *v3.PathItem) (model.Path, []model.Operation) {
	path := model.Path{Path: pathStr, Extensions: extensionMap(pathItem.Extensions)}
	for _, p := range pathItem.Parameters {
		path.Parameters = append(path.Parameters, t.transformParameter(p))
	}
	var ops []model.Operation

	// Use a slice for deterministic ordering
	methods := []struct {
		method model.Method
		op     *v3.Operation
	}{
		{model.MethodGet, pathItem.Get},
		{model.MethodPost, pathItem.Post},
		{model.MethodPut, pathItem.Put},
		{model.MethodDelete, pathItem.Delete},
		{model.MethodPatch, pathItem.Patch},
		{model.MethodHead, pathItem.Head},
		{model.MethodOptions, pathItem.Options},
		{model.MethodTrace, pathItem.Trace},
	}

	for _, m := range methods {
		if m.op == nil {
			continue
		}
		operation := t.transformOperation(m.method, pathStr, m.op)
		ops = append(ops, operation)
		path.Operations = append(path.Operations, operation)
	}

	return path, ops
}

func (t *transformer) transformOperation(method model.Method, path string, op *v3.Operation) model.Operation {
	operation := model.Operation{
		ID:          op.OperationId,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  boolPtr(op.Deprecated),
		Extensions:  extensionMap(op.Extensions),
	}

	for _, p := range op.Parameters {
		operation.Parameters = append(operation.Parameters, t.transformParameter(p))
	}

	if op.RequestBody != nil {
		operation.RequestBody = t.transformRequestBody(op.RequestBody)
	}

	if op.Responses != nil && op.Responses.Codes != nil {
		for code, resp := range op.Responses.Codes.FromOldest() {
			operation.Responses = append(operation.Responses, t.transformResponse(code, resp))
		}
	}

	for _, secReq := range op.Security {
		for name, scopes := range secReq.Requirements.FromOldest() {
			operation.Security = append(operation.Security, model.SecurityRequirement{
				Name:   name,
				Scopes: scopes,
			})
		}
	}

	return operation
}

func (t *transformer) transformParameter(p *v3.Parameter) model.Parameter {
	param := model.Parameter{
		Name:        p.Name,
		In:          model.ParameterLocation(strings.ToLower(p.In)),
		Description: p.Description,
		Required:    boolPtr(p.Required),
		Deprecated:  p.Deprecated,
	}

	if p.Schema != nil {
		param.Schema = t.transformSchemaProxy(p.Schema)
	}

	return param
}

func (t *transformer) transformRequestBody(rb *v3.RequestBody) *model.RequestBody {
	body := &model.RequestBody{
		Description: rb.Description,
		Required:    boolPtr(rb.Required),
	}

	if rb.Content != nil {
		for mediaType, content := range rb.Content.FromOldest() {
			mtc := model.MediaTypeContent{MediaType: mediaType}
			if content.Schema != nil {
				mtc.Schema = t.transformSchemaProxy(content.Schema)
			}
			body.Content = append(body.Content, mtc)
		}
	}

	return body
}

func (t *transformer) transformResponse(code string, resp *v3.Response) model.Response {
	response := model.Response{
		StatusCode:  code,
		Description: resp.Description,
	}

	if resp.Content != nil {
		for mediaType, content := range resp.Content.FromOldest() {
			mtc := model.MediaTypeContent{MediaType: mediaType}
			if content.Schema != nil {
				mtc.Schema = t.transformSchemaProxy(content.Schema)
			}
			response.Content = append(response.Content, mtc)
		}
	}

	if resp.Headers != nil {
		for name, header := range resp.Headers.FromOldest() {
			h := model.Header{
				Name:        name,
				Description: header.Description,
				Required:    header.Required,
			}
			if header.Schema != nil {
				h.Schema = t.transformSchemaProxy(header.Schema)
			}
			response.Headers = append(response.Headers, h)
		}
	}

	return response
}

func (t *transformer) transformSchemaProxy(proxy *base.SchemaProxy) *model.Schema {
	if proxy == nil {
		return nil
	}

	// A reference node stays a reference. Expanding the target inline here
	// would loop on self-referential schemas; consumers resolve through
	// Spec.SchemaByRef instead.
	if ref := proxy.GetReference(); ref != "" {
		return &model.Schema{Ref: ref}
	}
	if resolved, ok := t.componentSchemas[proxy.Schema()]; ok {
		return &model.Schema{Ref: resolved}
	}

	return t.transformSchema("", proxy.Schema())
}

func (t *transformer) transformSchema(name string, s *base.Schema) *model.Schema {
	if s == nil {
		return nil
	}

	schema := &model.Schema{
		Name:        name,
		Description: s.Description,
		Format:      s.Format,
		Nullable:    boolPtr(s.Nullable),
		Deprecated:  boolPtr(s.Deprecated),
		Default:     s.Default,
		Example:     s.Example,
		Pattern:     s.Pattern,
		UniqueItems: boolPtr(s.UniqueItems),
	}

	if len(s.Type) > 0 {
		schema.Type = model.SchemaType(s.Type[0])
		// 3.1 style nullability: type: [T, "null"]
		for _, typ := range s.Type[1:] {
			if typ == "null" {
				schema.Nullable = true
			}
		}
	}

	if s.Enum != nil {
		for _, e := range s.Enum {
			schema.Enum = append(schema.Enum, e.Value)
		}
	}

	if s.Properties != nil {
		for propName, propProxy := range s.Properties.FromOldest() {
			propSchema := t.transformSchemaProxy(propProxy)
			if propSchema != nil && propSchema.Name == "" {
				propSchema.Name = propName
			}
			schema.Properties = append(schema.Properties, model.Property{
				Name:   propName,
				Schema: propSchema,
			})
		}
	}

	schema.Required = s.Required

	if s.Items != nil && s.Items.A != nil {
		schema.Items = t.transformSchemaProxy(s.Items.A)
	}

	if s.AdditionalProperties != nil && s.AdditionalProperties.A != nil {
		schema.AdditionalProperties = t.transformSchemaProxy(s.AdditionalProperties.A)
	}

	for _, proxy := range s.AllOf {
		schema.AllOf = append(schema.AllOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.OneOf {
		schema.OneOf = append(schema.OneOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.AnyOf {
		schema.AnyOf = append(schema.AnyOf, t.transformSchemaProxy(proxy))
	}

	if s.Discriminator != nil {
		schema.Discriminator = &model.Discriminator{
			PropertyName: s.Discriminator.PropertyName,
			Mapping:      make(map[string]string),
		}
		if s.Discriminator.Mapping != nil {
			for k, v := range s.Discriminator.Mapping.FromOldest() {
				schema.Discriminator.Mapping[k] = v
			}
		}
	}

	if s.Minimum != nil {
		v := float64(*s.Minimum)
		schema.Minimum = &v
	}
	if s.Maximum != nil {
		v := float64(*s.Maximum)
		schema.Maximum = &v
	}
	if s.MinLength != nil {
		v := int64(*s.MinLength)
		schema.MinLength = &v
	}
	if s.MaxLength != nil {
		v := int64(*s.MaxLength)
		schema.MaxLength = &v
	}
	if s.MinItems != nil {
		v := int64(*s.MinItems)
		schema.MinItems = &v
	}
	if s.MaxItems != nil {
		v := int64(*s.MaxItems)
		schema.MaxItems = &v
	}
	if s.MinProperties != nil {
		v := int64(*s.MinProperties)
		schema.MinProperties = &v
	}
	if s.MaxProperties != nil {
		v := int64(*s.MaxProperties)
		schema.MaxProperties = &v
	}

	if s.ExclusiveMinimum != nil && s.ExclusiveMinimum.IsA() {
		schema.ExclusiveMinimum = s.ExclusiveMinimum.A
	}
	if s.ExclusiveMaximum != nil && s.ExclusiveMaximum.IsA() {
		schema.ExclusiveMaximum = s.ExclusiveMaximum.A
	}

	return schema
}

// extensionMap decodes every x-* annotation node into a plain Go value so
// the extension resolver can treat all three scopes uniformly.
func extensionMap(extensions *orderedmap.Map[string, *yaml.Node]) map[string]any {
	if extensions == nil {
		return nil
	}

	var out map[string]any
	for pair := extensions.First(); pair != nil; pair = pair.Next() {
		key := pair.Key()
		node := pair.Value()
		if !strings.HasPrefix(key, "x-") || node == nil {
			continue
		}

		var value any
		if err := node.Decode(&value); err != nil {
			continue
		}

		if out == nil {
			out = make(map[string]any)
		}
		out[key] = value
	}
	return out
}

func transformSecurityScheme(name string, scheme *v3.SecurityScheme) model.SecurityScheme {
	ss := model.SecurityScheme{
		Name:         name,
		Type:         model.SecuritySchemeType(scheme.Type),
		Description:  scheme.Description,
		In:           scheme.In,
		Scheme:       scheme.Scheme,
		BearerFormat: scheme.BearerFormat,
	}

	if scheme.Flows != nil {
		ss.Flows = &model.OAuthFlows{}
		if scheme.Flows.Implicit != nil {
			ss.Flows.Implicit = transformOAuthFlow(scheme.Flows.Implicit)
		}
		if scheme.Flows.Password != nil {
			ss.Flows.Password = transformOAuthFlow(scheme.Flows.Password)
		}
		if scheme.Flows.ClientCredentials != nil {
			ss.Flows.ClientCredentials = transformOAuthFlow(scheme.Flows.ClientCredentials)
		}
		if scheme.Flows.AuthorizationCode != nil {
			ss.Flows.AuthorizationCode = transformOAuthFlow(scheme.Flows.AuthorizationCode)
		}
	}

	return ss
}

func transformOAuthFlow(flow *v3.OAuthFlow) *model.OAuthFlow {
	f := &model.OAuthFlow{
		AuthorizationURL: flow.AuthorizationUrl,
		TokenURL:         flow.TokenUrl,
		RefreshURL:       flow.RefreshUrl,
		Scopes:           make(map[string]string),
	}

	if flow.Scopes != nil {
		for scope, desc := range flow.Scopes.FromOldest() {
			f.Scopes[scope] = desc
		}
	}

	return f
}

func boolPtr(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
