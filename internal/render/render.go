// Package render serializes the internal document model back to YAML. The
// split engine uses it to emit base, part, and common files; the merge
// command uses it to write the combined document.
//
// Output is deterministic: sections appear in a fixed order and map keys
// from unordered sources are sorted.
package render

import (
	"fmt"
	"sort"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/mwalczyk/oasc/internal/model"
)

const openAPIVersion = "3.0.3"

// Spec renders a document model as a YAML string. Absent sections are
// omitted entirely; an empty paths mapping is always emitted because the
// format requires one.
func Spec(s *model.Spec) (string, error) {
	root := mapping()

	addScalar(root, "openapi", openAPIVersion)
	addNode(root, "info", infoNode(s.Info))

	if len(s.Servers) > 0 {
		servers := sequence()
		for _, srv := range s.Servers {
			n := mapping()
			addScalar(n, "url", srv.URL)
			if srv.Description != "" {
				addScalar(n, "description", srv.Description)
			}
			servers.Content = append(servers.Content, n)
		}
		addNode(root, "servers", servers)
	}

	if len(s.Tags) > 0 {
		tags := sequence()
		for _, t := range s.Tags {
			n := mapping()
			addScalar(n, "name", t.Name)
			if t.Description != "" {
				addScalar(n, "description", t.Description)
			}
			tags.Content = append(tags.Content, n)
		}
		addNode(root, "tags", tags)
	}

	paths := mapping()
	for i := range s.Paths {
		addNode(paths, s.Paths[i].Path, pathNode(&s.Paths[i]))
	}
	addNode(root, "paths", paths)

	if comps := componentsNode(s); len(comps.Content) > 0 {
		addNode(root, "components", comps)
	}

	addExtensions(root, s.Extensions)

	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	return sb.String(), nil
}

func infoNode(info model.Info) *yaml.Node {
	n := mapping()
	addScalar(n, "title", info.Title)
	if info.Description != "" {
		addScalar(n, "description", info.Description)
	}
	addScalar(n, "version", info.Version)
	return n
}

func componentsNode(s *model.Spec) *yaml.Node {
	comps := mapping()

	if len(s.Schemas) > 0 {
		schemas := mapping()
		for i := range s.Schemas {
			addNode(schemas, s.Schemas[i].Name, schemaNode(&s.Schemas[i]))
		}
		addNode(comps, "schemas", schemas)
	}

	if len(s.Parameters) > 0 {
		params := mapping()
		for i := range s.Parameters {
			addNode(params, s.Parameters[i].Name, parameterNode(&s.Parameters[i]))
		}
		addNode(comps, "parameters", params)
	}

	if len(s.Security) > 0 {
		schemes := mapping()
		for i := range s.Security {
			addNode(schemes, s.Security[i].Name, securitySchemeNode(&s.Security[i]))
		}
		addNode(comps, "securitySchemes", schemes)
	}

	return comps
}

func pathNode(p *model.Path) *yaml.Node {
	n := mapping()
	if len(p.Parameters) > 0 {
		params := sequence()
		for i := range p.Parameters {
			params.Content = append(params.Content, parameterNode(&p.Parameters[i]))
		}
		addNode(n, "parameters", params)
	}
	for i := range p.Operations {
		op := &p.Operations[i]
		addNode(n, strings.ToLower(string(op.Method)), operationNode(op))
	}
	addExtensions(n, p.Extensions)
	return n
}

func operationNode(op *model.Operation) *yaml.Node {
	n := mapping()
	if op.ID != "" {
		addScalar(n, "operationId", op.ID)
	}
	if op.Summary != "" {
		addScalar(n, "summary", op.Summary)
	}
	if op.Description != "" {
		addScalar(n, "description", op.Description)
	}
	if len(op.Tags) > 0 {
		tags := sequence()
		for _, t := range op.Tags {
			tags.Content = append(tags.Content, scalar(t))
		}
		addNode(n, "tags", tags)
	}
	if op.Deprecated {
		addBool(n, "deprecated", true)
	}
	if len(op.Parameters) > 0 {
		params := sequence()
		for i := range op.Parameters {
			params.Content = append(params.Content, parameterNode(&op.Parameters[i]))
		}
		addNode(n, "parameters", params)
	}
	if op.RequestBody != nil {
		addNode(n, "requestBody", requestBodyNode(op.RequestBody))
	}

	responses := mapping()
	for i := range op.Responses {
		addNode(responses, op.Responses[i].StatusCode, responseNode(&op.Responses[i]))
	}
	addNode(n, "responses", responses)

	if len(op.Security) > 0 {
		sec := sequence()
		for _, req := range op.Security {
			reqNode := mapping()
			scopes := sequence()
			for _, sc := range req.Scopes {
				scopes.Content = append(scopes.Content, scalar(sc))
			}
			addNode(reqNode, req.Name, scopes)
			sec.Content = append(sec.Content, reqNode)
		}
		addNode(n, "security", sec)
	}

	addExtensions(n, op.Extensions)
	return n
}

func parameterNode(p *model.Parameter) *yaml.Node {
	n := mapping()
	addScalar(n, "name", p.Name)
	addScalar(n, "in", string(p.In))
	if p.Description != "" {
		addScalar(n, "description", p.Description)
	}
	if p.Required {
		addBool(n, "required", true)
	}
	if p.Deprecated {
		addBool(n, "deprecated", true)
	}
	if p.Schema != nil {
		addNode(n, "schema", schemaNode(p.Schema))
	}
	return n
}

func requestBodyNode(rb *model.RequestBody) *yaml.Node {
	n := mapping()
	if rb.Description != "" {
		addScalar(n, "description", rb.Description)
	}
	if rb.Required {
		addBool(n, "required", true)
	}
	if len(rb.Content) > 0 {
		addNode(n, "content", contentNode(rb.Content))
	}
	return n
}

func responseNode(r *model.Response) *yaml.Node {
	n := mapping()
	addScalar(n, "description", r.Description)
	if len(r.Content) > 0 {
		addNode(n, "content", contentNode(r.Content))
	}
	if len(r.Headers) > 0 {
		headers := mapping()
		for i := range r.Headers {
			h := &r.Headers[i]
			hn := mapping()
			if h.Description != "" {
				addScalar(hn, "description", h.Description)
			}
			if h.Required {
				addBool(hn, "required", true)
			}
			if h.Schema != nil {
				addNode(hn, "schema", schemaNode(h.Schema))
			}
			addNode(headers, h.Name, hn)
		}
		addNode(n, "headers", headers)
	}
	return n
}

func contentNode(content []model.MediaTypeContent) *yaml.Node {
	n := mapping()
	for _, c := range content {
		mt := mapping()
		if c.Schema != nil {
			addNode(mt, "schema", schemaNode(c.Schema))
		}
		addNode(n, c.MediaType, mt)
	}
	return n
}

func schemaNode(s *model.Schema) *yaml.Node {
	n := mapping()
	if s == nil {
		return n
	}

	if s.Ref != "" {
		addScalar(n, "$ref", s.Ref)
		return n
	}

	if s.Type != "" {
		addScalar(n, "type", string(s.Type))
	}
	if s.Format != "" {
		addScalar(n, "format", s.Format)
	}
	if s.Description != "" {
		addScalar(n, "description", s.Description)
	}
	if s.Nullable {
		addBool(n, "nullable", true)
	}
	if s.Deprecated {
		addBool(n, "deprecated", true)
	}

	if len(s.Properties) > 0 {
		props := mapping()
		for _, p := range s.Properties {
			addNode(props, p.Name, schemaNode(p.Schema))
		}
		addNode(n, "properties", props)
	}
	if len(s.Required) > 0 {
		req := sequence()
		for _, r := range s.Required {
			req.Content = append(req.Content, scalar(r))
		}
		addNode(n, "required", req)
	}
	if s.Items != nil {
		addNode(n, "items", schemaNode(s.Items))
	}
	if s.AdditionalProperties != nil {
		addNode(n, "additionalProperties", schemaNode(s.AdditionalProperties))
	}
	if len(s.Enum) > 0 {
		enum := sequence()
		for _, e := range s.Enum {
			enum.Content = append(enum.Content, anyNode(e))
		}
		addNode(n, "enum", enum)
	}
	addComposition(n, "allOf", s.AllOf)
	addComposition(n, "oneOf", s.OneOf)
	addComposition(n, "anyOf", s.AnyOf)

	if s.Discriminator != nil {
		d := mapping()
		addScalar(d, "propertyName", s.Discriminator.PropertyName)
		if len(s.Discriminator.Mapping) > 0 {
			m := mapping()
			keys := sortedKeys(s.Discriminator.Mapping)
			for _, k := range keys {
				addScalar(m, k, s.Discriminator.Mapping[k])
			}
			addNode(d, "mapping", m)
		}
		addNode(n, "discriminator", d)
	}

	if s.Default != nil {
		addNode(n, "default", anyNode(s.Default))
	}
	if s.Example != nil {
		addNode(n, "example", anyNode(s.Example))
	}
	if s.Pattern != "" {
		addScalar(n, "pattern", s.Pattern)
	}
	if s.Minimum != nil {
		addNode(n, "minimum", anyNode(*s.Minimum))
	}
	if s.Maximum != nil {
		addNode(n, "maximum", anyNode(*s.Maximum))
	}
	if s.MinLength != nil {
		addNode(n, "minLength", anyNode(*s.MinLength))
	}
	if s.MaxLength != nil {
		addNode(n, "maxLength", anyNode(*s.MaxLength))
	}
	if s.MinItems != nil {
		addNode(n, "minItems", anyNode(*s.MinItems))
	}
	if s.MaxItems != nil {
		addNode(n, "maxItems", anyNode(*s.MaxItems))
	}
	if s.UniqueItems {
		addBool(n, "uniqueItems", true)
	}
	if s.MinProperties != nil {
		addNode(n, "minProperties", anyNode(*s.MinProperties))
	}
	if s.MaxProperties != nil {
		addNode(n, "maxProperties", anyNode(*s.MaxProperties))
	}

	return n
}

func addComposition(n *yaml.Node, key string, members []*model.Schema) {
	if len(members) == 0 {
		return
	}
	seq := sequence()
	for _, m := range members {
		seq.Content = append(seq.Content, schemaNode(m))
	}
	addNode(n, key, seq)
}

func securitySchemeNode(s *model.SecurityScheme) *yaml.Node {
	n := mapping()
	addScalar(n, "type", string(s.Type))
	if s.Description != "" {
		addScalar(n, "description", s.Description)
	}
	if s.In != "" {
		addScalar(n, "in", s.In)
	}
	if s.Type == model.SecurityTypeAPIKey {
		addScalar(n, "name", s.Name)
	}
	if s.Scheme != "" {
		addScalar(n, "scheme", s.Scheme)
	}
	if s.BearerFormat != "" {
		addScalar(n, "bearerFormat", s.BearerFormat)
	}
	if s.Flows != nil {
		flows := mapping()
		addFlow(flows, "implicit", s.Flows.Implicit)
		addFlow(flows, "password", s.Flows.Password)
		addFlow(flows, "clientCredentials", s.Flows.ClientCredentials)
		addFlow(flows, "authorizationCode", s.Flows.AuthorizationCode)
		addNode(n, "flows", flows)
	}
	return n
}

func addFlow(n *yaml.Node, key string, flow *model.OAuthFlow) {
	if flow == nil {
		return
	}
	f := mapping()
	if flow.AuthorizationURL != "" {
		addScalar(f, "authorizationUrl", flow.AuthorizationURL)
	}
	if flow.TokenURL != "" {
		addScalar(f, "tokenUrl", flow.TokenURL)
	}
	if flow.RefreshURL != "" {
		addScalar(f, "refreshUrl", flow.RefreshURL)
	}
	scopes := mapping()
	for _, k := range sortedKeys(flow.Scopes) {
		addScalar(scopes, k, flow.Scopes[k])
	}
	addNode(f, "scopes", scopes)
	addNode(n, key, f)
}

func addExtensions(n *yaml.Node, exts map[string]any) {
	for _, k := range sortedKeys(exts) {
		addNode(n, k, anyNode(exts[k]))
	}
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func anyNode(v any) *yaml.Node {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return scalar(fmt.Sprintf("%v", v))
	}
	return n
}

func addNode(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}

func addScalar(m *yaml.Node, key, value string) {
	m.Content = append(m.Content, scalar(key), scalar(value))
}

func addBool(m *yaml.Node, key string, value bool) {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"}
	if value {
		n.Value = "true"
	}
	m.Content = append(m.Content, scalar(key), n)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
