package render

import (
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/mwalczyk/oasc/internal/model"
)

// Fragment renderers produce the YAML form of a single section value. The
// merge engine diffs these when two files disagree about the same key.

func SchemaFragment(s *model.Schema) string {
	return encodeFragment(schemaNode(s))
}

func PathFragment(p *model.Path) string {
	return encodeFragment(pathNode(p))
}

func ParameterFragment(p *model.Parameter) string {
	return encodeFragment(parameterNode(p))
}

func encodeFragment(n *yaml.Node) string {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return ""
	}
	if err := enc.Close(); err != nil {
		return ""
	}
	return sb.String()
}
