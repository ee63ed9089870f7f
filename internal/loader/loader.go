// Package loader reads interface-description files and turns them into the
// internal document model. Parsing happens here and nowhere else: the merge,
// split, and validation engines all operate on already-loaded files.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	"go.yaml.in/yaml/v4"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/model"
)

// SpecFile wraps a parsed document with its provenance. Spec is nil when the
// file could not be read or parsed; callers must check before merging.
type SpecFile struct {
	Path      string
	Raw       []byte
	Spec      *model.Spec
	IsBase    bool
	IsPart    bool
	PartName  string
	LineCount int

	// Err records the read or parse failure when Spec is nil.
	Err error
}

// Load reads and parses the file at path. Failure is non-fatal: the returned
// SpecFile always exists, with Spec nil and Err set when something went
// wrong. The file is classified as base until ClassifySet says otherwise.
func Load(path string) *SpecFile {
	f := &SpecFile{Path: path, IsBase: true}

	data, err := os.ReadFile(path)
	if err != nil {
		f.Err = fmt.Errorf("reading spec file: %w", err)
		return f
	}
	f.Raw = data
	f.LineCount = countLines(data)

	absPath, err := filepath.Abs(path)
	if err != nil {
		f.Err = fmt.Errorf("resolving absolute path: %w", err)
		return f
	}

	config := &datamodel.DocumentConfiguration{
		BasePath:            filepath.Dir(absPath),
		AllowFileReferences: true,
	}
	f.Spec, f.Err = parse(data, config)
	return f
}

// LoadBytes parses an in-memory document. The name is used only for
// provenance in diagnostics.
func LoadBytes(name string, data []byte) *SpecFile {
	f := &SpecFile{Path: name, IsBase: true, Raw: data, LineCount: countLines(data)}
	f.Spec, f.Err = parse(data, nil)
	return f
}

func parse(data []byte, config *datamodel.DocumentConfiguration) (*model.Spec, error) {
	doc, err := newDocument(data, config)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	version := doc.GetVersion()
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("unsupported document version: %s (only 3.x supported)", version)
	}

	docModel, buildErr := doc.BuildV3Model()
	if docModel != nil {
		return Transform(docModel), nil
	}

	// Part files legitimately reference component schemas that live in a
	// sibling file, and a dangling ref inside components.schemas makes the
	// build return no model at all. Stub the missing targets, rebuild, and
	// drop the stubs afterwards; reference nodes survive the transform as
	// Ref-only schemas either way.
	stubbed, stubs, stubErr := stubDanglingSchemaRefs(data)
	if stubErr != nil || len(stubs) == 0 {
		return nil, fmt.Errorf("building document model: %w", buildErr)
	}
	doc, err = newDocument(stubbed, config)
	if err != nil {
		return nil, fmt.Errorf("building document model: %w", buildErr)
	}
	docModel, _ = doc.BuildV3Model()
	if docModel == nil {
		return nil, fmt.Errorf("building document model: %w", buildErr)
	}

	spec := Transform(docModel)
	kept := spec.Schemas[:0]
	for _, s := range spec.Schemas {
		if !stubs[s.Name] {
			kept = append(kept, s)
		}
	}
	spec.Schemas = kept
	return spec, nil
}

func newDocument(data []byte, config *datamodel.DocumentConfiguration) (libopenapi.Document, error) {
	if config != nil {
		return libopenapi.NewDocumentWithConfiguration(data, config)
	}
	return libopenapi.NewDocument(data)
}

// stubDanglingSchemaRefs returns a copy of the document with an empty schema
// inserted under components.schemas for every locally-referenced schema name
// the document does not define, plus the set of inserted names. Both returns
// are nil when every local schema ref resolves.
func stubDanglingSchemaRefs(data []byte) ([]byte, map[string]bool, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil, nil
	}
	docNode := root.Content[0]

	defined := map[string]bool{}
	schemasNode := mappingValue(mappingValue(docNode, "components"), "schemas")
	if schemasNode != nil {
		for i := 0; i+1 < len(schemasNode.Content); i += 2 {
			defined[schemasNode.Content[i].Value] = true
		}
	}

	missing := map[string]bool{}
	collectDanglingRefs(docNode, defined, missing)
	if len(missing) == 0 {
		return nil, nil, nil
	}

	if schemasNode == nil {
		components := mappingValue(docNode, "components")
		if components == nil {
			components = &yaml.Node{Kind: yaml.MappingNode}
			docNode.Content = append(docNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: "components"}, components)
		}
		schemasNode = &yaml.Node{Kind: yaml.MappingNode}
		components.Content = append(components.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "schemas"}, schemasNode)
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		schemasNode.Content = append(schemasNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
	}

	out, err := yaml.Marshal(docNode)
	if err != nil {
		return nil, nil, err
	}
	return out, missing, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func collectDanglingRefs(node *yaml.Node, defined, missing map[string]bool) {
	if node == nil {
		return
	}
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value != "$ref" || node.Content[i+1].Kind != yaml.ScalarNode {
				continue
			}
			if name, ok := strings.CutPrefix(node.Content[i+1].Value, "#/components/schemas/"); ok && !defined[name] {
				missing[name] = true
			}
		}
	}
	for _, child := range node.Content {
		collectDanglingRefs(child, defined, missing)
	}
}

// Diagnostic returns the parse-failure finding for this file, or nil when
// the file parsed cleanly.
func (f *SpecFile) Diagnostic() *diag.Diagnostic {
	if f.Err == nil {
		return nil
	}
	d := diag.Error("load-parse-failure", "%v", f.Err)
	d.File = f.Path
	return &d
}

// PathCount returns the number of path items, zero when the model is absent.
func (f *SpecFile) PathCount() int {
	if f.Spec == nil {
		return 0
	}
	return len(f.Spec.Paths)
}

// SchemaCount returns the number of component schemas, zero when absent.
func (f *SpecFile) SchemaCount() int {
	if f.Spec == nil {
		return 0
	}
	return len(f.Spec.Schemas)
}

// ParameterCount returns the number of component parameters, zero when absent.
func (f *SpecFile) ParameterCount() int {
	if f.Spec == nil {
		return 0
	}
	return len(f.Spec.Parameters)
}

// OperationCount returns the number of operations, zero when absent.
func (f *SpecFile) OperationCount() int {
	if f.Spec == nil {
		return 0
	}
	return len(f.Spec.Operations)
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ClassifySet marks each file in a related set as base or part using the
// {base}_{part} naming convention. A file whose stem extends another file's
// stem with "_{part}" is a part of that file. When every file looks like a
// part, the file with the shortest name is promoted to base; this mirrors
// the historic tie-break rather than any principled rule.
func ClassifySet(files []*SpecFile) {
	for _, f := range files {
		f.IsBase = true
		f.IsPart = false
		f.PartName = ""
	}
	for _, f := range files {
		fs := stem(f.Path)
		for _, g := range files {
			if f == g {
				continue
			}
			gs := stem(g.Path)
			if strings.HasPrefix(fs, gs+"_") {
				f.IsBase = false
				f.IsPart = true
				f.PartName = strings.TrimPrefix(fs, gs+"_")
				break
			}
		}
	}

	if len(files) < 2 {
		return
	}
	for _, f := range files {
		if f.IsPart || !strings.Contains(stem(f.Path), "_") {
			return
		}
	}

	// Every file matches the part naming pattern and none anchors the set.
	shortest := files[0]
	for _, f := range files[1:] {
		if len(filepath.Base(f.Path)) < len(filepath.Base(shortest.Path)) {
			shortest = f
		}
	}
	baseStem := stem(shortest.Path)
	for _, f := range files {
		if f == shortest {
			continue
		}
		f.IsBase = false
		f.IsPart = true
		fs := stem(f.Path)
		if strings.HasPrefix(fs, baseStem+"_") {
			f.PartName = strings.TrimPrefix(fs, baseStem+"_")
		} else if i := strings.Index(fs, "_"); i >= 0 {
			f.PartName = fs[i+1:]
		}
	}
}

// DiscoverParts enumerates sibling files named {base}_{part}.{ext} next to
// the base file, in lexicographic order.
func DiscoverParts(basePath string) ([]string, error) {
	dir := filepath.Dir(basePath)
	baseStem := stem(basePath)
	ext := filepath.Ext(basePath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing part candidates: %w", err)
	}

	var parts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ext {
			continue
		}
		if strings.HasPrefix(stem(name), baseStem+"_") {
			parts = append(parts, filepath.Join(dir, name))
		}
	}
	sort.Strings(parts)
	return parts, nil
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte("\n"))
	if !bytes.HasSuffix(data, []byte("\n")) {
		n++
	}
	return n
}
