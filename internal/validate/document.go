package validate

import (
	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi-validator/schema_validation"

	"github.com/mwalczyk/oasc/internal/diag"
	"github.com/mwalczyk/oasc/internal/loader"
)

// RunFile validates a loaded specification file. On top of the model rule
// battery it checks the raw document against the OpenAPI meta-schema, which
// catches structural problems the lenient parser tolerates. Meta-schema
// findings only participate at Standard tier and above.
func RunFile(f *loader.SpecFile, tier Tier) []diag.Diagnostic {
	if f == nil {
		return nil
	}
	if d := f.Diagnostic(); d != nil {
		return []diag.Diagnostic{*d}
	}
	if tier == TierNone {
		return nil
	}

	var out []diag.Diagnostic
	if len(f.Raw) > 0 {
		out = append(out, validateMetaSchema(f)...)
	}
	out = append(out, Run(f.Spec, tier)...)
	return out
}

func validateMetaSchema(f *loader.SpecFile) []diag.Diagnostic {
	doc, err := libopenapi.NewDocument(f.Raw)
	if err != nil {
		// Load already surfaced parse failures; nothing more to add here.
		return nil
	}

	valid, errs := schema_validation.ValidateOpenAPIDocument(doc)
	if valid {
		return nil
	}

	var out []diag.Diagnostic
	for _, e := range errs {
		if e == nil {
			continue
		}
		d := diag.Error("structure-meta-schema", "%s", e.Message)
		d.File = f.Path
		d.Line = e.SpecLine
		d.Column = e.SpecCol
		d.Context = e.Reason
		if e.HowToFix != "" {
			d.Suggestions = []string{e.HowToFix}
		}
		out = append(out, d)
	}
	return out
}
