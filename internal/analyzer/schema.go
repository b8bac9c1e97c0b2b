package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildAnalysisJSONSchema describes the analysis object as a JSON-Schema map.
// Only types are checked; missing fields are defaulted after decoding.
func BuildAnalysisJSONSchema() map[string]any {
	text := map[string]any{"type": []any{"string", "null"}}
	textList := map[string]any{
		"type":  []any{"array", "null"},
		"items": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":           text,
			"documentType":      text,
			"whatItMeans":       text,
			"overallAssessment": text,
			"complexity":        text,
			"riskLevel":         text,
			"aiProvider":        text,
			"keyPoints":         textList,
			"redFlags":          textList,
			"yourRights":        textList,
			"yourObligations":   textList,
			"beforeSigning":     textList,
			"potentialRisks": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"risk":   text,
						"impact": text,
						"advice": text,
					},
				},
			},
		},
	}
}

var (
	analysisSchemaOnce sync.Once
	analysisSchema     *jsonschema.Schema
	analysisSchemaErr  error
)

func compiledAnalysisSchema() (*jsonschema.Schema, error) {
	analysisSchemaOnce.Do(func() {
		b, err := json.Marshal(BuildAnalysisJSONSchema())
		if err != nil {
			analysisSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analysis.json", bytes.NewReader(b)); err != nil {
			analysisSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		analysisSchema, analysisSchemaErr = compiler.Compile("analysis.json")
	})
	return analysisSchema, analysisSchemaErr
}

// ValidateAnalysisJSON checks a decoded JSON value against the analysis schema.
func ValidateAnalysisJSON(v any) error {
	schema, err := compiledAnalysisSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
