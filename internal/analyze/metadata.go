package analyze

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/homelend/docflow/internal/entity"
)

// metadataSchema describes the extraction-metadata sub-record as stored
// alongside a document's fields.
var metadataSchema = map[string]any{
	"type":     "object",
	"required": []any{"processed_at", "confidence", "edited"},
	"properties": map[string]any{
		"processed_at": map[string]any{"type": "string"},
		"confidence":   map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
		"edited":       map[string]any{"type": "boolean"},
	},
}

var compiledMetadataSchema = mustCompileSchema(metadataSchema)

func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("metadata.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	schema, err := compiler.Compile("metadata.json")
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// ParseMetadata validates raw metadata against the schema and decodes it.
func ParseMetadata(raw json.RawMessage) (*entity.ExtractionMetadata, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("metadata missing")
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	if err := compiledMetadataSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("metadata does not match schema: %w", err)
	}
	var meta entity.ExtractionMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &meta, nil
}
