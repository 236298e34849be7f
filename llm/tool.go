package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Tool defines a tool the model may invoke.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"` // JSON Schema
}

// SchemaFor generates a JSON Schema for T, suitable for Tool.Parameters.
// Struct tags (json, jsonschema) control the generated schema.
func SchemaFor[T any]() (json.RawMessage, error) {
	reflector := jsonschema.Reflector{
		// Inline the schema rather than emitting $ref/$defs indirection;
		// LLM APIs expect a self-contained parameters object.
		DoNotReference: true,
	}

	var v T
	schema := reflector.Reflect(&v)
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal tool schema: %w", err)
	}
	return data, nil
}

// NewTool builds a Tool whose parameter schema is generated from T.
func NewTool[T any](name, description string) (Tool, error) {
	params, err := SchemaFor[T]()
	if err != nil {
		return Tool{}, err
	}
	return Tool{Name: name, Description: description, Parameters: params}, nil
}
