package tools

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"

	"github.com/petasbytes/dungeon-tools/internal/game"
)

// Function executes a tool. gc is the registry's current context and may be nil.
type Function func(ctx context.Context, gc *game.Context, input json.RawMessage) (string, error)

// ToolDefinition is a tool's descriptor plus its implementation.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    Function
}

// GenerateSchema derives an object schema from T. Fields without omitempty
// are required; descriptions and enums come from struct tags.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// required returns the schema's required list, never nil.
func (d ToolDefinition) required() []string {
	if d.InputSchema == nil || len(d.InputSchema.Required) == 0 {
		return []string{}
	}
	return append([]string(nil), d.InputSchema.Required...)
}

func (d ToolDefinition) properties() any {
	if d.InputSchema == nil || d.InputSchema.Properties == nil {
		return map[string]any{}
	}
	return d.InputSchema.Properties
}

// AnthropicParam renders the definition for the Messages API.
func (d ToolDefinition) AnthropicParam() anthropic.ToolUnionParam {
	return anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
		Name:        d.Name,
		Description: anthropic.String(d.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties:  d.properties(),
			ExtraFields: map[string]any{"required": d.required()},
		},
	}}
}

// FunctionSpec is the function-calling descriptor shape:
// {"type":"function","function":{"name","description","parameters"}}.
type FunctionSpec struct {
	Type     string       `json:"type"`
	Function FunctionDecl `json:"function"`
}

type FunctionDecl struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

type Parameters struct {
	Type       string   `json:"type"`
	Properties any      `json:"properties"`
	Required   []string `json:"required"`
}

// Spec renders the definition as a FunctionSpec.
func (d ToolDefinition) Spec() FunctionSpec {
	return FunctionSpec{
		Type: "function",
		Function: FunctionDecl{
			Name:        d.Name,
			Description: d.Description,
			Parameters: Parameters{
				Type:       "object",
				Properties: d.properties(),
				Required:   d.required(),
			},
		},
	}
}
