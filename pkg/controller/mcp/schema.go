package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// convertGenaiToJSONSchema converts a Gemini genai.Schema to JSON Schema so
// the tool can be declared over MCP
func convertGenaiToJSONSchema(schema *genai.Schema) (*jsonschema.Schema, error) {
	if schema == nil {
		return &jsonschema.Schema{Type: "object"}, nil
	}

	jsonSchema := &jsonschema.Schema{}

	// Map type
	switch schema.Type {
	case genai.TypeObject:
		jsonSchema.Type = "object"
	case genai.TypeString:
		jsonSchema.Type = "string"
	case genai.TypeNumber, genai.TypeInteger:
		jsonSchema.Type = "number"
	case genai.TypeBoolean:
		jsonSchema.Type = "boolean"
	case genai.TypeArray:
		jsonSchema.Type = "array"
	case genai.TypeUnspecified:
		// leave unset
	default:
		return nil, goerr.New("unsupported schema type", goerr.V("type", schema.Type))
	}

	// Map description
	if schema.Description != "" {
		jsonSchema.Description = schema.Description
	}

	// Map enum values
	if len(schema.Enum) > 0 {
		jsonSchema.Enum = make([]any, len(schema.Enum))
		for i, v := range schema.Enum {
			jsonSchema.Enum[i] = v
		}
	}

	// Map properties for object type
	if len(schema.Properties) > 0 {
		jsonSchema.Properties = make(map[string]*jsonschema.Schema)
		for name, propSchema := range schema.Properties {
			converted, err := convertGenaiToJSONSchema(propSchema)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to convert property schema",
					goerr.V("property", name))
			}
			jsonSchema.Properties[name] = converted
		}
	}

	// Map required fields
	if len(schema.Required) > 0 {
		jsonSchema.Required = schema.Required
	}

	// Map items for array type
	if schema.Items != nil {
		converted, err := convertGenaiToJSONSchema(schema.Items)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert items schema")
		}
		jsonSchema.Items = converted
	}

	return jsonSchema, nil
}
