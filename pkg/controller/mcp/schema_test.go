package mcp

import (
	"testing"

	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

func TestConvertGenaiToJSONSchema(t *testing.T) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"query": {
				Type:        genai.TypeString,
				Description: "The search query",
			},
			"limit": {
				Type: genai.TypeInteger,
			},
			"tags": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"query"},
	}

	converted := gt.R1(convertGenaiToJSONSchema(schema)).NoError(t)

	gt.Equal(t, converted.Type, "object")
	gt.Equal(t, converted.Required, []string{"query"})
	gt.Equal(t, converted.Properties["query"].Type, "string")
	gt.Equal(t, converted.Properties["query"].Description, "The search query")
	gt.Equal(t, converted.Properties["limit"].Type, "number")
	gt.Equal(t, converted.Properties["tags"].Type, "array")
	gt.Equal(t, converted.Properties["tags"].Items.Type, "string")
}

func TestConvertNilSchema(t *testing.T) {
	converted := gt.R1(convertGenaiToJSONSchema(nil)).NoError(t)
	gt.Equal(t, converted.Type, "object")
}

func TestConvertEnum(t *testing.T) {
	schema := &genai.Schema{
		Type: genai.TypeString,
		Enum: []string{"active", "all"},
	}

	converted := gt.R1(convertGenaiToJSONSchema(schema)).NoError(t)
	gt.A(t, converted.Enum).Length(2)
	gt.Equal(t, converted.Enum[0], any("active"))
}
