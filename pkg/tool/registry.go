package tool

import (
	"context"
	"strings"

	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

// toolNotFoundMessage is fed back to the model as the tool result when it
// requests a name nothing in the registry declares. The turn continues; an
// unknown tool never aborts the conversation.
const toolNotFoundMessage = "Tool not found."

// Registry manages available tools for the LLM and dispatches function calls
// by declared name.
type Registry struct {
	tools     map[string]Tool
	allTools  []Tool
	toolSpecs []*genai.Tool
}

// New creates a new tool registry with the given tools
func New(tools ...Tool) *Registry {
	r := &Registry{
		tools:    make(map[string]Tool),
		allTools: tools,
	}

	for _, t := range tools {
		spec := t.Spec()
		if spec != nil && len(spec.FunctionDeclarations) > 0 {
			r.toolSpecs = append(r.toolSpecs, spec)
			for _, fd := range spec.FunctionDeclarations {
				r.tools[fd.Name] = t
			}
		}
	}

	return r
}

// Specs returns all tool specifications for Gemini function calling
func (r *Registry) Specs() []*genai.Tool {
	return r.toolSpecs
}

// Prompts returns all tool prompts concatenated
func (r *Registry) Prompts(ctx context.Context) string {
	var prompts []string
	for _, t := range r.allTools {
		if prompt := t.Prompt(ctx); prompt != "" {
			prompts = append(prompts, prompt)
		}
	}
	return strings.Join(prompts, "\n\n")
}

// Flags returns all tool flags combined
func (r *Registry) Flags() []cli.Flag {
	var flags []cli.Flag
	for _, t := range r.allTools {
		if toolFlags := t.Flags(); toolFlags != nil {
			flags = append(flags, toolFlags...)
		}
	}
	return flags
}

// Execute dispatches the function call to the tool declaring its name. An
// unknown name yields a fixed not-found result tagged with the call ID.
func (r *Registry) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	t, ok := r.tools[fc.Name]
	if !ok {
		logging.From(ctx).Warn("model requested unknown tool", "name", fc.Name)
		return &genai.FunctionResponse{
			ID:       fc.ID,
			Name:     fc.Name,
			Response: map[string]any{"result": toolNotFoundMessage},
		}, nil
	}

	return t.Execute(ctx, fc)
}
