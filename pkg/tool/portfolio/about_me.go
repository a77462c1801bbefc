package portfolio

import (
	"context"

	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

// defaultAboutMe is the static fact sheet served when no override is
// configured. It covers the objective/goals questions that do not need a
// knowledge-base lookup.
const defaultAboutMe = `OBJECTIVE: To leverage agentic AI and cloud architecture to build scalable, intelligent systems.
GOALS: Master LLM tooling, contribute to open source, build a fully autonomous coding agent.
FUN FACTS: Loves hiking, brews his own coffee, and once met Linus Torvalds.`

// AboutMe is a static fact lookup: objective, goals, and fun facts.
type AboutMe struct {
	content string
}

type AboutMeOption func(*AboutMe)

// WithContent overrides the default fact sheet
func WithContent(content string) AboutMeOption {
	return func(a *AboutMe) {
		a.content = content
	}
}

// NewAboutMe creates a new about_me tool
func NewAboutMe(opts ...AboutMeOption) *AboutMe {
	a := &AboutMe{content: defaultAboutMe}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AboutMe) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "about_me",
				Description: "Get general facts, personal and professional goals, and the objective statement of the candidate.",
			},
		},
	}
}

func (a *AboutMe) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	return &genai.FunctionResponse{
		ID:       fc.ID,
		Name:     fc.Name,
		Response: map[string]any{"result": a.content},
	}, nil
}

func (a *AboutMe) Prompt(ctx context.Context) string {
	return ""
}

func (a *AboutMe) Flags() []cli.Flag {
	return nil
}
