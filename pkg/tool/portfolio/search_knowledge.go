package portfolio

import (
	"context"

	"github.com/jscott-dev/meetmebot/pkg/service/knowledge"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

// SearchKnowledge answers free-form questions about Scott from the embedded
// knowledge base (resume, bio, project write-ups).
type SearchKnowledge struct {
	svc *knowledge.Service
}

// NewSearchKnowledge creates a new search_knowledge tool
func NewSearchKnowledge(svc *knowledge.Service) *SearchKnowledge {
	return &SearchKnowledge{svc: svc}
}

func (s *SearchKnowledge) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "search_knowledge",
				Description: "Search the knowledge base for information about Scott's work history, education, skills, and background. Use this to answer any factual question about him.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {
							Type:        genai.TypeString,
							Description: "The specific topic to search for in the knowledge base.",
						},
					},
					Required: []string{"query"},
				},
			},
		},
	}
}

func (s *SearchKnowledge) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	query, ok := fc.Args["query"].(string)
	if !ok || query == "" {
		return nil, goerr.New("query is required", goerr.V("args", fc.Args))
	}

	// Search never errors; failures come back as descriptive text so the
	// model can relay or rephrase them.
	result := s.svc.Search(ctx, query)

	return &genai.FunctionResponse{
		ID:       fc.ID,
		Name:     fc.Name,
		Response: map[string]any{"result": result},
	}, nil
}

func (s *SearchKnowledge) Prompt(ctx context.Context) string {
	return "Use the search_knowledge tool for any question about Scott's resume, experience, education, or skills before answering."
}

func (s *SearchKnowledge) Flags() []cli.Flag {
	return nil
}
