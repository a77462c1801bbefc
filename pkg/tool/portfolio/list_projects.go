package portfolio

import (
	"context"
	"fmt"
	"strings"

	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/genai"
)

// ListProjects exposes the portfolio project collection to the model, with an
// optional skill filter.
type ListProjects struct {
	repo repository.Repository
}

// NewListProjects creates a new list_projects tool
func NewListProjects(repo repository.Repository) *ListProjects {
	return &ListProjects{repo: repo}
}

func (l *ListProjects) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "list_projects",
				Description: "List portfolio projects from the database. Can filter by a specific skill.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"skill": {
							Type:        genai.TypeString,
							Description: "Filter projects by a specific skill (e.g. 'React').",
						},
					},
				},
			},
		},
	}
}

func (l *ListProjects) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	filters := []repository.Filter{repository.ActiveOnly()}
	if skill, ok := fc.Args["skill"].(string); ok && skill != "" {
		filters = append(filters, repository.WithSkill(skill))
	}

	projects, err := l.repo.ListProjects(ctx, filters...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects")
	}

	return &genai.FunctionResponse{
		ID:       fc.ID,
		Name:     fc.Name,
		Response: map[string]any{"result": formatProjects(projects)},
	}, nil
}

func (l *ListProjects) Prompt(ctx context.Context) string {
	return "Use the list_projects tool when asked about Scott's portfolio projects or what he has built."
}

func (l *ListProjects) Flags() []cli.Flag {
	return nil
}

// formatProjects formats the project list as a human-readable string
func formatProjects(projects []*model.Project) string {
	if len(projects) == 0 {
		return "No projects found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d project(s):\n\n", len(projects))
	for i, p := range projects {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Title)
		if p.Description != "" {
			fmt.Fprintf(&b, "   Description: %s\n", p.Description)
		}
		if len(p.Skills) > 0 {
			fmt.Fprintf(&b, "   Skills: %s\n", strings.Join(p.Skills, ", "))
		}
		if p.DemoURL != "" {
			fmt.Fprintf(&b, "   Demo: %s\n", p.DemoURL)
		}
		if p.GitURL != "" {
			fmt.Fprintf(&b, "   Repository: %s\n", p.GitURL)
		}
		b.WriteString("\n")
	}

	return b.String()
}
