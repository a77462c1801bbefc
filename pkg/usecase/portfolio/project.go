package portfolio

import (
	"context"
	"time"

	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// CreateProjectInput contains the fields for a new project
type CreateProjectInput struct {
	Title       string
	Description string
	ImageURL    string
	DemoURL     string
	GitURL      string
	Skills      []string
	IsActive    bool
}

// CreateProject adds a new project to the portfolio
func (uc *UseCase) CreateProject(ctx context.Context, input CreateProjectInput) (*model.Project, error) {
	now := time.Now().UTC()
	project := &model.Project{
		ID:          model.NewProjectID(),
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		DemoURL:     input.DemoURL,
		GitURL:      input.GitURL,
		Skills:      input.Skills,
		IsActive:    input.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.PutProject(ctx, project); err != nil {
		return nil, goerr.Wrap(err, "failed to create project")
	}

	return project, nil
}

// UpdateProjectInput contains the fields to change on an existing project.
// Nil fields are left untouched.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	ImageURL    *string
	DemoURL     *string
	GitURL      *string
	Skills      []string
	IsActive    *bool
}

// UpdateProject applies a partial update to a project
func (uc *UseCase) UpdateProject(ctx context.Context, id model.ProjectID, input UpdateProjectInput) (*model.Project, error) {
	project, err := uc.repo.GetProject(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project for update", goerr.V("id", id))
	}

	if input.Title != nil {
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.ImageURL != nil {
		project.ImageURL = *input.ImageURL
	}
	if input.DemoURL != nil {
		project.DemoURL = *input.DemoURL
	}
	if input.GitURL != nil {
		project.GitURL = *input.GitURL
	}
	if input.Skills != nil {
		project.Skills = input.Skills
	}
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}
	project.UpdatedAt = time.Now().UTC()

	if err := uc.repo.PutProject(ctx, project); err != nil {
		return nil, goerr.Wrap(err, "failed to update project", goerr.V("id", id))
	}

	return project, nil
}

// ListProjects returns projects, optionally restricted to active ones and to
// a specific skill
func (uc *UseCase) ListProjects(ctx context.Context, activeOnly bool, skill string) ([]*model.Project, error) {
	var filters []repository.Filter
	if activeOnly {
		filters = append(filters, repository.ActiveOnly())
	}
	if skill != "" {
		filters = append(filters, repository.WithSkill(skill))
	}

	projects, err := uc.repo.ListProjects(ctx, filters...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects")
	}

	return projects, nil
}
