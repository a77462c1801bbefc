package repository

import (
	"context"

	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

var ErrNotFound = goerr.New("not found")

// Filter is a function to filter projects in list operations
type Filter func(*model.Project) bool

// ActiveOnly keeps only projects marked as active
func ActiveOnly() Filter {
	return func(p *model.Project) bool {
		return p.IsActive
	}
}

// WithSkill keeps only projects that list the given skill
func WithSkill(skill string) Filter {
	return func(p *model.Project) bool {
		return p.HasSkill(skill)
	}
}

// Repository defines the interface for portfolio data persistence
type Repository interface {
	// PutProject saves a project to the repository
	PutProject(ctx context.Context, project *model.Project) error

	// GetProject retrieves a project by ID
	GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error)

	// ListProjects retrieves projects with optional filters
	ListProjects(ctx context.Context, filters ...Filter) ([]*model.Project, error)

	// PutVisit saves a guest visit record
	PutVisit(ctx context.Context, visit *model.GuestVisit) error

	// ListVisits retrieves guest visit records, newest first
	ListVisits(ctx context.Context, offset, limit int) ([]*model.GuestVisit, error)
}

func matchAll(p *model.Project, filters []Filter) bool {
	for _, f := range filters {
		if !f(p) {
			return false
		}
	}
	return true
}
