package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// memoryRepo implements Repository in process memory. Used by tests and by
// the local chat command when no Firestore project is configured.
type memoryRepo struct {
	mu       sync.RWMutex
	projects map[model.ProjectID]*model.Project
	visits   []*model.GuestVisit
}

// NewMemory creates a new in-memory repository
func NewMemory() Repository {
	return &memoryRepo{
		projects: make(map[model.ProjectID]*model.Project),
	}
}

func copyProject(p *model.Project) *model.Project {
	copied := *p
	if p.Skills != nil {
		copied.Skills = make([]string, len(p.Skills))
		copy(copied.Skills, p.Skills)
	}
	return &copied
}

func (r *memoryRepo) PutProject(ctx context.Context, project *model.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}
	if project.ID == "" {
		project.ID = model.NewProjectID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = copyProject(project)
	return nil
}

func (r *memoryRepo) GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
	}
	return copyProject(project), nil
}

func (r *memoryRepo) ListProjects(ctx context.Context, filters ...Filter) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var projects []*model.Project
	for _, p := range r.projects {
		if matchAll(p, filters) {
			projects = append(projects, copyProject(p))
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return projects, nil
}

func (r *memoryRepo) PutVisit(ctx context.Context, visit *model.GuestVisit) error {
	if err := visit.Validate(); err != nil {
		return err
	}
	if visit.ID == "" {
		visit.ID = model.NewVisitID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *visit
	r.visits = append(r.visits, &copied)
	return nil
}

func (r *memoryRepo) ListVisits(ctx context.Context, offset, limit int) ([]*model.GuestVisit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]*model.GuestVisit, len(r.visits))
	copy(sorted, r.visits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].VisitedAt.After(sorted[j].VisitedAt)
	})

	if offset >= len(sorted) {
		return nil, nil
	}
	sorted = sorted[offset:]
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	result := make([]*model.GuestVisit, len(sorted))
	for i, v := range sorted {
		copied := *v
		result[i] = &copied
	}
	return result, nil
}
