package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/repository"
	"github.com/m-mizutani/gt"
)

func TestProjectCRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	project := &model.Project{
		Title:    "Portfolio Site",
		Skills:   []string{"React", "AWS", "AI"},
		IsActive: true,
	}
	gt.NoError(t, repo.PutProject(ctx, project))
	gt.V(t, project.ID).NotEqual("")

	got := gt.R1(repo.GetProject(ctx, project.ID)).NoError(t)
	gt.Equal(t, got.Title, "Portfolio Site")
	gt.Equal(t, got.Skills, []string{"React", "AWS", "AI"})

	// Update
	got.Description = "My personal portfolio"
	gt.NoError(t, repo.PutProject(ctx, got))
	updated := gt.R1(repo.GetProject(ctx, project.ID)).NoError(t)
	gt.Equal(t, updated.Description, "My personal portfolio")

	_, err := repo.GetProject(ctx, model.ProjectID("no-such-id"))
	gt.Error(t, err)
}

func TestProjectValidation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	err := repo.PutProject(ctx, &model.Project{})
	gt.Error(t, err)
}

func TestListProjectsFilters(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	gt.NoError(t, repo.PutProject(ctx, &model.Project{
		Title:    "Portfolio Site",
		Skills:   []string{"React", "AWS Amplify", "AI"},
		IsActive: true,
	}))
	gt.NoError(t, repo.PutProject(ctx, &model.Project{
		Title:    "E-Commerce App",
		Skills:   []string{"Vue", "Node", "Stripe"},
		IsActive: true,
	}))
	gt.NoError(t, repo.PutProject(ctx, &model.Project{
		Title:    "Old Prototype",
		Skills:   []string{"React"},
		IsActive: false,
	}))

	all := gt.R1(repo.ListProjects(ctx)).NoError(t)
	gt.A(t, all).Length(3)

	active := gt.R1(repo.ListProjects(ctx, repository.ActiveOnly())).NoError(t)
	gt.A(t, active).Length(2)

	// Skill filter is case-insensitive
	react := gt.R1(repo.ListProjects(ctx, repository.ActiveOnly(), repository.WithSkill("react"))).NoError(t)
	gt.A(t, react).Length(1)
	gt.Equal(t, react[0].Title, "Portfolio Site")
}

func TestVisits(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		gt.NoError(t, repo.PutVisit(ctx, &model.GuestVisit{
			Email:     email,
			VisitedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	gt.Error(t, repo.PutVisit(ctx, &model.GuestVisit{}))

	// Newest first
	visits := gt.R1(repo.ListVisits(ctx, 0, 0)).NoError(t)
	gt.A(t, visits).Length(3)
	gt.Equal(t, visits[0].Email, "c@example.com")

	paged := gt.R1(repo.ListVisits(ctx, 1, 1)).NoError(t)
	gt.A(t, paged).Length(1)
	gt.Equal(t, paged[0].Email, "b@example.com")

	empty := gt.R1(repo.ListVisits(ctx, 10, 0)).NoError(t)
	gt.A(t, empty).Length(0)
}
