package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidProject = goerr.New("invalid project")
	ErrInvalidVisit   = goerr.New("invalid guest visit")
)

type ProjectID string

// NewProjectID generates a new unique ProjectID
func NewProjectID() ProjectID {
	return ProjectID(uuid.New().String())
}

// Project is a portfolio entry shown in the gallery and returned by the
// list_projects tool.
type Project struct {
	ID          ProjectID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	DemoURL     string    `json:"demoUrl"`
	GitURL      string    `json:"gitUrl"`
	Skills      []string  `json:"skills"`
	IsActive    bool      `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks if the project has the required fields
func (p *Project) Validate() error {
	if p.Title == "" {
		return goerr.Wrap(ErrInvalidProject, "title is empty")
	}
	return nil
}

// HasSkill reports whether the project lists the given skill,
// case-insensitively.
func (p *Project) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

type VisitID string

// NewVisitID generates a new unique VisitID
func NewVisitID() VisitID {
	return VisitID(uuid.New().String())
}

// GuestVisit records a guest leaving their email at the gateway.
type GuestVisit struct {
	ID        VisitID   `json:"id"`
	Email     string    `json:"email"`
	VisitedAt time.Time `json:"visitedAt"`
}

// Validate checks if the visit has the required fields
func (v *GuestVisit) Validate() error {
	if v.Email == "" {
		return goerr.Wrap(ErrInvalidVisit, "email is empty")
	}
	return nil
}
