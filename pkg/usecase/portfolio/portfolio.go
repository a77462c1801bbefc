package portfolio

import (
	"github.com/jscott-dev/meetmebot/pkg/repository"
)

// UseCase handles the portfolio's structured data: projects shown in the
// gallery and guest visits recorded at the gateway.
type UseCase struct {
	repo repository.Repository
}

// New creates a portfolio use case
func New(repo repository.Repository) *UseCase {
	return &UseCase{repo: repo}
}
