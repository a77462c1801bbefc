package portfolio

import (
	"context"
	"time"

	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// RecordVisit stores a guest's email submitted at the gateway
func (uc *UseCase) RecordVisit(ctx context.Context, email string) (*model.GuestVisit, error) {
	visit := &model.GuestVisit{
		ID:        model.NewVisitID(),
		Email:     email,
		VisitedAt: time.Now().UTC(),
	}

	if err := uc.repo.PutVisit(ctx, visit); err != nil {
		return nil, goerr.Wrap(err, "failed to record visit")
	}

	logging.From(ctx).Info("recorded guest visit", "email", email)
	return visit, nil
}

// ListVisits returns recorded guest visits, newest first
func (uc *UseCase) ListVisits(ctx context.Context, offset, limit int) ([]*model.GuestVisit, error) {
	visits, err := uc.repo.ListVisits(ctx, offset, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list visits")
	}
	return visits, nil
}
