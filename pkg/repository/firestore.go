package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	projectCollection = "projects"
	visitCollection   = "guest_visits"
)

// firestoreRepo implements Repository interface using Firestore
type firestoreRepo struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (Repository, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	return &firestoreRepo{client: client}, nil
}

func (r *firestoreRepo) PutProject(ctx context.Context, project *model.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}
	if project.ID == "" {
		project.ID = model.NewProjectID()
	}

	_, err := r.client.Collection(projectCollection).Doc(string(project.ID)).Set(ctx, project)
	if err != nil {
		return goerr.Wrap(err, "failed to put project", goerr.V("id", project.ID))
	}
	return nil
}

func (r *firestoreRepo) GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	doc, err := r.client.Collection(projectCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get project", goerr.V("id", id))
	}

	var project model.Project
	if err := doc.DataTo(&project); err != nil {
		return nil, goerr.Wrap(err, "failed to decode project", goerr.V("id", id))
	}

	return &project, nil
}

func (r *firestoreRepo) ListProjects(ctx context.Context, filters ...Filter) ([]*model.Project, error) {
	iter := r.client.Collection(projectCollection).OrderBy("CreatedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var projects []*model.Project
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate projects")
		}

		var project model.Project
		if err := doc.DataTo(&project); err != nil {
			return nil, goerr.Wrap(err, "failed to decode project", goerr.V("doc", doc.Ref.ID))
		}

		if matchAll(&project, filters) {
			projects = append(projects, &project)
		}
	}

	return projects, nil
}

func (r *firestoreRepo) PutVisit(ctx context.Context, visit *model.GuestVisit) error {
	if err := visit.Validate(); err != nil {
		return err
	}
	if visit.ID == "" {
		visit.ID = model.NewVisitID()
	}

	_, err := r.client.Collection(visitCollection).Doc(string(visit.ID)).Set(ctx, visit)
	if err != nil {
		return goerr.Wrap(err, "failed to put visit", goerr.V("id", visit.ID))
	}
	return nil
}

func (r *firestoreRepo) ListVisits(ctx context.Context, offset, limit int) ([]*model.GuestVisit, error) {
	query := r.client.Collection(visitCollection).OrderBy("VisitedAt", firestore.Desc)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var visits []*model.GuestVisit
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate visits")
		}

		var visit model.GuestVisit
		if err := doc.DataTo(&visit); err != nil {
			return nil, goerr.Wrap(err, "failed to decode visit", goerr.V("doc", doc.Ref.ID))
		}
		visits = append(visits, &visit)
	}

	return visits, nil
}
