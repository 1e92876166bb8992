package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"handymandy-backend-go/internal/db"
	"handymandy-backend-go/internal/models"
)

// requestService implements RequestService.
type requestService struct {
	gateway  *db.Gateway
	requests db.RequestRepository
	blobs    db.BlobStore
	logger   *zap.Logger
}

// NewRequestService creates a RequestService over the gateway, the requests
// repository, and the blob store.
func NewRequestService(gateway *db.Gateway, requests db.RequestRepository, blobs db.BlobStore, logger *zap.Logger) RequestService {
	return &requestService{
		gateway:  gateway,
		requests: requests,
		blobs:    blobs,
		logger:   logger,
	}
}

// openRequestFilters builds the conjunctive predicate set for browsing:
// status == Open always, category/location only when restricted.
func openRequestFilters(category, location db.FilterValue) []db.Filter {
	filters := []db.Filter{
		{Field: "status", Op: db.FilterEq, Value: string(models.RequestOpen)},
	}
	if v, ok := category.Get(); ok {
		filters = append(filters, db.Filter{Field: "category", Op: db.FilterEq, Value: v})
	}
	if v, ok := location.Get(); ok {
		filters = append(filters, db.Filter{Field: "location", Op: db.FilterEq, Value: v})
	}
	return filters
}

func (s *requestService) ListOpen(ctx context.Context, opts RequestListOptions) (*RequestPage, error) {
	result, err := s.gateway.List(ctx, db.CollectionRequests,
		openRequestFilters(opts.Category, opts.Location),
		opts.Sort,
		db.Page{Number: opts.Page, Size: opts.PageSize})
	if err != nil {
		return nil, err
	}

	items := make([]*models.ServiceRequest, 0, len(result.Items))
	for _, doc := range result.Items {
		items = append(items, models.RequestFromRecord(doc.ID, doc.Data))
	}
	return &RequestPage{Items: items, TotalItems: result.TotalItems}, nil
}

func (s *requestService) Get(ctx context.Context, id string) (*models.ServiceRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// Absence is not an error here; callers branch on presence.
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

func (s *requestService) ListByOwner(ctx context.Context, ownerID string) ([]*models.ServiceRequest, error) {
	if ownerID == "" {
		return nil, errors.New("owner id cannot be empty")
	}
	docs, err := s.gateway.ListAll(ctx, db.CollectionRequests, []db.Filter{
		{Field: "userId", Op: db.FilterEq, Value: ownerID},
	})
	if err != nil {
		return nil, err
	}

	items := make([]*models.ServiceRequest, 0, len(docs))
	for _, doc := range docs {
		items = append(items, models.RequestFromRecord(doc.ID, doc.Data))
	}
	return items, nil
}

func (s *requestService) Categories(ctx context.Context) ([]string, error) {
	return s.gateway.Distinct(ctx, db.CollectionRequests, "category",
		openRequestFilters(db.AnyValue(), db.AnyValue()))
}

func (s *requestService) Locations(ctx context.Context) ([]string, error) {
	return s.gateway.Distinct(ctx, db.CollectionRequests, "location",
		openRequestFilters(db.AnyValue(), db.AnyValue()))
}

// Create is a two-phase write: insert the record, then upload the image and
// patch the retrieval reference in. The phases of one call run strictly in
// order, but there is no transaction across them: an upload or patch failure
// leaves the inserted record standing without an image. The generated id is
// returned alongside the error in that case so callers can still reference
// the record.
func (s *requestService) Create(ctx context.Context, req *models.ServiceRequest, image io.Reader) (string, error) {
	req.Status = models.RequestOpen

	id, err := s.requests.Create(ctx, req)
	if err != nil {
		return "", err
	}

	if image == nil {
		return id, nil
	}

	imageURL, err := s.blobs.Upload(ctx, db.CollectionRequests+"/"+id, image)
	if err != nil {
		s.logger.Warn("request created but image upload failed",
			zap.String("requestID", id), zap.Error(err))
		return id, err
	}

	if err := s.requests.AttachImage(ctx, id, imageURL); err != nil {
		s.logger.Warn("request created but image patch failed",
			zap.String("requestID", id), zap.Error(err))
		return id, err
	}
	return id, nil
}

func (s *requestService) Close(ctx context.Context, id string) error {
	if err := s.requests.SetStatus(ctx, id, models.RequestClosed); err != nil {
		return fmt.Errorf("closing request: %w", err)
	}
	return nil
}
