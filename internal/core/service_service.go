package core

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"handymandy-backend-go/internal/db"
	"handymandy-backend-go/internal/models"
)

// serviceListingService implements ServiceListingService.
type serviceListingService struct {
	gateway  *db.Gateway
	services db.ServiceRepository
	details  db.ServiceDetailRepository
	blobs    db.BlobStore
	logger   *zap.Logger
}

// NewServiceListingService creates a ServiceListingService over the gateway,
// the two service repositories, and the blob store.
func NewServiceListingService(
	gateway *db.Gateway,
	services db.ServiceRepository,
	details db.ServiceDetailRepository,
	blobs db.BlobStore,
	logger *zap.Logger,
) ServiceListingService {
	return &serviceListingService{
		gateway:  gateway,
		services: services,
		details:  details,
		blobs:    blobs,
		logger:   logger,
	}
}

// serviceFilters builds the predicate set for browsing services. Services
// have no open/closed notion; the category predicate is array membership in
// service_type.
func serviceFilters(category, location db.FilterValue) []db.Filter {
	var filters []db.Filter
	if v, ok := category.Get(); ok {
		filters = append(filters, db.Filter{Field: "service_type", Op: db.FilterArrayContains, Value: v})
	}
	if v, ok := location.Get(); ok {
		filters = append(filters, db.Filter{Field: "location", Op: db.FilterEq, Value: v})
	}
	return filters
}

func (s *serviceListingService) List(ctx context.Context, opts ServiceListOptions) (*ServicePage, error) {
	result, err := s.gateway.List(ctx, db.CollectionServices,
		serviceFilters(opts.Category, opts.Location),
		opts.Sort,
		db.Page{Number: opts.Page, Size: opts.PageSize})
	if err != nil {
		return nil, err
	}

	items := make([]*models.Service, 0, len(result.Items))
	for _, doc := range result.Items {
		items = append(items, models.ServiceFromRecord(doc.ID, doc.Data))
	}
	return &ServicePage{Items: items, TotalItems: result.TotalItems}, nil
}

func (s *serviceListingService) Get(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return svc, nil
}

func (s *serviceListingService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Service, error) {
	if ownerID == "" {
		return nil, errors.New("owner id cannot be empty")
	}
	docs, err := s.gateway.ListAll(ctx, db.CollectionServices, []db.Filter{
		{Field: "userId", Op: db.FilterEq, Value: ownerID},
	})
	if err != nil {
		return nil, err
	}

	items := make([]*models.Service, 0, len(docs))
	for _, doc := range docs {
		items = append(items, models.ServiceFromRecord(doc.ID, doc.Data))
	}
	return items, nil
}

// Categories collects every tag appearing in any service_type array; unlike
// requests there is no status to disqualify records.
func (s *serviceListingService) Categories(ctx context.Context) ([]string, error) {
	return s.gateway.Distinct(ctx, db.CollectionServices, "service_type", nil)
}

func (s *serviceListingService) Locations(ctx context.Context) ([]string, error) {
	return s.gateway.Distinct(ctx, db.CollectionServices, "location", nil)
}

// CreateService inserts the base record and back-fills the generated id into
// it. The descriptive detail record is a separate, subsequent CreateDetail
// call against its own collection.
func (s *serviceListingService) CreateService(ctx context.Context, svc *models.Service) (string, error) {
	if len(svc.ServiceTypes) == 0 {
		return "", errors.New("service must carry at least one service type")
	}

	id, err := s.services.Create(ctx, svc)
	if err != nil {
		return "", err
	}
	if err := s.services.SetServiceID(ctx, id); err != nil {
		s.logger.Warn("service created but id back-fill failed",
			zap.String("serviceID", id), zap.Error(err))
		return id, err
	}
	return id, nil
}

// CreateDetail follows the same two-phase insert-then-patch pattern as
// request creation: a failed upload or patch leaves the inserted detail
// record standing without an image.
func (s *serviceListingService) CreateDetail(ctx context.Context, detail *models.ServiceDetail, image io.Reader) (string, error) {
	id, err := s.details.Create(ctx, detail)
	if err != nil {
		return "", err
	}

	if image == nil {
		return id, nil
	}

	imageURL, err := s.blobs.Upload(ctx, db.CollectionServiceDetails+"/"+id, image)
	if err != nil {
		s.logger.Warn("service detail created but image upload failed",
			zap.String("detailID", id), zap.Error(err))
		return id, err
	}

	if err := s.details.AttachImage(ctx, id, imageURL); err != nil {
		s.logger.Warn("service detail created but image patch failed",
			zap.String("detailID", id), zap.Error(err))
		return id, err
	}
	return id, nil
}
