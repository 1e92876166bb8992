package core

import (
	"context"
	"io"

	"handymandy-backend-go/internal/db"
	"handymandy-backend-go/internal/models"
)

// RequestListOptions shape a query over open service requests. The zero
// FilterValue means the predicate is not applied.
type RequestListOptions struct {
	Sort     db.SortOption
	Category db.FilterValue
	Location db.FilterValue
	Page     int
	PageSize int
}

// RequestPage is one window of matching requests plus the size of the full
// filtered set.
type RequestPage struct {
	Items      []*models.ServiceRequest `json:"items"`
	TotalItems int                      `json:"totalItems"`
}

// RequestService is the domain façade over the requests collection.
type RequestService interface {
	// ListOpen returns a page of open requests; status == Open is applied
	// unconditionally on top of the optional filters.
	ListOpen(ctx context.Context, opts RequestListOptions) (*RequestPage, error)
	// Get returns the request, or (nil, nil) when the id does not resolve.
	Get(ctx context.Context, id string) (*models.ServiceRequest, error)
	// ListByOwner returns every request posted by ownerID, any status.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.ServiceRequest, error)
	// Categories and Locations return the deduplicated values in use across
	// open requests, for populating filter selectors. Order is arbitrary.
	Categories(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
	// Create inserts the request and then uploads the image and patches the
	// record with its reference. When the upload or patch fails after a
	// successful insert, the record stands without an image and the returned
	// id is still valid; there is no rollback.
	Create(ctx context.Context, req *models.ServiceRequest, image io.Reader) (string, error)
	// Close transitions the request to Closed. Closing an already-closed
	// request succeeds silently.
	Close(ctx context.Context, id string) error
}

// ServiceListOptions shape a query over service listings. Category filtering
// is membership in the service_type array, not equality.
type ServiceListOptions struct {
	Sort     db.SortOption
	Category db.FilterValue
	Location db.FilterValue
	Page     int
	PageSize int
}

// ServicePage is one window of matching services plus the size of the full
// filtered set.
type ServicePage struct {
	Items      []*models.Service `json:"items"`
	TotalItems int               `json:"totalItems"`
}

// ServiceListingService is the domain façade over the services collection
// and its companion userServiceDetails collection.
type ServiceListingService interface {
	List(ctx context.Context, opts ServiceListOptions) (*ServicePage, error)
	Get(ctx context.Context, id string) (*models.Service, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Service, error)
	Categories(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
	// CreateService inserts the base record and back-fills its generated id.
	CreateService(ctx context.Context, svc *models.Service) (string, error)
	// CreateDetail inserts the detail record, then uploads the image and
	// patches the reference in, with the same partial-write semantics as
	// RequestService.Create.
	CreateDetail(ctx context.Context, detail *models.ServiceDetail, image io.Reader) (string, error)
}

// UserService resolves and maintains marketplace user profiles.
type UserService interface {
	// GetProfile returns the profile, or (nil, nil) when none exists.
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	// ReplaceCertifications swaps the whole credential list.
	ReplaceCertifications(ctx context.Context, userID string, certs []models.Certification) error
}
