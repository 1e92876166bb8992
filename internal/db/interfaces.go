package db

import (
	"context"

	"handymandy-backend-go/internal/models"
)

// RequestRepository defines the write-side storage operations for the
// requests collection. Listing goes through the Gateway instead.
type RequestRepository interface {
	// Create inserts the record without an image reference and returns the
	// generated document ID.
	Create(ctx context.Context, req *models.ServiceRequest) (string, error)
	GetByID(ctx context.Context, id string) (*models.ServiceRequest, error)
	// AttachImage patches the record with its own ID and the blob retrieval
	// reference, the second phase of a two-phase create.
	AttachImage(ctx context.Context, id, imageURL string) error
	SetStatus(ctx context.Context, id string, status models.RequestStatus) error
}

// ServiceRepository defines the write-side storage operations for the
// services collection.
type ServiceRepository interface {
	Create(ctx context.Context, svc *models.Service) (string, error)
	GetByID(ctx context.Context, id string) (*models.Service, error)
	// SetServiceID back-fills the generated document ID into the record.
	SetServiceID(ctx context.Context, id string) error
}

// ServiceDetailRepository defines the storage operations for the
// userServiceDetails collection.
type ServiceDetailRepository interface {
	Create(ctx context.Context, detail *models.ServiceDetail) (string, error)
	GetByID(ctx context.Context, id string) (*models.ServiceDetail, error)
	AttachImage(ctx context.Context, id, imageURL string) error
}

// UserRepository defines the storage operations for user profiles. Profiles
// are read-mostly; replacing the certification list is the only mutation.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
	ReplaceCertifications(ctx context.Context, userID string, certs []models.Certification) error
}
