package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"handymandy-backend-go/internal/models"
)

// firestoreServiceRepository implements ServiceRepository on Firestore.
type firestoreServiceRepository struct {
	client *firestore.Client
}

// NewFirestoreServiceRepository creates a ServiceRepository backed by the
// services collection.
func NewFirestoreServiceRepository(client *firestore.Client) ServiceRepository {
	return &firestoreServiceRepository{client: client}
}

func (r *firestoreServiceRepository) Create(ctx context.Context, svc *models.Service) (string, error) {
	if len(svc.ServiceTypes) == 0 {
		return "", fmt.Errorf("%w: service must carry at least one service type", ErrWriteFailure)
	}
	docRef := r.client.Collection(CollectionServices).NewDoc()
	if _, err := docRef.Create(ctx, svc); err != nil {
		return "", fmt.Errorf("%w: creating service: %v", ErrWriteFailure, err)
	}
	return docRef.ID, nil
}

func (r *firestoreServiceRepository) GetByID(ctx context.Context, id string) (*models.Service, error) {
	if id == "" {
		return nil, errors.New("service id cannot be empty")
	}
	snap, err := r.client.Collection(CollectionServices).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("service %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: getting service %q: %v", ErrQueryFailure, id, err)
	}
	return models.ServiceFromRecord(snap.Ref.ID, snap.Data()), nil
}

func (r *firestoreServiceRepository) SetServiceID(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("service id cannot be empty")
	}
	_, err := r.client.Collection(CollectionServices).Doc(id).Update(ctx, []firestore.Update{
		{Path: "serviceId", Value: id},
	})
	if err != nil {
		return fmt.Errorf("%w: back-filling id on service %q: %v", ErrWriteFailure, id, err)
	}
	return nil
}

// firestoreServiceDetailRepository implements ServiceDetailRepository on
// Firestore.
type firestoreServiceDetailRepository struct {
	client *firestore.Client
}

// NewFirestoreServiceDetailRepository creates a ServiceDetailRepository
// backed by the userServiceDetails collection.
func NewFirestoreServiceDetailRepository(client *firestore.Client) ServiceDetailRepository {
	return &firestoreServiceDetailRepository{client: client}
}

func (r *firestoreServiceDetailRepository) Create(ctx context.Context, detail *models.ServiceDetail) (string, error) {
	docRef := r.client.Collection(CollectionServiceDetails).NewDoc()
	if _, err := docRef.Create(ctx, detail); err != nil {
		return "", fmt.Errorf("%w: creating service detail: %v", ErrWriteFailure, err)
	}
	return docRef.ID, nil
}

func (r *firestoreServiceDetailRepository) GetByID(ctx context.Context, id string) (*models.ServiceDetail, error) {
	if id == "" {
		return nil, errors.New("service detail id cannot be empty")
	}
	snap, err := r.client.Collection(CollectionServiceDetails).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("service detail %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: getting service detail %q: %v", ErrQueryFailure, id, err)
	}
	return models.ServiceDetailFromRecord(snap.Ref.ID, snap.Data()), nil
}

func (r *firestoreServiceDetailRepository) AttachImage(ctx context.Context, id, imageURL string) error {
	if id == "" {
		return errors.New("service detail id cannot be empty")
	}
	_, err := r.client.Collection(CollectionServiceDetails).Doc(id).Update(ctx, []firestore.Update{
		{Path: "userServiceDetailsId", Value: id},
		{Path: "serviceImg", Value: imageURL},
	})
	if err != nil {
		return fmt.Errorf("%w: attaching image to service detail %q: %v", ErrWriteFailure, id, err)
	}
	return nil
}
