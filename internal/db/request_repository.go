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

// firestoreRequestRepository implements RequestRepository on Firestore.
type firestoreRequestRepository struct {
	client *firestore.Client
}

// NewFirestoreRequestRepository creates a RequestRepository backed by the
// requests collection.
func NewFirestoreRequestRepository(client *firestore.Client) RequestRepository {
	return &firestoreRequestRepository{client: client}
}

func (r *firestoreRequestRepository) Create(ctx context.Context, req *models.ServiceRequest) (string, error) {
	docRef := r.client.Collection(CollectionRequests).NewDoc()
	if _, err := docRef.Create(ctx, req); err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrWriteFailure, err)
	}
	return docRef.ID, nil
}

func (r *firestoreRequestRepository) GetByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	if id == "" {
		return nil, errors.New("request id cannot be empty")
	}
	snap, err := r.client.Collection(CollectionRequests).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("request %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: getting request %q: %v", ErrQueryFailure, id, err)
	}
	return models.RequestFromRecord(snap.Ref.ID, snap.Data()), nil
}

func (r *firestoreRequestRepository) AttachImage(ctx context.Context, id, imageURL string) error {
	if id == "" {
		return errors.New("request id cannot be empty")
	}
	_, err := r.client.Collection(CollectionRequests).Doc(id).Update(ctx, []firestore.Update{
		{Path: "id", Value: id},
		{Path: "imgSrc", Value: imageURL},
	})
	if err != nil {
		return fmt.Errorf("%w: attaching image to request %q: %v", ErrWriteFailure, id, err)
	}
	return nil
}

// SetStatus patches the status unconditionally. Writing an already-current
// status is a no-op at the store level, which is what makes Close idempotent.
func (r *firestoreRequestRepository) SetStatus(ctx context.Context, id string, st models.RequestStatus) error {
	if id == "" {
		return errors.New("request id cannot be empty")
	}
	_, err := r.client.Collection(CollectionRequests).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("request %q: %w", id, ErrNotFound)
		}
		return fmt.Errorf("%w: setting status of request %q: %v", ErrWriteFailure, id, err)
	}
	return nil
}
