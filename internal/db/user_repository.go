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

// firestoreUserRepository implements UserRepository on Firestore. The
// Firebase Auth UID doubles as the document ID.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a UserRepository backed by the users
// collection.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, errors.New("user id cannot be empty")
	}
	snap, err := r.client.Collection(CollectionUsers).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user %q: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: getting user %q: %v", ErrQueryFailure, userID, err)
	}

	var profile models.UserProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("%w: decoding user %q: %v", ErrQueryFailure, userID, err)
	}
	profile.ID = snap.Ref.ID
	return &profile, nil
}

// ReplaceCertifications overwrites the whole certification list. Profiles
// have no element-wise credential edits; the full list is the unit of change.
func (r *firestoreUserRepository) ReplaceCertifications(ctx context.Context, userID string, certs []models.Certification) error {
	if userID == "" {
		return errors.New("user id cannot be empty")
	}
	_, err := r.client.Collection(CollectionUsers).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "certifications", Value: certs},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user %q: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("%w: replacing certifications for user %q: %v", ErrWriteFailure, userID, err)
	}
	return nil
}
