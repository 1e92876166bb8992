package db

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// BlobStore is the key-addressed binary store for listing images. Upload
// writes the content under objectPath and returns a stable retrieval
// reference suitable for storing back into the originating record.
type BlobStore interface {
	Upload(ctx context.Context, objectPath string, content io.Reader) (string, error)
}

// bucketBlobStore implements BlobStore on a Cloud Storage bucket.
type bucketBlobStore struct {
	bucket *storage.BucketHandle
}

// NewBucketBlobStore creates a BlobStore over the given bucket.
func NewBucketBlobStore(bucket *storage.BucketHandle) BlobStore {
	return &bucketBlobStore{bucket: bucket}
}

func (s *bucketBlobStore) Upload(ctx context.Context, objectPath string, content io.Reader) (string, error) {
	obj := s.bucket.Object(objectPath)

	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, content); err != nil {
		w.Close()
		return "", fmt.Errorf("%w: writing %q: %v", ErrUploadFailure, objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: finalizing %q: %v", ErrUploadFailure, objectPath, err)
	}

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: reading attributes of %q: %v", ErrUploadFailure, objectPath, err)
	}
	return attrs.MediaLink, nil
}
