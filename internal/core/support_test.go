package core

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"handymandy-backend-go/internal/db"
	"handymandy-backend-go/internal/models"
)

// memSource is a shared in-memory document store for the façade tests. The
// fake repositories write into the same backing maps the gateway reads, so
// create-then-list flows exercise the real query path end to end.
type memSource struct {
	collections map[string][]db.Document
}

func newMemSource() *memSource {
	return &memSource{collections: make(map[string][]db.Document)}
}

func (s *memSource) Collection(name string) db.Collection {
	return &memCollection{source: s, name: name}
}

func (s *memSource) insert(collection string, data map[string]interface{}) string {
	id := uuid.NewString()
	s.collections[collection] = append(s.collections[collection], db.Document{ID: id, Data: data})
	return id
}

func (s *memSource) find(collection, id string) map[string]interface{} {
	for _, d := range s.collections[collection] {
		if d.ID == id {
			return d.Data
		}
	}
	return nil
}

type memCollection struct {
	source *memSource
	name   string
}

func (c *memCollection) Fetch(_ context.Context, filters []db.Filter, sortOpt db.SortOption) ([]db.Document, error) {
	var out []db.Document
	for _, d := range c.source.collections[c.name] {
		if matchesAll(d, filters) {
			out = append(out, d)
		}
	}
	switch sortOpt {
	case db.SortNewestFirst:
		sort.SliceStable(out, func(i, j int) bool { return docTime(out[i]).After(docTime(out[j])) })
	case db.SortOldestFirst:
		sort.SliceStable(out, func(i, j int) bool { return docTime(out[i]).Before(docTime(out[j])) })
	}
	return out, nil
}

func docTime(d db.Document) time.Time {
	t, _ := d.Data["timestamp"].(time.Time)
	return t
}

func matchesAll(d db.Document, filters []db.Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case db.FilterEq:
			if d.Data[f.Field] != f.Value {
				return false
			}
		case db.FilterArrayContains:
			arr, _ := d.Data[f.Field].([]string)
			found := false
			for _, v := range arr {
				if v == f.Value {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// fakeBlobStore records uploads and returns a deterministic retrieval URL,
// or fails every call with failWith.
type fakeBlobStore struct {
	uploads  []string
	failWith error
}

func (b *fakeBlobStore) Upload(_ context.Context, objectPath string, _ io.Reader) (string, error) {
	if b.failWith != nil {
		return "", fmt.Errorf("%w: %v", db.ErrUploadFailure, b.failWith)
	}
	b.uploads = append(b.uploads, objectPath)
	return "https://blob.test/" + objectPath, nil
}

// fakeRequestRepo implements db.RequestRepository on top of memSource.
type fakeRequestRepo struct {
	source    *memSource
	createErr error
	attachErr error
}

func (r *fakeRequestRepo) Create(_ context.Context, req *models.ServiceRequest) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	return r.source.insert(db.CollectionRequests, map[string]interface{}{
		"userId":      req.OwnerID,
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"location":    req.Location,
		"status":      string(req.Status),
		"timestamp":   time.Now().UTC(),
	}), nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*models.ServiceRequest, error) {
	data := r.source.find(db.CollectionRequests, id)
	if data == nil {
		return nil, fmt.Errorf("%w: request %s", db.ErrNotFound, id)
	}
	return models.RequestFromRecord(id, data), nil
}

func (r *fakeRequestRepo) AttachImage(_ context.Context, id, imageURL string) error {
	if r.attachErr != nil {
		return r.attachErr
	}
	data := r.source.find(db.CollectionRequests, id)
	if data == nil {
		return fmt.Errorf("%w: request %s", db.ErrNotFound, id)
	}
	data["id"] = id
	data["imgSrc"] = imageURL
	return nil
}

func (r *fakeRequestRepo) SetStatus(_ context.Context, id string, status models.RequestStatus) error {
	data := r.source.find(db.CollectionRequests, id)
	if data == nil {
		return fmt.Errorf("%w: request %s", db.ErrNotFound, id)
	}
	data["status"] = string(status)
	return nil
}

// fakeServiceRepo implements db.ServiceRepository on top of memSource.
type fakeServiceRepo struct {
	source      *memSource
	backfilled  []string
	backfillErr error
	createErr   error
}

func (r *fakeServiceRepo) Create(_ context.Context, svc *models.Service) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	return r.source.insert(db.CollectionServices, map[string]interface{}{
		"userId":          svc.OwnerID,
		"location":        svc.Location,
		"service_type":    svc.ServiceTypes,
		"yearsExperience": svc.YearsExperience,
		"timestamp":       time.Now().UTC(),
	}), nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	data := r.source.find(db.CollectionServices, id)
	if data == nil {
		return nil, fmt.Errorf("%w: service %s", db.ErrNotFound, id)
	}
	return models.ServiceFromRecord(id, data), nil
}

func (r *fakeServiceRepo) SetServiceID(_ context.Context, id string) error {
	if r.backfillErr != nil {
		return r.backfillErr
	}
	data := r.source.find(db.CollectionServices, id)
	if data == nil {
		return fmt.Errorf("%w: service %s", db.ErrNotFound, id)
	}
	data["serviceId"] = id
	r.backfilled = append(r.backfilled, id)
	return nil
}

// fakeDetailRepo implements db.ServiceDetailRepository on top of memSource.
type fakeDetailRepo struct {
	source    *memSource
	attachErr error
}

func (r *fakeDetailRepo) Create(_ context.Context, detail *models.ServiceDetail) (string, error) {
	return r.source.insert(db.CollectionServiceDetails, map[string]interface{}{
		"serviceId":   detail.ServiceID,
		"description": detail.Description,
	}), nil
}

func (r *fakeDetailRepo) GetByID(_ context.Context, id string) (*models.ServiceDetail, error) {
	data := r.source.find(db.CollectionServiceDetails, id)
	if data == nil {
		return nil, fmt.Errorf("%w: detail %s", db.ErrNotFound, id)
	}
	return models.ServiceDetailFromRecord(id, data), nil
}

func (r *fakeDetailRepo) AttachImage(_ context.Context, id, imageURL string) error {
	if r.attachErr != nil {
		return r.attachErr
	}
	data := r.source.find(db.CollectionServiceDetails, id)
	if data == nil {
		return fmt.Errorf("%w: detail %s", db.ErrNotFound, id)
	}
	data["userServiceDetailsId"] = id
	data["serviceImg"] = imageURL
	return nil
}
