package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"handymandy-backend-go/internal/db"
	"handymandy-backend-go/internal/models"
)

type requestFixture struct {
	source *memSource
	repo   *fakeRequestRepo
	blobs  *fakeBlobStore
	svc    RequestService
}

func newRequestFixture() *requestFixture {
	source := newMemSource()
	repo := &fakeRequestRepo{source: source}
	blobs := &fakeBlobStore{}
	gateway := db.NewGateway(source, zap.NewNop())
	return &requestFixture{
		source: source,
		repo:   repo,
		blobs:  blobs,
		svc:    NewRequestService(gateway, repo, blobs, zap.NewNop()),
	}
}

func (f *requestFixture) seed(category, location string, status models.RequestStatus, age time.Duration) string {
	return f.source.insert(db.CollectionRequests, map[string]interface{}{
		"userId":    "owner-1",
		"title":     category + " job",
		"category":  category,
		"location":  location,
		"status":    string(status),
		"timestamp": time.Now().UTC().Add(-age),
	})
}

func TestListOpenExcludesClosedRequests(t *testing.T) {
	f := newRequestFixture()
	f.seed("Plumbing", "Downtown", models.RequestOpen, time.Hour)
	f.seed("Plumbing", "Downtown", models.RequestClosed, time.Hour)

	page, err := f.svc.ListOpen(context.Background(), RequestListOptions{
		Category: db.AnyValue(),
		Location: db.AnyValue(),
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalItems)
	assert.Equal(t, models.RequestOpen, page.Items[0].Status)
}

func TestListOpenUnrestrictedMatchesEveryOpenRequest(t *testing.T) {
	f := newRequestFixture()
	f.seed("Plumbing", "Downtown", models.RequestOpen, time.Hour)
	f.seed("Electrical", "Uptown", models.RequestOpen, 2*time.Hour)
	f.seed("Painting", "Midtown", models.RequestOpen, 3*time.Hour)

	page, err := f.svc.ListOpen(context.Background(), RequestListOptions{
		Category: db.AnyValue(),
		Location: db.AnyValue(),
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)
}

func TestListOpenCombinesCategoryAndLocation(t *testing.T) {
	f := newRequestFixture()
	want := f.seed("Plumbing", "Downtown", models.RequestOpen, time.Hour)
	f.seed("Plumbing", "Uptown", models.RequestOpen, time.Hour)
	f.seed("Electrical", "Downtown", models.RequestOpen, time.Hour)

	page, err := f.svc.ListOpen(context.Background(), RequestListOptions{
		Category: db.Value("Plumbing"),
		Location: db.Value("Downtown"),
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalItems)
	assert.Equal(t, want, page.Items[0].ID)
}

func TestCreateThenListFindsTheNewRequest(t *testing.T) {
	f := newRequestFixture()
	f.seed("Electrical", "Uptown", models.RequestOpen, time.Hour)

	id, err := f.svc.Create(context.Background(), &models.ServiceRequest{
		OwnerID:  "owner-9",
		Title:    "Leaky faucet",
		Category: "Plumbing",
		Location: "Downtown",
	}, strings.NewReader("image-bytes"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	page, err := f.svc.ListOpen(context.Background(), RequestListOptions{
		Category: db.Value("Plumbing"),
		Location: db.AnyValue(),
		Sort:     db.SortNewestFirst,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalItems)
	assert.Equal(t, id, page.Items[0].ID)
	assert.Equal(t, "https://blob.test/requests/"+id, page.Items[0].ImageURL)
}

func TestCreateWithoutImageSkipsUpload(t *testing.T) {
	f := newRequestFixture()

	id, err := f.svc.Create(context.Background(), &models.ServiceRequest{
		OwnerID:  "owner-9",
		Title:    "Fence repair",
		Category: "Carpentry",
		Location: "Suburbs",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, f.blobs.uploads)

	req, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Empty(t, req.ImageURL)
}

func TestCreateForcesOpenStatus(t *testing.T) {
	f := newRequestFixture()

	id, err := f.svc.Create(context.Background(), &models.ServiceRequest{
		OwnerID:  "owner-9",
		Title:    "Roof patch",
		Category: "Roofing",
		Location: "Downtown",
		Status:   models.RequestClosed, // caller-supplied status is ignored
	}, nil)
	require.NoError(t, err)

	req, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.RequestOpen, req.Status)
}

func TestCreateUploadFailureLeavesRecordStanding(t *testing.T) {
	f := newRequestFixture()
	f.blobs.failWith = context.DeadlineExceeded

	id, err := f.svc.Create(context.Background(), &models.ServiceRequest{
		OwnerID:  "owner-9",
		Title:    "Leaky faucet",
		Category: "Plumbing",
		Location: "Downtown",
	}, strings.NewReader("image-bytes"))
	require.ErrorIs(t, err, db.ErrUploadFailure)
	require.NotEmpty(t, id, "the id must remain usable after a failed upload")

	req, getErr := f.svc.Get(context.Background(), id)
	require.NoError(t, getErr)
	require.NotNil(t, req, "the inserted record stands without an image")
	assert.Empty(t, req.ImageURL)
}

func TestGetAbsentRequestReturnsNilNil(t *testing.T) {
	f := newRequestFixture()

	req, err := f.svc.Get(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestListByOwner(t *testing.T) {
	f := newRequestFixture()
	f.seed("Plumbing", "Downtown", models.RequestOpen, time.Hour)
	f.seed("Electrical", "Uptown", models.RequestClosed, 2*time.Hour)
	f.source.insert(db.CollectionRequests, map[string]interface{}{
		"userId": "someone-else", "category": "Painting", "location": "Midtown",
		"status": string(models.RequestOpen), "timestamp": time.Now().UTC(),
	})

	items, err := f.svc.ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	// Owner listings include closed requests.
	assert.Len(t, items, 2)

	_, err = f.svc.ListByOwner(context.Background(), "")
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	f := newRequestFixture()
	id := f.seed("Plumbing", "Downtown", models.RequestOpen, time.Hour)

	require.NoError(t, f.svc.Close(context.Background(), id))
	require.NoError(t, f.svc.Close(context.Background(), id), "closing twice succeeds silently")

	req, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.RequestClosed, req.Status)
}

func TestCloseMissingRequest(t *testing.T) {
	f := newRequestFixture()

	err := f.svc.Close(context.Background(), "no-such-id")
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestCategoriesAndLocationsExcludeClosedRequests(t *testing.T) {
	f := newRequestFixture()
	f.seed("Plumbing", "Downtown", models.RequestOpen, time.Hour)
	f.seed("Plumbing", "Uptown", models.RequestOpen, time.Hour)
	f.seed("Roofing", "Midtown", models.RequestClosed, time.Hour)

	categories, err := f.svc.Categories(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Plumbing"}, categories)

	locations, err := f.svc.Locations(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Downtown", "Uptown"}, locations)
}
