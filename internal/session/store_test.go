package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"handymandy-backend-go/internal/models"
)

// fakeProvider delivers a canned subscription outcome after an optional
// delay, counting subscriptions and unsubscriptions.
type fakeProvider struct {
	identity *Identity
	err      error
	delay    time.Duration

	signOutErr error

	mu           sync.Mutex
	subscribes   int
	unsubscribes int
	signedOut    bool
}

func (p *fakeProvider) Subscribe(callback func(*Identity, error)) (func(), error) {
	p.mu.Lock()
	p.subscribes++
	p.mu.Unlock()

	go func() {
		if p.delay > 0 {
			time.Sleep(p.delay)
		}
		callback(p.identity, p.err)
	}()
	return func() {
		p.mu.Lock()
		p.unsubscribes++
		p.mu.Unlock()
	}, nil
}

func (p *fakeProvider) SignIn(context.Context, string, string) (*Identity, error) {
	return nil, errors.New("not used in these tests")
}

func (p *fakeProvider) SignOut(context.Context) error {
	if p.signOutErr != nil {
		return p.signOutErr
	}
	p.mu.Lock()
	p.signedOut = true
	p.mu.Unlock()
	return nil
}

func (p *fakeProvider) counts() (subscribes, unsubscribes int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribes, p.unsubscribes
}

// fakeProfiles serves one canned profile, or fails every fetch.
type fakeProfiles struct {
	profile *models.UserProfile
	err     error

	mu    sync.Mutex
	calls int
}

func (f *fakeProfiles) GetProfile(_ context.Context, _ string) (*models.UserProfile, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func TestResolveAuthenticated(t *testing.T) {
	provider := &fakeProvider{identity: &Identity{UID: "uid-1", Email: "a@b.test"}}
	profiles := &fakeProfiles{profile: &models.UserProfile{DisplayName: "alice"}}
	store := NewStore(provider, profiles, zap.NewNop())

	assert.Equal(t, StateUnresolved, store.State())
	assert.True(t, store.Loading())

	identity, err := store.Resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "uid-1", identity.UID)

	assert.Equal(t, StateAuthenticated, store.State())
	assert.False(t, store.Loading())
	require.NotNil(t, store.Profile())
	assert.Equal(t, "alice", store.Profile().DisplayName)
}

func TestResolveAnonymous(t *testing.T) {
	provider := &fakeProvider{}
	store := NewStore(provider, &fakeProfiles{}, zap.NewNop())

	identity, err := store.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity)
	assert.Equal(t, StateAnonymous, store.State())
	assert.Nil(t, store.Profile())
}

func TestConcurrentResolveSharesOneSubscription(t *testing.T) {
	provider := &fakeProvider{
		identity: &Identity{UID: "uid-1"},
		delay:    20 * time.Millisecond,
	}
	store := NewStore(provider, &fakeProfiles{}, zap.NewNop())

	type outcome struct {
		identity *Identity
		err      error
	}

	const callers = 8
	results := make(chan outcome, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			identity, err := store.Resolve(context.Background())
			results <- outcome{identity: identity, err: err}
		}()
	}
	wg.Wait()
	close(results)

	for res := range results {
		require.NoError(t, res.err)
		require.NotNil(t, res.identity)
		assert.Equal(t, "uid-1", res.identity.UID)
	}

	subscribes, _ := provider.counts()
	assert.Equal(t, 1, subscribes)
}

func TestSubscriptionTornDownAfterResolution(t *testing.T) {
	provider := &fakeProvider{identity: &Identity{UID: "uid-1"}}
	store := NewStore(provider, &fakeProfiles{}, zap.NewNop())

	_, err := store.Resolve(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, unsubscribes := provider.counts()
		return unsubscribes == 1
	}, time.Second, 5*time.Millisecond)
}

func TestResolveProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("token service unreachable")}
	store := NewStore(provider, &fakeProfiles{}, zap.NewNop())

	identity, err := store.Resolve(context.Background())
	require.ErrorIs(t, err, ErrResolution)
	assert.Nil(t, identity)
	assert.Equal(t, StateAnonymous, store.State())

	// The outcome is cached; later calls see the same error.
	_, err = store.Resolve(context.Background())
	require.ErrorIs(t, err, ErrResolution)
}

func TestProfileFetchFailureStillAuthenticates(t *testing.T) {
	provider := &fakeProvider{identity: &Identity{UID: "uid-1"}}
	profiles := &fakeProfiles{err: errors.New("store unavailable")}
	store := NewStore(provider, profiles, zap.NewNop())

	identity, err := store.Resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, StateAuthenticated, store.State())
	assert.Nil(t, store.Profile())
}

func TestResolveHonorsContextCancellation(t *testing.T) {
	provider := &fakeProvider{
		identity: &Identity{UID: "uid-1"},
		delay:    time.Minute,
	}
	store := NewStore(provider, &fakeProfiles{}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := store.Resolve(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogoutForcesAnonymous(t *testing.T) {
	provider := &fakeProvider{identity: &Identity{UID: "uid-1"}}
	profiles := &fakeProfiles{profile: &models.UserProfile{DisplayName: "alice"}}
	store := NewStore(provider, profiles, zap.NewNop())

	_, err := store.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateAuthenticated, store.State())

	require.NoError(t, store.Logout(context.Background()))
	assert.Equal(t, StateAnonymous, store.State())
	assert.Nil(t, store.Identity())
	assert.Nil(t, store.Profile())
	assert.True(t, provider.signedOut)
}

func TestLogoutFailureLeavesStateUntouched(t *testing.T) {
	provider := &fakeProvider{
		identity:   &Identity{UID: "uid-1"},
		signOutErr: errors.New("revocation failed"),
	}
	store := NewStore(provider, &fakeProfiles{}, zap.NewNop())

	_, err := store.Resolve(context.Background())
	require.NoError(t, err)

	err = store.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAuthenticated, store.State())
	require.NotNil(t, store.Identity())
	assert.Equal(t, "uid-1", store.Identity().UID)
}
