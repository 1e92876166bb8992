// Package session owns the resolution of the current client identity. A
// Store is the explicitly-owned session context: it registers a single
// subscription with the identity provider, resolves the identity exactly
// once per identity change, caches the associated user profile, and is the
// only shared state the navigation guard reads.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"handymandy-backend-go/internal/models"
)

// ErrResolution marks a session that could not be resolved because the
// identity provider's subscription errored. The navigation guard treats it
// as unauthenticated; it is never surfaced to the end user.
var ErrResolution = errors.New("session resolution failed")

// Identity is the provider-issued identity of the active session.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// State is the session lifecycle state.
type State int

const (
	// StateUnresolved is the initial state, before Resolve is first called.
	StateUnresolved State = iota
	// StateResolving means the provider subscription is in flight.
	StateResolving
	// StateAnonymous means resolution finished with no identity.
	StateAnonymous
	// StateAuthenticated means resolution finished with an identity.
	StateAuthenticated
)

// AuthProvider is the identity-provider boundary. Subscribe registers a
// state-change callback and returns an unsubscribe function; the callback
// fires with nil identity when no one is signed in, and with a non-nil error
// when the provider itself failed. Credentials are never handled outside
// SignIn.
type AuthProvider interface {
	Subscribe(callback func(identity *Identity, err error)) (unsubscribe func(), err error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error
}

// ProfileFetcher loads the marketplace profile once an identity resolves.
// core.UserService satisfies it.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// Store holds the current identity and its resolution state.
//
// Resolve is safe to call concurrently and repeatedly: the provider
// subscription is registered at most once for the Store's lifetime, it is
// torn down when the first callback fires, and every caller observes the
// same resolved identity.
type Store struct {
	provider AuthProvider
	profiles ProfileFetcher
	logger   *zap.Logger

	subscribeOnce sync.Once
	resolved      chan struct{}

	mu         sync.Mutex
	state      State
	identity   *Identity
	profile    *models.UserProfile
	resolveErr error
}

// NewStore creates an unresolved session Store. Nothing happens until the
// first Resolve call.
func NewStore(provider AuthProvider, profiles ProfileFetcher, logger *zap.Logger) *Store {
	return &Store{
		provider: provider,
		profiles: profiles,
		logger:   logger,
		resolved: make(chan struct{}),
		state:    StateUnresolved,
	}
}

// Resolve waits for the identity provider to report the session state and
// returns the identity, or nil when anonymous. The first call registers the
// provider subscription; later and concurrent calls wait on the same
// resolution and see the same outcome.
func (s *Store) Resolve(ctx context.Context) (*Identity, error) {
	s.subscribeOnce.Do(s.subscribe)

	select {
	case <-s.resolved:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return s.identity, nil
}

func (s *Store) subscribe() {
	s.mu.Lock()
	s.state = StateResolving
	s.mu.Unlock()

	// The provider may fire the callback before Subscribe returns, and a
	// misbehaving provider could fire more than once; only the first
	// delivery counts.
	var first sync.Once
	deliver := func(identity *Identity, err error) {
		first.Do(func() { s.complete(identity, err) })
	}

	unsubscribe, err := s.provider.Subscribe(deliver)
	if err != nil {
		deliver(nil, fmt.Errorf("%w: %v", ErrResolution, err))
		return
	}

	// Tear the subscription down as soon as resolution completes so no
	// duplicate state updates arrive later.
	go func() {
		<-s.resolved
		if unsubscribe != nil {
			unsubscribe()
		}
	}()
}

// complete records the resolution outcome and unblocks every waiter. The
// profile fetch is best-effort: a failure is logged and the session is still
// authenticated, just without a profile.
func (s *Store) complete(identity *Identity, resolveErr error) {
	var profile *models.UserProfile
	if resolveErr == nil && identity != nil && s.profiles != nil {
		p, err := s.profiles.GetProfile(context.Background(), identity.UID)
		if err != nil {
			s.logger.Warn("profile fetch failed, continuing without profile",
				zap.String("uid", identity.UID), zap.Error(err))
		} else {
			profile = p
		}
	}

	s.mu.Lock()
	switch {
	case resolveErr != nil:
		if !errors.Is(resolveErr, ErrResolution) {
			resolveErr = fmt.Errorf("%w: %v", ErrResolution, resolveErr)
		}
		s.resolveErr = resolveErr
		s.state = StateAnonymous
	case identity == nil:
		s.state = StateAnonymous
	default:
		s.identity = identity
		s.profile = profile
		s.state = StateAuthenticated
	}
	s.mu.Unlock()

	close(s.resolved)
}

// Logout delegates sign-out to the provider. On success the session is
// forced to Anonymous regardless of prior state; on failure the state is
// left untouched and the error is returned to the caller, never retried.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("sign-out failed: %w", err)
	}

	s.mu.Lock()
	s.identity = nil
	s.profile = nil
	s.state = StateAnonymous
	s.mu.Unlock()
	return nil
}

// Done returns a channel that is closed once resolution has completed.
func (s *Store) Done() <-chan struct{} { return s.resolved }

// State reports the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether resolution is still in flight.
func (s *Store) Loading() bool {
	st := s.State()
	return st == StateUnresolved || st == StateResolving
}

// Identity returns the resolved identity, or nil. Callers that must not act
// on a stale value go through Resolve instead.
func (s *Store) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Profile returns the cached user profile, which may be nil even when
// authenticated.
func (s *Store) Profile() *models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}
