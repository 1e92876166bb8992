package session

import (
	"context"
	"sync"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// Manager owns one Store per client credential. The original design had a
// single process-wide session; on a server handling many clients the same
// ownership discipline applies per credential: one provider subscription,
// one resolution, shared by every request presenting that credential.
//
// Credentials are attacker-supplied, so the map must not grow with junk
// tokens: every Session call prunes stores whose resolution completed
// without an authenticated identity. The empty credential is exempt; it is
// the single shared anonymous session.
type Manager struct {
	authClient *auth.Client
	apiKey     string
	profiles   ProfileFetcher
	logger     *zap.Logger

	newProvider func(credential string) AuthProvider

	mu     sync.Mutex
	stores map[string]*Store
}

// NewManager creates a Manager. apiKey may be empty when credential sign-in
// is not configured.
func NewManager(authClient *auth.Client, apiKey string, profiles ProfileFetcher, logger *zap.Logger) *Manager {
	return &Manager{
		authClient: authClient,
		apiKey:     apiKey,
		profiles:   profiles,
		logger:     logger,
		newProvider: func(credential string) AuthProvider {
			return NewFirebaseProvider(authClient, apiKey, credential)
		},
		stores: make(map[string]*Store),
	}
}

// Session returns the Store for the given credential, creating it on first
// sight. The empty credential yields the shared anonymous session.
//
// TODO: also evict authenticated stores once their credential expires;
// those entries currently live for the process lifetime.
func (m *Manager) Session(credential string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()

	if store, ok := m.stores[credential]; ok {
		return store
	}
	store := NewStore(m.newProvider(credential), m.profiles, m.logger)
	m.stores[credential] = store
	return store
}

// pruneLocked drops every store whose resolution finished without an
// authenticated identity. A junk credential therefore pins its Store only
// until the next Session call after resolution, not for the process
// lifetime. Unresolved stores are left alone; their count is bounded by
// in-flight requests.
func (m *Manager) pruneLocked() {
	for credential, store := range m.stores {
		if credential == "" {
			continue
		}
		select {
		case <-store.Done():
			if store.State() != StateAuthenticated {
				delete(m.stores, credential)
			}
		default:
		}
	}
}

// SignIn performs credential sign-in and registers the resulting session.
// It returns the identity and the issued credential the client must present
// on subsequent requests.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Identity, string, error) {
	provider := NewFirebaseProvider(m.authClient, m.apiKey, "")
	identity, err := provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	credential := provider.Token()
	store := NewStore(provider, m.profiles, m.logger)

	m.mu.Lock()
	m.stores[credential] = store
	m.mu.Unlock()

	return identity, credential, nil
}
