package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"firebase.google.com/go/v4/auth"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseProvider adapts Firebase Auth to the AuthProvider contract. The
// provider carries the credential the client persisted (a Firebase ID
// token); an empty credential means no one is signed in. Subscription
// resolution verifies the credential with the Admin SDK, and credential
// sign-in is delegated to the Identity Toolkit verifyPassword endpoint.
type FirebaseProvider struct {
	authClient *auth.Client
	apiKey     string

	mu      sync.Mutex
	idToken string
}

// NewFirebaseProvider creates a provider for one client credential. apiKey
// is the Firebase Web API key; it is only needed for SignIn.
func NewFirebaseProvider(authClient *auth.Client, apiKey, idToken string) *FirebaseProvider {
	return &FirebaseProvider{authClient: authClient, apiKey: apiKey, idToken: idToken}
}

// Subscribe resolves the current credential asynchronously and fires the
// callback once with the outcome. The returned unsubscribe suppresses a
// delivery that has not happened yet; a delivery already made cannot be
// recalled.
func (p *FirebaseProvider) Subscribe(callback func(identity *Identity, err error)) (func(), error) {
	if callback == nil {
		return nil, errors.New("subscribe requires a callback")
	}

	stop := make(chan struct{})
	go func() {
		identity, err := p.resolve(context.Background())
		select {
		case <-stop:
		default:
			callback(identity, err)
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(stop) }) }, nil
}

func (p *FirebaseProvider) resolve(ctx context.Context) (*Identity, error) {
	token := p.Token()
	if token == "" {
		return nil, nil
	}

	verified, err := p.authClient.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verifying credential: %w", err)
	}
	return identityFromClaims(verified), nil
}

func identityFromClaims(token *auth.Token) *Identity {
	identity := &Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	return identity
}

// SignIn exchanges an email/password pair for a Firebase session via the
// Identity Toolkit API and adopts the issued ID token as the provider's
// current credential.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	if p.apiKey == "" {
		return nil, errors.New("credential sign-in requires FIREBASE_WEB_API_KEY")
	}

	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating identitytoolkit service: %w", err)
	}

	resp, err := svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sign-in rejected: %w", err)
	}

	p.mu.Lock()
	p.idToken = resp.IdToken
	p.mu.Unlock()

	return &Identity{
		UID:         resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
	}, nil
}

// SignOut revokes the signed-in user's refresh tokens and drops the
// credential. When nothing is signed in it succeeds trivially. On failure
// the credential is left in place so the session state stays unchanged.
func (p *FirebaseProvider) SignOut(ctx context.Context) error {
	token := p.Token()
	if token == "" {
		return nil
	}

	verified, err := p.authClient.VerifyIDToken(ctx, token)
	if err == nil {
		if err := p.authClient.RevokeRefreshTokens(ctx, verified.UID); err != nil {
			return fmt.Errorf("revoking refresh tokens: %w", err)
		}
	}
	// An unverifiable credential is already dead; dropping it is the
	// sign-out.

	p.mu.Lock()
	p.idToken = ""
	p.mu.Unlock()
	return nil
}

// Token returns the provider's current credential, empty when signed out.
func (p *FirebaseProvider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idToken
}
