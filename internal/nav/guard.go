// Package nav implements the route table and the navigation guard that
// authorizes every page transition against the resolved session.
package nav

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"handymandy-backend-go/internal/session"
)

// Well-known paths the guard redirects to.
const (
	HomePath   = "/"
	SignInPath = "/sign-in"
)

// Route is one entry in the application route table. RequiresAuth has three
// states: true (signed-in users only), false (anonymous users only, e.g. the
// sign-in page itself), and nil (no restriction either way).
type Route struct {
	Path         string
	Name         string
	RequiresAuth *bool
}

// Decision is the guard's verdict on a navigation: proceed unchanged, or
// redirect to another path.
type Decision struct {
	Proceed  bool
	Redirect string
}

func proceed() Decision             { return Decision{Proceed: true} }
func redirect(path string) Decision { return Decision{Redirect: path} }

// Decide is the pure authorization function over a route and a resolved
// identity (nil meaning anonymous). It must only ever be called with a fully
// resolved session; Guard.Check enforces that.
func Decide(route Route, identity *session.Identity) Decision {
	if route.RequiresAuth == nil {
		return proceed()
	}
	if *route.RequiresAuth {
		if identity == nil {
			return redirect(SignInPath)
		}
		return proceed()
	}
	// Anonymous-only route: a signed-in user has no business here.
	if identity != nil {
		return redirect(HomePath)
	}
	return proceed()
}

// SessionResolver yields the session store for a client credential.
// session.Manager satisfies it.
type SessionResolver interface {
	Session(credential string) *session.Store
}

// Guard authorizes navigations. It always forces session resolution to
// complete before deciding, so a route decision can never observe an
// unresolved identity.
type Guard struct {
	routes   map[string]Route
	sessions SessionResolver
	logger   *zap.Logger
}

// NewGuard creates a Guard over the given route table.
func NewGuard(routes []Route, sessions SessionResolver, logger *zap.Logger) *Guard {
	byPath := make(map[string]Route, len(routes))
	for _, r := range routes {
		byPath[r.Path] = r
	}
	return &Guard{routes: byPath, sessions: sessions, logger: logger}
}

// Check awaits full session resolution and then decides. A resolution
// failure is fail-closed: the navigation is redirected to sign-in rather
// than surfacing the provider error, except when sign-in is already the
// target (redirecting there to itself would loop).
func (g *Guard) Check(ctx context.Context, route Route, store *session.Store) Decision {
	identity, err := store.Resolve(ctx)
	if err != nil {
		g.logger.Warn("session resolution failed, failing closed",
			zap.String("route", route.Name), zap.Error(err))
		if route.Path == SignInPath {
			return proceed()
		}
		return redirect(SignInPath)
	}
	return Decide(route, identity)
}

// Middleware applies the guard to page routes served by gin. Routes not in
// the table pass through untouched.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route, known := g.routes[c.FullPath()]
		if !known {
			c.Next()
			return
		}

		store := g.sessions.Session(credentialFrom(c))
		decision := g.Check(c.Request.Context(), route, store)
		if !decision.Proceed {
			c.Redirect(http.StatusFound, decision.Redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}

// credentialFrom extracts the client credential: a bearer token when
// present, otherwise the __session cookie the Firebase hosting convention
// uses for page loads. Empty means anonymous.
func credentialFrom(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	if cookie, err := c.Cookie("__session"); err == nil {
		return cookie
	}
	return ""
}
