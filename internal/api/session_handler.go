package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"handymandy-backend-go/internal/session"
)

// SessionHandler exposes sign-in, sign-out, and session introspection. The
// handlers never touch credentials beyond delegating to the identity
// provider through the session manager.
type SessionHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions *session.Manager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// SignIn handles POST /api/v1/session/sign-in.
func (h *SessionHandler) SignIn(c *gin.Context) {
	var body SignInRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	identity, token, err := h.sessions.SignIn(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.logger.Warn("sign-in rejected", zap.String("email", body.Email), zap.Error(err))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Sign-in failed"})
		return
	}

	c.JSON(http.StatusOK, SignInResponse{
		Token:       token,
		UID:         identity.UID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
	})
}

// SignOut handles POST /api/v1/session/sign-out. A provider failure leaves
// the session untouched and is reported, never retried here.
func (h *SessionHandler) SignOut(c *gin.Context) {
	store := h.sessions.Session(credentialHeader(c))
	if err := store.Logout(c.Request.Context()); err != nil {
		h.logger.Warn("sign-out failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Sign-out failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signedOut": true})
}

// Current handles GET /api/v1/session: it awaits full resolution of the
// presented credential and reports the resulting identity and profile. A
// resolution failure reads as unauthenticated, mirroring the navigation
// guard's fail-closed rule.
func (h *SessionHandler) Current(c *gin.Context) {
	store := h.sessions.Session(credentialHeader(c))
	identity, err := store.Resolve(c.Request.Context())
	if err != nil || identity == nil {
		if err != nil {
			h.logger.Warn("session resolution failed", zap.Error(err))
		}
		c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Authenticated: true,
		UID:           identity.UID,
		Email:         identity.Email,
		DisplayName:   identity.DisplayName,
		Profile:       store.Profile(),
	})
}

// credentialHeader pulls the bearer credential, empty when absent.
func credentialHeader(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
