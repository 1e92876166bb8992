package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// authError mirrors the API error envelope without importing internal/api,
// which would cycle.
type authError struct {
	Error string `json:"error"`
}

// AuthMiddleware verifies Firebase ID tokens on API requests.
type AuthMiddleware struct {
	authClient *auth.Client
	logger     *zap.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. A nil auth client is a setup
// error the application cannot run with.
func NewAuthMiddleware(authClient *auth.Client, logger *zap.Logger) *AuthMiddleware {
	if authClient == nil {
		panic("AuthMiddleware requires an initialized Firebase Auth client")
	}
	return &AuthMiddleware{authClient: authClient, logger: logger}
}

// VerifyToken requires a valid "Bearer {token}" Authorization header and
// stores the verified UID in the gin context under "userID".
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, authError{Error: "Authorization header is required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, authError{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.authClient.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Warn("rejected API credential", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, authError{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set("userID", token.UID)
		c.Next()
	}
}
