package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"handymandy-backend-go/internal/core"
)

// UserHandler exposes user-profile endpoints.
type UserHandler struct {
	users  core.UserService
	logger *zap.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Get handles GET /api/v1/users/:userId. Profiles are world-readable;
// listings link to their poster's display name and photo.
func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.logger.Error("fetching profile failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(c *gin.Context) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	profile, err := h.users.GetProfile(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("fetching own profile failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ReplaceCertifications handles PUT /api/v1/users/me/certifications, the
// only profile mutation: the whole credential list is swapped at once.
func (h *UserHandler) ReplaceCertifications(c *gin.Context) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var body ReplaceCertificationsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.users.ReplaceCertifications(c.Request.Context(), uid, body.Certifications); err != nil {
		h.logger.Error("replacing certifications failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update certifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(body.Certifications)})
}
