package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"handymandy-backend-go/internal/core"
	"handymandy-backend-go/internal/db"
	"handymandy-backend-go/internal/models"
)

// RequestHandler exposes the service-request listing operations.
type RequestHandler struct {
	requests core.RequestService
	logger   *zap.Logger
}

// NewRequestHandler creates a RequestHandler.
func NewRequestHandler(requests core.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, logger: logger}
}

// List handles GET /api/v1/requests. Only open requests are listed; category
// and location narrow the result, sort selects timestamp ordering.
func (h *RequestHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.requests.ListOpen(c.Request.Context(), core.RequestListOptions{
		Sort:     sortParam(c),
		Category: filterParam(c, "category", allCategories),
		Location: filterParam(c, "location", allLocations),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.logger.Error("listing requests failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to query requests"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/requests/:requestId.
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.requests.Get(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		h.logger.Error("fetching request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch request"})
		return
	}
	if req == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Request not found"})
		return
	}
	c.JSON(http.StatusOK, req)
}

// Mine handles GET /api/v1/requests/mine: every request the caller posted,
// regardless of status.
func (h *RequestHandler) Mine(c *gin.Context) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	items, err := h.requests.ListByOwner(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("listing own requests failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to query requests"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Categories handles GET /api/v1/requests/categories.
func (h *RequestHandler) Categories(c *gin.Context) {
	values, err := h.requests.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("collecting request categories failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to collect categories"})
		return
	}
	c.JSON(http.StatusOK, values)
}

// Locations handles GET /api/v1/requests/locations.
func (h *RequestHandler) Locations(c *gin.Context) {
	values, err := h.requests.Locations(c.Request.Context())
	if err != nil {
		h.logger.Error("collecting request locations failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to collect locations"})
		return
	}
	c.JSON(http.StatusOK, values)
}

// Create handles POST /api/v1/requests (multipart). The record insert and
// the image upload are two phases; a failed upload still reports the
// generated id because the record persists without its image.
func (h *RequestHandler) Create(c *gin.Context) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var form CreateServiceRequestForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	req := &models.ServiceRequest{
		OwnerID:     uid,
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Location:    form.Location,
	}

	image, err := imagePart(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid image upload", Details: err.Error()})
		return
	}
	if image != nil {
		defer image.Close()
	}

	id, err := h.requests.Create(c.Request.Context(), req, readerOrNil(image))
	if err != nil {
		h.logger.Warn("request creation failed", zap.String("requestID", id), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, db.ErrUploadFailure) {
			status = http.StatusBadGateway
		}
		c.JSON(status, CreateResult{Success: false, ID: id, Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, CreateResult{Success: true, ID: id})
}

// Close handles POST /api/v1/requests/:requestId/close. Only the owner may
// close a request; closing an already-closed request succeeds silently.
func (h *RequestHandler) Close(c *gin.Context) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	id := c.Param("requestId")
	req, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("fetching request for close failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch request"})
		return
	}
	if req == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Request not found"})
		return
	}
	if req.OwnerID != uid {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only the owner may close a request"})
		return
	}

	if err := h.requests.Close(c.Request.Context(), id); err != nil {
		h.logger.Error("closing request failed", zap.String("requestID", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to close request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(models.RequestClosed)})
}
