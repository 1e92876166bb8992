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

// ServiceHandler exposes the service-listing operations.
type ServiceHandler struct {
	services core.ServiceListingService
	logger   *zap.Logger
}

// NewServiceHandler creates a ServiceHandler.
func NewServiceHandler(services core.ServiceListingService, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{services: services, logger: logger}
}

// List handles GET /api/v1/services. The category filter matches membership
// in the service_type array.
func (h *ServiceHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.services.List(c.Request.Context(), core.ServiceListOptions{
		Sort:     sortParam(c),
		Category: filterParam(c, "category", allCategories),
		Location: filterParam(c, "location", allLocations),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.logger.Error("listing services failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to query services"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/v1/services/:serviceId.
func (h *ServiceHandler) Get(c *gin.Context) {
	svc, err := h.services.Get(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		h.logger.Error("fetching service failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch service"})
		return
	}
	if svc == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Service not found"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// Mine handles GET /api/v1/services/mine.
func (h *ServiceHandler) Mine(c *gin.Context) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	items, err := h.services.ListByOwner(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("listing own services failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to query services"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Categories handles GET /api/v1/services/categories: the union of every
// service_type tag in use.
func (h *ServiceHandler) Categories(c *gin.Context) {
	values, err := h.services.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("collecting service categories failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to collect categories"})
		return
	}
	c.JSON(http.StatusOK, values)
}

// Locations handles GET /api/v1/services/locations.
func (h *ServiceHandler) Locations(c *gin.Context) {
	values, err := h.services.Locations(c.Request.Context())
	if err != nil {
		h.logger.Error("collecting service locations failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to collect locations"})
		return
	}
	c.JSON(http.StatusOK, values)
}

// Create handles POST /api/v1/services: the base record of the two-stage
// service creation. The descriptive detail record follows via CreateDetail.
func (h *ServiceHandler) Create(c *gin.Context) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var body CreateServiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	id, err := h.services.CreateService(c.Request.Context(), &models.Service{
		OwnerID:         uid,
		Location:        body.Location,
		ServiceTypes:    body.ServiceTypes,
		YearsExperience: body.YearsExperience,
	})
	if err != nil {
		h.logger.Warn("service creation failed", zap.String("serviceID", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, CreateResult{Success: false, ID: id, Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, CreateResult{Success: true, ID: id})
}

// CreateDetail handles POST /api/v1/services/details (multipart), the
// second stage of service creation, with the same partial-write semantics
// as request creation.
func (h *ServiceHandler) CreateDetail(c *gin.Context) {
	if _, ok := userIDFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var form CreateServiceDetailForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	image, err := imagePart(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid image upload", Details: err.Error()})
		return
	}
	if image != nil {
		defer image.Close()
	}

	id, err := h.services.CreateDetail(c.Request.Context(), &models.ServiceDetail{
		ServiceID:   form.ServiceID,
		Description: form.Description,
	}, readerOrNil(image))
	if err != nil {
		h.logger.Warn("service detail creation failed", zap.String("detailID", id), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, db.ErrUploadFailure) {
			status = http.StatusBadGateway
		}
		c.JSON(status, CreateResult{Success: false, ID: id, Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, CreateResult{Success: true, ID: id})
}
