package api

import "handymandy-backend-go/internal/models"

// ErrorResponse is the generic error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreateResult reports the outcome of a creation operation. A failed upload
// after a successful insert still carries the generated id, since the record
// exists (without its image) and is not rolled back.
type CreateResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SignInRequest carries credentials for delegated sign-in.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse returns the issued credential and the signed-in identity.
type SignInResponse struct {
	Token       string `json:"token"`
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// SessionResponse describes the resolved session for the current credential.
type SessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	UID           string              `json:"uid,omitempty"`
	Email         string              `json:"email,omitempty"`
	DisplayName   string              `json:"displayName,omitempty"`
	Profile       *models.UserProfile `json:"profile,omitempty"`
}

// CreateServiceRequestForm is the multipart form for posting a request; the
// image arrives as the "image" file part.
type CreateServiceRequestForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	Category    string `form:"category" binding:"required"`
	Location    string `form:"location" binding:"required"`
}

// CreateServiceBody is the JSON body for creating a base service record.
type CreateServiceBody struct {
	Location        string   `json:"location" binding:"required"`
	ServiceTypes    []string `json:"service_type" binding:"required,min=1"`
	YearsExperience int      `json:"yearsExperience"`
}

// CreateServiceDetailForm is the multipart form for the second-stage detail
// record; the image arrives as the "image" file part.
type CreateServiceDetailForm struct {
	ServiceID   string `form:"serviceId"`
	Description string `form:"description"`
}

// ReplaceCertificationsBody replaces a profile's whole credential list.
type ReplaceCertificationsBody struct {
	Certifications []models.Certification `json:"certifications"`
}
