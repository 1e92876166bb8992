package models

import "time"

// RequestStatus is the lifecycle state of a service request. The only legal
// transition is Open -> Closed; requests are never reopened or deleted.
type RequestStatus string

const (
	RequestOpen   RequestStatus = "Open"
	RequestClosed RequestStatus = "Closed"
)

// ServiceRequest is a job posted by a homeowner looking for help.
type ServiceRequest struct {
	ID          string        `json:"id" firestore:"id,omitempty"` // Document ID, back-filled after creation
	OwnerID     string        `json:"userId" firestore:"userId"`   // Firebase Auth UID of the poster
	Title       string        `json:"title" firestore:"title"`
	Description string        `json:"description,omitempty" firestore:"description,omitempty"`
	Category    string        `json:"category" firestore:"category"`
	Location    string        `json:"location" firestore:"location"`
	Status      RequestStatus `json:"status" firestore:"status"`
	Timestamp   time.Time     `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	ImageURL    string        `json:"imgSrc,omitempty" firestore:"imgSrc,omitempty"`
}

// RequestFromRecord builds a ServiceRequest from a raw store record.
// Missing or mistyped fields decode to their zero value; the store is
// schema-flexible and older documents may lack newer fields.
func RequestFromRecord(id string, data map[string]interface{}) *ServiceRequest {
	return &ServiceRequest{
		ID:          id,
		OwnerID:     stringField(data, "userId"),
		Title:       stringField(data, "title"),
		Description: stringField(data, "description"),
		Category:    stringField(data, "category"),
		Location:    stringField(data, "location"),
		Status:      RequestStatus(stringField(data, "status")),
		Timestamp:   timeField(data, "timestamp"),
		ImageURL:    stringField(data, "imgSrc"),
	}
}
