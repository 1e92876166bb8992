package models

import "time"

// Service is a provider's standing offer of work. ServiceTypes is a non-empty
// set of category tags; category filtering is membership in this set, not
// equality against a single value.
type Service struct {
	ID              string    `json:"serviceId" firestore:"serviceId,omitempty"` // Document ID, back-filled after creation
	OwnerID         string    `json:"userId" firestore:"userId"`
	Location        string    `json:"location" firestore:"location"`
	ServiceTypes    []string  `json:"service_type" firestore:"service_type"`
	YearsExperience int       `json:"yearsExperience" firestore:"yearsExperience"`
	Timestamp       time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}

// ServiceDetail carries the descriptive half of a service listing. It is
// created in a second step after the parent Service exists; the parent link
// is an ordinary field, not an enforced foreign key.
type ServiceDetail struct {
	ID          string `json:"userServiceDetailsId" firestore:"userServiceDetailsId,omitempty"`
	ServiceID   string `json:"serviceId,omitempty" firestore:"serviceId,omitempty"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
	ImageURL    string `json:"serviceImg,omitempty" firestore:"serviceImg,omitempty"`
}

// ServiceFromRecord builds a Service from a raw store record.
func ServiceFromRecord(id string, data map[string]interface{}) *Service {
	return &Service{
		ID:              id,
		OwnerID:         stringField(data, "userId"),
		Location:        stringField(data, "location"),
		ServiceTypes:    stringsField(data, "service_type"),
		YearsExperience: intField(data, "yearsExperience"),
		Timestamp:       timeField(data, "timestamp"),
	}
}

// ServiceDetailFromRecord builds a ServiceDetail from a raw store record.
func ServiceDetailFromRecord(id string, data map[string]interface{}) *ServiceDetail {
	return &ServiceDetail{
		ID:          id,
		ServiceID:   stringField(data, "serviceId"),
		Description: stringField(data, "description"),
		ImageURL:    stringField(data, "serviceImg"),
	}
}
