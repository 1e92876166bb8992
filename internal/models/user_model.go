package models

// Certification is one credential record on a user profile. The list is
// ordered and only ever replaced wholesale, never edited element-wise.
type Certification struct {
	Name   string `json:"name" firestore:"name"`
	Issuer string `json:"issuer,omitempty" firestore:"issuer,omitempty"`
	Year   int    `json:"year,omitempty" firestore:"year,omitempty"`
}

// UserProfile is the marketplace-facing profile for a Firebase Auth user.
// The Auth UID is the document ID.
type UserProfile struct {
	ID             string          `json:"id" firestore:"-"`
	DisplayName    string          `json:"username" firestore:"username"`
	PhotoURL       string          `json:"profilePicture,omitempty" firestore:"profilePicture,omitempty"`
	Certifications []Certification `json:"certifications,omitempty" firestore:"certifications,omitempty"`
}
