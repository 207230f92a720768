package dto

// AccountResponse describes the caller's account. Only the fields of its kind are set.
type AccountResponse struct {
	ID          int64   `json:"id" example:"7"`
	Kind        string  `json:"kind" example:"STUDENT"`
	DisplayName string  `json:"displayName" example:"Ana Ruiz"`
	Email       string  `json:"email" example:"ana@example.com"`
	ResumeURL   *string `json:"resumeUrl,omitempty"`
	Department  *string `json:"department,omitempty"`
	Sector      *string `json:"sector,omitempty"`
}
