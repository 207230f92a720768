package dto

import "time"

// RespondApplicationRequest is the optional comment sent with accept or reject
type RespondApplicationRequest struct {
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000" example:"Welcome aboard"`
}

// ApplicationFilterRequest holds the optional state filter for listings
type ApplicationFilterRequest struct {
	State string `form:"state" validate:"omitempty,oneof=PENDING ACCEPTED REJECTED pending accepted rejected"`
}

// ApplicationResponse represents an application in API responses
type ApplicationResponse struct {
	ID              int64      `json:"id" example:"40"`
	StudentID       int64      `json:"studentId" example:"7"`
	VacancyID       int64      `json:"vacancyId" example:"12"`
	State           string     `json:"state" example:"PENDING"`
	CreatedAt       time.Time  `json:"createdAt"`
	RespondedAt     *time.Time `json:"respondedAt,omitempty"`
	ResponseComment *string    `json:"responseComment,omitempty"`
}

// MyApplicationResponse is a student's application with its vacancy and live seats
type MyApplicationResponse struct {
	ApplicationResponse
	VacancyTitle   string `json:"vacancyTitle" example:"Backend internship"`
	AvailableSeats int    `json:"availableSeats" example:"0"`
}

// AssociationResponse is one roster entry
type AssociationResponse struct {
	ID        int64     `json:"id" example:"5"`
	StudentID int64     `json:"studentId" example:"7"`
	VacancyID int64     `json:"vacancyId" example:"12"`
	Status    string    `json:"status" example:"ACTIVE"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReconcileResponse reports how many roster entries a reconcile appended
type ReconcileResponse struct {
	Appended int64 `json:"appended" example:"1"`
}
