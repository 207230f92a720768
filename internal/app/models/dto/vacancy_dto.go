package dto

import "time"

// CreateVacancyRequest represents a vacancy posting request
type CreateVacancyRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255" example:"Backend internship"`
	Description string `json:"description" validate:"max=5000" example:"Six month internship working on Go services"`
	// Capacity defaults to 1 when omitted.
	Capacity *int `json:"capacity,omitempty" validate:"omitempty,min=0,max=10000" example:"2"`
}

// UpdateVacancyRequest carries the editable vacancy fields; nil leaves a field unchanged.
type UpdateVacancyRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Capacity    *int    `json:"capacity,omitempty" validate:"omitempty,min=0,max=10000"`
}

// VacancyResponse is a vacancy annotated with its live seat count
type VacancyResponse struct {
	ID             int64     `json:"id" example:"12"`
	OwnerID        int64     `json:"ownerId" example:"3"`
	OwnerKind      string    `json:"ownerKind" example:"PROFESSOR"`
	Title          string    `json:"title" example:"Backend internship"`
	Description    string    `json:"description"`
	Capacity       int       `json:"capacity" example:"2"`
	AvailableSeats int       `json:"availableSeats" example:"1"`
	PublishedAt    time.Time `json:"publishedAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// VacancyListResponse is a page of published vacancies
type VacancyListResponse struct {
	Vacancies  []VacancyResponse `json:"vacancies"`
	Pagination PaginationInfo    `json:"pagination"`
}

// SeatsResponse reports the seat arithmetic for one vacancy
type SeatsResponse struct {
	VacancyID      int64 `json:"vacancyId" example:"12"`
	Capacity       int   `json:"capacity" example:"2"`
	AvailableSeats int   `json:"availableSeats" example:"1"`
}
