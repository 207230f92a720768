package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

// ApplicationState is the lifecycle state of an application.
type ApplicationState string

const (
	ApplicationPending  ApplicationState = "PENDING"
	ApplicationAccepted ApplicationState = "ACCEPTED"
	ApplicationRejected ApplicationState = "REJECTED"
)

// ParseApplicationState parses a state filter value.
func ParseApplicationState(s string) (ApplicationState, error) {
	switch ApplicationState(strings.ToUpper(strings.TrimSpace(s))) {
	case ApplicationPending:
		return ApplicationPending, nil
	case ApplicationAccepted:
		return ApplicationAccepted, nil
	case ApplicationRejected:
		return ApplicationRejected, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("unknown application state %q", s))
}

// Terminal states never transition again.
func (s ApplicationState) Terminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// Application is a student's request for one seat of a vacancy.
type Application struct {
	ID              int64            `json:"id" db:"id"`
	StudentID       int64            `json:"studentId" db:"student_id"`
	VacancyID       int64            `json:"vacancyId" db:"vacancy_id"`
	State           ApplicationState `json:"state" db:"state"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	RespondedAt     *time.Time       `json:"respondedAt,omitempty" db:"responded_at"`
	ResponseComment *string          `json:"responseComment,omitempty" db:"response_comment"`
}

// StudentRef returns the applicant as an account reference.
func (a *Application) StudentRef() AccountRef {
	return AccountRef{ID: a.StudentID, Kind: RoleStudent}
}

// ApplicationWithVacancy pairs an application with its vacancy and the
// live seat count at read time.
type ApplicationWithVacancy struct {
	Application
	Vacancy        Vacancy `json:"vacancy"`
	AvailableSeats int     `json:"availableSeats"`
}
