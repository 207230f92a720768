package models

import "time"

// AssociationStatus is always ACTIVE when written by the engine.
type AssociationStatus string

const AssociationActive AssociationStatus = "ACTIVE"

// Association records that a student joined an owner's roster through an
// accepted application.
type Association struct {
	ID        int64             `json:"id" db:"id"`
	Owner     AccountRef        `json:"owner"`
	StudentID int64             `json:"studentId" db:"student_id"`
	VacancyID int64             `json:"vacancyId" db:"vacancy_id"`
	Status    AssociationStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
}
