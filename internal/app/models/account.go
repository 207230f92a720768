package models

import (
	"strings"
	"time"
)

// Student is the only kind that can apply. ResumeURL is the onboarding
// artifact required before applying.
type Student struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	ResumeURL *string   `json:"resumeUrl,omitempty" db:"resume_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HasResume reports whether the onboarding artifact is on file.
func (s *Student) HasResume() bool {
	return s.ResumeURL != nil && strings.TrimSpace(*s.ResumeURL) != ""
}

// Professor owns vacancies as an individual supervisor.
type Professor struct {
	ID         int64     `json:"id" db:"id"`
	FirstName  string    `json:"firstName" db:"first_name"`
	LastName   string    `json:"lastName" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Department string    `json:"department" db:"department"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Institution owns vacancies as an organisation.
type Institution struct {
	ID        int64     `json:"id" db:"id"`
	LegalName string    `json:"legalName" db:"legal_name"`
	Email     string    `json:"email" db:"email"`
	Sector    string    `json:"sector" db:"sector"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Account is a tagged union over the three kinds. Exactly one of the
// variant pointers matching Kind is set.
type Account struct {
	Kind        RoleType     `json:"kind"`
	Student     *Student     `json:"student,omitempty"`
	Professor   *Professor   `json:"professor,omitempty"`
	Institution *Institution `json:"institution,omitempty"`
}

// NewStudentAccount wraps a student record.
func NewStudentAccount(s *Student) *Account {
	return &Account{Kind: RoleStudent, Student: s}
}

// NewProfessorAccount wraps a professor record.
func NewProfessorAccount(p *Professor) *Account {
	return &Account{Kind: RoleProfessor, Professor: p}
}

// NewInstitutionAccount wraps an institution record.
func NewInstitutionAccount(i *Institution) *Account {
	return &Account{Kind: RoleInstitution, Institution: i}
}

// ID returns the id of the populated variant, or 0.
func (a *Account) ID() int64 {
	switch a.Kind {
	case RoleStudent:
		if a.Student != nil {
			return a.Student.ID
		}
	case RoleProfessor:
		if a.Professor != nil {
			return a.Professor.ID
		}
	case RoleInstitution:
		if a.Institution != nil {
			return a.Institution.ID
		}
	}
	return 0
}

// Ref returns the account reference.
func (a *Account) Ref() AccountRef {
	return AccountRef{ID: a.ID(), Kind: a.Kind}
}

// Email returns the contact address of the populated variant.
func (a *Account) Email() string {
	switch {
	case a.Kind == RoleStudent && a.Student != nil:
		return a.Student.Email
	case a.Kind == RoleProfessor && a.Professor != nil:
		return a.Professor.Email
	case a.Kind == RoleInstitution && a.Institution != nil:
		return a.Institution.Email
	}
	return ""
}

// DisplayName is the name snapshotted onto messages.
func (a *Account) DisplayName() string {
	switch {
	case a.Kind == RoleStudent && a.Student != nil:
		return strings.TrimSpace(a.Student.FirstName + " " + a.Student.LastName)
	case a.Kind == RoleProfessor && a.Professor != nil:
		return strings.TrimSpace(a.Professor.FirstName + " " + a.Professor.LastName)
	case a.Kind == RoleInstitution && a.Institution != nil:
		return a.Institution.LegalName
	}
	return ""
}
