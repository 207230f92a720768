package models

import (
	"fmt"
	"strings"

	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

// RoleType is the account kind discriminant, also carried in caller tokens.
type RoleType string

const (
	RoleStudent     RoleType = "STUDENT"
	RoleProfessor   RoleType = "PROFESSOR"
	RoleInstitution RoleType = "INSTITUTION"
)

// ParseRoleType accepts the three kinds case-insensitively.
func ParseRoleType(s string) (RoleType, error) {
	switch RoleType(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleProfessor:
		return RoleProfessor, nil
	case RoleInstitution:
		return RoleInstitution, nil
	}
	return "", apperrors.NewCustomError(apperrors.ErrUnknownAccountKind, fmt.Sprintf("unknown account kind %q", s))
}

// Valid reports whether r is one of the three kinds.
func (r RoleType) Valid() bool {
	return r == RoleStudent || r == RoleProfessor || r == RoleInstitution
}

// CanApply is true only for students.
func (r RoleType) CanApply() bool {
	return r == RoleStudent
}

// CanOwnVacancies is true for professors and institutions.
func (r RoleType) CanOwnVacancies() bool {
	return r == RoleProfessor || r == RoleInstitution
}

// AccountRef identifies an account by id within its kind.
type AccountRef struct {
	ID   int64    `json:"id"`
	Kind RoleType `json:"kind"`
}

// String renders "KIND:id", also used for rate limit keys and logs.
func (r AccountRef) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// Same reports whether both refs name the same account.
func (r AccountRef) Same(other AccountRef) bool {
	return r.ID == other.ID && r.Kind == other.Kind
}
