package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"vacancy not found", ErrVacancyNotFound, KindVacancyNotFound},
		{"application not found", ErrApplicationNotFound, KindNotFound},
		{"account not found", ErrAccountNotFound, KindAccountNotFound},
		{"not owner", ErrNotOwner, KindNotOwner},
		{"forbidden", NewForbiddenError("nope"), KindForbidden},
		{"wrapped seats", fmt.Errorf("accept: %w", ErrNoSeatsAvailable), KindNoSeatsAvailable},
		{"custom duplicate", NewCustomError(ErrDuplicateApplication, "already applied"), KindDuplicateApplication},
		{"validation", NewValidationError("bad input"), KindValidationError},
		{"email conflict", ErrEmailAlreadyExists, KindConflict},
		{"opaque", errors.New("connection reset"), KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestNotOwnerIsAlsoPermissionDenied(t *testing.T) {
	assert.True(t, errors.Is(ErrNotOwner, ErrPermissionDenied))
	assert.True(t, errors.Is(ErrVacancyNotFound, ErrResourceNotFound))
	assert.False(t, IsDomain(errors.New("boom")))
	assert.True(t, IsDomain(ErrInvalidPairing))
}

func TestCustomErrorMessage(t *testing.T) {
	err := NewCustomError(ErrMissingPrerequisite, "upload a resume first")
	assert.Equal(t, "upload a resume first", err.Error())
	assert.ErrorIs(t, err, ErrMissingPrerequisite)

	bare := &CustomError{Err: ErrInvalidPairing}
	assert.Equal(t, ErrInvalidPairing.Error(), bare.Error())
}
