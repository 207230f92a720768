package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "applications_student_vacancy_key"}
	wrapped := fmt.Errorf("insert application: %w", pgErr)

	assert.True(t, IsDuplicateConstraintError(wrapped, "applications_student_vacancy_key"))
	assert.False(t, IsDuplicateConstraintError(wrapped, "account_contacts_pkey"))
	assert.False(t, IsDuplicateConstraintError(errors.New("other"), "applications_student_vacancy_key"))
}

func TestIsForeignKeyAndCheckErrors(t *testing.T) {
	assert.True(t, IsForeignKeyError(&pgconn.PgError{Code: CodeForeignKeyViolation}))
	assert.False(t, IsForeignKeyError(&pgconn.PgError{Code: CodeUniqueViolation}))
	assert.True(t, IsCheckConstraintError(&pgconn.PgError{Code: CodeCheckViolation, ConstraintName: "vacancies_capacity_check"}, "vacancies_capacity_check"))
}
