package repositories

import (
	"context"

	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/app/repositories/account"
	"github.com/yigit/vacantes/internal/db"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

// AccountRepository combines the per-kind account repositories
type AccountRepository struct {
	contacts    *account.ContactRepository
	student     *account.StudentRepository
	professor   *account.ProfessorRepository
	institution *account.InstitutionRepository
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(conn db.ConnProvider) *AccountRepository {
	return &AccountRepository{
		contacts:    account.NewContactRepository(conn),
		student:     account.NewStudentRepository(conn),
		professor:   account.NewProfessorRepository(conn),
		institution: account.NewInstitutionRepository(conn),
	}
}

// GetStudent retrieves a student by ID
func (r *AccountRepository) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return r.student.GetByID(ctx, id)
}

// GetProfessor retrieves a professor by ID
func (r *AccountRepository) GetProfessor(ctx context.Context, id int64) (*models.Professor, error) {
	return r.professor.GetByID(ctx, id)
}

// GetInstitution retrieves an institution by ID
func (r *AccountRepository) GetInstitution(ctx context.Context, id int64) (*models.Institution, error) {
	return r.institution.GetByID(ctx, id)
}

// Create inserts the populated variant of acc and claims its contact address.
// Run it inside a unit of work so a taken address rolls the record back.
func (r *AccountRepository) Create(ctx context.Context, acc *models.Account) error {
	var err error
	switch {
	case acc.Kind == models.RoleStudent && acc.Student != nil:
		err = r.student.Create(ctx, acc.Student)
	case acc.Kind == models.RoleProfessor && acc.Professor != nil:
		err = r.professor.Create(ctx, acc.Professor)
	case acc.Kind == models.RoleInstitution && acc.Institution != nil:
		err = r.institution.Create(ctx, acc.Institution)
	default:
		return apperrors.ErrUnknownAccountKind
	}
	if err != nil {
		return err
	}
	return r.contacts.Claim(ctx, acc.Email(), acc.Ref())
}

// FindByEmail resolves the account reference that owns a contact address.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (models.AccountRef, error) {
	return r.contacts.Owner(ctx, email)
}
