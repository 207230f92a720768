package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/app/services"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

type fakeDirectory struct {
	services.DirectoryService
	byEmail map[string]models.AccountRef
	nextID  int64
}

func (d *fakeDirectory) Register(_ context.Context, acc *models.Account) error {
	if _, ok := d.byEmail[acc.Email()]; ok {
		return apperrors.ErrEmailAlreadyExists
	}
	d.nextID++
	switch acc.Kind {
	case models.RoleStudent:
		acc.Student.ID = d.nextID
	case models.RoleProfessor:
		acc.Professor.ID = d.nextID
	case models.RoleInstitution:
		acc.Institution.ID = d.nextID
	}
	d.byEmail[acc.Email()] = acc.Ref()
	return nil
}

func (d *fakeDirectory) FindByEmail(_ context.Context, email string) (models.AccountRef, error) {
	ref, ok := d.byEmail[email]
	if !ok {
		return models.AccountRef{}, apperrors.ErrAccountNotFound
	}
	return ref, nil
}

type fakeVacancies struct {
	services.VacancyService
	created []models.AccountRef
}

func (v *fakeVacancies) ListByOwner(_ context.Context, owner models.AccountRef) ([]services.VacancyView, error) {
	var out []services.VacancyView
	for _, o := range v.created {
		if o.Same(owner) {
			out = append(out, services.VacancyView{Vacancy: &models.Vacancy{Owner: o}})
		}
	}
	return out, nil
}

func (v *fakeVacancies) Create(_ context.Context, owner models.AccountRef, in services.VacancyInput) (*services.VacancyView, error) {
	v.created = append(v.created, owner)
	return &services.VacancyView{Vacancy: &models.Vacancy{ID: int64(len(v.created)), Owner: owner, Title: in.Title}}, nil
}

type fakeTokens struct {
	issued []string
	fail   bool
}

func (t *fakeTokens) IssueToken(userID int64, roleType, _ string) (string, error) {
	if t.fail {
		return "", errors.New("signing failed")
	}
	t.issued = append(t.issued, roleType)
	return "token-" + strings.ToLower(roleType), nil
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	dir := &fakeDirectory{byEmail: map[string]models.AccountRef{}}
	vacancies := &fakeVacancies{}
	tokens := &fakeTokens{}
	s := &Seeder{Directory: dir, Vacancies: vacancies, Accounts: dir, Tokens: tokens, Logger: zerolog.Nop()}

	require.NoError(t, s.CreateDefaultData(context.Background()))
	require.NoError(t, s.CreateDefaultData(context.Background()))

	assert.Len(t, dir.byEmail, 3)
	assert.Len(t, vacancies.created, 1)
	assert.Equal(t, models.RoleProfessor, vacancies.created[0].Kind)
	assert.Len(t, tokens.issued, 6)
}

func TestCreateDefaultDataCollectsErrors(t *testing.T) {
	dir := &fakeDirectory{byEmail: map[string]models.AccountRef{}}
	s := &Seeder{Directory: dir, Vacancies: &fakeVacancies{}, Accounts: dir, Tokens: &fakeTokens{fail: true}, Logger: zerolog.Nop()}

	err := s.CreateDefaultData(context.Background())
	require.Error(t, err)
	assert.Len(t, dir.byEmail, 3)
}
