// Package seed creates development fixtures: one account of each kind and a
// vacancy to apply to.
package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/app/services"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

// AccountFinder resolves an existing account by contact address
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (models.AccountRef, error)
}

// TokenIssuer signs caller tokens for the seeded accounts
type TokenIssuer interface {
	IssueToken(userID int64, roleType, email string) (string, error)
}

// Seeder wires the services the fixtures are created through
type Seeder struct {
	Directory services.DirectoryService
	Vacancies services.VacancyService
	Accounts  AccountFinder
	Tokens    TokenIssuer
	Logger    zerolog.Logger
}

func fixtures() []*models.Account {
	resume := "https://files.vacantes.local/resumes/ana-ruiz.pdf"
	return []*models.Account{
		models.NewStudentAccount(&models.Student{
			FirstName: "Ana", LastName: "Ruiz", Email: "ana.ruiz@alumnos.vacantes.local", ResumeURL: &resume,
		}),
		models.NewProfessorAccount(&models.Professor{
			FirstName: "Luis", LastName: "Pardo", Email: "luis.pardo@docentes.vacantes.local", Department: "Computer Science",
		}),
		models.NewInstitutionAccount(&models.Institution{
			LegalName: "Acme Research Labs", Email: "talent@acme.vacantes.local", Sector: "Research",
		}),
	}
}

// CreateDefaultData registers the fixtures if missing and logs a dev token for each.
// Failures are collected so one bad fixture does not stop the rest.
func (s *Seeder) CreateDefaultData(ctx context.Context) error {
	s.Logger.Info().Msg("Checking/Creating default data (accounts/vacancy)...")
	var finalErr error

	refs := make(map[models.RoleType]models.AccountRef)
	for _, acc := range fixtures() {
		ref, err := s.ensureAccount(ctx, acc)
		if err != nil {
			s.Logger.Error().Err(err).Str("kind", string(acc.Kind)).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		refs[acc.Kind] = ref

		token, err := s.Tokens.IssueToken(ref.ID, string(ref.Kind), acc.Email())
		if err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		s.Logger.Info().Str("account", ref.String()).Str("email", acc.Email()).Str("token", token).Msg("Development token")
	}

	if owner, ok := refs[models.RoleProfessor]; ok {
		if err := s.ensureVacancy(ctx, owner); err != nil {
			s.Logger.Error().Err(err).Msg("Error creating default vacancy")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}

func (s *Seeder) ensureAccount(ctx context.Context, acc *models.Account) (models.AccountRef, error) {
	err := s.Directory.Register(ctx, acc)
	if err == nil {
		return acc.Ref(), nil
	}
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return models.AccountRef{}, err
	}
	return s.Accounts.FindByEmail(ctx, acc.Email())
}

func (s *Seeder) ensureVacancy(ctx context.Context, owner models.AccountRef) error {
	existing, err := s.Vacancies.ListByOwner(ctx, owner)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	capacity := 2
	view, err := s.Vacancies.Create(ctx, owner, services.VacancyInput{
		Title:       "Research assistant, distributed systems lab",
		Description: "Part-time position supporting experiments on replicated storage.",
		Capacity:    &capacity,
	})
	if err != nil {
		return err
	}
	s.Logger.Info().Int64("vacancyID", view.ID).Str("owner", owner.String()).Msg("Default vacancy created")
	return nil
}
