package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

// DirectoryService resolves account references to one of the three kinds.
type DirectoryService interface {
	Resolve(ctx context.Context, ref models.AccountRef) (*models.Account, error)
	ResolveRole(ctx context.Context, id int64, role string) (*models.Account, error)
	Register(ctx context.Context, acc *models.Account) error
}

type directoryServiceImpl struct {
	accounts AccountStore
	tx       Transactor
	logger   zerolog.Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(accounts AccountStore, tx Transactor, logger zerolog.Logger) DirectoryService {
	return &directoryServiceImpl{
		accounts: accounts,
		tx:       tx,
		logger:   logger,
	}
}

// Resolve looks ref up in the store of its kind
func (s *directoryServiceImpl) Resolve(ctx context.Context, ref models.AccountRef) (*models.Account, error) {
	if !ref.Kind.Valid() {
		return nil, apperrors.NewCustomError(apperrors.ErrUnknownAccountKind, fmt.Sprintf("unknown account kind %q", ref.Kind))
	}
	if ref.ID <= 0 {
		return nil, apperrors.NewValidationError("account id must be positive")
	}

	switch ref.Kind {
	case models.RoleStudent:
		st, err := s.accounts.GetStudent(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return models.NewStudentAccount(st), nil
	case models.RoleProfessor:
		p, err := s.accounts.GetProfessor(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return models.NewProfessorAccount(p), nil
	case models.RoleInstitution:
		i, err := s.accounts.GetInstitution(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return models.NewInstitutionAccount(i), nil
	}

	return nil, apperrors.NewCustomError(apperrors.ErrUnknownAccountKind, fmt.Sprintf("unknown account kind %q", ref.Kind))
}

// ResolveRole parses the role tag first, so an unknown tag fails before any lookup
func (s *directoryServiceImpl) ResolveRole(ctx context.Context, id int64, role string) (*models.Account, error) {
	kind, err := models.ParseRoleType(role)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, models.AccountRef{ID: id, Kind: kind})
}

// Register creates the account record and claims its contact address in one unit of work
func (s *directoryServiceImpl) Register(ctx context.Context, acc *models.Account) error {
	if err := validateAccount(acc); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.accounts.Create(ctx, acc)
	})
	if err != nil {
		if !apperrors.IsDomain(err) {
			s.logger.Error().Err(err).Str("kind", string(acc.Kind)).Msg("Failed to register account")
		}
		return err
	}

	s.logger.Info().Str("account", acc.Ref().String()).Msg("Account registered")
	return nil
}

func validateAccount(acc *models.Account) error {
	if acc == nil || !acc.Kind.Valid() {
		return apperrors.ErrUnknownAccountKind
	}

	var missing []string
	switch acc.Kind {
	case models.RoleStudent:
		if acc.Student == nil {
			return apperrors.NewValidationError("student record is required")
		}
		if strings.TrimSpace(acc.Student.FirstName) == "" {
			missing = append(missing, "firstName")
		}
		if strings.TrimSpace(acc.Student.LastName) == "" {
			missing = append(missing, "lastName")
		}
	case models.RoleProfessor:
		if acc.Professor == nil {
			return apperrors.NewValidationError("professor record is required")
		}
		if strings.TrimSpace(acc.Professor.FirstName) == "" {
			missing = append(missing, "firstName")
		}
		if strings.TrimSpace(acc.Professor.LastName) == "" {
			missing = append(missing, "lastName")
		}
	case models.RoleInstitution:
		if acc.Institution == nil {
			return apperrors.NewValidationError("institution record is required")
		}
		if strings.TrimSpace(acc.Institution.LegalName) == "" {
			missing = append(missing, "legalName")
		}
	}
	if strings.TrimSpace(acc.Email()) == "" {
		missing = append(missing, "email")
	}

	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}
