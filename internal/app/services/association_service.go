package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

// AssociationService maintains the owners' rosters. Appends are idempotent.
type AssociationService interface {
	EnsureAssociated(ctx context.Context, owner models.AccountRef, studentID, vacancyID int64) (bool, error)
	Roster(ctx context.Context, owner models.AccountRef) ([]*models.Association, error)
	Reconcile(ctx context.Context, owner models.AccountRef) (int64, error)
}

type associationServiceImpl struct {
	associations AssociationStore
	logger       zerolog.Logger
}

// NewAssociationService creates a new AssociationService
func NewAssociationService(associations AssociationStore, logger zerolog.Logger) AssociationService {
	return &associationServiceImpl{
		associations: associations,
		logger:       logger,
	}
}

// EnsureAssociated appends (student, vacancy, ACTIVE) to the owner's roster
// unless present. It reports whether an entry was written.
func (s *associationServiceImpl) EnsureAssociated(ctx context.Context, owner models.AccountRef, studentID, vacancyID int64) (bool, error) {
	if !owner.Kind.CanOwnVacancies() {
		return false, apperrors.NewForbiddenError("only vacancy owners keep a roster")
	}

	inserted, err := s.associations.InsertIfAbsent(ctx, owner, studentID, vacancyID)
	if err != nil {
		return false, err
	}
	if inserted {
		s.logger.Info().Str("owner", owner.String()).Int64("studentID", studentID).Int64("vacancyID", vacancyID).Msg("Roster entry appended")
	}
	return inserted, nil
}

// Roster lists the owner's entries
func (s *associationServiceImpl) Roster(ctx context.Context, owner models.AccountRef) ([]*models.Association, error) {
	if !owner.Kind.CanOwnVacancies() {
		return nil, apperrors.NewForbiddenError("only vacancy owners keep a roster")
	}
	return s.associations.ListByOwner(ctx, owner)
}

// Reconcile appends entries for every accepted application of the owner's
// vacancies that is missing one.
func (s *associationServiceImpl) Reconcile(ctx context.Context, owner models.AccountRef) (int64, error) {
	if !owner.Kind.CanOwnVacancies() {
		return 0, apperrors.NewForbiddenError("only vacancy owners keep a roster")
	}

	n, err := s.associations.BackfillForOwner(ctx, owner)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner.String()).Msg("Roster reconcile failed")
		return 0, err
	}
	if n > 0 {
		s.logger.Warn().Int64("appended", n).Str("owner", owner.String()).Msg("Roster reconcile appended missing entries")
	}
	return n, nil
}
