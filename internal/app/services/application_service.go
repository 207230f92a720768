package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
	"github.com/yigit/vacantes/internal/pkg/metrics"
)

// ApplicationService governs the application lifecycle:
// PENDING -> ACCEPTED | REJECTED by the owner, PENDING -> deleted by the student.
type ApplicationService interface {
	Create(ctx context.Context, studentID, vacancyID int64) (*models.Application, error)
	Accept(ctx context.Context, vacancyID, applicationID int64, owner models.AccountRef, comment *string) (*models.Application, error)
	Reject(ctx context.Context, vacancyID, applicationID int64, owner models.AccountRef, comment *string) (*models.Application, error)
	Cancel(ctx context.Context, applicationID, studentID int64) error
	ListMine(ctx context.Context, studentID int64, state *models.ApplicationState) ([]*models.ApplicationWithVacancy, error)
	ListForVacancy(ctx context.Context, vacancyID int64, owner models.AccountRef, state *models.ApplicationState) ([]*models.Application, error)
	Get(ctx context.Context, applicationID int64, caller models.AccountRef) (*models.Application, error)
}

type applicationServiceImpl struct {
	applications ApplicationStore
	vacancies    VacancyStore
	capacity     CapacityService
	directory    DirectoryService
	ledger       AssociationService
	tx           Transactor
	now          Clock
	logger       zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applications ApplicationStore,
	vacancies VacancyStore,
	capacity CapacityService,
	directory DirectoryService,
	ledger AssociationService,
	tx Transactor,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationServiceImpl{
		applications: applications,
		vacancies:    vacancies,
		capacity:     capacity,
		directory:    directory,
		ledger:       ledger,
		tx:           tx,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *applicationServiceImpl) record(op string, err error) {
	metrics.RecordTransition(op, apperrors.KindOf(err))
	if err == nil {
		return
	}
	if apperrors.IsDomain(err) {
		s.logger.Debug().Err(err).Str("operation", op).Str("kind", apperrors.KindOf(err)).Msg("Application operation refused")
		return
	}
	s.logger.Error().Err(err).Str("operation", op).Msg("Application operation failed")
}

// Create admits a PENDING application. The seat check here is speculative;
// accept re-checks under the vacancy lock.
func (s *applicationServiceImpl) Create(ctx context.Context, studentID, vacancyID int64) (app *models.Application, err error) {
	defer func() { s.record("create", err) }()

	v, err := s.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}

	exists, err := s.applications.Exists(ctx, studentID, vacancyID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateApplication
	}

	acc, err := s.directory.Resolve(ctx, models.AccountRef{ID: studentID, Kind: models.RoleStudent})
	if err != nil {
		return nil, err
	}
	if !acc.Student.HasResume() {
		return nil, apperrors.NewCustomError(apperrors.ErrMissingPrerequisite, "a resume must be on file before applying")
	}

	accepted, err := s.applications.CountAccepted(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if s.capacity.SeatsFor(v, accepted) == 0 {
		return nil, apperrors.ErrNoSeatsAvailable
	}

	app = &models.Application{StudentID: studentID, VacancyID: vacancyID, State: models.ApplicationPending}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("applicationID", app.ID).Int64("vacancyID", vacancyID).Int64("studentID", studentID).Msg("Application created")
	return app, nil
}

// Accept moves a PENDING application to ACCEPTED. The vacancy row is locked
// for the whole unit of work so the fresh accepted count cannot be raced.
// The roster append runs after commit; if it fails the acceptance still
// stands and Reconcile repairs the roster.
func (s *applicationServiceImpl) Accept(ctx context.Context, vacancyID, applicationID int64, owner models.AccountRef, comment *string) (app *models.Application, err error) {
	defer func() { s.record("accept", err) }()

	var v *models.Vacancy
	app, v, err = s.respond(ctx, vacancyID, applicationID, owner, comment, models.ApplicationAccepted)
	if err != nil {
		return nil, err
	}

	if _, ledgerErr := s.ledger.EnsureAssociated(ctx, v.Owner, app.StudentID, app.VacancyID); ledgerErr != nil {
		metrics.RecordLedgerAppendFailure()
		s.logger.Error().Err(ledgerErr).
			Int64("applicationID", app.ID).
			Int64("vacancyID", app.VacancyID).
			Int64("studentID", app.StudentID).
			Msg("Roster append failed after acceptance; reconcile will retry")
	}

	s.logger.Info().Int64("applicationID", app.ID).Int64("vacancyID", vacancyID).Msg("Application accepted")
	return app, nil
}

// Reject moves a PENDING application to REJECTED
func (s *applicationServiceImpl) Reject(ctx context.Context, vacancyID, applicationID int64, owner models.AccountRef, comment *string) (app *models.Application, err error) {
	defer func() { s.record("reject", err) }()

	app, _, err = s.respond(ctx, vacancyID, applicationID, owner, comment, models.ApplicationRejected)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("applicationID", app.ID).Int64("vacancyID", vacancyID).Msg("Application rejected")
	return app, nil
}

func (s *applicationServiceImpl) respond(
	ctx context.Context,
	vacancyID, applicationID int64,
	owner models.AccountRef,
	comment *string,
	target models.ApplicationState,
) (*models.Application, *models.Vacancy, error) {
	var (
		updated *models.Application
		vacancy *models.Vacancy
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		v, err := s.vacancies.LockByID(ctx, vacancyID)
		if err != nil {
			return err
		}
		if !v.OwnedBy(owner) {
			return apperrors.ErrNotOwner
		}

		app, err := s.applications.GetByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if app.VacancyID != vacancyID {
			return apperrors.ErrApplicationNotFound
		}
		if app.State != models.ApplicationPending {
			return apperrors.ErrInvalidStateTransition
		}

		if target == models.ApplicationAccepted {
			accepted, err := s.applications.CountAccepted(ctx, vacancyID)
			if err != nil {
				return err
			}
			if s.capacity.SeatsFor(v, accepted) == 0 {
				return apperrors.ErrNoSeatsAvailable
			}
		}

		next, ok, err := s.applications.UpdateStateIfPending(ctx, applicationID, target, comment, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrInvalidStateTransition
		}
		updated, vacancy = next, v
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, vacancy, nil
}

// Cancel deletes the student's own PENDING application, re-opening the slot
func (s *applicationServiceImpl) Cancel(ctx context.Context, applicationID, studentID int64) (err error) {
	defer func() { s.record("cancel", err) }()

	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.StudentID != studentID {
		return apperrors.ErrNotOwner
	}
	if app.State != models.ApplicationPending {
		return apperrors.ErrInvalidStateTransition
	}

	deleted, err := s.applications.DeleteIfPending(ctx, applicationID)
	if err != nil {
		return err
	}
	if !deleted {
		// decided between the read and the delete
		return apperrors.ErrInvalidStateTransition
	}

	s.logger.Info().Int64("applicationID", applicationID).Int64("studentID", studentID).Msg("Application cancelled")
	return nil
}

// ListMine returns the student's applications, newest first, with live seats
func (s *applicationServiceImpl) ListMine(ctx context.Context, studentID int64, state *models.ApplicationState) ([]*models.ApplicationWithVacancy, error) {
	items, err := s.applications.ListByStudent(ctx, studentID, state)
	if err != nil {
		return nil, err
	}

	vacancies := make([]*models.Vacancy, 0, len(items))
	for _, item := range items {
		vacancies = append(vacancies, &item.Vacancy)
	}
	seats, err := s.capacity.AvailableSeatsBatch(ctx, vacancies)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.AvailableSeats = seats[item.VacancyID]
	}
	return items, nil
}

// ListForVacancy returns the applicants of one of the owner's vacancies
func (s *applicationServiceImpl) ListForVacancy(ctx context.Context, vacancyID int64, owner models.AccountRef, state *models.ApplicationState) ([]*models.Application, error) {
	v, err := s.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if !v.OwnedBy(owner) {
		return nil, apperrors.ErrNotOwner
	}
	return s.applications.ListByVacancy(ctx, vacancyID, state)
}

// Get returns an application to its student or to the vacancy owner
func (s *applicationServiceImpl) Get(ctx context.Context, applicationID int64, caller models.AccountRef) (*models.Application, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if caller.Same(app.StudentRef()) {
		return app, nil
	}

	v, err := s.vacancies.GetByID(ctx, app.VacancyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrVacancyNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, err
	}
	if !v.OwnedBy(caller) {
		return nil, apperrors.NewForbiddenError("application belongs to another account")
	}
	return app, nil
}
