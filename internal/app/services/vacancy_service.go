package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

// VacancyInput carries the fields of a new vacancy
type VacancyInput struct {
	Title       string
	Description string
	Capacity    *int
}

// VacancyUpdate carries optional field changes; nil leaves a field as is
type VacancyUpdate struct {
	Title       *string
	Description *string
	Capacity    *int
}

// VacancyView is a vacancy with the seats available at read time
type VacancyView struct {
	*models.Vacancy
	AvailableSeats int
}

// VacancyService manages vacancies on behalf of their owners
type VacancyService interface {
	Create(ctx context.Context, owner models.AccountRef, in VacancyInput) (*VacancyView, error)
	Update(ctx context.Context, id int64, owner models.AccountRef, in VacancyUpdate) (*VacancyView, error)
	Delete(ctx context.Context, id int64, owner models.AccountRef) error
	Get(ctx context.Context, id int64) (*VacancyView, error)
	ListPublished(ctx context.Context, page, size int) ([]VacancyView, int64, error)
	ListByOwner(ctx context.Context, owner models.AccountRef) ([]VacancyView, error)
}

type vacancyServiceImpl struct {
	vacancies VacancyStore
	capacity  CapacityService
	directory DirectoryService
	tx        Transactor
	logger    zerolog.Logger
}

// NewVacancyService creates a new VacancyService
func NewVacancyService(
	vacancies VacancyStore,
	capacity CapacityService,
	directory DirectoryService,
	tx Transactor,
	logger zerolog.Logger,
) VacancyService {
	return &vacancyServiceImpl{
		vacancies: vacancies,
		capacity:  capacity,
		directory: directory,
		tx:        tx,
		logger:    logger,
	}
}

func validateCapacity(capacity *int) error {
	if capacity != nil && *capacity < 0 {
		return apperrors.NewValidationError("capacity must be zero or greater")
	}
	return nil
}

// Create publishes a vacancy. Only professors and institutions own vacancies.
func (s *vacancyServiceImpl) Create(ctx context.Context, owner models.AccountRef, in VacancyInput) (*VacancyView, error) {
	if !owner.Kind.CanOwnVacancies() {
		return nil, apperrors.NewForbiddenError("only professors and institutions can publish vacancies")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if err := validateCapacity(in.Capacity); err != nil {
		return nil, err
	}
	if _, err := s.directory.Resolve(ctx, owner); err != nil {
		return nil, err
	}

	v := &models.Vacancy{
		Owner:       owner,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Capacity:    in.Capacity,
	}
	if err := s.vacancies.Create(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("owner", owner.String()).Msg("Failed to create vacancy")
		return nil, err
	}

	s.logger.Info().Int64("vacancyID", v.ID).Str("owner", owner.String()).Int("capacity", v.EffectiveCapacity()).Msg("Vacancy published")
	return &VacancyView{Vacancy: v, AvailableSeats: v.EffectiveCapacity()}, nil
}

// Update edits a vacancy. Capacity may drop below the accepted count, which
// leaves zero seats; existing acceptances stand.
func (s *vacancyServiceImpl) Update(ctx context.Context, id int64, owner models.AccountRef, in VacancyUpdate) (*VacancyView, error) {
	if err := validateCapacity(in.Capacity); err != nil {
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}

	var view *VacancyView
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		v, err := s.vacancies.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !v.OwnedBy(owner) {
			return apperrors.ErrNotOwner
		}

		if in.Title != nil {
			v.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			v.Description = *in.Description
		}
		if in.Capacity != nil {
			c := *in.Capacity
			v.Capacity = &c
		}
		if err := s.vacancies.Update(ctx, v); err != nil {
			return err
		}

		seats, err := s.capacity.AvailableSeats(ctx, v.ID)
		if err != nil {
			return err
		}
		view = &VacancyView{Vacancy: v, AvailableSeats: seats}
		return nil
	})
	if err != nil {
		s.logFailure(err, "Failed to update vacancy", id)
		return nil, err
	}
	return view, nil
}

// Delete removes a vacancy and, by cascade, its applications. Roster entries remain.
func (s *vacancyServiceImpl) Delete(ctx context.Context, id int64, owner models.AccountRef) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		v, err := s.vacancies.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !v.OwnedBy(owner) {
			return apperrors.ErrNotOwner
		}
		return s.vacancies.Delete(ctx, id)
	})
	if err != nil {
		s.logFailure(err, "Failed to delete vacancy", id)
		return err
	}

	s.logger.Info().Int64("vacancyID", id).Str("owner", owner.String()).Msg("Vacancy deleted")
	return nil
}

// Get returns one vacancy with its live seats
func (s *vacancyServiceImpl) Get(ctx context.Context, id int64) (*VacancyView, error) {
	v, err := s.vacancies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.annotate(ctx, []*models.Vacancy{v})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListPublished returns a page of vacancies with live seats
func (s *vacancyServiceImpl) ListPublished(ctx context.Context, page, size int) ([]VacancyView, int64, error) {
	vacancies, total, err := s.vacancies.ListPublished(ctx, page, size)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.annotate(ctx, vacancies)
	return views, total, err
}

// ListByOwner returns the owner's vacancies with live seats
func (s *vacancyServiceImpl) ListByOwner(ctx context.Context, owner models.AccountRef) ([]VacancyView, error) {
	if !owner.Kind.CanOwnVacancies() {
		return nil, apperrors.NewForbiddenError("only professors and institutions own vacancies")
	}
	vacancies, err := s.vacancies.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, vacancies)
}

func (s *vacancyServiceImpl) annotate(ctx context.Context, vacancies []*models.Vacancy) ([]VacancyView, error) {
	seats, err := s.capacity.AvailableSeatsBatch(ctx, vacancies)
	if err != nil {
		return nil, err
	}
	views := make([]VacancyView, 0, len(vacancies))
	for _, v := range vacancies {
		views = append(views, VacancyView{Vacancy: v, AvailableSeats: seats[v.ID]})
	}
	return views, nil
}

func (s *vacancyServiceImpl) logFailure(err error, msg string, vacancyID int64) {
	if apperrors.IsDomain(err) {
		s.logger.Debug().Err(err).Int64("vacancyID", vacancyID).Msg(msg)
		return
	}
	s.logger.Error().Err(err).Int64("vacancyID", vacancyID).Msg(msg)
}
