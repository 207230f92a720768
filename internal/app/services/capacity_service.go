package services

import (
	"context"

	"github.com/yigit/vacantes/internal/app/models"
)

// CapacityService computes seats from the application set on every call.
// There is no stored counter to drift.
type CapacityService interface {
	AvailableSeats(ctx context.Context, vacancyID int64) (int, error)
	SeatsFor(v *models.Vacancy, acceptedCount int) int
	AvailableSeatsBatch(ctx context.Context, vacancies []*models.Vacancy) (map[int64]int, error)
}

type capacityServiceImpl struct {
	vacancies    VacancyStore
	applications ApplicationStore
}

// NewCapacityService creates a new CapacityService
func NewCapacityService(vacancies VacancyStore, applications ApplicationStore) CapacityService {
	return &capacityServiceImpl{
		vacancies:    vacancies,
		applications: applications,
	}
}

// AvailableSeats returns max(capacity - accepted, 0). Called with a context
// that holds the vacancy row lock, the count is authoritative.
func (s *capacityServiceImpl) AvailableSeats(ctx context.Context, vacancyID int64) (int, error) {
	v, err := s.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return 0, err
	}

	accepted, err := s.applications.CountAccepted(ctx, vacancyID)
	if err != nil {
		return 0, err
	}
	return s.SeatsFor(v, accepted), nil
}

func (s *capacityServiceImpl) SeatsFor(v *models.Vacancy, acceptedCount int) int {
	return models.AvailableSeats(v.EffectiveCapacity(), acceptedCount)
}

// AvailableSeatsBatch annotates many vacancies with one grouped count.
func (s *capacityServiceImpl) AvailableSeatsBatch(ctx context.Context, vacancies []*models.Vacancy) (map[int64]int, error) {
	ids := make([]int64, 0, len(vacancies))
	seen := make(map[int64]bool, len(vacancies))
	for _, v := range vacancies {
		if !seen[v.ID] {
			seen[v.ID] = true
			ids = append(ids, v.ID)
		}
	}

	counts, err := s.applications.CountAcceptedByVacancies(ctx, ids)
	if err != nil {
		return nil, err
	}

	seats := make(map[int64]int, len(vacancies))
	for _, v := range vacancies {
		seats[v.ID] = s.SeatsFor(v, counts[v.ID])
	}
	return seats, nil
}
