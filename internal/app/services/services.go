// Package services holds the application engine: identity directory,
// capacity tracker, application state machine, association ledger and the
// messaging gate. Services depend on the store interfaces below; the
// PostgreSQL repositories satisfy them.
package services

import (
	"context"
	"time"

	"github.com/yigit/vacantes/internal/app/models"
)

// Transactor runs fn inside one unit of work carried by the context.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountStore reads and creates accounts of every kind.
type AccountStore interface {
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetProfessor(ctx context.Context, id int64) (*models.Professor, error)
	GetInstitution(ctx context.Context, id int64) (*models.Institution, error)
	Create(ctx context.Context, acc *models.Account) error
}

// VacancyStore persists vacancies.
type VacancyStore interface {
	Create(ctx context.Context, v *models.Vacancy) error
	Update(ctx context.Context, v *models.Vacancy) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Vacancy, error)
	LockByID(ctx context.Context, id int64) (*models.Vacancy, error)
	ListByOwner(ctx context.Context, owner models.AccountRef) ([]*models.Vacancy, error)
	ListPublished(ctx context.Context, page, size int) ([]*models.Vacancy, int64, error)
}

// ApplicationStore persists applications. Conditional writes report whether
// the row was still PENDING.
type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	Exists(ctx context.Context, studentID, vacancyID int64) (bool, error)
	CountAccepted(ctx context.Context, vacancyID int64) (int, error)
	CountAcceptedByVacancies(ctx context.Context, vacancyIDs []int64) (map[int64]int, error)
	UpdateStateIfPending(ctx context.Context, id int64, state models.ApplicationState, comment *string, respondedAt time.Time) (*models.Application, bool, error)
	DeleteIfPending(ctx context.Context, id int64) (bool, error)
	ListByStudent(ctx context.Context, studentID int64, state *models.ApplicationState) ([]*models.ApplicationWithVacancy, error)
	ListByVacancy(ctx context.Context, vacancyID int64, state *models.ApplicationState) ([]*models.Application, error)
	FindLatestBetween(ctx context.Context, studentID int64, owner models.AccountRef) (*models.Application, error)
}

// AssociationStore appends roster entries.
type AssociationStore interface {
	InsertIfAbsent(ctx context.Context, owner models.AccountRef, studentID, vacancyID int64) (bool, error)
	ListByOwner(ctx context.Context, owner models.AccountRef) ([]*models.Association, error)
	BackfillForOwner(ctx context.Context, owner models.AccountRef) (int64, error)
}

// MessageStore persists messages.
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	MarkReadIfUnread(ctx context.Context, id int64, at time.Time) (bool, error)
	Delete(ctx context.Context, id int64) error
	ListInbox(ctx context.Context, recipient models.AccountRef, unreadOnly bool) ([]*models.Message, error)
	ListSent(ctx context.Context, sender models.AccountRef) ([]*models.Message, error)
	CountUnread(ctx context.Context, recipient models.AccountRef) (int64, error)
}

// Clock returns the current time; tests substitute a fixed one.
type Clock func() time.Time
