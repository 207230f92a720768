package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/db"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
	"github.com/yigit/vacantes/internal/pkg/dberrors"
)

const applicationUniqueKey = "applications_student_vacancy_key"

var applicationColumns = []string{
	"a.id", "a.student_id", "a.vacancy_id", "a.state", "a.created_at", "a.responded_at", "a.response_comment",
}

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db db.ConnProvider
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(conn db.ConnProvider) *ApplicationRepository {
	return &ApplicationRepository{db: conn}
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	a := &models.Application{}
	err := row.Scan(&a.ID, &a.StudentID, &a.VacancyID, &a.State, &a.CreatedAt, &a.RespondedAt, &a.ResponseComment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, err
	}
	return a, nil
}

func collectApplications(rows pgx.Rows) ([]*models.Application, error) {
	defer rows.Close()
	var out []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts a PENDING application. The (student, vacancy) unique
// constraint is the final arbiter against concurrent duplicates.
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	sql, args, err := psql.Insert("applications").
		Columns("student_id", "vacancy_id", "state").
		Values(a.StudentID, a.VacancyID, models.ApplicationPending).
		Suffix("RETURNING id, state, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create application query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&a.ID, &a.State, &a.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, applicationUniqueKey) {
			return apperrors.ErrDuplicateApplication
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrVacancyNotFound
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	sql, args, err := psql.Select(applicationColumns...).
		From("applications a").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get application query: %w", err)
	}

	a, err := scanApplication(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrApplicationNotFound) {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, err
}

// Exists reports whether the student already holds an application for the vacancy.
func (r *ApplicationRepository) Exists(ctx context.Context, studentID, vacancyID int64) (bool, error) {
	sql, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("applications").
		Where(squirrel.Eq{"student_id": studentID, "vacancy_id": vacancyID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build application exists query: %w", err)
	}

	var exists bool
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check application exists: %w", err)
	}
	return exists, nil
}

// CountAccepted counts ACCEPTED applications of a vacancy.
func (r *ApplicationRepository) CountAccepted(ctx context.Context, vacancyID int64) (int, error) {
	sql, args, err := psql.Select("count(*)").
		From("applications").
		Where(squirrel.Eq{"vacancy_id": vacancyID, "state": models.ApplicationAccepted}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count accepted query: %w", err)
	}

	var n int
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accepted applications: %w", err)
	}
	return n, nil
}

// CountAcceptedByVacancies counts ACCEPTED applications for many vacancies
// in one grouped query. Vacancies without any are absent from the map.
func (r *ApplicationRepository) CountAcceptedByVacancies(ctx context.Context, vacancyIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(vacancyIDs))
	if len(vacancyIDs) == 0 {
		return counts, nil
	}

	sql, args, err := psql.Select("vacancy_id", "count(*)").
		From("applications").
		Where(squirrel.Eq{"vacancy_id": vacancyIDs, "state": models.ApplicationAccepted}).
		GroupBy("vacancy_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build grouped count query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count accepted by vacancy: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan grouped count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// UpdateStateIfPending moves a PENDING application to a terminal state.
// It reports false when the row was no longer PENDING.
func (r *ApplicationRepository) UpdateStateIfPending(ctx context.Context, id int64, state models.ApplicationState, comment *string, respondedAt time.Time) (*models.Application, bool, error) {
	sql, args, err := psql.Update("applications a").
		Set("state", state).
		Set("responded_at", respondedAt).
		Set("response_comment", comment).
		Where(squirrel.Eq{"a.id": id, "a.state": models.ApplicationPending}).
		Suffix("RETURNING " + joinColumns(applicationColumns)).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build update application state query: %w", err)
	}

	a, err := scanApplication(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrApplicationNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("update application state: %w", err)
	}
	return a, true, nil
}

// DeleteIfPending removes a PENDING application. It reports false when the
// row was gone or no longer PENDING.
func (r *ApplicationRepository) DeleteIfPending(ctx context.Context, id int64) (bool, error) {
	sql, args, err := psql.Delete("applications").
		Where(squirrel.Eq{"id": id, "state": models.ApplicationPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete application query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("delete application: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByStudent returns the student's applications joined with their
// vacancies, newest first.
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID int64, state *models.ApplicationState) ([]*models.ApplicationWithVacancy, error) {
	cols := append(append([]string{}, applicationColumns...), vacancyColumns...)
	q := psql.Select(cols...).
		From("applications a").
		Join("vacancies v ON v.id = a.vacancy_id").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("a.created_at DESC", "a.id DESC")
	if state != nil {
		q = q.Where(squirrel.Eq{"a.state": *state})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list student applications query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list student applications: %w", err)
	}
	defer rows.Close()

	var out []*models.ApplicationWithVacancy
	for rows.Next() {
		item := &models.ApplicationWithVacancy{}
		a, v := &item.Application, &item.Vacancy
		if err := rows.Scan(
			&a.ID, &a.StudentID, &a.VacancyID, &a.State, &a.CreatedAt, &a.RespondedAt, &a.ResponseComment,
			&v.ID, &v.Owner.Kind, &v.Owner.ID, &v.Title, &v.Description, &v.Capacity, &v.PublishedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan student application: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListByVacancy returns the vacancy's applications, oldest first.
func (r *ApplicationRepository) ListByVacancy(ctx context.Context, vacancyID int64, state *models.ApplicationState) ([]*models.Application, error) {
	q := psql.Select(applicationColumns...).
		From("applications a").
		Where(squirrel.Eq{"a.vacancy_id": vacancyID}).
		OrderBy("a.created_at ASC", "a.id ASC")
	if state != nil {
		q = q.Where(squirrel.Eq{"a.state": *state})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list vacancy applications query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list vacancy applications: %w", err)
	}
	return collectApplications(rows)
}

// FindLatestBetween returns the most recently created application by the
// student on any of the owner's vacancies, or nil when there is none.
func (r *ApplicationRepository) FindLatestBetween(ctx context.Context, studentID int64, owner models.AccountRef) (*models.Application, error) {
	sql, args, err := psql.Select(applicationColumns...).
		From("applications a").
		Join("vacancies v ON v.id = a.vacancy_id").
		Where(squirrel.Eq{"a.student_id": studentID, "v.owner_kind": owner.Kind, "v.owner_id": owner.ID}).
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build latest application query: %w", err)
	}

	a, err := scanApplication(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if errors.Is(err, apperrors.ErrApplicationNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest application: %w", err)
	}
	return a, nil
}
