package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/db"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
	"github.com/yigit/vacantes/internal/pkg/helpers"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var vacancyColumns = []string{
	"v.id", "v.owner_kind", "v.owner_id", "v.title", "v.description", "v.capacity", "v.published_at", "v.updated_at",
}

// VacancyRepository handles database operations for vacancies
type VacancyRepository struct {
	db db.ConnProvider
}

// NewVacancyRepository creates a new VacancyRepository
func NewVacancyRepository(conn db.ConnProvider) *VacancyRepository {
	return &VacancyRepository{db: conn}
}

func scanVacancy(row pgx.Row) (*models.Vacancy, error) {
	v := &models.Vacancy{}
	err := row.Scan(&v.ID, &v.Owner.Kind, &v.Owner.ID, &v.Title, &v.Description, &v.Capacity, &v.PublishedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVacancyNotFound
		}
		return nil, err
	}
	return v, nil
}

func collectVacancies(rows pgx.Rows) ([]*models.Vacancy, error) {
	defer rows.Close()
	var out []*models.Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vacancy: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Create inserts a vacancy and fills its generated fields.
func (r *VacancyRepository) Create(ctx context.Context, v *models.Vacancy) error {
	sql, args, err := psql.Insert("vacancies").
		Columns("owner_kind", "owner_id", "title", "description", "capacity").
		Values(v.Owner.Kind, v.Owner.ID, v.Title, v.Description, v.Capacity).
		Suffix("RETURNING id, published_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create vacancy query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&v.ID, &v.PublishedAt, &v.UpdatedAt); err != nil {
		return fmt.Errorf("create vacancy: %w", err)
	}
	return nil
}

// Update writes the editable fields of v.
func (r *VacancyRepository) Update(ctx context.Context, v *models.Vacancy) error {
	sql, args, err := psql.Update("vacancies").
		Set("title", v.Title).
		Set("description", v.Description).
		Set("capacity", v.Capacity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": v.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update vacancy query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrVacancyNotFound
		}
		return fmt.Errorf("update vacancy: %w", err)
	}
	return nil
}

// Delete removes a vacancy; its applications cascade.
func (r *VacancyRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("vacancies").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete vacancy query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete vacancy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVacancyNotFound
	}
	return nil
}

func (r *VacancyRepository) get(ctx context.Context, id int64, suffix string) (*models.Vacancy, error) {
	q := psql.Select(vacancyColumns...).From("vacancies v").Where(squirrel.Eq{"v.id": id})
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get vacancy query: %w", err)
	}

	v, err := scanVacancy(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrVacancyNotFound) {
		return nil, fmt.Errorf("get vacancy: %w", err)
	}
	return v, err
}

// GetByID retrieves a vacancy by ID
func (r *VacancyRepository) GetByID(ctx context.Context, id int64) (*models.Vacancy, error) {
	return r.get(ctx, id, "")
}

// LockByID reads the vacancy with a row lock held until the surrounding
// transaction ends. Concurrent accepts on one vacancy queue here.
func (r *VacancyRepository) LockByID(ctx context.Context, id int64) (*models.Vacancy, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

// ListByOwner returns the owner's vacancies, newest first.
func (r *VacancyRepository) ListByOwner(ctx context.Context, owner models.AccountRef) ([]*models.Vacancy, error) {
	sql, args, err := psql.Select(vacancyColumns...).
		From("vacancies v").
		Where(squirrel.Eq{"v.owner_kind": owner.Kind, "v.owner_id": owner.ID}).
		OrderBy("v.published_at DESC", "v.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list owner vacancies query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list owner vacancies: %w", err)
	}
	return collectVacancies(rows)
}

// ListPublished returns one page of vacancies, newest first, plus the total count.
func (r *VacancyRepository) ListPublished(ctx context.Context, page, size int) ([]*models.Vacancy, int64, error) {
	countSQL, countArgs, err := psql.Select("count(*)").From("vacancies").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count vacancies query: %w", err)
	}

	var total int64
	if err := r.db.Conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vacancies: %w", err)
	}
	if total == 0 {
		return []*models.Vacancy{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	sql, args, err := psql.Select(vacancyColumns...).
		From("vacancies v").
		OrderBy("v.published_at DESC", "v.id DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list vacancies query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list vacancies: %w", err)
	}
	vacancies, err := collectVacancies(rows)
	return vacancies, total, err
}
