package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/db"
)

// AssociationRepository appends roster entries. Entries are never updated
// or removed here.
type AssociationRepository struct {
	db db.ConnProvider
}

// NewAssociationRepository creates a new AssociationRepository
func NewAssociationRepository(conn db.ConnProvider) *AssociationRepository {
	return &AssociationRepository{db: conn}
}

// InsertIfAbsent appends an ACTIVE entry unless one exists for the same
// (owner, student, vacancy). It reports whether a row was written.
func (r *AssociationRepository) InsertIfAbsent(ctx context.Context, owner models.AccountRef, studentID, vacancyID int64) (bool, error) {
	sql, args, err := psql.Insert("associations").
		Columns("owner_kind", "owner_id", "student_id", "vacancy_id", "status").
		Values(owner.Kind, owner.ID, studentID, vacancyID, models.AssociationActive).
		Suffix("ON CONFLICT ON CONSTRAINT associations_owner_student_vacancy_key DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert association query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("insert association: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByOwner returns the owner's roster, newest first.
func (r *AssociationRepository) ListByOwner(ctx context.Context, owner models.AccountRef) ([]*models.Association, error) {
	sql, args, err := psql.Select("id", "owner_kind", "owner_id", "student_id", "vacancy_id", "status", "created_at").
		From("associations").
		Where(squirrel.Eq{"owner_kind": owner.Kind, "owner_id": owner.ID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list associations query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	defer rows.Close()

	var out []*models.Association
	for rows.Next() {
		a := &models.Association{}
		if err := rows.Scan(&a.ID, &a.Owner.Kind, &a.Owner.ID, &a.StudentID, &a.VacancyID, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// BackfillForOwner appends entries for every accepted application on the
// owner's vacancies that has none yet, returning how many were written.
func (r *AssociationRepository) BackfillForOwner(ctx context.Context, owner models.AccountRef) (int64, error) {
	selectAccepted := psql.Select("v.owner_kind", "v.owner_id", "a.student_id", "a.vacancy_id", fmt.Sprintf("'%s'", models.AssociationActive)).
		From("applications a").
		Join("vacancies v ON v.id = a.vacancy_id").
		Where(squirrel.Eq{"v.owner_kind": owner.Kind, "v.owner_id": owner.ID, "a.state": models.ApplicationAccepted})

	sql, args, err := psql.Insert("associations").
		Columns("owner_kind", "owner_id", "student_id", "vacancy_id", "status").
		Select(selectAccepted).
		Suffix("ON CONFLICT ON CONSTRAINT associations_owner_student_vacancy_key DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build backfill associations query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("backfill associations: %w", err)
	}
	return tag.RowsAffected(), nil
}
