package account

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/db"
)

// ProfessorRepository handles professor-specific database operations
type ProfessorRepository struct {
	db db.ConnProvider
}

// NewProfessorRepository creates a new ProfessorRepository
func NewProfessorRepository(conn db.ConnProvider) *ProfessorRepository {
	return &ProfessorRepository{db: conn}
}

// GetByID retrieves a professor by ID
func (r *ProfessorRepository) GetByID(ctx context.Context, id int64) (*models.Professor, error) {
	sql, args, err := psql.Select("id", "first_name", "last_name", "email", "department", "created_at", "updated_at").
		From("professors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get professor query: %w", err)
	}

	p := &models.Professor{}
	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Department, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, "get professor")
	}
	return p, nil
}

// Create inserts a professor and fills its generated fields.
func (r *ProfessorRepository) Create(ctx context.Context, p *models.Professor) error {
	p.Email = NormalizeEmail(p.Email)
	sql, args, err := psql.Insert("professors").
		Columns("first_name", "last_name", "email", "department").
		Values(p.FirstName, p.LastName, p.Email, p.Department).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create professor query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create professor: %w", err)
	}
	return nil
}
