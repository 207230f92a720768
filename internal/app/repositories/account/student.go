package account

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/db"
)

// StudentRepository handles student-specific database operations
type StudentRepository struct {
	db db.ConnProvider
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(conn db.ConnProvider) *StudentRepository {
	return &StudentRepository{db: conn}
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := psql.Select("id", "first_name", "last_name", "email", "resume_url", "created_at", "updated_at").
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get student query: %w", err)
	}

	s := &models.Student{}
	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.ResumeURL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, "get student")
	}
	return s, nil
}

// Create inserts a student and fills its generated fields.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	s.Email = NormalizeEmail(s.Email)
	sql, args, err := psql.Insert("students").
		Columns("first_name", "last_name", "email", "resume_url").
		Values(s.FirstName, s.LastName, s.Email, s.ResumeURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create student query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
