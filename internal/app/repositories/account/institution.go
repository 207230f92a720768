package account

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/db"
)

// InstitutionRepository handles institution-specific database operations
type InstitutionRepository struct {
	db db.ConnProvider
}

// NewInstitutionRepository creates a new InstitutionRepository
func NewInstitutionRepository(conn db.ConnProvider) *InstitutionRepository {
	return &InstitutionRepository{db: conn}
}

// GetByID retrieves an institution by ID
func (r *InstitutionRepository) GetByID(ctx context.Context, id int64) (*models.Institution, error) {
	sql, args, err := psql.Select("id", "legal_name", "email", "sector", "created_at", "updated_at").
		From("institutions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get institution query: %w", err)
	}

	i := &models.Institution{}
	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(
		&i.ID, &i.LegalName, &i.Email, &i.Sector, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, "get institution")
	}
	return i, nil
}

// Create inserts an institution and fills its generated fields.
func (r *InstitutionRepository) Create(ctx context.Context, i *models.Institution) error {
	i.Email = NormalizeEmail(i.Email)
	sql, args, err := psql.Insert("institutions").
		Columns("legal_name", "email", "sector").
		Values(i.LegalName, i.Email, i.Sector).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create institution query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return fmt.Errorf("create institution: %w", err)
	}
	return nil
}
