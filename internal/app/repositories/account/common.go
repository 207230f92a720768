// Package account holds the per-kind account stores. Each kind has its own
// table; contact addresses are claimed in account_contacts.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/db"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
	"github.com/yigit/vacantes/internal/pkg/dberrors"
)

const contactsPKey = "account_contacts_pkey"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ContactRepository claims globally unique contact addresses
type ContactRepository struct {
	db db.ConnProvider
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(conn db.ConnProvider) *ContactRepository {
	return &ContactRepository{db: conn}
}

// NormalizeEmail lower-cases and trims a contact address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Claim records that ref owns email. A taken address yields ErrEmailAlreadyExists.
func (r *ContactRepository) Claim(ctx context.Context, email string, ref models.AccountRef) error {
	sql, args, err := psql.Insert("account_contacts").
		Columns("email", "account_kind", "account_id").
		Values(NormalizeEmail(email), ref.Kind, ref.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build claim contact query: %w", err)
	}

	if _, err := r.db.Conn(ctx).Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, contactsPKey) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("claim contact address: %w", err)
	}
	return nil
}

// Owner returns the account holding email.
func (r *ContactRepository) Owner(ctx context.Context, email string) (models.AccountRef, error) {
	sql, args, err := psql.Select("account_kind", "account_id").
		From("account_contacts").
		Where(squirrel.Eq{"email": NormalizeEmail(email)}).
		ToSql()
	if err != nil {
		return models.AccountRef{}, fmt.Errorf("build contact owner query: %w", err)
	}

	var ref models.AccountRef
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&ref.Kind, &ref.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AccountRef{}, apperrors.ErrAccountNotFound
		}
		return models.AccountRef{}, fmt.Errorf("query contact owner: %w", err)
	}
	return ref, nil
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrAccountNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}
