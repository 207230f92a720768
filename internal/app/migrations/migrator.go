package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Migrator applies numbered SQL files once each, tracked in schema_migrations.
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// Version extracts the numeric prefix ("001_init.sql" => "001").
func Version(filename string) string {
	return strings.SplitN(path.Base(filename), "_", 2)[0]
}

// PendingFiles lists the .sql files of dir in application order.
func PendingFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, path.Join(dir, entry.Name()))
		}
	}
	sort.Strings(sqlFiles)
	return sqlFiles, nil
}

// MigrateFile executes one file and records its version in the same transaction.
func (m *Migrator) MigrateFile(ctx context.Context, fsys fs.FS, filePath string) error {
	version := Version(filePath)

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("version", version).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = pgx.BeginFunc(ctx, m.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", version, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
			version, time.Now()); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("file", filePath).Msg("Migration applied")
	return nil
}

// MigrateFS applies every pending file under dir.
func (m *Migrator) MigrateFS(ctx context.Context, fsys fs.FS, dir string) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	files, err := PendingFiles(fsys, dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := m.MigrateFile(ctx, fsys, file); err != nil {
			return err
		}
	}
	return nil
}
