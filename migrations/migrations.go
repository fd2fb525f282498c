package migrations

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	ierr "github.com/ledgerline/ledgerline/internal/errors"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/postgres"
)

//go:embed postgres/*.up.sql
var files embed.FS

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migration is one embedded schema change
type Migration struct {
	Version string
	SQL     string
}

// List returns the embedded migrations in version order
func List() ([]Migration, error) {
	entries, err := fs.Glob(files, "postgres/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)

	migrations := make([]Migration, 0, len(entries))
	for _, name := range entries {
		body, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		version := strings.TrimSuffix(strings.TrimPrefix(name, "postgres/"), ".up.sql")
		migrations = append(migrations, Migration{Version: version, SQL: string(body)})
	}
	return migrations, nil
}

// Apply runs every migration not yet recorded in schema_migrations.
// Each migration runs in its own transaction together with its version row.
func Apply(ctx context.Context, db *postgres.DB, log *logger.Logger) error {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return postgres.WrapError(err, "Failed to create schema_migrations table")
	}

	migrations, err := List()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read embedded migrations").
			Mark(ierr.ErrSystem)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return postgres.WrapError(err, "Failed to read applied migrations")
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range migrations {
		if done[m.Version] {
			log.Debugw("migration already applied", "version", m.Version)
			continue
		}

		err := db.WithTx(ctx, func(ctx context.Context) error {
			if _, err := db.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version)
			return err
		})
		if err != nil {
			return postgres.WrapError(err, "Failed to apply migration "+m.Version)
		}
		log.Infow("applied migration", "version", m.Version)
	}

	return nil
}
