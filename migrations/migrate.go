// Package migrations ships the schema the library's own storage needs (the
// revoked_tokens table) and a goose-based runner that consuming services can
// also point at their own migration files.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate applies the library's bundled migrations to db.
func Migrate(db *sql.DB) error {
	return MigrateFS(db, embedMigrations)
}

// MigrateFS applies the SQL migrations found at the root of fsys to db,
// letting a consuming service run its own schema through the same mechanism.
func MigrateFS(db *sql.DB, fsys fs.FS) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(fsys)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
