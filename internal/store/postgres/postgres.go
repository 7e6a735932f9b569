// Package postgres is the Postgres driver for the story store.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store/sqlstore"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens a Postgres-backed *sql.DB using pgx stdlib.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	p, err := goose.NewProvider(goose.DialectPostgres, db, sub)
	if err != nil {
		return fmt.Errorf("postgres migrations: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("postgres migrate up: %w", err)
	}
	return nil
}

// NewWithDB returns a Store using an existing *sql.DB.
func NewWithDB(db *sql.DB) store.Store {
	return sqlstore.New(db, sqlstore.Dollar)
}
