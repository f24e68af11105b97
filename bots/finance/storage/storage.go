// Package storage persists user profiles and expense entries in Postgres.
package storage

import (
	"embed"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Migrations holds the schema applied on startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store is the Postgres-backed profile and expense store. Every method is a
// self-contained statement or transaction, so one Store serves all users.
type Store struct {
	db *sqlx.DB
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}
