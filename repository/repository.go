package repository

import (
	"database/sql"
)

// Repository defines the app's storage contract. It is composed of the
// per-entity interfaces declared alongside their Postgres implementations.
type Repository interface {
	books
	reviews
	profiles
}

// repository is the PostgreSQL-backed implementation of Repository.
type repository struct {
	db *sql.DB
}

// New creates a new Postgres-backed instance of Repository.
func New(db *sql.DB) *repository {
	return &repository{db: db}
}
