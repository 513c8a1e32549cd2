package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/kubev2v/docctl/internal/store/migrations"
)

// NewDB opens a DuckDB database at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	// DuckDB is single-writer; a single connection prevents idle pool
	// connections from blocking WAL checkpointing.
	conn.SetMaxOpenConns(1)

	// Verify connection works
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Configure extension directory to the same folder as the database
	// This prevents DuckDB from trying to write to ~/.duckdb which may be read-only
	if path != ":memory:" {
		extDir := filepath.Dir(path)
		if _, err := conn.Exec(fmt.Sprintf("SET extension_directory = '%s'", extDir)); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("setting extension directory: %w", err)
		}
	}

	return conn, nil
}

// Open opens the database at path, brings the schema up to date and returns the store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening local store %s: %w", path, err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating local store %s: %w", path, err)
	}

	return NewStore(db), nil
}
