// Package storage contains the storage-agnostic contract for persisting the
// per-transect summary table, plus a small factory that builds the configured
// backend. Concrete backends (SQLite, Postgres) live in subpackages and are
// the only code importing database drivers.
package storage

import (
	"context"
	"fmt"
	"strings"

	"fieldsurvey/internal/storage/postgres"
	"fieldsurvey/internal/storage/sqlite"
)

// Repository is the minimal sink interface the pipeline writes through.
type Repository interface {
	// EnsureSummaryTable creates the summary table if it does not exist.
	EnsureSummaryTable(ctx context.Context) error

	// CopyFrom bulk-inserts rows aligned to the columns order and returns
	// the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Close releases the backend's resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Kind selects the backend: "sqlite" or "postgres".
	Kind string `json:"kind"`

	// DSN is the backend connection string (a file path or file: URI for
	// SQLite, a postgresql:// URL for Postgres).
	DSN string `json:"dsn"`

	// Table is the destination table name. Defaults to "transect_summary".
	Table string `json:"table"`
}

// DefaultTable is the summary table name used when Config.Table is empty.
const DefaultTable = "transect_summary"

// New builds the configured Repository.
func New(ctx context.Context, cfg Config) (Repository, error) {
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "sqlite":
		return sqlite.NewRepository(ctx, sqlite.Config{DSN: cfg.DSN, Table: table})
	case "postgres":
		return postgres.NewRepository(ctx, postgres.Config{DSN: cfg.DSN, Table: table})
	default:
		return nil, fmt.Errorf("storage: unknown kind %q (want sqlite or postgres)", cfg.Kind)
	}
}
