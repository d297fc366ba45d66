// Package postgres implements the PostgreSQL session-state backend. It wraps sqlx for
// connection pooling and golang-migrate for schema versioning. Migrations are embedded
// in the binary (via go:embed) so the gateway can apply schema changes on startup
// without external tooling. Choose this backend when a Postgres instance is already
// part of the deployment and Redis is not.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func init() {
	storage.Register("postgres", func(cfg *config.Config) (storage.Backend, error) {
		return New(&cfg.Database)
	})
}

// PostgresBackend implements the Backend interface over a session_state table.
type PostgresBackend struct {
	db *sqlx.DB
}

// New connects to PostgreSQL, applies migrations, and returns the backend
func New(cfg *config.DatabaseConfig) (*PostgresBackend, error) {
	db, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MinIdleConnections)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db.DB); err != nil {
		return nil, err
	}

	return &PostgresBackend{db: db}, nil
}

// NewWithDB wraps an existing sqlx handle without running migrations; used by tests.
func NewWithDB(db *sqlx.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// runMigrations applies the embedded session_state schema migrations
func runMigrations(db *sql.DB) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Save stores value under key, replacing any existing value
func (b *PostgresBackend) Save(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO session_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := b.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	return nil
}

// Load retrieves the value stored under key
func (b *PostgresBackend) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.GetContext(ctx, &value, `SELECT value FROM session_state WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	return value, nil
}

// Delete removes the value stored under key
func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM session_state WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

// Keys lists all stored keys beginning with prefix
func (b *PostgresBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	query := `SELECT key FROM session_state WHERE key LIKE $1 || '%' ORDER BY key`
	if err := b.db.SelectContext(ctx, &keys, query, prefix); err != nil {
		return nil, fmt.Errorf("failed to list session keys: %w", err)
	}
	return keys, nil
}
