// Package warehouse is the sole access point to persistent storage (§4.1).
// Every exported Gateway method takes a tenant id as its first domain
// argument; AdminGateway exposes the small number of cross-tenant reads
// the core needs. Backed by Postgres via jackc/pgx and jmoiron/sqlx, with
// schema applied at startup from embedded SQL files, following the same
// embed.FS + golang-migrate technique the teacher uses for its own
// migrations (pkg/database/client.go), minus the ent dependency: this
// engine does not generate a schema from Go struct tags, so there is no
// code-generation step to reproduce by hand.
package warehouse

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

//go:embed migrations
var migrationsFS embed.FS

// Config holds the Postgres connection-pool settings resolved by
// pkg/config from DatabaseConfig.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Client wraps a connected, migrated sqlx.DB. PostgresGateway and
// AdminGateway are built on top of it.
type Client struct {
	DB *sqlx.DB
}

// NewClient opens a connection pool, runs pending migrations, and returns
// a ready-to-use Client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("warehouse: connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("warehouse: ping: %w", err)
	}

	if err := runMigrations(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("warehouse: migrate: %w", err)
	}

	return &Client{DB: db}, nil
}

// runMigrations applies every pending migration embedded under
// migrations/ using golang-migrate. The schema grows additively only —
// new migrations add columns and tables, never alter or drop existing
// ones (§6.4: "the engine must accept existing production data and add
// columns only, never alter existing ones").
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "warehouse", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	// Close only the migration source; calling m.Close() would also close
	// the shared *sql.DB passed in via postgres.WithInstance, breaking the
	// pool the rest of the Client uses.
	return sourceDriver.Close()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.DB.Close()
}
