package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewBunDB creates a new Bun DB instance from an existing sql.DB connection
func NewBunDB(sqlDB *sql.DB) *bun.DB {
	return bun.NewDB(sqlDB, pgdialect.New())
}

// NewSQLiteBunDB wraps an sql.DB opened with the modernc "sqlite" driver
func NewSQLiteBunDB(sqlDB *sql.DB) *bun.DB {
	return bun.NewDB(sqlDB, sqlitedialect.New())
}

// Open connects to the database for driver and verifies the connection.
// The matching database/sql driver must be registered by the caller.
func Open(ctx context.Context, driver, dsn string) (*bun.DB, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	switch driver {
	case DriverPostgres:
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		return NewBunDB(sqlDB), nil
	case DriverSQLite:
		// SQLite allows one writer; a single connection keeps transactions
		// from failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		return NewSQLiteBunDB(sqlDB), nil
	default:
		sqlDB.Close()
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// profilesTable is shared by both dialects; only the id and timestamp
// column types differ. Ids come from a sequence (Postgres) or AUTOINCREMENT
// (SQLite) so a deleted id is never handed out again.
const profilesTable = `CREATE TABLE IF NOT EXISTS profiles (
	id %[1]s,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	email_key VARCHAR(255) NOT NULL UNIQUE,
	search_key TEXT NOT NULL DEFAULT '',
	phone VARCHAR(20),
	linkedin VARCHAR(255),
	github VARCHAR(255),
	created_at %[2]s NOT NULL,
	updated_at %[2]s NOT NULL
)`

// CreateSchema creates the tables the application needs if they are missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	idType, timeType := "BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ"
	if db.Dialect().Name() == dialect.SQLite {
		idType, timeType = "INTEGER PRIMARY KEY AUTOINCREMENT", "TIMESTAMP"
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(profilesTable, idType, timeType)); err != nil {
		return fmt.Errorf("failed to create profiles table: %w", err)
	}

	return nil
}
