package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

// postgresSchema mirrors the document rules the mongo driver relies on:
// 24-hex ids, a unique email and likes kept as a JSON array of user ids.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         CHAR(24) PRIMARY KEY,
	name       VARCHAR(30) NOT NULL CHECK (char_length(name) >= 2),
	about      VARCHAR(30) NOT NULL CHECK (char_length(about) >= 2),
	avatar     TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cards (
	id         CHAR(24) PRIMARY KEY,
	name       VARCHAR(30) NOT NULL CHECK (char_length(name) >= 2),
	link       TEXT NOT NULL,
	owner      CHAR(24) NOT NULL,
	likes      JSONB NOT NULL DEFAULT '[]'::jsonb CHECK (jsonb_typeof(likes) = 'array'),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS cards_created_at_idx ON cards (created_at, id);
`

// OpenPostgres opens a pooled connection and verifies it with a ping.
func OpenPostgres(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL database!")
	return db, nil
}

// MigratePostgres creates the users and cards tables when missing.
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
