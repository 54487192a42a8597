// Package testutil provides shared helpers for package tests: an in-memory
// SQLite database carrying the application schema, and a config preset with
// a cheap bcrypt cost so hashing does not dominate test time.  The
// repositories use portable placeholder queries, so the same code paths run
// against SQLite in tests and MySQL in production.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/iliyamo/blog-api/internal/config"
)

// sqliteSchema mirrors the MySQL schema in internal/database with SQLite
// column types.  The UNIQUE constraint on username is load-bearing: the
// repository maps its violation to ErrUsernameExists.
const sqliteSchema = `
CREATE TABLE users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL
);
CREATE TABLE articles (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	published  BOOLEAN NOT NULL DEFAULT 0,
	creator_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
`

// OpenTestDB opens a named in-memory SQLite database with the schema
// applied.  The shared cache keeps the database alive across the pooled
// connections database/sql may open; _fk=1 turns on foreign key
// enforcement so ON DELETE CASCADE behaves like MySQL.  Cleanup closes
// the handle.
func OpenTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(sqliteSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// TestConfig returns a Config suitable for handler tests: fixed secret,
// 15 minute TTL and the minimum bcrypt cost.
func TestConfig() config.Config {
	return config.Config{
		Env:          "test",
		JWTSecret:    "test-secret",
		AccessTTLMin: 15,
		BcryptCost:   4,
	}
}
