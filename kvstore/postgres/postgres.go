// Package postgres adapts a PostgreSQL table to kvstore.Store, for KB dumps
// hosted alongside other relational pipeline metadata. Connection resolution
// prefers a single DSN env var, falling back to individually-named
// host/user/db/sslmode vars.
package postgres

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/dagobah-core/dagobah/kvstore"
)

const queryGetRecord = `SELECT data FROM kb_entities WHERE entity_id = $1`

// Store is a kvstore.Store backed by a `kb_entities(entity_id text primary
// key, data bytea)` table.
type Store struct {
	db     *sql.DB
	closed bool
}

// EnvOr returns the value of the environment variable key, or fallback if
// unset/empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// dsn builds a PostgreSQL connection string from environment variables.
//
// Priority:
//  1. DAGOBAH_DATABASE_URL (full connection string)
//  2. Individual: DAGOBAH_PGHOST/PGHOST, DAGOBAH_PGUSER/PGUSER, etc.
func dsn() string {
	if url := os.Getenv("DAGOBAH_DATABASE_URL"); url != "" {
		return url
	}
	host := EnvOr("DAGOBAH_PGHOST", EnvOr("PGHOST", "localhost"))
	user := EnvOr("DAGOBAH_PGUSER", EnvOr("PGUSER", "postgres"))
	dbname := EnvOr("DAGOBAH_PGDATABASE", EnvOr("PGDATABASE", "dagobah"))
	sslmode := EnvOr("DAGOBAH_PGSSLMODE", EnvOr("PGSSLMODE", "disable"))
	return fmt.Sprintf("host=%s user=%s dbname=%s sslmode=%s", host, user, dbname, sslmode)
}

// Open connects to PostgreSQL using environment-resolved configuration and
// verifies the connection with a ping.
func Open() (*Store, error) {
	db, err := sql.Open("postgres", dsn())
	if err != nil {
		return nil, fmt.Errorf("kvstore/postgres: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("kvstore/postgres: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Get implements kvstore.Store.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	if s.closed {
		return nil, false, kvstore.ErrClosed
	}
	var data []byte
	err := s.db.QueryRow(queryGetRecord, string(key)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Close implements kvstore.Store.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
