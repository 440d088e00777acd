// Package cachestore provides compiled-output cache implementations for the
// assetapi.Cache contract: a SQLite-backed store for persistent builds and
// an in-memory store for tests and one-shot runs. The processing core never
// touches these; the surrounding build layer wires one in.
package cachestore

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/assetforge/forge/internal/metrics"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	created_at INTEGER NOT NULL
)`

// SQLiteStore persists compiled output in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// cache table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}
	log.Printf("Opened SQLite cache store: %s", path)
	return &SQLiteStore{db: db, path: path}, nil
}

// Get returns the cached value for key, reporting a miss with ok == false.
func (s *SQLiteStore) Get(key string) ([]byte, bool) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM cache_entries WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		metrics.CacheMisses.WithLabelValues("sqlite").Inc()
		return nil, false
	}
	if err != nil {
		log.Printf("cache get %s: %v", key, err)
		metrics.CacheMisses.WithLabelValues("sqlite").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("sqlite").Inc()
	return value, true
}

// Set stores value under key, replacing any prior entry.
func (s *SQLiteStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO cache_entries (key, value, created_at) VALUES (?, ?, ?)",
		key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
