// Package db persists histograms to a SQLite database
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru"
	"github.com/klauspost/compress/zstd"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no histogram is stored under a key.
var ErrNotFound = errors.New("histogram not found")

// DB wraps the SQL database connection with histogram storage methods.
type DB struct {
	*sql.DB
	path  string
	enc   *zstd.Encoder
	dec   *zstd.Decoder
	cache *lru.Cache
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database connection
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.initCodec(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	db.cache, err = lru.New(recordCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create record cache: %w", err)
	}

	// Configure database
	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	// Create or upgrade schema
	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas for optimal performance.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000", // 64MB cache
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createHistogramsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS histograms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		rank INTEGER NOT NULL,
		entries INTEGER NOT NULL DEFAULT 0,
		slots INTEGER NOT NULL,
		contents BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(path, name)
	);
	CREATE INDEX IF NOT EXISTS idx_histograms_path ON histograms(path);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createAxesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS axes (
		histogram_id INTEGER NOT NULL REFERENCES histograms(id) ON DELETE CASCADE,
		dim INTEGER NOT NULL,
		channels INTEGER NOT NULL,
		left_edge REAL NOT NULL,
		right_edge REAL NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (histogram_id, dim)
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	if db.enc != nil {
		_ = db.enc.Close()
	}
	if db.dec != nil {
		db.dec.Close()
	}
	// Checkpoint WAL before closing
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum performs database maintenance to reclaim space.
func (db *DB) Vacuum() error {
	_, err := db.ExecContext(context.Background(), "VACUUM")
	return err
}
