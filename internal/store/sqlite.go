package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore is the on-disk Store implementation: a single key-value table
// holding JSON documents. It is safe for concurrent use because the
// underlying *sql.DB is concurrency-safe.
type SQLiteStore struct {
	conn   *sql.DB
	logger *logrus.Logger

	// Prepared statements for better performance
	getStmt    *sql.Stmt
	upsertStmt *sql.Stmt
	deleteStmt *sql.Stmt
}

// NewSQLiteStore opens (or creates) a SQLite database at the provided path
// and ensures the key-value table exists. It also applies lightweight
// performance-oriented pragmas (WAL, cache sizing). Caller should Close() it
// when finished.
func NewSQLiteStore(dbPath string, logger *logrus.Logger) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// Configure connection pool - adjusted for SQLite
	conn.SetMaxOpenConns(5) // SQLite works better with fewer connections
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(15 * time.Minute)

	// Enable WAL mode for better concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=memory;",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).WithField("pragma", pragma).Warn("Failed to set pragma")
		}
	}

	s := &SQLiteStore{
		conn:   conn,
		logger: logger,
	}

	if err := s.createTable(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.WithField("store_path", dbPath).Info("Persistent store initialized")
	return s, nil
}

// createTable creates the key-value table if it does not already exist. This
// is idempotent and safe to call multiple times.
func (s *SQLiteStore) createTable() error {
	table := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := s.conn.Exec(table)
	return err
}

// prepareStatements prepares the three statements every operation goes
// through.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getStmt, err = s.conn.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.upsertStmt, err = s.conn.Prepare(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert statement: %w", err)
	}

	s.deleteStmt, err = s.conn.Prepare(`DELETE FROM kv WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	return nil
}

// Load reads and unmarshals the JSON document stored under key.
func (s *SQLiteStore) Load(key string, v any) (bool, error) {
	var raw string
	err := s.getStmt.QueryRow(key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to load value")
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode value for key %q: %w", key, err)
	}
	return true, nil
}

// Save marshals v to JSON and upserts it under key.
func (s *SQLiteStore) Save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}

	if _, err := s.upsertStmt.Exec(key, string(raw)); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to save value")
		return err
	}
	return nil
}

// Delete removes the key if present.
func (s *SQLiteStore) Delete(key string) error {
	_, err := s.deleteStmt.Exec(key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to delete key")
	}
	return err
}

// Close closes the underlying database connection and prepared statements.
func (s *SQLiteStore) Close() error {
	statements := []*sql.Stmt{s.getStmt, s.upsertStmt, s.deleteStmt}
	for _, stmt := range statements {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				s.logger.WithError(err).Error("Failed to close prepared statement")
			}
		}
	}

	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
