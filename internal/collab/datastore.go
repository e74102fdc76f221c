package collab

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"musiccrib/pkg/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Datastore is the append-only sink for collaboration requests.
type Datastore interface {
	Append(ctx context.Context, req models.CollaborationRequest) error
}

// CreateHook runs after a request is durably stored. Hooks fire
// asynchronously; a hook failure never fails the append.
type CreateHook func(ctx context.Context, req models.CollaborationRequest)

// SQLiteDatastore stores collaboration requests in their own SQLite file and
// fires registered create hooks after each successful insert.
type SQLiteDatastore struct {
	conn   *sql.DB
	logger *logrus.Logger

	insertStmt *sql.Stmt

	mu    sync.Mutex
	hooks []CreateHook
}

// NewSQLiteDatastore opens (or creates) the collaboration database.
func NewSQLiteDatastore(dbPath string, logger *logrus.Logger) (*SQLiteDatastore, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open collaboration database: %w", err)
	}

	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(15 * time.Minute)

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

	ds := &SQLiteDatastore{
		conn:   conn,
		logger: logger,
	}

	if err := ds.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	ds.insertStmt, err = conn.Prepare(`
		INSERT INTO collaborations (id, requester_name, requester_email, target_artist, message, phone, submitted_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	return ds, nil
}

func (ds *SQLiteDatastore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS collaborations (
		id TEXT PRIMARY KEY,
		requester_name TEXT NOT NULL,
		requester_email TEXT NOT NULL,
		target_artist TEXT NOT NULL,
		message TEXT NOT NULL,
		phone TEXT,
		submitted_at TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending'
	);
	CREATE INDEX IF NOT EXISTS idx_collaborations_submitted ON collaborations(submitted_at);
	`
	_, err := ds.conn.Exec(query)
	return err
}

// OnCreate registers a hook to run after each stored request.
func (ds *SQLiteDatastore) OnCreate(hook CreateHook) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.hooks = append(ds.hooks, hook)
}

// Append stores a request and fires the create hooks in the background.
func (ds *SQLiteDatastore) Append(ctx context.Context, req models.CollaborationRequest) error {
	_, err := ds.insertStmt.ExecContext(ctx,
		req.ID,
		req.RequesterName,
		req.RequesterEmail,
		req.TargetArtistName,
		req.Message,
		req.Phone,
		req.SubmittedAt,
		req.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to store collaboration request: %w", err)
	}

	ds.logger.WithFields(logrus.Fields{
		"id":     req.ID,
		"artist": req.TargetArtistName,
	}).Info("Collaboration request stored")

	ds.mu.Lock()
	hooks := make([]CreateHook, len(ds.hooks))
	copy(hooks, ds.hooks)
	ds.mu.Unlock()

	for _, hook := range hooks {
		go hook(context.WithoutCancel(ctx), req)
	}
	return nil
}

// Pending returns stored requests newest first, for the operator console.
func (ds *SQLiteDatastore) Pending(ctx context.Context) ([]models.CollaborationRequest, error) {
	rows, err := ds.conn.QueryContext(ctx, `
		SELECT id, requester_name, requester_email, target_artist, message, phone, submitted_at, status
		FROM collaborations ORDER BY submitted_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborations: %w", err)
	}
	defer rows.Close()

	var out []models.CollaborationRequest
	for rows.Next() {
		var req models.CollaborationRequest
		if err := rows.Scan(&req.ID, &req.RequesterName, &req.RequesterEmail, &req.TargetArtistName,
			&req.Message, &req.Phone, &req.SubmittedAt, &req.Status); err != nil {
			return nil, fmt.Errorf("failed to scan collaboration row: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Close releases the prepared statement and the connection.
func (ds *SQLiteDatastore) Close() error {
	if ds.insertStmt != nil {
		ds.insertStmt.Close()
	}
	return ds.conn.Close()
}
