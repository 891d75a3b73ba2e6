package archive

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Rishabhjain2003/CollaborativeCanvas/internal/models"
)

// Store persists room snapshots to sqlite for offline inspection and
// export. It is a sink on the edge of the system: the server never reads it
// back at startup, so rooms always boot empty and the archive cannot drift
// out from under the live log.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the archive database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.init(); err != nil {
		return nil, err
	}

	return store, nil
}

// init initializes the database schema
func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operations (
		room_id TEXT NOT NULL,
		op_id INTEGER NOT NULL,
		user_id TEXT NOT NULL,
		prev_x REAL NOT NULL,
		prev_y REAL NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		color TEXT NOT NULL,
		size REAL NOT NULL,
		tool TEXT NOT NULL,
		active INTEGER NOT NULL,
		client_id TEXT,
		archived_at DATETIME NOT NULL,
		PRIMARY KEY (room_id, op_id)
	);

	CREATE INDEX IF NOT EXISTS idx_operations_user_id ON operations(room_id, user_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveSnapshot upserts a room's full operation log. Geometry columns never
// change after the first write; only the visibility flag and archive time
// move on re-archive.
func (s *Store) SaveSnapshot(roomID string, ops []models.Operation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO operations (room_id, op_id, user_id, prev_x, prev_y, x, y, color, size, tool, active, client_id, archived_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(room_id, op_id) DO UPDATE SET
		active = excluded.active,
		archived_at = excluded.archived_at
	`

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, op := range ops {
		_, err := stmt.Exec(
			op.RoomID,
			op.OpID,
			op.UserID,
			op.Geometry.PrevX,
			op.Geometry.PrevY,
			op.Geometry.X,
			op.Geometry.Y,
			op.Geometry.Color,
			op.Geometry.Size,
			op.Geometry.Tool,
			op.Active,
			op.ClientID,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to archive operation %d: %w", op.OpID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads a room's archived log back in op-id order. Used by
// export tooling and tests, never by the live server.
func (s *Store) LoadSnapshot(roomID string) ([]models.Operation, error) {
	query := `
	SELECT room_id, op_id, user_id, prev_x, prev_y, x, y, color, size, tool, active, client_id
	FROM operations
	WHERE room_id = ?
	ORDER BY op_id ASC
	`

	rows, err := s.db.Query(query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var ops []models.Operation
	for rows.Next() {
		var op models.Operation
		var clientID sql.NullString

		err := rows.Scan(
			&op.RoomID,
			&op.OpID,
			&op.UserID,
			&op.Geometry.PrevX,
			&op.Geometry.PrevY,
			&op.Geometry.X,
			&op.Geometry.Y,
			&op.Geometry.Color,
			&op.Geometry.Size,
			&op.Geometry.Tool,
			&op.Active,
			&clientID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}

		if clientID.Valid {
			op.ClientID = clientID.String
		}

		ops = append(ops, op)
	}

	return ops, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
