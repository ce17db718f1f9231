package task

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT,
	status      TEXT NOT NULL DEFAULT 'open',
	stop_score  INTEGER,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`

// #endregion schema

// #region types

// Task is a unit of submitted work tracked by the gate.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Status    string    `json:"status"` // "open" | "stopped"
	StopScore int       `json:"stopScore,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch is a partial task update. Nil fields are left unchanged.
type Patch struct {
	Status    *string
	StopScore *int
}

// ErrNotFound is returned when a task id has no row.
var ErrNotFound = errors.New("task not found")

// #endregion types

// #region store
// Store manages tasks in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an existing connection.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB so the audit store can share the file.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region upsert
// UpsertTask creates the task row if it does not exist yet.
func (s *Store) UpsertTask(id, title string) (Task, error) {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, status, created_at, updated_at)
		 VALUES (?, ?, 'open', ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, title, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Task{}, fmt.Errorf("upsert task: %w", err)
	}
	return s.GetTask(id)
}

// #endregion upsert

// #region get
// GetTask retrieves a task by id.
func (s *Store) GetTask(id string) (Task, error) {
	var t Task
	var title sql.NullString
	var stopScore sql.NullInt64
	var createdStr, updatedStr string

	err := s.db.QueryRow(
		`SELECT id, title, status, stop_score, created_at, updated_at FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &title, &t.Status, &stopScore, &createdStr, &updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task %s: %w", id, err)
	}

	if title.Valid {
		t.Title = title.String
	}
	if stopScore.Valid {
		t.StopScore = int(stopScore.Int64)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return t, nil
}

// #endregion get

// #region update
// UpdateTask applies a partial update and returns the updated task. The row is
// created first if absent, so a reject can stop a task the caller never
// registered explicitly.
func (s *Store) UpdateTask(id string, patch Patch) (Task, error) {
	if _, err := s.UpsertTask(id, ""); err != nil {
		return Task{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if patch.Status != nil {
		if _, err := s.db.Exec(
			`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, *patch.Status, now, id,
		); err != nil {
			return Task{}, fmt.Errorf("update task status: %w", err)
		}
	}
	if patch.StopScore != nil {
		if _, err := s.db.Exec(
			`UPDATE tasks SET stop_score = ?, updated_at = ? WHERE id = ?`, *patch.StopScore, now, id,
		); err != nil {
			return Task{}, fmt.Errorf("update task score: %w", err)
		}
	}
	return s.GetTask(id)
}

// #endregion update

// #region list
// ListTasks returns all tasks, newest first.
func (s *Store) ListTasks(limit int) ([]Task, error) {
	rows, err := s.db.Query(
		`SELECT id, title, status, stop_score, created_at, updated_at
		 FROM tasks ORDER BY updated_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var title sql.NullString
		var stopScore sql.NullInt64
		var createdStr, updatedStr string
		if err := rows.Scan(&t.ID, &title, &t.Status, &stopScore, &createdStr, &updatedStr); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if title.Valid {
			t.Title = title.String
		}
		if stopScore.Valid {
			t.StopScore = int(stopScore.Int64)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// #endregion list
