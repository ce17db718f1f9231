package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id                    TEXT PRIMARY KEY,
	task_id               TEXT,
	decision              TEXT NOT NULL,
	final_status          TEXT NOT NULL,
	risk_level            TEXT NOT NULL,
	stop_score            INTEGER NOT NULL,
	verified_artefacts    TEXT,
	missing_invalid_parts TEXT,
	required_next_action  TEXT,
	created_at            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_task ON audit_log(task_id);
`

// #endregion schema

// #region store-struct
// Store is the append-only SQLite audit log.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
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

// NewStoreWithDB wraps an existing connection. Used when the audit log shares
// a database file with the task store.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region create
// CreateEntry appends a new immutable entry, assigning its id and timestamp.
func (s *Store) CreateEntry(e Entry) (Entry, error) {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()

	verified, err := json.Marshal(stringsOrEmpty(e.VerifiedArtefacts))
	if err != nil {
		return Entry{}, fmt.Errorf("marshal artefacts: %w", err)
	}
	missing, err := json.Marshal(stringsOrEmpty(e.MissingInvalidParts))
	if err != nil {
		return Entry{}, fmt.Errorf("marshal missing parts: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO audit_log (id, task_id, decision, final_status, risk_level, stop_score,
		                        verified_artefacts, missing_invalid_parts, required_next_action, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		nullIfEmpty(e.TaskID),
		string(e.Decision),
		string(e.FinalStatus),
		string(e.RiskLevel),
		e.StopScore,
		string(verified),
		string(missing),
		nullIfEmpty(e.RequiredNextAction),
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert audit entry: %w", err)
	}
	return e, nil
}

// #endregion create

// #region get
// GetEntry retrieves a single entry by id.
func (s *Store) GetEntry(id string) (Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, task_id, decision, final_status, risk_level, stop_score,
		        verified_artefacts, missing_invalid_parts, required_next_action, created_at
		 FROM audit_log WHERE id = ?`, id,
	)
	e, err := scanEntry(row)
	if err != nil {
		return Entry{}, fmt.Errorf("get audit entry %s: %w", id, err)
	}
	return e, nil
}

// #endregion get

// #region list
// ListEntries returns the most recent entries, newest first.
func (s *Store) ListEntries(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, decision, final_status, risk_level, stop_score,
		        verified_artefacts, missing_invalid_parts, required_next_action, created_at
		 FROM audit_log ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion list

// #region scan

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var taskID, nextAction sql.NullString
	var verified, missing, riskLevel, decision, status, createdStr string

	err := row.Scan(&e.ID, &taskID, &decision, &status, &riskLevel, &e.StopScore,
		&verified, &missing, &nextAction, &createdStr)
	if err != nil {
		return Entry{}, err
	}

	e.Decision = Decision(decision)
	e.FinalStatus = FinalStatus(status)
	e.RiskLevel = taxonomy.Severity(riskLevel)
	if taskID.Valid {
		e.TaskID = taskID.String
	}
	if nextAction.Valid {
		e.RequiredNextAction = nextAction.String
	}
	if err := json.Unmarshal([]byte(verified), &e.VerifiedArtefacts); err != nil {
		return Entry{}, fmt.Errorf("unmarshal artefacts: %w", err)
	}
	if err := json.Unmarshal([]byte(missing), &e.MissingInvalidParts); err != nil {
		return Entry{}, fmt.Errorf("unmarshal missing parts: %w", err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)

	return e, nil
}

// #endregion scan

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// #endregion helpers
