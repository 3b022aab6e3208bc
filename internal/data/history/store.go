package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, openError("ping sqlite history", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, openError("initialize sqlite schema", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func openError(op, path string, err error) error {
	if IsCorruptError(err) {
		return fmt.Errorf("%s %q: database is corrupt, remove it to start a fresh history: %w", op, path, err)
	}
	return fmt.Errorf("%s %q: %w", op, path, err)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores a snapshot and its unused symbols in one transaction and
// returns the run id. A run id is generated when the snapshot has none.
func (s *Store) SaveRun(snapshot Snapshot, unused []UnusedSymbol) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot.ProjectKey = normalizeProject(snapshot.ProjectKey)
	if snapshot.RunID == "" {
		snapshot.RunID = uuid.NewString()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if snapshot.SchemaVersion == 0 {
		snapshot.SchemaVersion = SchemaVersion
	}
	if snapshot.SchemaVersion != SchemaVersion {
		return "", fmt.Errorf("unsupported snapshot schema version %d", snapshot.SchemaVersion)
	}

	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
INSERT INTO snapshots (
  run_id, project_key, schema_version, ts_utc, duration_ms, file_count, import_count,
  syntax_error_count, unused_functions, unused_properties, unused_variables,
  unused_attributes, unused_total
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshot.RunID,
			snapshot.ProjectKey,
			snapshot.SchemaVersion,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.DurationMS,
			snapshot.FileCount,
			snapshot.ImportCount,
			snapshot.SyntaxErrorCount,
			snapshot.UnusedFunctions,
			snapshot.UnusedProperties,
			snapshot.UnusedVariables,
			snapshot.UnusedAttributes,
			snapshot.UnusedTotal,
		); err != nil {
			_ = tx.Rollback()
			return err
		}

		stmt, err := tx.Prepare(`INSERT INTO unused_symbols (run_id, seq, name, kind, file, line) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		defer stmt.Close()
		for i, sym := range unused {
			if _, err := stmt.Exec(snapshot.RunID, i, sym.Name, sym.Kind, sym.File, sym.Line); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return snapshot.RunID, nil
}

const snapshotColumns = `
  run_id, project_key, schema_version, ts_utc, duration_ms, file_count, import_count,
  syntax_error_count, unused_functions, unused_properties, unused_variables,
  unused_attributes, unused_total`

// LoadSnapshots returns the project's snapshots taken at or after since,
// oldest first. A zero since loads all of them.
func (s *Store) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT" + snapshotColumns + "\nFROM snapshots WHERE project_key = ?"
	args := []any{normalizeProject(projectKey)}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"
	return s.querySnapshots("load snapshots", query, args...)
}

// LoadRecent returns the newest limit snapshots of a project, oldest first.
func (s *Store) LoadRecent(projectKey string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		return s.LoadSnapshots(projectKey, time.Time{})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT * FROM (SELECT" + snapshotColumns + `
FROM snapshots WHERE project_key = ? ORDER BY ts_utc DESC, run_id DESC LIMIT ?)
ORDER BY ts_utc ASC, run_id ASC`
	return s.querySnapshots("load recent snapshots", query, normalizeProject(projectKey), limit)
}

func (s *Store) querySnapshots(op, query string, args ...any) ([]Snapshot, error) {
	var rows *sql.Rows
	err := s.withRetry(op, func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw    string
			snapshot Snapshot
		)
		if err := rows.Scan(
			&snapshot.RunID,
			&snapshot.ProjectKey,
			&snapshot.SchemaVersion,
			&tsRaw,
			&snapshot.DurationMS,
			&snapshot.FileCount,
			&snapshot.ImportCount,
			&snapshot.SyntaxErrorCount,
			&snapshot.UnusedFunctions,
			&snapshot.UnusedProperties,
			&snapshot.UnusedVariables,
			&snapshot.UnusedAttributes,
			&snapshot.UnusedTotal,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp %q: %w", tsRaw, err)
		}
		snapshot.Timestamp = ts.UTC()
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snapshots, nil
}

// LoadUnused returns the unused symbols stored for a run in report order.
func (s *Store) LoadUnused(runID string) ([]UnusedSymbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load unused symbols", func() error {
		var qErr error
		rows, qErr = s.db.Query(`SELECT name, kind, file, line FROM unused_symbols WHERE run_id = ? ORDER BY seq ASC`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UnusedSymbol, 0)
	for rows.Next() {
		var sym UnusedSymbol
		if err := rows.Scan(&sym.Name, &sym.Kind, &sym.File, &sym.Line); err != nil {
			return nil, fmt.Errorf("scan unused symbol row: %w", err)
		}
		out = append(out, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unused symbol rows: %w", err)
	}
	return out, nil
}

func normalizeProject(projectKey string) string {
	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		return "default"
	}
	return projectKey
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
