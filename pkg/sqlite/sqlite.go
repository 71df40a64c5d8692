// Package sqlite keeps task rows in a local SQLite file. It mirrors the
// spreadsheet layout so the task list works offline and in development.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrisonrobin/taskmate/pkg/logging"
	"github.com/harrisonrobin/taskmate/pkg/rowstore"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS task_rows (
    position    INTEGER PRIMARY KEY,
    description TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL DEFAULT '',
    priority    TEXT NOT NULL DEFAULT '',
    deadline    TEXT NOT NULL DEFAULT ''
);
`

// columns maps rowstore column numbers to table columns.
var columns = map[int]string{
	rowstore.ColDescription: "description",
	rowstore.ColCategory:    "category",
	rowstore.ColPriority:    "priority",
	rowstore.ColDeadline:    "deadline",
}

// Store is a rowstore.Store backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	log  *logging.Logger
}

var _ rowstore.Store = (*Store)(nil)

// DefaultPath returns the default database path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "taskmate", "tasks.db")
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultPath()
	}
	resolved := expandPath(dbPath)
	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return nil, fmt.Errorf("%w: creating db dir: %v", rowstore.ErrConnection, err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: opening db: %v", rowstore.ErrConnection, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping db: %v", rowstore.ErrConnection, err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: setting pragma %q: %v", rowstore.ErrConnection, pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: creating schema: %v", rowstore.ErrConnection, err)
	}

	return &Store{db: db, path: resolved, log: logging.Component("sqlite")}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the resolved database file.
func (s *Store) Path() string {
	return s.path
}

// FindRow returns the position of the first row whose description matches, or NotFound.
func (s *Store) FindRow(ctx context.Context, description string) (int, error) {
	var position int
	err := s.db.QueryRowContext(ctx,
		`SELECT position FROM task_rows WHERE description = ? ORDER BY position LIMIT 1`,
		description,
	).Scan(&position)
	if err == sql.ErrNoRows {
		return rowstore.NotFound, nil
	}
	if err != nil {
		return rowstore.NotFound, &rowstore.ReadError{Op: "find", Err: err}
	}
	return position, nil
}

// Row returns the cells at position row, padded to NumColumns.
func (s *Store) Row(ctx context.Context, row int) ([]string, error) {
	values := make([]string, rowstore.NumColumns)
	err := s.db.QueryRowContext(ctx,
		`SELECT description, category, priority, deadline FROM task_rows WHERE position = ?`,
		row,
	).Scan(&values[0], &values[1], &values[2], &values[3])
	if err == sql.ErrNoRows {
		return rowstore.Pad(nil), nil
	}
	if err != nil {
		return nil, &rowstore.ReadError{Op: "read row", Err: err}
	}
	return values, nil
}

// ReadAll returns every data row in position order.
func (s *Store) ReadAll(ctx context.Context) ([]rowstore.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, description, category, priority, deadline FROM task_rows ORDER BY position`)
	if err != nil {
		return nil, &rowstore.ReadError{Op: "read all", Err: err}
	}
	defer rows.Close()

	var out []rowstore.Row
	for rows.Next() {
		r := rowstore.Row{Values: make([]string, rowstore.NumColumns)}
		if err := rows.Scan(&r.Position, &r.Values[0], &r.Values[1], &r.Values[2], &r.Values[3]); err != nil {
			return nil, &rowstore.ReadError{Op: "read all", Err: err}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &rowstore.ReadError{Op: "read all", Err: err}
	}
	return out, nil
}

// WriteCell sets one cell, creating the row when it does not exist yet.
func (s *Store) WriteCell(ctx context.Context, row, column int, value string) error {
	if err := rowstore.ValidCell(row, column); err != nil {
		return &rowstore.WriteError{Op: "write cell", Row: row, Column: column, Err: err}
	}
	// Writing below the last row creates it, as a spreadsheet would.
	query := fmt.Sprintf(
		`INSERT INTO task_rows (position, %[1]s) VALUES (?, ?)
		 ON CONFLICT(position) DO UPDATE SET %[1]s = excluded.%[1]s`,
		columns[column],
	)
	if _, err := s.db.ExecContext(ctx, query, row, value); err != nil {
		return &rowstore.WriteError{Op: "write cell", Row: row, Column: column, Err: err}
	}
	s.log.Debug().Int("row", row).Int("column", column).Msg("cell updated")
	return nil
}

// InsertRow inserts values at position, shifting later rows down.
func (s *Store) InsertRow(ctx context.Context, position int, values []string) error {
	if position < rowstore.FirstDataRow {
		return &rowstore.WriteError{Op: "insert", Row: position, Err: fmt.Errorf("row %d is not a data row", position)}
	}
	values = rowstore.Pad(values)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &rowstore.WriteError{Op: "insert", Row: position, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	// Positions are unique, so shift through negative values to avoid
	// colliding with the row below mid-update.
	stmts := []struct {
		query string
		args  []any
	}{
		{`UPDATE task_rows SET position = -(position + 1) WHERE position >= ?`, []any{position}},
		{`UPDATE task_rows SET position = -position WHERE position < 0`, nil},
		{
			`INSERT INTO task_rows (position, description, category, priority, deadline) VALUES (?, ?, ?, ?, ?)`,
			[]any{position, values[0], values[1], values[2], values[3]},
		},
	}
	for _, st := range stmts {
		if _, err := tx.ExecContext(ctx, st.query, st.args...); err != nil {
			return &rowstore.WriteError{Op: "insert", Row: position, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &rowstore.WriteError{Op: "insert", Row: position, Err: err}
	}
	s.log.Debug().Int("row", position).Msg("row inserted")
	return nil
}

func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
