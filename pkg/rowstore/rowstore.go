// Package rowstore defines the tabular backend that holds task rows.
//
// A store is a position-ordered list of rows with four string columns
// (description, category, priority, deadline). Row 1 is the header row, data
// starts at row 2. Positions and columns are 1-based, the way spreadsheets
// count them.
package rowstore

import (
	"context"
	"errors"
	"fmt"
)

// Column positions of the task sheet.
const (
	ColDescription = 1
	ColCategory    = 2
	ColPriority    = 3
	ColDeadline    = 4

	NumColumns = 4
)

const (
	// NotFound is returned by FindRow when no row matches.
	NotFound = 0
	// HeaderRow holds the column titles.
	HeaderRow = 1
	// FirstDataRow is where new tasks are inserted.
	FirstDataRow = 2
)

// Header is the title row every task store starts with.
var Header = []string{"description", "category", "priority", "deadline"}

var (
	// ErrAuthentication is returned when credentials are rejected.
	ErrAuthentication = errors.New("rowstore: authentication failed")
	// ErrConnection is returned when the store cannot be reached or located.
	ErrConnection = errors.New("rowstore: connection failed")
)

// Row is one data row and its current position.
type Row struct {
	Position int
	Values   []string
}

// Store is the row-level interface the task list is built on.
type Store interface {
	// FindRow returns the position of the first data row whose description
	// equals description exactly, or NotFound.
	FindRow(ctx context.Context, description string) (int, error)
	// Row returns the values of one row, padded to NumColumns.
	Row(ctx context.Context, row int) ([]string, error)
	// ReadAll returns every data row in position order.
	ReadAll(ctx context.Context) ([]Row, error)
	// WriteCell overwrites a single cell.
	WriteCell(ctx context.Context, row, column int, value string) error
	// InsertRow inserts values at position, shifting later rows down.
	InsertRow(ctx context.Context, position int, values []string) error
}

// ReadError wraps a failed read against the backing store.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("rowstore: %s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a write the backing store rejected.
type WriteError struct {
	Op     string
	Row    int
	Column int
	Err    error
}

func (e *WriteError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("rowstore: %s row %d column %d: %v", e.Op, e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("rowstore: %s row %d: %v", e.Op, e.Row, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Pad returns values extended with empty strings to NumColumns. Longer
// slices are truncated.
func Pad(values []string) []string {
	out := make([]string, NumColumns)
	copy(out, values)
	return out
}

// ValidCell reports whether row and column address a data cell.
func ValidCell(row, column int) error {
	if row < FirstDataRow {
		return fmt.Errorf("row %d is not a data row", row)
	}
	if column < 1 || column > NumColumns {
		return fmt.Errorf("column %d out of range", column)
	}
	return nil
}
