package rowstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store. It backs tests and the "memory" backend.
type Memory struct {
	mu   sync.Mutex
	rows [][]string // data rows; rows[0] is position FirstDataRow

	// Writes counts WriteCell and InsertRow calls that reached the store.
	Writes int
	// FailWrites makes every write return a *WriteError wrapping it.
	FailWrites error
	// FailReads makes every read return a *ReadError wrapping it.
	FailReads error
}

// NewMemory returns a store holding the given data rows.
func NewMemory(rows ...[]string) *Memory {
	m := &Memory{}
	for _, r := range rows {
		m.rows = append(m.rows, Pad(r))
	}
	return m
}

// FindRow returns the position of the first row whose description matches, or NotFound.
func (m *Memory) FindRow(ctx context.Context, description string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads != nil {
		return NotFound, &ReadError{Op: "find", Err: m.FailReads}
	}
	for i, r := range m.rows {
		if r[ColDescription-1] == description {
			return i + FirstDataRow, nil
		}
	}
	return NotFound, nil
}

// Row returns the cells at position row, padded to NumColumns.
func (m *Memory) Row(ctx context.Context, row int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads != nil {
		return nil, &ReadError{Op: "read row", Err: m.FailReads}
	}
	i := row - FirstDataRow
	if i < 0 || i >= len(m.rows) {
		return Pad(nil), nil
	}
	return Pad(m.rows[i]), nil
}

// ReadAll returns every data row in position order.
func (m *Memory) ReadAll(ctx context.Context) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads != nil {
		return nil, &ReadError{Op: "read all", Err: m.FailReads}
	}
	out := make([]Row, 0, len(m.rows))
	for i, r := range m.rows {
		out = append(out, Row{Position: i + FirstDataRow, Values: Pad(r)})
	}
	return out, nil
}

// WriteCell sets one cell, growing the table when row is past the end.
func (m *Memory) WriteCell(ctx context.Context, row, column int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ValidCell(row, column); err != nil {
		return &WriteError{Op: "write cell", Row: row, Column: column, Err: err}
	}
	if m.FailWrites != nil {
		return &WriteError{Op: "write cell", Row: row, Column: column, Err: m.FailWrites}
	}
	i := row - FirstDataRow
	for len(m.rows) <= i {
		m.rows = append(m.rows, Pad(nil))
	}
	m.rows[i][column-1] = value
	m.Writes++
	return nil
}

// InsertRow inserts values at position, shifting later rows down.
func (m *Memory) InsertRow(ctx context.Context, position int, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := position - FirstDataRow
	if i < 0 || i > len(m.rows) {
		return &WriteError{Op: "insert", Row: position, Err: fmt.Errorf("position %d out of range", position)}
	}
	if m.FailWrites != nil {
		return &WriteError{Op: "insert", Row: position, Err: m.FailWrites}
	}
	m.rows = append(m.rows, nil)
	copy(m.rows[i+1:], m.rows[i:])
	m.rows[i] = Pad(values)
	m.Writes++
	return nil
}

// Snapshot returns a copy of the data rows.
func (m *Memory) Snapshot() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
