package rowstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryInsertShiftsRows(t *testing.T) {
	ctx := context.Background()
	m := NewMemory([]string{"first"}, []string{"second"})

	if err := m.InsertRow(ctx, FirstDataRow, []string{"new", "Goal"}); err != nil {
		t.Fatalf("InsertRow failed: %v", err)
	}

	rows := m.Snapshot()
	want := []string{"new", "first", "second"}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i, w := range want {
		if rows[i][0] != w {
			t.Errorf("row %d: expected %q, got %q", i, w, rows[i][0])
		}
	}
	if got := rows[0][1]; got != "Goal" {
		t.Errorf("Expected category Goal, got %q", got)
	}

	pos, err := m.FindRow(ctx, "second")
	if err != nil {
		t.Fatalf("FindRow failed: %v", err)
	}
	if pos != 4 {
		t.Errorf("Expected 'second' at row 4, got %d", pos)
	}
}

func TestMemoryFindRowExactMatch(t *testing.T) {
	m := NewMemory([]string{"Buy milk"})
	for _, q := range []string{"buy milk", "Buy", "Buy milk "} {
		pos, err := m.FindRow(context.Background(), q)
		if err != nil {
			t.Fatalf("FindRow(%q) failed: %v", q, err)
		}
		if pos != NotFound {
			t.Errorf("FindRow(%q) = %d, expected NotFound", q, pos)
		}
	}
}

func TestMemoryWriteCellRejectsHeader(t *testing.T) {
	m := NewMemory([]string{"a"})
	err := m.WriteCell(context.Background(), HeaderRow, ColDescription, "x")
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("Expected *WriteError, got %v", err)
	}
	if m.Writes != 0 {
		t.Errorf("Expected no writes, got %d", m.Writes)
	}
}

func TestMemoryFailures(t *testing.T) {
	boom := errors.New("quota exceeded")
	m := NewMemory([]string{"a"})
	m.FailWrites = boom
	m.FailReads = boom

	if err := m.InsertRow(context.Background(), FirstDataRow, []string{"b"}); !errors.Is(err, boom) {
		t.Errorf("Expected insert error to wrap cause, got %v", err)
	}
	_, err := m.ReadAll(context.Background())
	var re *ReadError
	if !errors.As(err, &re) || !errors.Is(err, boom) {
		t.Errorf("Expected *ReadError wrapping cause, got %v", err)
	}
}

func TestPad(t *testing.T) {
	got := Pad([]string{"a", "b"})
	if len(got) != NumColumns || got[2] != "" || got[3] != "" {
		t.Errorf("Pad returned %v", got)
	}
	got = Pad([]string{"a", "b", "c", "d", "e"})
	if len(got) != NumColumns {
		t.Errorf("Expected truncation to %d columns, got %v", NumColumns, got)
	}
}
