package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harrisonrobin/taskmate/pkg/rowstore"
)

func TestNewRejectsInvalidCategory(t *testing.T) {
	for _, c := range []string{"goal", "Chore", "Goal ", "None"} {
		_, err := New("Write report", WithCategory(c))
		var ice *InvalidCategoryError
		if !errors.As(err, &ice) {
			t.Errorf("New with category %q: expected *InvalidCategoryError, got %v", c, err)
			continue
		}
		if ice.Value != c {
			t.Errorf("Expected error value %q, got %q", c, ice.Value)
		}
	}
}

func TestNewAcceptsKnownCategories(t *testing.T) {
	for _, c := range Categories {
		task, err := New("Write report", WithCategory(string(c)))
		if err != nil {
			t.Fatalf("New with category %q failed: %v", c, err)
		}
		if task.Category != c {
			t.Errorf("Expected category %q, got %q", c, task.Category)
		}
	}
}

func TestNewEmptyDescription(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("Expected ErrEmptyDescription, got %v", err)
	}
}

func TestSaveWithoutStore(t *testing.T) {
	task, err := New("Buy milk")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := task.Save(context.Background()); !errors.Is(err, ErrNoStore) {
		t.Errorf("Expected ErrNoStore, got %v", err)
	}
}

func TestSaveInsertsAtTop(t *testing.T) {
	store := rowstore.NewMemory([]string{"Older task", "Goal", "1", ""})
	task, err := New("Buy milk", WithStore(store), WithPriority(3))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := task.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rows := store.Snapshot()
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	want := []string{"Buy milk", "", "3", ""}
	for i, w := range want {
		if rows[0][i] != w {
			t.Errorf("column %d: expected %q, got %q", i+1, w, rows[0][i])
		}
	}
	if rows[1][0] != "Older task" {
		t.Errorf("Expected older task pushed to row 3, got %q", rows[1][0])
	}
	if store.Writes != 1 {
		t.Errorf("Expected exactly one insert, got %d writes", store.Writes)
	}
}

func TestSaveUpdatesOnlyChangedCells(t *testing.T) {
	store := rowstore.NewMemory(
		[]string{"Other", "", "", ""},
		[]string{"Write report", "Promise", "2", "2024-01-01"},
	)
	task, err := New("Write report",
		WithStore(store),
		WithCategory("Promise"),
		WithPriority(5),
		WithDeadline(NewDate(2024, time.January, 1)),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := task.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if store.Writes != 1 {
		t.Errorf("Expected 1 cell write, got %d", store.Writes)
	}
	rows := store.Snapshot()
	if len(rows) != 2 {
		t.Fatalf("Expected no new row, got %d rows", len(rows))
	}
	if rows[1][2] != "5" {
		t.Errorf("Expected priority 5, got %q", rows[1][2])
	}
	if rows[1][1] != "Promise" || rows[1][3] != "2024-01-01" {
		t.Errorf("Unchanged cells were modified: %v", rows[1])
	}
}

func TestSaveClearsUnsetFields(t *testing.T) {
	store := rowstore.NewMemory([]string{"Write report", "Goal", "2", "2024-01-01"})
	task, err := New("Write report", WithStore(store))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := task.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if store.Writes != 3 {
		t.Errorf("Expected 3 cell writes, got %d", store.Writes)
	}
	if got := store.Snapshot()[0]; got[1] != "" || got[2] != "" || got[3] != "" {
		t.Errorf("Expected cleared cells, got %v", got)
	}
}

func TestSaveNoChangesNoWrites(t *testing.T) {
	store := rowstore.NewMemory([]string{"Buy milk", "", "", ""})
	task, _ := New("Buy milk", WithStore(store))
	if err := task.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if store.Writes != 0 {
		t.Errorf("Expected no writes, got %d", store.Writes)
	}
}

func TestLoadedKeepsOriginalCells(t *testing.T) {
	row := []string{"Write report", "", "", "3/1/2024"}
	store := rowstore.NewMemory(row)
	task, _ := New("Write report", WithStore(store), WithDeadline(NewDate(2024, time.March, 1)))
	task.Loaded(row)

	if got := task.Values(); got[3] != "3/1/2024" {
		t.Errorf("Expected original deadline cell, got %q", got[3])
	}
	if err := task.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if store.Writes != 0 {
		t.Errorf("Expected no writes, got %d", store.Writes)
	}
}

func TestClearAfterLoadedWritesEmptyCell(t *testing.T) {
	row := []string{"Write report", "", "", "next friday"}
	store := rowstore.NewMemory(row)
	task, _ := New("Write report", WithStore(store))
	task.Loaded(row)
	task.ClearDeadline()

	if err := task.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := store.Snapshot()[0][3]; got != "" {
		t.Errorf("Expected cleared deadline, got %q", got)
	}
	if store.Writes != 1 {
		t.Errorf("Expected 1 write, got %d", store.Writes)
	}
}

func TestSavePropagatesWriteError(t *testing.T) {
	boom := errors.New("permission denied")
	store := rowstore.NewMemory()
	store.FailWrites = boom
	task, _ := New("Buy milk", WithStore(store))

	err := task.Save(context.Background())
	var we *rowstore.WriteError
	if !errors.As(err, &we) || !errors.Is(err, boom) {
		t.Errorf("Expected *rowstore.WriteError wrapping cause, got %v", err)
	}
}

func TestSaveRejectsCategorySetDirectly(t *testing.T) {
	store := rowstore.NewMemory()
	task, _ := New("Buy milk", WithStore(store))
	task.Category = Category("Errand")

	var ice *InvalidCategoryError
	if err := task.Save(context.Background()); !errors.As(err, &ice) {
		t.Errorf("Expected *InvalidCategoryError, got %v", err)
	}
	if store.Writes != 0 {
		t.Errorf("Expected no writes, got %d", store.Writes)
	}
}

func TestValues(t *testing.T) {
	task, _ := New("Plan trip", WithCategory("Goal"), WithDeadline(NewDate(2025, time.March, 9)))
	got := task.Values()
	want := []string{"Plan trip", "Goal", "", "2025-03-09"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: expected %q, got %q", i+1, want[i], got[i])
		}
	}
}
