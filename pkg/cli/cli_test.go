package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	SetOutput(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// sqliteConfig writes a config file pointing at a fresh SQLite store.
func sqliteConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "backend: sqlite\nsqlite:\n  path: " + filepath.Join(dir, "tasks.db") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAddListAndPriority(t *testing.T) {
	cfg := sqliteConfig(t)

	out, err := runCLI(t, "--config", cfg, "add", "Write", "report")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out, "Added new task to the list: Write report") {
		t.Errorf("Unexpected add output %q", out)
	}
	if _, err := runCLI(t, "--config", cfg, "add", "Buy milk"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err = runCLI(t, "--config", cfg, "priority", "Write report", "2")
	if err != nil {
		t.Fatalf("priority failed: %v", err)
	}
	if !strings.Contains(out, "Updated the priority of Task: Write report to 2") {
		t.Errorf("Unexpected priority output %q", out)
	}

	out, err = runCLI(t, "--config", cfg, "list", "--text")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := "Task: Buy milk\nTask: Write report with priority 2\n"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}

	out, err = runCLI(t, "--config", cfg, "list", "--json")
	if err != nil {
		t.Fatalf("list --json failed: %v", err)
	}
	var tasks []map[string]any
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("Invalid JSON %q: %v", out, err)
	}
	if len(tasks) != 2 {
		t.Errorf("Expected 2 tasks, got %d", len(tasks))
	}

	out, err = runCLI(t, "--config", cfg, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "DESCRIPTION") || !strings.Contains(out, "Write report") {
		t.Errorf("Unexpected table output %q", out)
	}
}

func TestPriorityUnknownTask(t *testing.T) {
	cfg := sqliteConfig(t)
	out, err := runCLI(t, "--config", cfg, "priority", "Walk dog", "1")
	if err != nil {
		t.Fatalf("priority failed: %v", err)
	}
	if !strings.Contains(out, "Unable to find Task: Walk dog") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestPriorityRejectsNonInteger(t *testing.T) {
	cfg := sqliteConfig(t)
	if _, err := runCLI(t, "--config", cfg, "priority", "Walk dog", "high"); err == nil {
		t.Error("Expected error for non-integer priority")
	}
}

func TestListEmptyMemoryBackend(t *testing.T) {
	cfg := sqliteConfig(t)
	out, err := runCLI(t, "--config", cfg, "--backend", "memory", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No tasks.") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestUnknownBackendFlag(t *testing.T) {
	cfg := sqliteConfig(t)
	if _, err := runCLI(t, "--config", cfg, "--backend", "excel", "list"); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestConfigSetSheet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	url := "https://docs.google.com/spreadsheets/d/abc123/edit"

	if _, err := runCLI(t, "--config", path, "config", "set-sheet", url, "--worksheet", "Todo"); err != nil {
		t.Fatalf("set-sheet failed: %v", err)
	}
	out, err := runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"backend:            sheets", url, "Todo"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output %q", want, out)
		}
	}

	if _, err := runCLI(t, "--config", path, "config", "set-sheet", "https://example.com/x"); err == nil {
		t.Error("Expected error for non-sheet URL")
	}
}
