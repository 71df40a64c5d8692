package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/harrisonrobin/taskmate/pkg/colors"
	"github.com/harrisonrobin/taskmate/pkg/model"
	"github.com/muesli/termenv"
)

func TestRenderTableAlignsStyledCells(t *testing.T) {
	previous := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(previous) })

	goal, _ := model.New("Write report", model.WithCategory("Goal"), model.WithPriority(2),
		model.WithDeadline(model.NewDate(2024, time.January, 1)))
	bare, _ := model.New("Buy milk")
	promise, _ := model.New("Call mom", model.WithCategory("Promise"))

	out := renderTable([]*model.Task{goal, bare, promise}, colors.NewStyles(),
		model.NewDate(2024, time.June, 1))
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("Expected styled output, got %q", out)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d: visible width %d, expected %d: %q", i, w, width, line)
		}
	}
	for _, want := range []string{"DESCRIPTION", "Write report", "Buy milk", "Call mom"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in table", want)
		}
	}
}
