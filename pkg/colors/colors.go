// Package colors styles task list output for the terminal.
package colors

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/harrisonrobin/taskmate/pkg/model"
)

// Default colour for tasks without a category.
const noCategoryColor = "245"

var categoryColors = map[model.Category]string{
	model.Goal:           "42",  // green
	model.Promise:        "214", // orange
	model.Responsibility: "69",  // blue
}

// ColorID returns the ANSI 256 colour for a category.
func ColorID(c model.Category) string {
	if id, ok := categoryColors[c]; ok {
		return id
	}
	return noCategoryColor
}

// Styles used by the list command.
type Styles struct {
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Overdue lipgloss.Style
}

// NewStyles returns the default styles.
func NewStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Overdue: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

// Category renders a category name in its colour.
func (s Styles) Category(c model.Category) string {
	if c == "" {
		return s.Muted.Render("-")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorID(c))).Render(string(c))
}
