package colors

import (
	"strings"
	"testing"

	"github.com/harrisonrobin/taskmate/pkg/model"
)

func TestColorIDDistinctPerCategory(t *testing.T) {
	seen := map[string]model.Category{}
	for _, c := range model.Categories {
		id := ColorID(c)
		if id == noCategoryColor {
			t.Errorf("category %s uses the no-category colour", c)
		}
		if prev, ok := seen[id]; ok {
			t.Errorf("categories %s and %s share colour %s", prev, c, id)
		}
		seen[id] = c
	}
	if ColorID("") != noCategoryColor {
		t.Errorf("Expected empty category to use %s", noCategoryColor)
	}
}

func TestCategoryRendersName(t *testing.T) {
	s := NewStyles()
	if got := s.Category(model.Goal); !strings.Contains(got, "Goal") {
		t.Errorf("Expected rendered category to contain name, got %q", got)
	}
	if got := s.Category(""); !strings.Contains(got, "-") {
		t.Errorf("Expected placeholder for empty category, got %q", got)
	}
}
