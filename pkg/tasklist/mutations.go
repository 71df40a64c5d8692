package tasklist

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/taskmate/pkg/model"
)

// AddTask saves a new task with only a description. It does not check for an
// existing task with the same description; callers that care must look it up
// first.
func (s *Service) AddTask(ctx context.Context, description string) (string, error) {
	t, err := model.New(description, model.WithStore(s.store))
	if err != nil {
		return "", err
	}
	err = t.Save(ctx)
	s.Invalidate()
	if err != nil {
		return "", fmt.Errorf("adding task %q: %w", description, err)
	}
	s.log.Info().Str("description", description).Msg("task added")
	return fmt.Sprintf("Added new task to the list: %s", description), nil
}

// ChangePriority sets the priority of an existing task. A missing task is a
// normal outcome reported in the returned message, not an error.
func (s *Service) ChangePriority(ctx context.Context, description string, priority int) (string, error) {
	msg, _, err := s.UpdatePriority(ctx, description, priority)
	return msg, err
}

// UpdatePriority is ChangePriority that also reports whether the task
// existed.
func (s *Service) UpdatePriority(ctx context.Context, description string, priority int) (string, bool, error) {
	t, found, err := s.FindByDescription(ctx, description)
	if err != nil {
		return "", false, err
	}
	if !found {
		s.log.Info().Str("description", description).Msg("priority change for unknown task")
		return fmt.Sprintf("Unable to find Task: %s", description), false, nil
	}

	// The cached listing must not change before the store does.
	updated := *t
	updated.SetPriority(priority)
	err = updated.Save(ctx)
	s.Invalidate()
	if err != nil {
		return "", true, fmt.Errorf("changing priority of %q: %w", description, err)
	}
	s.log.Info().Str("description", description).Int("priority", priority).Msg("task priority changed")
	return fmt.Sprintf("Updated the priority of Task: %s to %d", description, priority), true, nil
}
