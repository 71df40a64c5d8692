// Package tasklist reads the whole task list from a row store and exposes
// the operations the UI, CLI and agent tools call.
package tasklist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/taskmate/pkg/cache"
	"github.com/harrisonrobin/taskmate/pkg/logging"
	"github.com/harrisonrobin/taskmate/pkg/model"
	"github.com/harrisonrobin/taskmate/pkg/rowstore"
)

// DefaultCacheTTL bounds how often the full listing is fetched.
const DefaultCacheTTL = 60 * time.Second

// Service aggregates and formats the task list.
type Service struct {
	store   rowstore.Store
	listing *cache.TTL[[]*model.Task]
	log     *logging.Logger
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	ttl    time.Duration
	clock  cache.Clock
	logger *logging.Logger
}

// WithCacheTTL sets the memoization window. Zero disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *serviceOptions) { o.ttl = ttl }
}

// WithClock sets the clock the cache measures its window with.
func WithClock(clock cache.Clock) Option {
	return func(o *serviceOptions) { o.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *serviceOptions) { o.logger = l }
}

// NewService returns a Service reading from store.
func NewService(store rowstore.Store, opts ...Option) *Service {
	o := serviceOptions{ttl: DefaultCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Component("tasklist")
	}
	return &Service{
		store:   store,
		listing: cache.NewTTL[[]*model.Task](o.ttl, o.clock),
		log:     o.logger,
	}
}

// Store returns the backing row store.
func (s *Service) Store() rowstore.Store {
	return s.store
}

// Invalidate drops the memoized listing so the next read hits the store.
func (s *Service) Invalidate() {
	s.listing.Invalidate()
}

// ListAll returns every task in store order. Rows without a description are
// skipped and a category outside the known set is read as no category, so
// one malformed row never hides the rest of the list.
func (s *Service) ListAll(ctx context.Context) ([]*model.Task, error) {
	if tasks, ok := s.listing.Get(); ok {
		return tasks, nil
	}

	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]*model.Task, 0, len(rows))
	for _, row := range rows {
		t := s.parseRow(row)
		if t != nil {
			tasks = append(tasks, t)
		}
	}

	s.listing.Set(tasks)
	s.log.Debug().Int("rows", len(rows)).Int("tasks", len(tasks)).Msg("task list loaded")
	return tasks, nil
}

func (s *Service) parseRow(row rowstore.Row) *model.Task {
	values := rowstore.Pad(row.Values)
	description := values[rowstore.ColDescription-1]
	if description == "" {
		return nil
	}

	t, _ := model.New(description, model.WithStore(s.store))

	if c, err := model.ParseCategory(values[rowstore.ColCategory-1]); err == nil {
		t.Category = c
	} else {
		s.log.Warn().Int("row", row.Position).Err(err).Msg("ignoring category")
	}

	if p := strings.TrimSpace(values[rowstore.ColPriority-1]); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			t.SetPriority(n)
		} else {
			s.log.Warn().Int("row", row.Position).Str("priority", p).Msg("ignoring priority")
		}
	}

	if d := strings.TrimSpace(values[rowstore.ColDeadline-1]); d != "" {
		if date, err := model.ParseDate(d); err == nil {
			t.SetDeadline(date)
		} else {
			s.log.Warn().Int("row", row.Position).Str("deadline", d).Msg("ignoring deadline")
		}
	}
	t.Loaded(values)
	return t
}

// RenderAsText formats the list one task per line for an agent to read.
func (s *Service) RenderAsText(ctx context.Context) (string, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(FormatTask(t))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// FormatTask renders one task, leaving out unset fields.
func FormatTask(t *model.Task) string {
	line := fmt.Sprintf("Task: %s", t.Description)
	if t.Category != "" {
		line += fmt.Sprintf(" which is a %s", t.Category)
	}
	if t.Priority != nil {
		line += fmt.Sprintf(" with priority %d", *t.Priority)
	}
	if t.Deadline != nil {
		line += fmt.Sprintf(" and deadline %s", t.Deadline)
	}
	return line
}

// FindByDescription returns the first task whose description matches
// exactly.
func (s *Service) FindByDescription(ctx context.Context, description string) (*model.Task, bool, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, t := range tasks {
		if t.Description == description {
			return t, true, nil
		}
	}
	return nil, false, nil
}

// Overdue returns the tasks whose deadline falls on a day before now.
func (s *Service) Overdue(ctx context.Context, now time.Time) ([]*model.Task, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	today := model.DateOf(now)
	var overdue []*model.Task
	for _, t := range tasks {
		if t.Deadline != nil && t.Deadline.Before(today) {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}
