// Package model holds the Task entity and its persistence against a row store.
package model

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/harrisonrobin/taskmate/pkg/rowstore"
)

// Category classifies a task. The zero value means "no category".
type Category string

const (
	Goal           Category = "Goal"
	Promise        Category = "Promise"
	Responsibility Category = "Responsibility"
)

// Categories lists every valid category in display order.
var Categories = []Category{Goal, Promise, Responsibility}

var (
	ErrEmptyDescription = errors.New("task description must not be empty")
	ErrNoStore          = errors.New("unable to save: no task store configured")
)

// InvalidCategoryError is returned when a category is outside Categories.
type InvalidCategoryError struct {
	Value string
}

func (e *InvalidCategoryError) Error() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return fmt.Sprintf("invalid category %q, must be one of %s", e.Value, strings.Join(names, ", "))
}

// ParseCategory validates s. The empty string yields the zero Category.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", &InvalidCategoryError{Value: s}
}

// Task is a single to-do item. The row store owns the durable copy; a Task
// only reaches it through Save.
type Task struct {
	Description string   `json:"description"`
	Category    Category `json:"category,omitempty"`
	Priority    *int     `json:"priority,omitempty"`
	Deadline    *Date    `json:"deadline,omitempty"`

	store rowstore.Store

	// raw is the row the task was loaded from, loaded is how the parsed
	// fields encoded at that point. touched marks columns set since.
	raw     []string
	loaded  []string
	touched [rowstore.NumColumns]bool
}

// Option configures a Task under construction.
type Option func(*Task) error

// WithCategory sets the category, rejecting unknown values.
func WithCategory(category string) Option {
	return func(t *Task) error {
		c, err := ParseCategory(category)
		if err != nil {
			return err
		}
		t.Category = c
		return nil
	}
}

// WithPriority sets the priority.
func WithPriority(priority int) Option {
	return func(t *Task) error {
		t.SetPriority(priority)
		return nil
	}
}

// WithDeadline sets the deadline.
func WithDeadline(deadline Date) Option {
	return func(t *Task) error {
		t.SetDeadline(deadline)
		return nil
	}
}

// WithStore binds the task to the store Save writes to.
func WithStore(store rowstore.Store) Option {
	return func(t *Task) error {
		t.store = store
		return nil
	}
}

// New builds a validated task. It does not touch the store.
func New(description string, opts ...Option) (*Task, error) {
	if description == "" {
		return nil, ErrEmptyDescription
	}
	t := &Task{Description: description}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Bind attaches the task to store.
func (t *Task) Bind(store rowstore.Store) {
	t.store = store
}

// Loaded records the store cells t was parsed from. Until a field is
// changed, Values returns its cell verbatim, so a cell that did not parse
// or used another date layout survives Save untouched.
func (t *Task) Loaded(cells []string) {
	t.raw = rowstore.Pad(append([]string(nil), cells...))
	t.loaded = t.encode()
	t.touched = [rowstore.NumColumns]bool{}
}

// SetCategory changes the category, rejecting unknown values.
func (t *Task) SetCategory(category string) error {
	c, err := ParseCategory(category)
	if err != nil {
		return err
	}
	t.Category = c
	t.touch(rowstore.ColCategory)
	return nil
}

// SetPriority sets the priority.
func (t *Task) SetPriority(priority int) {
	t.Priority = &priority
	t.touch(rowstore.ColPriority)
}

// ClearPriority unsets the priority.
func (t *Task) ClearPriority() {
	t.Priority = nil
	t.touch(rowstore.ColPriority)
}

// SetDeadline sets the deadline.
func (t *Task) SetDeadline(deadline Date) {
	t.Deadline = &deadline
	t.touch(rowstore.ColDeadline)
}

// ClearDeadline unsets the deadline.
func (t *Task) ClearDeadline() {
	t.Deadline = nil
	t.touch(rowstore.ColDeadline)
}

func (t *Task) touch(column int) {
	t.touched[column-1] = true
}

// Values returns the task encoded as store cells, unset fields as "".
// Fields unchanged since Loaded keep their original cell text.
func (t *Task) Values() []string {
	values := t.encode()
	if t.raw == nil {
		return values
	}
	for i := range values {
		if !t.touched[i] && values[i] == t.loaded[i] {
			values[i] = t.raw[i]
		}
	}
	return values
}

func (t *Task) encode() []string {
	values := make([]string, rowstore.NumColumns)
	values[rowstore.ColDescription-1] = t.Description
	values[rowstore.ColCategory-1] = string(t.Category)
	if t.Priority != nil {
		values[rowstore.ColPriority-1] = strconv.Itoa(*t.Priority)
	}
	if t.Deadline != nil {
		values[rowstore.ColDeadline-1] = t.Deadline.String()
	}
	return values
}

// Save writes the task to its store. The row is looked up again on every
// call since other sessions may have shifted rows since the task was read.
// An existing row only gets the cells that differ; a missing one is inserted
// at the top of the list. Cell writes are not atomic: a failure part way
// leaves the row partially updated.
func (t *Task) Save(ctx context.Context) error {
	if t.store == nil {
		return ErrNoStore
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}

	values := t.Values()
	row, err := t.store.FindRow(ctx, t.Description)
	if err != nil {
		return err
	}
	if row == rowstore.NotFound {
		return t.store.InsertRow(ctx, rowstore.FirstDataRow, values)
	}

	current, err := t.store.Row(ctx, row)
	if err != nil {
		return err
	}
	current = rowstore.Pad(current)
	for i, v := range values {
		if current[i] == v {
			continue
		}
		if err := t.store.WriteCell(ctx, row, i+1, v); err != nil {
			return err
		}
	}
	return nil
}
