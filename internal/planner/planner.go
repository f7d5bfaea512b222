// Package planner holds the record types and the add/delete/update
// operations of the four persisted collections: calendar events, job
// applications, schoolwork to-dos and the weekly study plan.
//
// Every operation is a single in-memory replacement followed by a write
// through to the collection's slot. Invalid input and unknown ids are
// no-ops reported with a false return, never errors.
package planner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/kalambet/ptm/internal/persist"
)

// IDFunc generates record identifiers.
type IDFunc func() string

type options struct {
	newID IDFunc
}

// Option configures the collections returned by Open.
type Option func(*options)

// WithIDFunc replaces the default uuid generator (for testing).
func WithIDFunc(fn IDFunc) Option {
	return func(o *options) { o.newID = fn }
}

// Collections groups the four record collections bound to one backend.
type Collections struct {
	Events *Events
	Jobs   *Jobs
	Todos  *Todos
	Plan   *WeekPlanner
}

// Open loads all four collections from b.
func Open(b persist.Backend, opts ...Option) *Collections {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collections{
		Events: NewEvents(b, o.newID),
		Jobs:   NewJobs(b, o.newID),
		Todos:  NewTodos(b, o.newID),
		Plan:   NewWeekPlanner(b, o.newID),
	}
}

// Reload re-reads every collection from its slot.
func (c *Collections) Reload() {
	c.Events.slot.Reload([]Event{})
	c.Jobs.slot.Reload([]Job{})
	c.Todos.slot.Reload([]Todo{})
	c.Plan.slot.Reload(EmptyWeekPlan())
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// freshID draws ids until one is not already taken.
func freshID(gen IDFunc, taken func(id string) bool) string {
	for {
		id := gen()
		if !taken(id) {
			return id
		}
	}
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

// without returns a copy of items minus the element at i.
func without[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// replaced returns a copy of items with element i set to v.
func replaced[T any](items []T, i int, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[i] = v
	return out
}

func cloned[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
