package planner

import (
	"strings"

	"github.com/kalambet/ptm/internal/persist"
)

// Todos is the schoolwork to-do collection, most recent first.
type Todos struct {
	slot  *persist.Slot[[]Todo]
	newID IDFunc
}

// NewTodos loads the todos slot from b.
func NewTodos(b persist.Backend, newID IDFunc) *Todos {
	return &Todos{
		slot:  persist.Open(b, TodosKey, []Todo{}),
		newID: newID,
	}
}

// Add puts a new open to-do at the front. It is a no-op when text is blank.
func (t *Todos) Add(text string, due Date) (Todo, bool) {
	if blank(text) {
		return Todo{}, false
	}
	var todo Todo
	t.slot.Update(func(items []Todo) ([]Todo, bool) {
		todo = Todo{
			ID: freshID(t.newID, func(id string) bool {
				return indexOf(items, func(x Todo) bool { return x.ID == id }) >= 0
			}),
			Text: strings.TrimSpace(text),
			Due:  due,
		}
		return append([]Todo{todo}, items...), true
	})
	return todo, true
}

// Toggle flips the done flag of to-do id.
func (t *Todos) Toggle(id string) bool {
	return t.slot.Update(func(items []Todo) ([]Todo, bool) {
		i := indexOf(items, func(x Todo) bool { return x.ID == id })
		if i < 0 {
			return items, false
		}
		todo := items[i]
		todo.Done = !todo.Done
		return replaced(items, i, todo), true
	})
}

// Delete removes the todo with id, reporting whether one was found.
func (t *Todos) Delete(id string) bool {
	return t.slot.Update(func(items []Todo) ([]Todo, bool) {
		i := indexOf(items, func(x Todo) bool { return x.ID == id })
		if i < 0 {
			return items, false
		}
		return without(items, i), true
	})
}

// All returns the todos, most recent first.
func (t *Todos) All() []Todo {
	return cloned(t.slot.Get())
}

// Open returns the to-dos not yet done.
func (t *Todos) Open() []Todo {
	var out []Todo
	for _, todo := range t.slot.Get() {
		if !todo.Done {
			out = append(out, todo)
		}
	}
	return out
}

// Replace swaps the whole collection and persists it.
func (t *Todos) Replace(items []Todo) {
	t.slot.Set(cloned(items))
}
