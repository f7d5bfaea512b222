package planner

import (
	"strings"

	"github.com/kalambet/ptm/internal/persist"
)

// Events is the calendar event collection, kept in insertion order.
type Events struct {
	slot  *persist.Slot[[]Event]
	newID IDFunc
}

// NewEvents loads the events slot from b.
func NewEvents(b persist.Backend, newID IDFunc) *Events {
	return &Events{
		slot:  persist.Open(b, EventsKey, []Event{}),
		newID: newID,
	}
}

// Add appends a new event. It is a no-op when title is blank.
func (e *Events) Add(title, notes string, date Date) (Event, bool) {
	if blank(title) {
		return Event{}, false
	}
	var ev Event
	e.slot.Update(func(items []Event) ([]Event, bool) {
		ev = Event{
			ID: freshID(e.newID, func(id string) bool {
				return indexOf(items, func(x Event) bool { return x.ID == id }) >= 0
			}),
			Title: strings.TrimSpace(title),
			Notes: notes,
			Date:  date,
		}
		return append(cloned(items), ev), true
	})
	return ev, true
}

// Delete removes the event with id, reporting whether one was found.
func (e *Events) Delete(id string) bool {
	return e.slot.Update(func(items []Event) ([]Event, bool) {
		i := indexOf(items, func(x Event) bool { return x.ID == id })
		if i < 0 {
			return items, false
		}
		return without(items, i), true
	})
}

// All returns the events in insertion order.
func (e *Events) All() []Event {
	return cloned(e.slot.Get())
}

// OnDate returns the events dated d, in insertion order.
func (e *Events) OnDate(d Date) []Event {
	var out []Event
	for _, ev := range e.slot.Get() {
		if ev.Date == d {
			out = append(out, ev)
		}
	}
	return out
}

// Replace swaps the whole collection (used by data import).
func (e *Events) Replace(items []Event) {
	e.slot.Set(cloned(items))
}
