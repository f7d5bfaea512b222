package views

import (
	"sync"

	"github.com/kalambet/ptm/internal/calendar"
	"github.com/kalambet/ptm/internal/planner"
)

// EventForm is the add-event form. A zero Date means today.
type EventForm struct {
	Title string       `json:"title"`
	Notes string       `json:"notes"`
	Date  planner.Date `json:"date"`
}

// Calendar controls the month grid and the selected day's event list.
type Calendar struct {
	events  *planner.Events
	clock   Clock
	maxDots int

	mu       sync.Mutex
	selected planner.Date
	form     EventForm
}

// NewCalendar creates a Calendar with today selected.
func NewCalendar(events *planner.Events, clock Clock, maxDots int) *Calendar {
	t := today(clock)
	return &Calendar{
		events:   events,
		clock:    clock,
		maxDots:  maxDots,
		selected: t,
		form:     EventForm{Date: t},
	}
}

func (c *Calendar) Selected() planner.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Select makes d the selected day. The zero Date is ignored.
func (c *Calendar) Select(d planner.Date) {
	if d.IsZero() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = d
}

// NextMonth and PrevMonth move the selection by one month, keeping the
// day of month where possible (clamped to 28).
func (c *Calendar) NextMonth() planner.Date { return c.ShiftMonth(1) }
func (c *Calendar) PrevMonth() planner.Date { return c.ShiftMonth(-1) }

func (c *Calendar) ShiftMonth(delta int) planner.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = calendar.ShiftMonth(c.selected, delta)
	return c.selected
}

func (c *Calendar) Form() EventForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// AddEvent submits f. A blank title leaves f in the form and adds nothing;
// on success title and notes are cleared and the date is kept.
func (c *Calendar) AddEvent(f EventForm) (planner.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f.Date.IsZero() {
		f.Date = today(c.clock)
	}
	c.form = f
	ev, ok := c.events.Add(f.Title, f.Notes, f.Date)
	if !ok {
		return planner.Event{}, false
	}
	c.form = EventForm{Date: f.Date}
	return ev, true
}

func (c *Calendar) DeleteEvent(id string) bool {
	return c.events.Delete(id)
}

// Grid builds the month grid around the selected day.
func (c *Calendar) Grid() calendar.Grid {
	sel := c.Selected()
	return calendar.Build(sel, c.events.All(), calendar.Options{
		Today:   today(c.clock),
		MaxDots: c.maxDots,
	})
}

// DayEvents lists the events on the selected day.
func (c *Calendar) DayEvents() []planner.Event {
	return c.events.OnDate(c.Selected())
}
