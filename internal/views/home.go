package views

import (
	"github.com/kalambet/ptm/internal/planner"
)

// ViewLink describes one navigable view on the home page.
type ViewLink struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Links are the views reachable from home, in menu order.
var Links = []ViewLink{
	{Name: "Calendar", Path: "/calendar", Description: "Add events and view them on a monthly grid. Pick a date to see its events."},
	{Name: "Jobs", Path: "/jobs", Description: "Track applications and tasks. Set status to pending, completed, or late."},
	{Name: "Schoolwork", Path: "/schoolwork", Description: "To-dos plus a weekly study plan with day-by-day buckets."},
}

// Summary is what the home view shows.
type Summary struct {
	Views           []ViewLink             `json:"views"`
	Today           planner.Date           `json:"today"`
	EventsToday     int                    `json:"events_today"`
	EventsThisMonth int                    `json:"events_this_month"`
	Jobs            map[planner.Status]int `json:"jobs"`
	OpenTodos       int                    `json:"open_todos"`
	PlanToday       []planner.PlanItem     `json:"plan_today"`
}

type Home struct {
	c     *planner.Collections
	clock Clock
}

// NewHome creates the landing view over all collections.
func NewHome(c *planner.Collections, clock Clock) *Home {
	return &Home{c: c, clock: clock}
}

func (h *Home) Summary() Summary {
	t := today(h.clock)
	s := Summary{
		Views:     Links,
		Today:     t,
		Jobs:      h.c.Jobs.CountByStatus(),
		OpenTodos: len(h.c.Todos.Open()),
		PlanToday: h.c.Plan.Day(planner.WeekdayOf(t.Weekday())),
	}
	for _, ev := range h.c.Events.All() {
		if ev.Date.Year == t.Year && ev.Date.Month == t.Month {
			s.EventsThisMonth++
			if ev.Date == t {
				s.EventsToday++
			}
		}
	}
	return s
}
