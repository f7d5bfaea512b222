// Package views holds the controllers behind the four navigable views:
// home, calendar, jobs and schoolwork. Controllers own only the current
// form input and selected date; every record lives in a planner collection.
package views

import (
	"time"

	"github.com/kalambet/ptm/internal/calendar"
	"github.com/kalambet/ptm/internal/planner"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Options configure NewApp. Zero values select the wall clock and the
// default dot cap.
type Options struct {
	Clock   Clock
	MaxDots int
}

// App wires the four view controllers to one set of collections.
type App struct {
	Collections *planner.Collections

	Home       *Home
	Calendar   *Calendar
	Jobs       *Jobs
	Schoolwork *Schoolwork
}

// NewApp wires every view to c.
func NewApp(c *planner.Collections, opts Options) *App {
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	maxDots := opts.MaxDots
	if maxDots <= 0 {
		maxDots = calendar.DefaultMaxDots
	}
	return &App{
		Collections: c,
		Home:        NewHome(c, clock),
		Calendar:    NewCalendar(c.Events, clock, maxDots),
		Jobs:        NewJobs(c.Jobs),
		Schoolwork:  NewSchoolwork(c.Todos, c.Plan),
	}
}

func today(c Clock) planner.Date {
	return planner.DateOf(c.Now())
}
