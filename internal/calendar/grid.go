// Package calendar builds the Monday-first month grid shown by the
// calendar view.
package calendar

import (
	"time"

	"github.com/kalambet/ptm/internal/planner"
)

// DefaultMaxDots caps the event markers drawn in a single day cell.
const DefaultMaxDots = 3

// WeekdayLabels are the column headers, Monday first.
var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Cell is one grid position. Padding cells have a zero Date.
type Cell struct {
	Date       planner.Date `json:"date"`
	EventCount int          `json:"event_count"`
	HasEvents  bool         `json:"has_events"`
	Dots       int          `json:"dots"`
	IsSelected bool         `json:"is_selected"`
	IsToday    bool         `json:"is_today"`
}

func (c Cell) Empty() bool { return c.Date.IsZero() }

// Grid is the display grid for the month containing Selected.
type Grid struct {
	Year        int          `json:"year"`
	Month       time.Month   `json:"month"`
	Selected    planner.Date `json:"selected"`
	StartOffset int          `json:"start_offset"`
	DaysInMonth int          `json:"days_in_month"`
	Cells       []Cell       `json:"cells"`
}

// Options tweak Build. The zero value marks no today cell and uses
// DefaultMaxDots.
type Options struct {
	Today   planner.Date
	MaxDots int
}

// Build lays out the month of selected: StartOffset empty cells so the
// first falls under its weekday column, then one cell per day. A day
// cell has events when any event's date is that day.
func Build(selected planner.Date, events []planner.Event, opts Options) Grid {
	maxDots := opts.MaxDots
	if maxDots <= 0 {
		maxDots = DefaultMaxDots
	}

	year, month := selected.Year, selected.Month
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := StartOffset(first.Weekday())
	days := DaysIn(year, month)

	counts := make(map[planner.Date]int)
	for _, ev := range events {
		if ev.Date.Year == year && ev.Date.Month == month {
			counts[ev.Date]++
		}
	}

	cells := make([]Cell, start, start+days)
	for d := 1; d <= days; d++ {
		date := planner.Date{Year: year, Month: month, Day: d}
		n := counts[date]
		cells = append(cells, Cell{
			Date:       date,
			EventCount: n,
			HasEvents:  n > 0,
			Dots:       min(n, maxDots),
			IsSelected: date == selected,
			IsToday:    !opts.Today.IsZero() && date == opts.Today,
		})
	}

	return Grid{
		Year:        year,
		Month:       month,
		Selected:    selected,
		StartOffset: start,
		DaysInMonth: days,
		Cells:       cells,
	}
}

// StartOffset remaps a Sunday-first weekday so Monday is 0 and Sunday 6.
func StartOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// DaysIn returns the number of days in month, via day zero of the next month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Weeks splits the cells into rows of seven. The last row is padded with
// empty cells.
func (g Grid) Weeks() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(g.Cells); i += 7 {
		row := make([]Cell, 7)
		copy(row, g.Cells[i:min(i+7, len(g.Cells))])
		rows = append(rows, row)
	}
	return rows
}

// ShiftMonth moves selected by delta months. The day is clamped to 28 first
// so the result never rolls into the month after the target.
func ShiftMonth(selected planner.Date, delta int) planner.Date {
	day := min(selected.Day, 28)
	return planner.NewDate(selected.Year, selected.Month+time.Month(delta), day)
}

// Title renders the grid heading, e.g. "March 2024".
func (g Grid) Title() string {
	return time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}
