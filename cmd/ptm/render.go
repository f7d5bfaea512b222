package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/kalambet/ptm/internal/calendar"
	"github.com/kalambet/ptm/internal/planner"
	"github.com/kalambet/ptm/internal/views"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// resolveID expands a unique id prefix, as printed by the list commands,
// to the full id.
func resolveID(prefix string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("no record with id %q", prefix)
	}
	return match, nil
}

func dateLabel(d planner.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

// renderGrid draws the month as a Monday-first table. The selected day is
// bracketed, today is parenthesised and each event adds a dot.
func renderGrid(w io.Writer, g calendar.Grid, maxDots int) {
	colW := 4 + maxDots

	fmt.Fprintln(w, colorize(colorBold, g.Title()))
	for _, label := range calendar.WeekdayLabels {
		fmt.Fprint(w, padRight(" "+label, colW))
	}
	fmt.Fprintln(w)

	for _, week := range g.Weeks() {
		var line strings.Builder
		for _, c := range week {
			line.WriteString(renderCell(c, colW))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func renderCell(c calendar.Cell, width int) string {
	if c.Empty() {
		return strings.Repeat(" ", width)
	}
	left, right := " ", " "
	switch {
	case c.IsSelected:
		left, right = "[", "]"
	case c.IsToday:
		left, right = "(", ")"
	}
	text := fmt.Sprintf("%s%2d%s%s", left, c.Date.Day, right, strings.Repeat("•", c.Dots))
	cell := padRight(text, width)
	switch {
	case c.IsSelected:
		return colorize(colorBold, cell)
	case c.IsToday:
		return colorize(colorCyan, cell)
	}
	return cell
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func renderEvents(w io.Writer, events []planner.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events.")
		return
	}
	for _, ev := range events {
		fmt.Fprintf(w, "%s  %s  %s", colorize(colorCyan, shortID(ev.ID)), ev.Date, ev.Title)
		if ev.Notes != "" {
			fmt.Fprintf(w, "  %s", colorize(colorDim, ev.Notes))
		}
		fmt.Fprintln(w)
	}
}

func statusColor(s planner.Status) string {
	switch s {
	case planner.StatusCompleted:
		return colorGreen
	case planner.StatusLate:
		return colorRed
	}
	return colorYellow
}

func renderJobs(w io.Writer, jobs []planner.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs tracked.")
		return
	}
	for _, j := range jobs {
		company := j.Company
		if company == "" {
			company = "-"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s  due %s\n",
			colorize(colorCyan, shortID(j.ID)),
			colorize(statusColor(j.Status), padRight(string(j.Status), 9)),
			j.Title,
			company,
			dateLabel(j.Due),
		)
	}
}

func renderTodos(w io.Writer, todos []planner.Todo) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "No to-dos.")
		return
	}
	for _, t := range todos {
		box := "[ ]"
		text := t.Text
		if t.Done {
			box = "[x]"
			text = colorize(colorDim, text)
		}
		fmt.Fprintf(w, "%s  %s %s", colorize(colorCyan, shortID(t.ID)), box, text)
		if !t.Due.IsZero() {
			fmt.Fprintf(w, "  due %s", t.Due)
		}
		fmt.Fprintln(w)
	}
}

func renderWeek(w io.Writer, week planner.WeekPlan) {
	for _, day := range planner.Weekdays {
		items := week[day]
		fmt.Fprintln(w, colorize(colorBold, string(day)))
		if len(items) == 0 {
			fmt.Fprintln(w, "  -")
			continue
		}
		for _, it := range items {
			fmt.Fprintf(w, "  %s  %s", colorize(colorCyan, shortID(it.ID)), it.Subject)
			if it.Time != "" {
				fmt.Fprintf(w, "  %s", it.Time)
			}
			if it.Notes != "" {
				fmt.Fprintf(w, "  %s", colorize(colorDim, it.Notes))
			}
			fmt.Fprintln(w)
		}
	}
}

func renderSummary(w io.Writer, s views.Summary) {
	fmt.Fprintf(w, "%s  %s\n\n", colorize(colorBold, "ptm"), s.Today)
	for _, v := range s.Views {
		fmt.Fprintf(w, "  %s  %s\n", colorize(colorCyan, padRight(v.Name, 10)), v.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Events today:      %d\n", s.EventsToday)
	fmt.Fprintf(w, "  Events this month: %d\n", s.EventsThisMonth)
	fmt.Fprintf(w, "  Jobs:              %d pending, %d completed, %d late\n",
		s.Jobs[planner.StatusPending], s.Jobs[planner.StatusCompleted], s.Jobs[planner.StatusLate])
	fmt.Fprintf(w, "  Open to-dos:       %d\n", s.OpenTodos)
	if len(s.PlanToday) > 0 {
		fmt.Fprintln(w, "  Study plan today:")
		for _, it := range s.PlanToday {
			fmt.Fprintf(w, "    %s %s\n", it.Subject, it.Time)
		}
	}
}
