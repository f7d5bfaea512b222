package planner

import (
	"fmt"
	"strings"
	"time"
)

// Slot keys the four collections are persisted under.
const (
	EventsKey   = "ptm_events"
	JobsKey     = "ptm_jobs"
	TodosKey    = "ptm_todos"
	WeekPlanKey = "ptm_weekplan"
)

type Event struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Notes string `json:"notes" yaml:"notes"`
	Date  Date   `json:"date" yaml:"date"`
}

// Status is the lifecycle state of a job application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusLate      Status = "late"
)

// Statuses lists every valid Status in display order.
var Statuses = []Status{StatusPending, StatusCompleted, StatusLate}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusLate:
		return true
	}
	return false
}

// ParseStatus accepts any letter case and surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (want pending, completed or late)", s)
	}
	return st, nil
}

type Job struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Company string `json:"company" yaml:"company"`
	Due     Date   `json:"due" yaml:"due"`
	Status  Status `json:"status" yaml:"status"`
}

type Todo struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
	Done bool   `json:"done" yaml:"done"`
	Due  Date   `json:"due" yaml:"due"`
}

// Weekday is one of the seven fixed plan-bucket labels, Mon through Sun.
type Weekday string

const (
	Mon Weekday = "Mon"
	Tue Weekday = "Tue"
	Wed Weekday = "Wed"
	Thu Weekday = "Thu"
	Fri Weekday = "Fri"
	Sat Weekday = "Sat"
	Sun Weekday = "Sun"
)

// Weekdays lists the plan buckets Monday first.
var Weekdays = []Weekday{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

func (w Weekday) Valid() bool {
	for _, d := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// ParseWeekday accepts the three-letter label or the full English day
// name in any letter case.
func ParseWeekday(s string) (Weekday, error) {
	v := strings.TrimSpace(s)
	for _, d := range Weekdays {
		if strings.EqualFold(v, string(d)) || strings.EqualFold(v, weekdayNames[d]) {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid day %q (want Mon..Sun)", s)
}

var weekdayNames = map[Weekday]string{
	Mon: "Monday", Tue: "Tuesday", Wed: "Wednesday", Thu: "Thursday",
	Fri: "Friday", Sat: "Saturday", Sun: "Sunday",
}

// WeekdayOf maps a time.Weekday to its plan bucket.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekdays[(int(d)+6)%7]
}

type PlanItem struct {
	ID      string  `json:"id" yaml:"id"`
	Day     Weekday `json:"day" yaml:"day"`
	Subject string  `json:"subject" yaml:"subject"`
	Time    string  `json:"time" yaml:"time"`
	Notes   string  `json:"notes" yaml:"notes"`
}

// WeekPlan maps each weekday label to its ordered plan items.
type WeekPlan map[Weekday][]PlanItem

// EmptyWeekPlan returns a plan with all seven days present and empty.
func EmptyWeekPlan() WeekPlan {
	w := make(WeekPlan, len(Weekdays))
	for _, d := range Weekdays {
		w[d] = []PlanItem{}
	}
	return w
}

// normalized returns a copy holding exactly the seven valid days.
// Unknown keys are dropped and missing days are added empty.
func (w WeekPlan) normalized() WeekPlan {
	out := make(WeekPlan, len(Weekdays))
	for _, d := range Weekdays {
		items := w[d]
		cp := make([]PlanItem, len(items))
		copy(cp, items)
		out[d] = cp
	}
	return out
}
