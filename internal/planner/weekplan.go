package planner

import (
	"strings"

	"github.com/kalambet/ptm/internal/persist"
)

// WeekPlanner is the weekly study plan: seven day buckets of plan items.
type WeekPlanner struct {
	slot  *persist.Slot[WeekPlan]
	newID IDFunc
}

// NewWeekPlanner loads the week plan slot from b.
func NewWeekPlanner(b persist.Backend, newID IDFunc) *WeekPlanner {
	return &WeekPlanner{
		slot:  persist.Open(b, WeekPlanKey, EmptyWeekPlan()),
		newID: newID,
	}
}

// PlanInput carries the fields of a new plan item.
type PlanInput struct {
	Day     Weekday
	Subject string
	Time    string
	Notes   string
}

// Add appends an item to the bucket for in.Day. It is a no-op when the
// subject is blank or the day is not one of the seven labels.
func (w *WeekPlanner) Add(in PlanInput) (PlanItem, bool) {
	if blank(in.Subject) || !in.Day.Valid() {
		return PlanItem{}, false
	}
	var item PlanItem
	w.slot.Update(func(plan WeekPlan) (WeekPlan, bool) {
		next := plan.normalized()
		item = PlanItem{
			ID: freshID(w.newID, func(id string) bool {
				return indexOf(next[in.Day], func(x PlanItem) bool { return x.ID == id }) >= 0
			}),
			Day:     in.Day,
			Subject: strings.TrimSpace(in.Subject),
			Time:    in.Time,
			Notes:   in.Notes,
		}
		next[in.Day] = append(next[in.Day], item)
		return next, true
	})
	return item, true
}

// Delete removes item id from the bucket for day.
func (w *WeekPlanner) Delete(day Weekday, id string) bool {
	return w.slot.Update(func(plan WeekPlan) (WeekPlan, bool) {
		i := indexOf(plan[day], func(x PlanItem) bool { return x.ID == id })
		if i < 0 {
			return plan, false
		}
		next := plan.normalized()
		next[day] = without(next[day], i)
		return next, true
	})
}

// Day returns the items planned for day, in insertion order.
func (w *WeekPlanner) Day(day Weekday) []PlanItem {
	return cloned(w.slot.Get()[day])
}

// Week returns a copy of the whole plan with all seven days present.
func (w *WeekPlanner) Week() WeekPlan {
	return w.slot.Get().normalized()
}

// Replace swaps the whole plan (used by data import).
func (w *WeekPlanner) Replace(plan WeekPlan) {
	w.slot.Set(plan.normalized())
}
