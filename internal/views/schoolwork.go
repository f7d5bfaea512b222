package views

import (
	"sync"

	"github.com/kalambet/ptm/internal/planner"
)

type TodoForm struct {
	Text string       `json:"text"`
	Due  planner.Date `json:"due"`
}

// PlanForm is the weekly-plan form. An empty Day means Mon.
type PlanForm struct {
	Day     planner.Weekday `json:"day"`
	Subject string          `json:"subject"`
	Time    string          `json:"time"`
	Notes   string          `json:"notes"`
}

// Schoolwork controls the to-do list and the weekly study plan.
type Schoolwork struct {
	todos *planner.Todos
	plan  *planner.WeekPlanner

	mu       sync.Mutex
	todoForm TodoForm
	planForm PlanForm
}

// NewSchoolwork creates the Schoolwork view. The plan form starts on Mon.
func NewSchoolwork(todos *planner.Todos, plan *planner.WeekPlanner) *Schoolwork {
	return &Schoolwork{
		todos:    todos,
		plan:     plan,
		planForm: PlanForm{Day: planner.Mon},
	}
}

func (s *Schoolwork) TodoForm() TodoForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todoForm
}

func (s *Schoolwork) PlanForm() PlanForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planForm
}

func (s *Schoolwork) AddTodo(f TodoForm) (planner.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todoForm = f
	todo, ok := s.todos.Add(f.Text, f.Due)
	if !ok {
		return planner.Todo{}, false
	}
	s.todoForm = TodoForm{}
	return todo, true
}

func (s *Schoolwork) ToggleTodo(id string) bool { return s.todos.Toggle(id) }
func (s *Schoolwork) DeleteTodo(id string) bool { return s.todos.Delete(id) }

func (s *Schoolwork) Todos() []planner.Todo { return s.todos.All() }

// AddPlan submits f. On success the form clears but keeps its day.
func (s *Schoolwork) AddPlan(f PlanForm) (planner.PlanItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Day == "" {
		f.Day = planner.Mon
	}
	s.planForm = f
	item, ok := s.plan.Add(planner.PlanInput{
		Day:     f.Day,
		Subject: f.Subject,
		Time:    f.Time,
		Notes:   f.Notes,
	})
	if !ok {
		return planner.PlanItem{}, false
	}
	s.planForm = PlanForm{Day: f.Day}
	return item, true
}

func (s *Schoolwork) DeletePlan(day planner.Weekday, id string) bool {
	return s.plan.Delete(day, id)
}

func (s *Schoolwork) Week() planner.WeekPlan { return s.plan.Week() }
