package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/ptm/internal/calendar"
	"github.com/kalambet/ptm/internal/planner"
	"github.com/kalambet/ptm/internal/views"
)

const maxRequestBodySize = 1 << 20 // 1MB

// NewHandler returns the loopback HTTP API for the three views. Every
// route but /health reads or mutates app and, when token is set,
// requires it as a bearer token. Rejected adds answer 422.
func NewHandler(app *views.App, token string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))
		mountViews(r, app)
	})

	return r
}

func mountViews(r chi.Router, app *views.App) {
	r.Get("/", handleHome(app))

	r.Route("/calendar", func(r chi.Router) {
		r.Get("/", handleCalendar(app))
		r.Post("/events", handleAddEvent(app))
		r.Delete("/events/{id}", handleDeleteEvent(app))
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", handleListJobs(app))
		r.Post("/", handleAddJob(app))
		r.Patch("/{id}", handleSetJobStatus(app))
		r.Delete("/{id}", handleDeleteJob(app))
	})

	r.Route("/schoolwork", func(r chi.Router) {
		r.Get("/", handleSchoolwork(app))
		r.Post("/todos", handleAddTodo(app))
		r.Post("/todos/{id}/toggle", handleToggleTodo(app))
		r.Delete("/todos/{id}", handleDeleteTodo(app))
		r.Post("/plan", handleAddPlan(app))
		r.Delete("/plan/{day}/{id}", handleDeletePlan(app))
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleHome(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, app.Home.Summary())
	}
}

// CalendarPage is the body of GET /calendar.
type CalendarPage struct {
	Title     string          `json:"title"`
	Weekdays  []string        `json:"weekdays"`
	Grid      calendar.Grid   `json:"grid"`
	DayEvents []planner.Event `json:"day_events"`
	Form      views.EventForm `json:"form"`
}

func handleCalendar(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw := r.URL.Query().Get("date"); raw != "" {
			d, err := planner.ParseDate(raw)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
				return
			}
			app.Calendar.Select(d)
		}
		writeJSON(w, http.StatusOK, calendarPage(app.Calendar))
	}
}

func calendarPage(c *views.Calendar) CalendarPage {
	g := c.Grid()
	return CalendarPage{
		Title:     g.Title(),
		Weekdays:  calendar.WeekdayLabels,
		Grid:      g,
		DayEvents: c.DayEvents(),
		Form:      c.Form(),
	}
}

func handleAddEvent(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f views.EventForm
		if !decodeBody(w, r, &f) {
			return
		}
		ev, ok := app.Calendar.AddEvent(f)
		if !ok {
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "title is required")
			return
		}
		writeJSON(w, http.StatusOK, ev)
	}
}

func handleDeleteEvent(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !app.Calendar.DeleteEvent(id) {
			httpError(w, http.StatusNotFound, "not_found", "event %s not found", id)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

// JobsPage is the body of GET /jobs.
type JobsPage struct {
	Jobs   []planner.Job          `json:"jobs"`
	Counts map[planner.Status]int `json:"counts"`
	Form   views.JobForm          `json:"form"`
}

func handleListJobs(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, JobsPage{
			Jobs:   app.Jobs.List(),
			Counts: app.Collections.Jobs.CountByStatus(),
			Form:   app.Jobs.Form(),
		})
	}
}

func handleAddJob(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f views.JobForm
		if !decodeBody(w, r, &f) {
			return
		}
		if f.Status != "" {
			st, err := planner.ParseStatus(string(f.Status))
			if err != nil {
				httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "%v", err)
				return
			}
			f.Status = st
		}
		job, ok := app.Jobs.Add(f)
		if !ok {
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "title is required")
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func handleSetJobStatus(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req statusRequest
		if !decodeBody(w, r, &req) {
			return
		}
		st, err := planner.ParseStatus(req.Status)
		if err != nil {
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "%v", err)
			return
		}
		if !app.Jobs.SetStatus(id, st) {
			httpError(w, http.StatusNotFound, "not_found", "job %s not found", id)
			return
		}
		job, _ := app.Collections.Jobs.Get(id)
		writeJSON(w, http.StatusOK, job)
	}
}

func handleDeleteJob(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !app.Jobs.Delete(id) {
			httpError(w, http.StatusNotFound, "not_found", "job %s not found", id)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

// DayPlan is one weekday bucket in display order.
type DayPlan struct {
	Day   planner.Weekday    `json:"day"`
	Items []planner.PlanItem `json:"items"`
}

// SchoolworkPage is the body of GET /schoolwork.
type SchoolworkPage struct {
	Todos    []planner.Todo `json:"todos"`
	Week     []DayPlan      `json:"week"`
	TodoForm views.TodoForm `json:"todo_form"`
	PlanForm views.PlanForm `json:"plan_form"`
}

func orderedWeek(w planner.WeekPlan) []DayPlan {
	out := make([]DayPlan, 0, len(planner.Weekdays))
	for _, d := range planner.Weekdays {
		out = append(out, DayPlan{Day: d, Items: w[d]})
	}
	return out
}

func handleSchoolwork(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, SchoolworkPage{
			Todos:    app.Schoolwork.Todos(),
			Week:     orderedWeek(app.Schoolwork.Week()),
			TodoForm: app.Schoolwork.TodoForm(),
			PlanForm: app.Schoolwork.PlanForm(),
		})
	}
}

func handleAddTodo(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f views.TodoForm
		if !decodeBody(w, r, &f) {
			return
		}
		todo, ok := app.Schoolwork.AddTodo(f)
		if !ok {
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "text is required")
			return
		}
		writeJSON(w, http.StatusOK, todo)
	}
}

func handleToggleTodo(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !app.Schoolwork.ToggleTodo(id) {
			httpError(w, http.StatusNotFound, "not_found", "todo %s not found", id)
			return
		}
		for _, t := range app.Schoolwork.Todos() {
			if t.ID == id {
				writeJSON(w, http.StatusOK, t)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"toggled": id})
	}
}

func handleDeleteTodo(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !app.Schoolwork.DeleteTodo(id) {
			httpError(w, http.StatusNotFound, "not_found", "todo %s not found", id)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

func handleAddPlan(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f views.PlanForm
		if !decodeBody(w, r, &f) {
			return
		}
		if f.Day != "" {
			day, err := planner.ParseWeekday(string(f.Day))
			if err != nil {
				httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "%v", err)
				return
			}
			f.Day = day
		}
		item, ok := app.Schoolwork.AddPlan(f)
		if !ok {
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "subject is required")
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func handleDeletePlan(app *views.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		day, err := planner.ParseWeekday(chi.URLParam(r, "day"))
		if err != nil {
			httpError(w, http.StatusNotFound, "not_found", "%v", err)
			return
		}
		if !app.Schoolwork.DeletePlan(day, id) {
			httpError(w, http.StatusNotFound, "not_found", "plan item %s not found on %s", id, day)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

// decodeBody decodes a JSON request body into v. It writes a 400 and
// returns false when the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response", "error", err)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
