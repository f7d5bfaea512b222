package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kalambet/ptm/internal/persist"
	"github.com/kalambet/ptm/internal/planner"
	"github.com/kalambet/ptm/internal/storage"
	"github.com/kalambet/ptm/internal/views"
)

const testToken = "test-token-12345"

// Friday 15 March 2024.
var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, b persist.Backend) *views.App {
	t.Helper()
	n := 0
	c := planner.Open(b, planner.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	return views.NewApp(c, views.Options{Clock: views.FixedClock(testNow)})
}

func setupHandler(t *testing.T, token string) (http.Handler, *views.App) {
	t.Helper()
	app := newTestApp(t, persist.NewMemory())
	return NewHandler(app, token), app
}

func doReq(t *testing.T, h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding body %q: %v", rr.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h, _ := setupHandler(t, testToken)
	rr := doReq(t, h, http.MethodGet, "/health", "")
	expectStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestAuth(t *testing.T) {
	h, _ := setupHandler(t, testToken)

	rr := doReq(t, h, http.MethodGet, "/jobs", "")
	expectStatus(t, rr, http.StatusUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	expectStatus(t, rr, http.StatusOK)

	req = httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	expectStatus(t, rr, http.StatusUnauthorized)
}

func TestHome(t *testing.T) {
	h, app := setupHandler(t, "")
	app.Schoolwork.AddTodo(views.TodoForm{Text: "essay"})

	rr := doReq(t, h, http.MethodGet, "/", "")
	expectStatus(t, rr, http.StatusOK)

	s := decode[views.Summary](t, rr)
	if len(s.Views) != 3 {
		t.Errorf("views = %d, want 3", len(s.Views))
	}
	if s.OpenTodos != 1 {
		t.Errorf("open todos = %d", s.OpenTodos)
	}
	if s.Today.String() != "2024-03-15" {
		t.Errorf("today = %v", s.Today)
	}
}

func TestCalendar_AddAndShow(t *testing.T) {
	h, _ := setupHandler(t, "")

	rr := doReq(t, h, http.MethodPost, "/calendar/events", `{"title":"Dentist","date":"2024-03-20"}`)
	expectStatus(t, rr, http.StatusOK)
	ev := decode[planner.Event](t, rr)
	if ev.ID == "" || ev.Date.String() != "2024-03-20" {
		t.Errorf("event = %+v", ev)
	}

	rr = doReq(t, h, http.MethodGet, "/calendar?date=2024-03-20", "")
	expectStatus(t, rr, http.StatusOK)
	page := decode[CalendarPage](t, rr)
	if page.Title != "March 2024" {
		t.Errorf("title = %q", page.Title)
	}
	if page.Grid.StartOffset != 4 || len(page.Grid.Cells) != 35 {
		t.Errorf("grid offset/cells = %d/%d", page.Grid.StartOffset, len(page.Grid.Cells))
	}
	if len(page.DayEvents) != 1 || page.DayEvents[0].Title != "Dentist" {
		t.Errorf("day events = %+v", page.DayEvents)
	}
	if !page.Grid.Cells[page.Grid.StartOffset+19].HasEvents {
		t.Error("Mar 20 not marked")
	}
}

func TestCalendar_BadDate(t *testing.T) {
	h, _ := setupHandler(t, "")
	rr := doReq(t, h, http.MethodGet, "/calendar?date=March", "")
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestCalendar_RejectedAdd(t *testing.T) {
	h, app := setupHandler(t, "")
	rr := doReq(t, h, http.MethodPost, "/calendar/events", `{"title":"   "}`)
	expectStatus(t, rr, http.StatusUnprocessableEntity)
	if len(app.Collections.Events.All()) != 0 {
		t.Error("event stored after rejected add")
	}
}

func TestCalendar_InvalidJSON(t *testing.T) {
	h, _ := setupHandler(t, "")
	rr := doReq(t, h, http.MethodPost, "/calendar/events", `{not json`)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestCalendar_Delete(t *testing.T) {
	h, app := setupHandler(t, "")
	ev, _ := app.Calendar.AddEvent(views.EventForm{Title: "x"})

	expectStatus(t, doReq(t, h, http.MethodDelete, "/calendar/events/"+ev.ID, ""), http.StatusOK)
	expectStatus(t, doReq(t, h, http.MethodDelete, "/calendar/events/"+ev.ID, ""), http.StatusNotFound)
}

func TestJobs_Lifecycle(t *testing.T) {
	h, _ := setupHandler(t, "")

	rr := doReq(t, h, http.MethodPost, "/jobs", `{"title":"Lifeguard","company":"City Pool","due":"2024-04-01"}`)
	expectStatus(t, rr, http.StatusOK)
	job := decode[planner.Job](t, rr)
	if job.Status != planner.StatusPending {
		t.Errorf("status = %q, want pending", job.Status)
	}

	rr = doReq(t, h, http.MethodPatch, "/jobs/"+job.ID, `{"status":"Late"}`)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[planner.Job](t, rr); got.Status != planner.StatusLate {
		t.Errorf("status after patch = %q", got.Status)
	}

	rr = doReq(t, h, http.MethodGet, "/jobs", "")
	expectStatus(t, rr, http.StatusOK)
	page := decode[JobsPage](t, rr)
	if len(page.Jobs) != 1 || page.Counts[planner.StatusLate] != 1 {
		t.Errorf("page = %+v", page)
	}

	expectStatus(t, doReq(t, h, http.MethodDelete, "/jobs/"+job.ID, ""), http.StatusOK)
	expectStatus(t, doReq(t, h, http.MethodDelete, "/jobs/"+job.ID, ""), http.StatusNotFound)
}

func TestJobs_AddWithStatus(t *testing.T) {
	h, _ := setupHandler(t, "")
	rr := doReq(t, h, http.MethodPost, "/jobs", `{"title":"x","status":"completed"}`)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[planner.Job](t, rr); got.Status != planner.StatusCompleted {
		t.Errorf("status = %q", got.Status)
	}
}

func TestJobs_Rejections(t *testing.T) {
	h, app := setupHandler(t, "")
	job, _ := app.Jobs.Add(views.JobForm{Title: "x"})

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{"blank title", http.MethodPost, "/jobs", `{"title":""}`, http.StatusUnprocessableEntity},
		{"bad add status", http.MethodPost, "/jobs", `{"title":"y","status":"hired"}`, http.StatusUnprocessableEntity},
		{"bad patch status", http.MethodPatch, "/jobs/" + job.ID, `{"status":"hired"}`, http.StatusUnprocessableEntity},
		{"unknown id", http.MethodPatch, "/jobs/nope", `{"status":"late"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, doReq(t, h, tt.method, tt.url, tt.body), tt.want)
		})
	}
	if got, _ := app.Collections.Jobs.Get(job.ID); got.Status != planner.StatusPending {
		t.Errorf("status changed to %q", got.Status)
	}
	if len(app.Jobs.List()) != 1 {
		t.Errorf("jobs = %d, want 1", len(app.Jobs.List()))
	}
}

func TestSchoolwork_Todos(t *testing.T) {
	h, _ := setupHandler(t, "")

	rr := doReq(t, h, http.MethodPost, "/schoolwork/todos", `{"text":"Read ch. 4","due":"2024-03-18"}`)
	expectStatus(t, rr, http.StatusOK)
	todo := decode[planner.Todo](t, rr)

	rr = doReq(t, h, http.MethodPost, "/schoolwork/todos/"+todo.ID+"/toggle", "")
	expectStatus(t, rr, http.StatusOK)
	if !decode[planner.Todo](t, rr).Done {
		t.Error("todo not done after toggle")
	}

	expectStatus(t, doReq(t, h, http.MethodPost, "/schoolwork/todos/nope/toggle", ""), http.StatusNotFound)
	expectStatus(t, doReq(t, h, http.MethodPost, "/schoolwork/todos", `{"text":" "}`), http.StatusUnprocessableEntity)
	expectStatus(t, doReq(t, h, http.MethodDelete, "/schoolwork/todos/"+todo.ID, ""), http.StatusOK)
}

func TestSchoolwork_Plan(t *testing.T) {
	h, _ := setupHandler(t, "")

	rr := doReq(t, h, http.MethodPost, "/schoolwork/plan", `{"day":"thursday","subject":"Biology","time":"5pm"}`)
	expectStatus(t, rr, http.StatusOK)
	item := decode[planner.PlanItem](t, rr)
	if item.Day != planner.Thu {
		t.Errorf("day = %q, want Thu", item.Day)
	}

	rr = doReq(t, h, http.MethodGet, "/schoolwork", "")
	expectStatus(t, rr, http.StatusOK)
	page := decode[SchoolworkPage](t, rr)
	if len(page.Week) != 7 || page.Week[0].Day != planner.Mon || page.Week[6].Day != planner.Sun {
		t.Fatalf("week = %+v", page.Week)
	}
	if len(page.Week[3].Items) != 1 || page.Week[3].Items[0].Subject != "Biology" {
		t.Errorf("Thu = %+v", page.Week[3])
	}
	if page.PlanForm.Day != planner.Thu {
		t.Errorf("plan form day = %q, want Thu", page.PlanForm.Day)
	}

	expectStatus(t, doReq(t, h, http.MethodPost, "/schoolwork/plan", `{"day":"Caturday","subject":"x"}`), http.StatusUnprocessableEntity)
	expectStatus(t, doReq(t, h, http.MethodPost, "/schoolwork/plan", `{"day":"Mon","subject":""}`), http.StatusUnprocessableEntity)
	expectStatus(t, doReq(t, h, http.MethodDelete, "/schoolwork/plan/Mon/"+item.ID, ""), http.StatusNotFound)
	expectStatus(t, doReq(t, h, http.MethodDelete, "/schoolwork/plan/Thu/"+item.ID, ""), http.StatusOK)
}

func TestStatePersistsThroughSQLite(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	h := NewHandler(newTestApp(t, store), "")
	expectStatus(t, doReq(t, h, http.MethodPost, "/schoolwork/todos", `{"text":"Flashcards"}`), http.StatusOK)
	store.Close()

	store, err = storage.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	rr := doReq(t, NewHandler(newTestApp(t, store), ""), http.MethodGet, "/schoolwork", "")
	expectStatus(t, rr, http.StatusOK)
	if page := decode[SchoolworkPage](t, rr); len(page.Todos) != 1 || page.Todos[0].Text != "Flashcards" {
		t.Errorf("todos after reopen = %+v", page.Todos)
	}
}
