package planner

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/kalambet/ptm/internal/persist"
)

func seqIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func openTest(t *testing.T) (*Collections, *persist.Memory) {
	t.Helper()
	b := persist.NewMemory()
	return Open(b, WithIDFunc(seqIDs())), b
}

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

// --- Events ---

func TestEvents_AddAppendsInOrder(t *testing.T) {
	c, _ := openTest(t)
	d := mustDate(t, "2024-03-15")

	c.Events.Add("first", "", d)
	c.Events.Add("  second  ", "n", d)

	all := c.Events.All()
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].Title != "first" || all[1].Title != "second" {
		t.Errorf("order = [%q %q], want [first second]", all[0].Title, all[1].Title)
	}
	if all[1].Notes != "n" {
		t.Errorf("notes = %q", all[1].Notes)
	}
}

func TestEvents_BlankTitleIsNoop(t *testing.T) {
	c, b := openTest(t)

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, ok := c.Events.Add(title, "notes", Date{}); ok {
			t.Errorf("Add(%q) accepted", title)
		}
	}
	if len(c.Events.All()) != 0 {
		t.Error("collection changed after blank adds")
	}
	if _, ok, _ := b.Load(EventsKey); ok {
		t.Error("blank add wrote to storage")
	}
}

func TestEvents_AddDeleteRoundTrip(t *testing.T) {
	c, _ := openTest(t)
	d := mustDate(t, "2024-01-02")
	c.Events.Add("keep", "", d)
	before := c.Events.All()

	ev, ok := c.Events.Add("temp", "", d)
	if !ok {
		t.Fatal("Add rejected")
	}
	if !c.Events.Delete(ev.ID) {
		t.Fatal("Delete reported not found")
	}

	if got := c.Events.All(); !reflect.DeepEqual(got, before) {
		t.Errorf("after round trip = %+v, want %+v", got, before)
	}
}

func TestEvents_DeleteUnknownIsNoop(t *testing.T) {
	c, _ := openTest(t)
	c.Events.Add("a", "", Date{})

	if c.Events.Delete("nope") {
		t.Error("Delete(unknown) = true")
	}
	if len(c.Events.All()) != 1 {
		t.Error("collection changed")
	}
}

func TestEvents_OnDate(t *testing.T) {
	c, _ := openTest(t)
	c.Events.Add("a", "", mustDate(t, "2024-03-15"))
	c.Events.Add("b", "", mustDate(t, "2024-03-16"))
	c.Events.Add("c", "", mustDate(t, "2024-03-15"))

	got := c.Events.OnDate(mustDate(t, "2024-03-15"))
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Errorf("OnDate = %+v", got)
	}
}

// --- Jobs ---

func TestJobs_AddIsPendingAndFirst(t *testing.T) {
	c, _ := openTest(t)

	c.Jobs.Add("older", "Acme", Date{})
	job, ok := c.Jobs.Add(" newer ", "  Initech ", mustDate(t, "2024-05-01"))
	if !ok {
		t.Fatal("Add rejected")
	}
	if job.Status != StatusPending {
		t.Errorf("Status = %q, want pending", job.Status)
	}
	if job.Company != "Initech" || job.Title != "newer" {
		t.Errorf("fields not trimmed: %+v", job)
	}

	all := c.Jobs.All()
	if all[0].ID != job.ID {
		t.Errorf("newest job not first: %+v", all)
	}
}

func TestJobs_SetStatus(t *testing.T) {
	c, _ := openTest(t)
	job, _ := c.Jobs.Add("app", "", Date{})

	tests := []struct {
		name   string
		id     string
		status Status
		want   bool
		final  Status
	}{
		{"completed", job.ID, StatusCompleted, true, StatusCompleted},
		{"late", job.ID, StatusLate, true, StatusLate},
		{"invalid status", job.ID, Status("archived"), false, StatusLate},
		{"unknown id", "missing", StatusPending, false, StatusLate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Jobs.SetStatus(tt.id, tt.status); got != tt.want {
				t.Errorf("SetStatus = %v, want %v", got, tt.want)
			}
			got, _ := c.Jobs.Get(job.ID)
			if got.Status != tt.final {
				t.Errorf("Status = %q, want %q", got.Status, tt.final)
			}
		})
	}
}

func TestJobs_CountByStatus(t *testing.T) {
	c, _ := openTest(t)
	a, _ := c.Jobs.Add("a", "", Date{})
	c.Jobs.Add("b", "", Date{})
	c.Jobs.SetStatus(a.ID, StatusLate)

	counts := c.Jobs.CountByStatus()
	if counts[StatusPending] != 1 || counts[StatusLate] != 1 || counts[StatusCompleted] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestJobs_RoundTrip(t *testing.T) {
	c, _ := openTest(t)
	c.Jobs.Add("x", "", Date{})
	before := c.Jobs.All()

	job, _ := c.Jobs.Add("y", "", Date{})
	c.Jobs.Delete(job.ID)

	if got := c.Jobs.All(); !reflect.DeepEqual(got, before) {
		t.Errorf("after round trip = %+v, want %+v", got, before)
	}
}

// --- Todos ---

func TestTodos_DoubleToggle(t *testing.T) {
	c, _ := openTest(t)
	todo, _ := c.Todos.Add("APUSH Chapter 3 notes", Date{})
	if todo.Done {
		t.Fatal("new todo is done")
	}

	c.Todos.Toggle(todo.ID)
	if !c.Todos.All()[0].Done {
		t.Error("single toggle did not mark done")
	}
	c.Todos.Toggle(todo.ID)
	if c.Todos.All()[0].Done {
		t.Error("double toggle did not restore")
	}
}

func TestTodos_NewestFirstAndOpen(t *testing.T) {
	c, _ := openTest(t)
	a, _ := c.Todos.Add("a", Date{})
	b, _ := c.Todos.Add("b", Date{})
	c.Todos.Toggle(a.ID)

	all := c.Todos.All()
	if all[0].ID != b.ID {
		t.Errorf("first = %q, want %q", all[0].ID, b.ID)
	}
	open := c.Todos.Open()
	if len(open) != 1 || open[0].ID != b.ID {
		t.Errorf("Open = %+v", open)
	}
	if c.Todos.Toggle("missing") {
		t.Error("Toggle(unknown) = true")
	}
}

func TestTodos_BlankIsNoop(t *testing.T) {
	c, _ := openTest(t)
	if _, ok := c.Todos.Add("  ", Date{}); ok {
		t.Error("blank todo accepted")
	}
}

// --- Week plan ---

func TestWeekPlan_DefaultHasSevenDays(t *testing.T) {
	c, _ := openTest(t)
	w := c.Plan.Week()
	if len(w) != 7 {
		t.Fatalf("len = %d, want 7", len(w))
	}
	for _, d := range Weekdays {
		items, ok := w[d]
		if !ok || items == nil || len(items) != 0 {
			t.Errorf("day %s = %#v, want present and empty", d, items)
		}
	}
}

func TestWeekPlan_AddIntoBucket(t *testing.T) {
	c, _ := openTest(t)

	c.Plan.Add(PlanInput{Day: Wed, Subject: "Math", Time: "4-5pm"})
	c.Plan.Add(PlanInput{Day: Wed, Subject: "Bio"})
	if _, ok := c.Plan.Add(PlanInput{Day: Wed, Subject: " "}); ok {
		t.Error("blank subject accepted")
	}
	if _, ok := c.Plan.Add(PlanInput{Day: "Funday", Subject: "x"}); ok {
		t.Error("invalid day accepted")
	}

	wed := c.Plan.Day(Wed)
	if len(wed) != 2 || wed[0].Subject != "Math" || wed[1].Subject != "Bio" {
		t.Errorf("Wed = %+v", wed)
	}
	if wed[0].Time != "4-5pm" || wed[0].Day != Wed {
		t.Errorf("item fields = %+v", wed[0])
	}
	if len(c.Plan.Day(Mon)) != 0 {
		t.Error("Mon not empty")
	}
}

func TestWeekPlan_DeleteNeedsMatchingDay(t *testing.T) {
	c, _ := openTest(t)
	item, _ := c.Plan.Add(PlanInput{Day: Fri, Subject: "Chem"})

	if c.Plan.Delete(Thu, item.ID) {
		t.Error("Delete with wrong day succeeded")
	}
	if !c.Plan.Delete(Fri, item.ID) {
		t.Error("Delete with right day failed")
	}
	if !reflect.DeepEqual(c.Plan.Week(), EmptyWeekPlan()) {
		t.Errorf("plan after round trip = %+v", c.Plan.Week())
	}
}

func TestWeekPlan_NormalizesPartialStoredPlan(t *testing.T) {
	b := persist.NewMemory()
	b.Save(WeekPlanKey, `{"Mon":[{"id":"m1","day":"Mon","subject":"Art"}],"Bogus":[]}`)

	c := Open(b)
	w := c.Plan.Week()
	if len(w) != 7 {
		t.Fatalf("len = %d, want 7", len(w))
	}
	if _, ok := w["Bogus"]; ok {
		t.Error("unknown day kept")
	}
	if len(w[Mon]) != 1 || w[Mon][0].Subject != "Art" {
		t.Errorf("Mon = %+v", w[Mon])
	}
}

// --- Persistence ---

func TestCollectionsSurviveReopen(t *testing.T) {
	c, b := openTest(t)
	c.Events.Add("e", "", mustDate(t, "2024-03-15"))
	job, _ := c.Jobs.Add("j", "", Date{})
	c.Jobs.SetStatus(job.ID, StatusCompleted)
	c.Todos.Add("t", mustDate(t, "2024-04-01"))
	c.Plan.Add(PlanInput{Day: Sun, Subject: "s"})

	again := Open(b)
	if len(again.Events.All()) != 1 || again.Events.All()[0].Date != mustDate(t, "2024-03-15") {
		t.Errorf("events = %+v", again.Events.All())
	}
	if j, _ := again.Jobs.Get(job.ID); j.Status != StatusCompleted {
		t.Errorf("job status = %q", j.Status)
	}
	if again.Todos.All()[0].Due.String() != "2024-04-01" {
		t.Errorf("todo due = %q", again.Todos.All()[0].Due)
	}
	if len(again.Plan.Day(Sun)) != 1 {
		t.Error("plan item lost")
	}
}

func TestStoredLayoutUsesPlainDates(t *testing.T) {
	c, b := openTest(t)
	c.Todos.Add("no due", Date{})
	c.Events.Add("e", "", mustDate(t, "2024-02-29"))

	raw, _, _ := b.Load(TodosKey)
	var todos []map[string]any
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		t.Fatalf("stored todos not JSON: %v", err)
	}
	if todos[0]["due"] != "" {
		t.Errorf("due = %#v, want empty string", todos[0]["due"])
	}

	raw, _, _ = b.Load(EventsKey)
	var events []map[string]any
	json.Unmarshal([]byte(raw), &events)
	if events[0]["date"] != "2024-02-29" {
		t.Errorf("date = %#v", events[0]["date"])
	}
}

func TestIDsAreUnique(t *testing.T) {
	b := persist.NewMemory()
	dup := 0
	ids := []string{"same", "same", "other"}
	c := Open(b, WithIDFunc(func() string {
		id := ids[dup%len(ids)]
		dup++
		return id
	}))

	a, _ := c.Todos.Add("a", Date{})
	bb, _ := c.Todos.Add("b", Date{})
	if a.ID == bb.ID {
		t.Errorf("duplicate id %q", a.ID)
	}
}

func TestDefaultIDsAreUUIDs(t *testing.T) {
	c := Open(persist.NewMemory())
	ev, _ := c.Events.Add("x", "", Date{})
	if len(ev.ID) != 36 {
		t.Errorf("id = %q, want uuid", ev.ID)
	}
}

// --- Parsing ---

func TestParseWeekday(t *testing.T) {
	tests := map[string]Weekday{"Mon": Mon, "tue": Tue, "WEDNESDAY": Wed, " sun ": Sun}
	for in, want := range tests {
		got, err := ParseWeekday(in)
		if err != nil || got != want {
			t.Errorf("ParseWeekday(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := ParseWeekday("Mo"); err == nil {
		t.Error("ParseWeekday(Mo) succeeded")
	}
}

func TestWeekdayOf(t *testing.T) {
	if WeekdayOf(time.Sunday) != Sun || WeekdayOf(time.Monday) != Mon || WeekdayOf(time.Saturday) != Sat {
		t.Error("WeekdayOf mapping wrong")
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" Completed "); err != nil || s != StatusCompleted {
		t.Errorf("ParseStatus = (%q, %v)", s, err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("ParseStatus(done) succeeded")
	}
}

func TestDateParsing(t *testing.T) {
	d := mustDate(t, "2024-03-15")
	if d.Year != 2024 || d.Month != time.March || d.Day != 15 {
		t.Errorf("parsed = %+v", d)
	}
	if d.Weekday() != time.Friday {
		t.Errorf("Weekday = %v, want Friday", d.Weekday())
	}
	if z, err := ParseDate(""); err != nil || !z.IsZero() {
		t.Errorf("ParseDate(\"\") = (%+v, %v)", z, err)
	}
	if _, err := ParseDate("2024-02-30"); err == nil {
		t.Error("ParseDate accepted Feb 30")
	}
	if NewDate(2024, time.March, 0) != mustDate(t, "2024-02-29") {
		t.Error("NewDate day 0 did not roll back")
	}
}
