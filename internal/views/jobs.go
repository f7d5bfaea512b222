package views

import (
	"sync"

	"github.com/kalambet/ptm/internal/planner"
)

// JobForm is the add-job form. Status defaults to pending.
type JobForm struct {
	Title   string         `json:"title"`
	Company string         `json:"company"`
	Due     planner.Date   `json:"due"`
	Status  planner.Status `json:"status"`
}

type Jobs struct {
	jobs *planner.Jobs

	mu   sync.Mutex
	form JobForm
}

// NewJobs creates a Jobs view with an empty pending form.
func NewJobs(jobs *planner.Jobs) *Jobs {
	return &Jobs{jobs: jobs, form: JobForm{Status: planner.StatusPending}}
}

func (j *Jobs) Form() JobForm {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.form
}

// Add creates a pending job and then applies the form's status when it
// is another valid one. The form resets on success.
func (j *Jobs) Add(f JobForm) (planner.Job, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.form = f
	job, ok := j.jobs.Add(f.Title, f.Company, f.Due)
	if !ok {
		return planner.Job{}, false
	}
	if f.Status.Valid() && f.Status != job.Status && j.jobs.SetStatus(job.ID, f.Status) {
		job.Status = f.Status
	}
	j.form = JobForm{Status: planner.StatusPending}
	return job, true
}

func (j *Jobs) Delete(id string) bool {
	return j.jobs.Delete(id)
}

func (j *Jobs) SetStatus(id string, s planner.Status) bool {
	return j.jobs.SetStatus(id, s)
}

// List returns all jobs, most recently added first.
func (j *Jobs) List() []planner.Job {
	return j.jobs.All()
}
