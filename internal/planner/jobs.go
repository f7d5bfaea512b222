package planner

import (
	"strings"

	"github.com/kalambet/ptm/internal/persist"
)

// Jobs is the job-application collection, most recent first.
type Jobs struct {
	slot  *persist.Slot[[]Job]
	newID IDFunc
}

// NewJobs loads the jobs slot from b.
func NewJobs(b persist.Backend, newID IDFunc) *Jobs {
	return &Jobs{
		slot:  persist.Open(b, JobsKey, []Job{}),
		newID: newID,
	}
}

// Add puts a new pending job at the front. It is a no-op when title is blank.
func (j *Jobs) Add(title, company string, due Date) (Job, bool) {
	if blank(title) {
		return Job{}, false
	}
	var job Job
	j.slot.Update(func(items []Job) ([]Job, bool) {
		job = Job{
			ID: freshID(j.newID, func(id string) bool {
				return indexOf(items, func(x Job) bool { return x.ID == id }) >= 0
			}),
			Title:   strings.TrimSpace(title),
			Company: strings.TrimSpace(company),
			Due:     due,
			Status:  StatusPending,
		}
		return append([]Job{job}, items...), true
	})
	return job, true
}

// Delete removes the job with id, reporting whether one was found.
func (j *Jobs) Delete(id string) bool {
	return j.slot.Update(func(items []Job) ([]Job, bool) {
		i := indexOf(items, func(x Job) bool { return x.ID == id })
		if i < 0 {
			return items, false
		}
		return without(items, i), true
	})
}

// SetStatus changes the status of job id. Unknown ids and invalid
// statuses are no-ops.
func (j *Jobs) SetStatus(id string, s Status) bool {
	if !s.Valid() {
		return false
	}
	return j.slot.Update(func(items []Job) ([]Job, bool) {
		i := indexOf(items, func(x Job) bool { return x.ID == id })
		if i < 0 {
			return items, false
		}
		job := items[i]
		job.Status = s
		return replaced(items, i, job), true
	})
}

// All returns the jobs, most recent first.
func (j *Jobs) All() []Job {
	return cloned(j.slot.Get())
}

// Get looks up a job by id.
func (j *Jobs) Get(id string) (Job, bool) {
	items := j.slot.Get()
	if i := indexOf(items, func(x Job) bool { return x.ID == id }); i >= 0 {
		return items[i], true
	}
	return Job{}, false
}

// CountByStatus tallies jobs per status. Every valid status is present.
func (j *Jobs) CountByStatus() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, job := range j.slot.Get() {
		counts[job.Status]++
	}
	return counts
}

// Replace swaps the whole collection and persists it.
func (j *Jobs) Replace(items []Job) {
	j.slot.Set(cloned(items))
}
