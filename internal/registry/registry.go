package registry

import (
	"log"
	"sync"

	"songs-downloader/internal/model"
)

// Persister is the durable side of the registry. *store.Store satisfies it;
// tests inject fakes.
type Persister interface {
	LoadJobs() map[string]model.Job
	SaveJobs(jobs map[string]model.Job) error
}

// Registry is the single source of truth for the set of known jobs. Every
// mutation writes the full collection back through the persister; a failed
// write is logged and the in-memory collection stays authoritative.
type Registry struct {
	mu       sync.Mutex
	jobs     map[string]model.Job
	store    Persister
	onChange func()
}

func New(store Persister) *Registry {
	return &Registry{
		jobs:  store.LoadJobs(),
		store: store,
	}
}

// SetChangeListener registers a callback invoked after every mutation, for
// UI refresh. Called outside the registry lock.
func (r *Registry) SetChangeListener(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Add inserts a job under id. Callers are expected to generate fresh ids; a
// colliding id silently overwrites the existing entry.
func (r *Registry) Add(id string, job model.Job) {
	r.mu.Lock()
	job.ID = id
	r.jobs[id] = job
	r.persistLocked()
	r.mu.Unlock()
	r.notify()
}

// Update merges the partial update into the entry at id. A missing id is a
// strict no-op: no persistence write, so a late update for a removed job
// cannot resurrect it.
func (r *Registry) Update(id string, upd model.Update) bool {
	r.mu.Lock()
	job, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	upd.Apply(&job)
	r.jobs[id] = job
	r.persistLocked()
	r.mu.Unlock()
	r.notify()
	return true
}

// Remove deletes the entry at id. Absent ids are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	if _, ok := r.jobs[id]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.jobs, id)
	r.persistLocked()
	r.mu.Unlock()
	r.notify()
}

// ClearFinished removes exactly the entries whose status is complete or
// error. Cancelled entries stay until removed explicitly.
func (r *Registry) ClearFinished() {
	r.mu.Lock()
	for id, job := range r.jobs {
		if job.Status == model.StatusComplete || job.Status == model.StatusError {
			delete(r.jobs, id)
		}
	}
	r.persistLocked()
	r.mu.Unlock()
	r.notify()
}

// RemoveAll empties the collection.
func (r *Registry) RemoveAll() {
	r.mu.Lock()
	r.jobs = map[string]model.Job{}
	r.persistLocked()
	r.mu.Unlock()
	r.notify()
}

// StopAll flips every queued or downloading entry to cancelled. This is a
// local display change only; it does not reach the backend.
func (r *Registry) StopAll() {
	r.mu.Lock()
	for id, job := range r.jobs {
		if model.IsActive(job.Status) {
			job.Status = model.StatusCancelled
			r.jobs[id] = job
		}
	}
	r.persistLocked()
	r.mu.Unlock()
	r.notify()
}

// Cancel flips a single entry to cancelled. Entries already in a terminal
// state are left alone; the transition table has no path out of them.
func (r *Registry) Cancel(id string) {
	r.mu.Lock()
	job, ok := r.jobs[id]
	if !ok || !model.CanTransition(job.Status, model.StatusCancelled) {
		r.mu.Unlock()
		return
	}
	job.Status = model.StatusCancelled
	r.jobs[id] = job
	r.persistLocked()
	r.mu.Unlock()
	r.notify()
}

// Get returns a copy of the entry at id.
func (r *Registry) Get(id string) (model.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	return job, ok
}

// Snapshot returns a copy of the collection for rendering.
func (r *Registry) Snapshot() map[string]model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]model.Job, len(r.jobs))
	for id, job := range r.jobs {
		out[id] = job
	}
	return out
}

// ActiveCount returns the number of queued or downloading jobs.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, job := range r.jobs {
		if model.IsActive(job.Status) {
			n++
		}
	}
	return n
}

// Counters is the per-status rollup used by the status command and the
// panel header.
type Counters struct {
	Total       int `json:"total"`
	Queued      int `json:"queued"`
	Downloading int `json:"downloading"`
	Complete    int `json:"complete"`
	Errored     int `json:"error"`
	Cancelled   int `json:"cancelled"`
}

func (r *Registry) Rollup() Counters {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := Counters{Total: len(r.jobs)}
	for _, job := range r.jobs {
		switch job.Status {
		case model.StatusQueued:
			c.Queued++
		case model.StatusDownloading:
			c.Downloading++
		case model.StatusComplete:
			c.Complete++
		case model.StatusError:
			c.Errored++
		case model.StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

func (r *Registry) persistLocked() {
	if err := r.store.SaveJobs(r.jobs); err != nil {
		log.Printf("persist downloads: %v", err)
	}
}

func (r *Registry) notify() {
	r.mu.Lock()
	fn := r.onChange
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}
