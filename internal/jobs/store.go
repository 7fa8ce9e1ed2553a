package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

// Store is the in-memory jobs store. SQLiteStore embeds one and persists
// write-through; everything below is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	jobs    map[string]*Job
	results map[string]*plan.Result
	queue   []string // FIFO of queued job ids
}

func NewStore() *Store {
	return &Store{
		jobs:    map[string]*Job{},
		results: map[string]*plan.Result{},
	}
}

func (s *Store) Enqueue(req Request) (*Job, error) {
	if req.Week.Start.IsZero() || req.Week.End.IsZero() {
		return nil, NewValidationError("week bounds are required")
	}
	if req.Week.End.Before(req.Week.Start) {
		return nil, NewValidationError("week end precedes week start")
	}

	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.queue = append(s.queue, job.ID)
	s.mu.Unlock()

	cp := *job
	return &cp, nil
}

func (s *Store) Get(id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, NewNotFoundError(id)
	}
	cp := *job
	return &cp, nil
}

// Result returns the stored run output. Callers should Get first; a result
// only exists once the job is done.
func (s *Store) Result(id string) (*plan.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return nil, NewNotFoundError(id)
	}
	res, ok := s.results[id]
	if !ok {
		return nil, NewConflictError("job " + id + " is not done")
	}
	cp := *res
	return &cp, nil
}

func (s *Store) Claim() (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]
		job, ok := s.jobs[id]
		if !ok || job.Status != StatusQueued {
			continue
		}
		job.Status = StatusProcessing
		job.StartedAt = time.Now().UTC()
		cp := *job
		return &cp, true
	}
	return nil, false
}

func (s *Store) Complete(id string, res plan.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return NewNotFoundError(id)
	}
	if job.Status != StatusProcessing {
		return NewConflictError("job " + id + " is not processing")
	}
	// Result lands before the status flips so a done job always has one.
	s.results[id] = &res
	job.Status = StatusDone
	job.CompletedAt = time.Now().UTC()
	return nil
}

func (s *Store) Fail(id string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return NewNotFoundError(id)
	}
	if job.Status.Terminal() {
		return NewConflictError("job " + id + " already finished")
	}
	job.Status = StatusError
	job.ErrMessage = message
	job.CompletedAt = time.Now().UTC()
	return nil
}

func (s *Store) Close() error { return nil }

var _ API = (*Store)(nil)
