// Package jobs persists asynchronous planning runs. A job's lifecycle is
// queued -> processing -> done | error; transitions are monotonic and the
// result row is written before the status flips to done, so a visible
// result always belongs to a finished job.
package jobs

import (
	"time"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool { return s == StatusDone || s == StatusError }

// Request is the serializable input of one queued planning run. Tables may
// be supplied inline; when nil the worker snapshots the configured
// reference-data source at processing time.
type Request struct {
	Week          plan.Week            `json:"week"`
	Demand        []plan.GrossOverride `json:"demand,omitempty"`
	Tables        *plan.Tables         `json:"tables,omitempty"`
	ToleranceDays *int                 `json:"tolerance_days,omitempty"`
	CallbackURL   string               `json:"callback_url,omitempty"`
}

// Job is the bookkeeping row. The run result is stored separately and only
// joined in once the job is done.
type Job struct {
	ID          string    `json:"job_id"`
	Status      Status    `json:"status"`
	Request     Request   `json:"request"`
	ErrMessage  string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// API is the store contract shared by the in-memory and SQLite-backed
// implementations.
type API interface {
	Enqueue(req Request) (*Job, error)
	Get(id string) (*Job, error)
	Result(id string) (*plan.Result, error)

	// Claim atomically moves the oldest queued job to processing. The
	// second return is false when nothing is queued.
	Claim() (*Job, bool)
	Complete(id string, res plan.Result) error
	Fail(id string, message string) error

	Close() error
}
