package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

const claimInterval = 250 * time.Millisecond

// Runner executes one planning run from a claimed request.
type Runner func(ctx context.Context, req Request) (plan.Result, error)

// Worker drains the queue. Claim's queued->processing transition guarantees
// a job is processed by at most one worker even with several Workers on the
// same store.
type Worker struct {
	store    API
	run      Runner
	notifier *Notifier
}

func NewWorker(store API, run Runner, notifier *Notifier) *Worker {
	return &Worker{store: store, run: run, notifier: notifier}
}

// Run processes jobs until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(claimInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		for {
			job, ok := w.store.Claim()
			if !ok {
				break
			}
			w.process(ctx, job)
		}
	}
}

// process finishes the job one way or the other. A fault is fatal to this
// job only.
func (w *Worker) process(ctx context.Context, job *Job) {
	log.Printf("job %s processing (week %s)", job.ID, job.Request.Week.Label())
	res, err := w.runSafely(ctx, job.Request)
	if err != nil {
		if ferr := w.store.Fail(job.ID, err.Error()); ferr != nil {
			log.Printf("job %s: record failure: %v", job.ID, ferr)
		}
		log.Printf("job %s error: %v", job.ID, err)
		w.notify(ctx, job, StatusError, nil)
		return
	}
	if cerr := w.store.Complete(job.ID, res); cerr != nil {
		log.Printf("job %s: record completion: %v", job.ID, cerr)
		return
	}
	log.Printf("job %s done: %d rows, %d fallbacks", job.ID, len(res.Rows), res.Metadata.Fallbacks)
	w.notify(ctx, job, StatusDone, &res)
}

func (w *Worker) runSafely(ctx context.Context, req Request) (res plan.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("planning run panicked: %v", r)
		}
	}()
	return w.run(ctx, req)
}

func (w *Worker) notify(ctx context.Context, job *Job, status Status, res *plan.Result) {
	if w.notifier == nil || job.Request.CallbackURL == "" {
		return
	}
	payload := WebhookPayload{JobID: job.ID, Status: status, Result: res}
	if err := w.notifier.Notify(ctx, job.Request.CallbackURL, payload); err != nil {
		log.Printf("job %s: webhook to %s failed: %v", job.ID, job.Request.CallbackURL, err)
	}
}
