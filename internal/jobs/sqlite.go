package jobs

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

// SQLiteStore implements API with SQLite-backed persistence. Runtime logic
// lives in an embedded in-memory Store; jobs and results are written
// through so queued and finished runs survive a restart.
type SQLiteStore struct {
	inner *Store
	db    *sqlx.DB
	mu    sync.Mutex
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	job_id       TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'queued',
	request      TEXT NOT NULL DEFAULT '{}',
	error        TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	started_at   TEXT NOT NULL DEFAULT '',
	completed_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS results (
	job_id  TEXT PRIMARY KEY,
	payload TEXT NOT NULL
);
`

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLiteStore{inner: NewStore(), db: db}
	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) loadAll() error {
	rows, err := s.db.Query("SELECT job_id, status, request, error, created_at, started_at, completed_at FROM jobs ORDER BY created_at")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var j Job
		var requestJSON, createdAt, startedAt, completedAt string
		if err := rows.Scan(&j.ID, &j.Status, &requestJSON, &j.ErrMessage, &createdAt, &startedAt, &completedAt); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(requestJSON), &j.Request); err != nil {
			return fmt.Errorf("decode request for job %s: %w", j.ID, err)
		}
		j.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		if startedAt != "" {
			j.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		}
		if completedAt != "" {
			j.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt)
		}
		// A job interrupted mid-run is requeued; no worker owns it now.
		if j.Status == StatusProcessing {
			j.Status = StatusQueued
			j.StartedAt = time.Time{}
		}
		job := j
		s.inner.jobs[job.ID] = &job
		if job.Status == StatusQueued {
			s.inner.queue = append(s.inner.queue, job.ID)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	resRows, err := s.db.Query("SELECT job_id, payload FROM results")
	if err != nil {
		return err
	}
	defer resRows.Close()
	for resRows.Next() {
		var id, payload string
		if err := resRows.Scan(&id, &payload); err != nil {
			return err
		}
		var res plan.Result
		if err := json.Unmarshal([]byte(payload), &res); err != nil {
			return fmt.Errorf("decode result for job %s: %w", id, err)
		}
		s.inner.results[id] = &res
	}
	return resRows.Err()
}

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *SQLiteStore) saveJob(j *Job) error {
	requestJSON, err := json.Marshal(j.Request)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO jobs (job_id, status, request, error, created_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.ID,
		string(j.Status),
		string(requestJSON),
		j.ErrMessage,
		timeToString(j.CreatedAt),
		timeToString(j.StartedAt),
		timeToString(j.CompletedAt),
	)
	return err
}

func (s *SQLiteStore) saveResult(id string, res *plan.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO results (job_id, payload) VALUES (?, ?)`, id, string(payload))
	return err
}

func (s *SQLiteStore) persistJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inner.mu.Lock()
	j, ok := s.inner.jobs[id]
	if !ok {
		s.inner.mu.Unlock()
		return nil
	}
	cp := *j
	res := s.inner.results[id]
	s.inner.mu.Unlock()

	if res != nil {
		if err := s.saveResult(id, res); err != nil {
			return err
		}
	}
	return s.saveJob(&cp)
}

// --- API implementation ---

func (s *SQLiteStore) Enqueue(req Request) (*Job, error) {
	job, err := s.inner.Enqueue(req)
	if err != nil {
		return nil, err
	}
	if perr := s.persistJob(job.ID); perr != nil {
		return nil, perr
	}
	return job, nil
}

func (s *SQLiteStore) Get(id string) (*Job, error) { return s.inner.Get(id) }

func (s *SQLiteStore) Result(id string) (*plan.Result, error) { return s.inner.Result(id) }

func (s *SQLiteStore) Claim() (*Job, bool) {
	job, ok := s.inner.Claim()
	if !ok {
		return nil, false
	}
	if err := s.persistJob(job.ID); err != nil {
		// Keep running on the in-memory state; the claim is already made.
		log.Printf("job %s: persist claim: %v", job.ID, err)
	}
	return job, true
}

func (s *SQLiteStore) Complete(id string, res plan.Result) error {
	if err := s.inner.Complete(id, res); err != nil {
		return err
	}
	return s.persistJob(id)
}

func (s *SQLiteStore) Fail(id string, message string) error {
	if err := s.inner.Fail(id, message); err != nil {
		return err
	}
	return s.persistJob(id)
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ API = (*SQLiteStore)(nil)
