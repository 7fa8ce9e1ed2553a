package jobs

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openSQLite(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")

	s := openSQLite(t, path)
	queued := mustEnqueue(t, s)
	finished := mustEnqueue(t, s)
	s.Claim()
	s.Claim()
	if err := s.Complete(queued.ID, testResult()); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := s.Fail(finished.ID, "boom"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	interrupted := mustEnqueue(t, s)
	s.Close()

	re := openSQLite(t, path)
	got, err := re.Get(queued.ID)
	if err != nil || got.Status != StatusDone {
		t.Fatalf("done job after restart = %+v, %v", got, err)
	}
	res, err := re.Result(queued.ID)
	if err != nil || len(res.Rows) != 1 || res.Rows[0].SKU != "SKU1" {
		t.Fatalf("result after restart = %+v, %v", res, err)
	}
	failed, err := re.Get(finished.ID)
	if err != nil || failed.Status != StatusError || failed.ErrMessage != "boom" {
		t.Fatalf("failed job after restart = %+v, %v", failed, err)
	}
	q, err := re.Get(interrupted.ID)
	if err != nil || q.Status != StatusQueued {
		t.Fatalf("queued job after restart = %+v, %v", q, err)
	}
	if claimed, ok := re.Claim(); !ok || claimed.ID != interrupted.ID {
		t.Fatalf("queued job must be claimable after restart, got %+v, %v", claimed, ok)
	}
}

func TestSQLiteStoreRequeuesInterruptedProcessing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")

	s := openSQLite(t, path)
	job := mustEnqueue(t, s)
	s.Claim()
	// Simulated crash mid-run: close without completing.
	s.Close()

	re := openSQLite(t, path)
	got, err := re.Get(job.ID)
	if err != nil || got.Status != StatusQueued {
		t.Fatalf("interrupted job = %+v, %v, want requeued", got, err)
	}
}

func TestSQLiteStoreClaimSurvivesPersistFailure(t *testing.T) {
	s := openSQLite(t, filepath.Join(t.TempDir(), "jobs.db"))
	job := mustEnqueue(t, s)

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	// Writes fail from here on; the in-memory claim must still go through.
	s.db.Close()
	claimed, ok := s.Claim()
	if !ok || claimed.ID != job.ID {
		t.Fatalf("Claim = %+v, %v, want the queued job", claimed, ok)
	}
	if claimed.Status != StatusProcessing {
		t.Errorf("claimed status = %s", claimed.Status)
	}
	if !strings.Contains(logs.String(), "persist claim") {
		t.Errorf("persist failure not logged: %q", logs.String())
	}
}

func TestSQLiteStoreNotFound(t *testing.T) {
	s := openSQLite(t, filepath.Join(t.TempDir(), "jobs.db"))
	if _, err := s.Get("missing"); err == nil {
		t.Fatal("expected not found")
	}
}
