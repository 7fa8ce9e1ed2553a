package jobs

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

func TestWorkerProcessSuccess(t *testing.T) {
	s := NewStore()
	job := mustEnqueue(t, s)
	claimed, _ := s.Claim()

	w := NewWorker(s, func(context.Context, Request) (plan.Result, error) {
		return testResult(), nil
	}, nil)
	w.process(context.Background(), claimed)

	got, _ := s.Get(job.ID)
	if got.Status != StatusDone {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestWorkerProcessFailureIsJobLocal(t *testing.T) {
	s := NewStore()
	bad := mustEnqueue(t, s)
	good := mustEnqueue(t, s)

	runs := 0
	w := NewWorker(s, func(_ context.Context, req Request) (plan.Result, error) {
		runs++
		if runs == 1 {
			return plan.Result{}, errors.New("reference source unreachable")
		}
		return testResult(), nil
	}, nil)

	c1, _ := s.Claim()
	w.process(context.Background(), c1)
	c2, _ := s.Claim()
	w.process(context.Background(), c2)

	b, _ := s.Get(bad.ID)
	if b.Status != StatusError || b.ErrMessage == "" {
		t.Fatalf("failed job = %+v", b)
	}
	g, _ := s.Get(good.ID)
	if g.Status != StatusDone {
		t.Fatalf("sibling job = %+v, one job's fault must not spread", g)
	}
}

func TestWorkerRecoversPanic(t *testing.T) {
	s := NewStore()
	job := mustEnqueue(t, s)
	claimed, _ := s.Claim()

	w := NewWorker(s, func(context.Context, Request) (plan.Result, error) {
		panic("unexpected")
	}, nil)
	w.process(context.Background(), claimed)

	got, _ := s.Get(job.ID)
	if got.Status != StatusError {
		t.Fatalf("status = %s, want error after panic", got.Status)
	}
}

func TestWorkerWebhookSigned(t *testing.T) {
	var gotBody []byte
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Planner-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewStore()
	req := testRequest()
	req.CallbackURL = srv.URL
	job, err := s.Enqueue(req)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	claimed, _ := s.Claim()

	w := NewWorker(s, func(context.Context, Request) (plan.Result, error) {
		return testResult(), nil
	}, NewNotifier("topsecret"))
	w.process(context.Background(), claimed)

	var payload WebhookPayload
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("webhook body: %v", err)
	}
	if payload.JobID != job.ID || payload.Status != StatusDone || payload.Result == nil {
		t.Fatalf("payload = %+v", payload)
	}
	want := "sha256=" + Sign("topsecret", gotBody)
	if !hmac.Equal([]byte(gotSig), []byte(want)) {
		t.Fatalf("signature = %q, want %q", gotSig, want)
	}
}
