// Package httpapi exposes the planner over HTTP: a synchronous run endpoint
// and the asynchronous job queue around the same pipeline.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joelkehle/weekly-planner/internal/coerce"
	"github.com/joelkehle/weekly-planner/internal/jobs"
	"github.com/joelkehle/weekly-planner/internal/plan"
	"github.com/joelkehle/weekly-planner/internal/report"
)

type Server struct {
	store jobs.API
	run   jobs.Runner
}

// NewServer wires the routes. run executes one planning request and is shared
// between the synchronous endpoint and the queue worker.
func NewServer(store jobs.API, run jobs.Runner) http.Handler {
	s := &Server{store: store, run: run}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/plan", s.handlePlan)
	mux.HandleFunc("/v1/jobs", s.handleJobs)
	mux.HandleFunc("/v1/jobs/", s.handleJobByID)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var je *jobs.Error
	if errors.As(err, &je) {
		writeJSON(w, je.Status, map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":    je.Code,
				"message": je.Message,
			},
		})
		return
	}
	writeJSON(w, 500, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    jobs.CodeInternal,
			"message": err.Error(),
		},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// planRequest is the wire shape shared by /v1/plan and /v1/jobs. Dates are
// plain strings so callers can send "2026-01-19" instead of full timestamps;
// week_of picks the Monday-aligned week containing that date and wins over
// explicit bounds.
type planRequest struct {
	WeekStart     string               `json:"week_start"`
	WeekEnd       string               `json:"week_end"`
	WeekOf        string               `json:"week_of"`
	Demand        []plan.GrossOverride `json:"demand,omitempty"`
	Tables        *plan.Tables         `json:"tables,omitempty"`
	ToleranceDays *int                 `json:"tolerance_days,omitempty"`
	CallbackURL   string               `json:"callback_url,omitempty"`
}

func (pr planRequest) toJobRequest() (jobs.Request, error) {
	week, err := pr.week()
	if err != nil {
		return jobs.Request{}, err
	}
	if pr.ToleranceDays != nil {
		t := *pr.ToleranceDays
		if t < plan.MinToleranceDays || t > plan.MaxToleranceDays {
			return jobs.Request{}, jobs.NewValidationError("tolerance_days out of range")
		}
	}
	return jobs.Request{
		Week:          week,
		Demand:        pr.Demand,
		Tables:        pr.Tables,
		ToleranceDays: pr.ToleranceDays,
		CallbackURL:   strings.TrimSpace(pr.CallbackURL),
	}, nil
}

func (pr planRequest) week() (plan.Week, error) {
	if v := strings.TrimSpace(pr.WeekOf); v != "" {
		ref, ok := coerce.Date(v)
		if !ok {
			return plan.Week{}, jobs.NewValidationError("week_of is not a date")
		}
		return plan.WeekOf(ref), nil
	}
	if v := strings.TrimSpace(pr.WeekStart); v != "" {
		start, ok := coerce.Date(v)
		if !ok {
			return plan.Week{}, jobs.NewValidationError("week_start is not a date")
		}
		end := start.AddDate(0, 0, 6)
		if v := strings.TrimSpace(pr.WeekEnd); v != "" {
			e, ok := coerce.Date(v)
			if !ok {
				return plan.Week{}, jobs.NewValidationError("week_end is not a date")
			}
			end = e
		}
		if end.Before(start) {
			return plan.Week{}, jobs.NewValidationError("week_end precedes week_start")
		}
		return plan.NewWeek(start, end), nil
	}
	return plan.WeekOf(time.Now()), nil
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeError(w, jobs.NewValidationError("read body: "+err.Error()))
		return
	}
	var pr planRequest
	if err := json.Unmarshal(blob, &pr); err != nil {
		writeError(w, jobs.NewValidationError("invalid json: "+err.Error()))
		return
	}
	req, err := pr.toJobRequest()
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, res)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeError(w, jobs.NewValidationError("read body: "+err.Error()))
		return
	}
	var pr planRequest
	if err := json.Unmarshal(blob, &pr); err != nil {
		writeError(w, jobs.NewValidationError("invalid json: "+err.Error()))
		return
	}
	req, err := pr.toJobRequest()
	if err != nil {
		writeError(w, err)
		return
	}

	job, err := s.store.Enqueue(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 202, map[string]any{
		"ok":     true,
		"job_id": job.ID,
		"status": job.Status,
	})
}

func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if id, ok := strings.CutSuffix(path, "/report"); ok {
		s.jobReport(w, strings.TrimSuffix(id, "/"))
		return
	}
	if strings.Contains(path, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.jobStatus(w, path)
}

// jobStatus reports the lifecycle row. The result rides along only once the
// job is done; an unknown id is a 404, never confused with a pending job.
func (s *Server) jobStatus(w http.ResponseWriter, id string) {
	job, err := s.store.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	payload := map[string]any{
		"job_id":     job.ID,
		"status":     job.Status,
		"created_at": job.CreatedAt,
	}
	if job.ErrMessage != "" {
		payload["error"] = job.ErrMessage
	}
	if job.Status == jobs.StatusDone {
		res, err := s.store.Result(id)
		if err != nil {
			writeError(w, err)
			return
		}
		payload["result"] = res
	}
	writeJSON(w, 200, payload)
}

func (s *Server) jobReport(w http.ResponseWriter, id string) {
	res, err := s.store.Result(id)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := report.HTML(*res)
	if err != nil {
		writeError(w, jobs.NewInternalError("render report: "+err.Error()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "status": "ok"})
}
