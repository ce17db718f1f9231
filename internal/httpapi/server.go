package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/danielpatrickdp/claim-gate/internal/analyzer"
	"github.com/danielpatrickdp/claim-gate/internal/audit"
	"github.com/danielpatrickdp/claim-gate/internal/claims"
	"github.com/danielpatrickdp/claim-gate/internal/gate"
	"github.com/danielpatrickdp/claim-gate/internal/review"
	"github.com/danielpatrickdp/claim-gate/internal/task"
	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region collaborators

// AuditReader is the read side of the audit log.
type AuditReader interface {
	ListEntries(limit int) ([]audit.Entry, error)
	GetEntry(id string) (audit.Entry, error)
}

// TaskReader is the read side of the task store.
type TaskReader interface {
	GetTask(id string) (task.Task, error)
	ListTasks(limit int) ([]task.Task, error)
}
// #endregion collaborators

// #region server

// Server is the thin JSON adapter over the gate core. It holds no decision
// logic of its own.
type Server struct {
	gate     *gate.Gate
	reviewer *review.Reviewer
	analyzer *analyzer.Analyzer
	audits   AuditReader
	tasks    TaskReader
}

// NewServer wires the adapter.
func NewServer(g *gate.Gate, r *review.Reviewer, a *analyzer.Analyzer, audits AuditReader, tasks TaskReader) *Server {
	return &Server{gate: g, reviewer: r, analyzer: a, audits: audits, tasks: tasks}
}

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/tasks/{taskID}", func(r chi.Router) {
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/approve", s.handleApprove)
		r.Post("/reject", s.handleReject)
		r.Get("/pending", s.handlePendingForTask)
		r.Get("/", s.handleGetTask)
	})

	r.Get("/pending", s.handleAllPending)
	r.Get("/tasks", s.handleListTasks)
	r.Get("/audit", s.handleListAudit)
	r.Get("/audit/{entryID}", s.handleGetAudit)

	r.Post("/analyze", s.handleAnalyze)
	r.Post("/claims/verify", s.handleVerifyClaims)
	r.Post("/review", s.handleReview)

	return r
}
// #endregion server

// #region gate-handlers

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	var body struct {
		Content  string   `json:"content"`
		Evidence []string `json:"evidence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dec, err := s.gate.Evaluate(taskID, body.Content, body.Evidence)
	if err != nil {
		respondGateError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dec)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	var body struct {
		Approver          string   `json:"approver"`
		Reason            string   `json:"reason"`
		AcknowledgedRisks []string `json:"acknowledgedRisks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dec, err := s.gate.Approve(taskID, body.Approver, body.Reason, body.AcknowledgedRisks)
	if err != nil {
		respondGateError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dec)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	var body struct {
		Rejector string `json:"rejector"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dec, err := s.gate.Reject(taskID, body.Rejector, body.Reason)
	if err != nil {
		respondGateError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dec)
}

func (s *Server) handlePendingForTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	p, ok := s.gate.GetPendingApproval(taskID)
	if !ok {
		respondError(w, http.StatusNotFound, "task has no pending approval")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleAllPending(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.gate.GetAllPendingApprovals())
}
// #endregion gate-handlers

// #region store-handlers

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	t, err := s.tasks.GetTask(taskID)
	if errors.Is(err, task.ErrNotFound) {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTasks(queryLimit(r, 100))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := s.audits.ListEntries(queryLimit(r, 50))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	entry, err := s.audits.GetEntry(chi.URLParam(r, "entryID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "audit entry not found")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}
// #endregion store-handlers

// #region analysis-handlers

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reasons := s.analyzer.Analyze(body.Text)
	respondJSON(w, http.StatusOK, taxonomy.ComputeScore(reasons))
}

func (s *Server) handleVerifyClaims(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text     string   `json:"text"`
		Evidence []string `json:"evidence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := claims.VerifyClaims(body.Text, body.Evidence)
	respondJSON(w, http.StatusOK, struct {
		claims.Result
		Report string `json:"report"`
	}{Result: res, Report: claims.FormatReport(res)})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var sub review.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	respondJSON(w, http.StatusOK, s.reviewer.Review(sub))
}
// #endregion analysis-handlers

// #region responses

// respondGateError maps the gate's error taxonomy onto HTTP statuses:
// validation errors are 400, state errors 409, collaborator failures 500.
func respondGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gate.ErrInvalidApprover),
		errors.Is(err, gate.ErrInvalidReason),
		errors.Is(err, gate.ErrNoAcknowledgedRisks):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gate.ErrNotBlocked),
		errors.Is(err, gate.ErrTaskRejected):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
// #endregion responses
