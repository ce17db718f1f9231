package gate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danielpatrickdp/claim-gate/internal/analyzer"
	"github.com/danielpatrickdp/claim-gate/internal/audit"
	"github.com/danielpatrickdp/claim-gate/internal/claims"
	"github.com/danielpatrickdp/claim-gate/internal/task"
	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region collaborators

// AuditStore is the append-only audit collaborator. Every entry write must
// durably complete before the gate commits its registry mutation.
type AuditStore interface {
	CreateEntry(e audit.Entry) (audit.Entry, error)
}

// TaskStore is the task collaborator, used only by Reject to mark a task
// permanently stopped.
type TaskStore interface {
	UpdateTask(id string, patch task.Patch) (task.Task, error)
}

// #endregion collaborators

// #region gate

// Gate is the stateful orchestrator deciding whether submitted work may
// proceed. It owns the pending-approval registry; Approve and Reject are the
// only mutation paths that can unblock or permanently stop a task.
type Gate struct {
	analyzer *analyzer.Analyzer
	audits   AuditStore
	tasks    TaskStore

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	pending  map[string]PendingApproval
	rejected map[string]struct{}
}

// New creates a Gate over the given collaborators.
func New(a *analyzer.Analyzer, audits AuditStore, tasks TaskStore) *Gate {
	return &Gate{
		analyzer: a,
		audits:   audits,
		tasks:    tasks,
		locks:    make(map[string]*sync.Mutex),
		pending:  make(map[string]PendingApproval),
		rejected: make(map[string]struct{}),
	}
}

// #endregion gate

// #region locking

// lockTask serializes Evaluate/Approve/Reject per task id. Operations on
// different task ids proceed independently.
func (g *Gate) lockTask(taskID string) func() {
	g.mu.Lock()
	l, ok := g.locks[taskID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[taskID] = l
	}
	g.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// #endregion locking

// #region evaluate

// Evaluate scores a submission and blocks the task when the score requires a
// stop. The audit write happens before the registry mutation; if it fails the
// task's gate state is left unchanged.
func (g *Gate) Evaluate(taskID, content string, evidence []string) (Decision, error) {
	unlock := g.lockTask(taskID)
	defer unlock()

	if g.isRejected(taskID) {
		return Decision{TaskID: taskID, Status: StatusRejected}, ErrTaskRejected
	}

	reasons := g.analyzer.Analyze(content)
	// Coarse unproven-claim check: any claimed count beyond the number of
	// submitted evidence items, regardless of type.
	for _, c := range claims.ExtractClaims(content) {
		if c.ClaimedCount > len(evidence) {
			reasons = append(reasons, taxonomy.ReasonUnprovenClaim)
			break
		}
	}

	res := taxonomy.ComputeScore(reasons)

	if !res.StopRequired {
		_, err := g.audits.CreateEntry(audit.Entry{
			TaskID:              taskID,
			Decision:            audit.DecisionApproved,
			FinalStatus:         audit.StatusComplete,
			RiskLevel:           res.Severity,
			StopScore:           res.Score,
			VerifiedArtefacts:   evidence,
			MissingInvalidParts: reasonStrings(res.Reasons),
		})
		if err != nil {
			return Decision{}, fmt.Errorf("audit pass-through evaluation: %w", err)
		}
		return Decision{
			TaskID:       taskID,
			Status:       StatusOpen,
			StopScore:    res.Score,
			RiskLevel:    res.Severity,
			StopRequired: false,
			Reasons:      res.Reasons,
		}, nil
	}

	const nextAction = "BLOCKED - Awaiting human approval"
	_, err := g.audits.CreateEntry(audit.Entry{
		TaskID:              taskID,
		Decision:            audit.DecisionStopRequired,
		FinalStatus:         audit.StatusStopRequired,
		RiskLevel:           res.Severity,
		StopScore:           res.Score,
		VerifiedArtefacts:   evidence,
		MissingInvalidParts: reasonStrings(res.Reasons),
		RequiredNextAction:  nextAction,
	})
	if err != nil {
		return Decision{}, fmt.Errorf("audit stop decision: %w", err)
	}

	// Create or replace the pending record. A re-evaluation of a BLOCKED task
	// starts a fresh episode with a fresh BlockedAt.
	g.mu.Lock()
	g.pending[taskID] = PendingApproval{
		TaskID:    taskID,
		StopScore: res.Score,
		RiskLevel: res.Severity,
		Reasons:   res.Reasons,
		BlockedAt: time.Now().UTC(),
	}
	g.mu.Unlock()

	return Decision{
		TaskID:             taskID,
		Status:             StatusBlocked,
		StopScore:          res.Score,
		RiskLevel:          res.Severity,
		StopRequired:       true,
		Reasons:            res.Reasons,
		RequiredNextAction: nextAction,
	}, nil
}

// #endregion evaluate

// #region approve

// Approve records a human override of a blocked task and re-opens it. It never
// re-runs the original evaluation; the recorded score is the one that blocked
// the task.
func (g *Gate) Approve(taskID, approver, reason string, acknowledgedRisks []string) (Decision, error) {
	unlock := g.lockTask(taskID)
	defer unlock()

	p, ok := g.getPending(taskID)
	if !ok {
		return Decision{}, fmt.Errorf("approve %s: %w", taskID, ErrNotBlocked)
	}
	if strings.TrimSpace(approver) == "" {
		return Decision{}, fmt.Errorf("approve %s: %w", taskID, ErrInvalidApprover)
	}
	if len(reason) < 10 {
		return Decision{}, fmt.Errorf("approve %s: %w", taskID, ErrInvalidReason)
	}
	if len(acknowledgedRisks) == 0 {
		return Decision{}, fmt.Errorf("approve %s: %w", taskID, ErrNoAcknowledgedRisks)
	}

	riskLevel := taxonomy.SeverityHigh
	if p.StopScore >= 70 {
		riskLevel = taxonomy.SeverityCritical
	}
	nextAction := fmt.Sprintf("Override approved by %s (risks acknowledged: %s): %s",
		approver, strings.Join(acknowledgedRisks, ", "), reason)

	_, err := g.audits.CreateEntry(audit.Entry{
		TaskID:              taskID,
		Decision:            audit.DecisionApproved,
		FinalStatus:         audit.StatusCompleteWithGaps,
		RiskLevel:           riskLevel,
		StopScore:           p.StopScore,
		MissingInvalidParts: reasonStrings(p.Reasons),
		RequiredNextAction:  nextAction,
	})
	if err != nil {
		// The override is not committed; the task stays BLOCKED.
		return Decision{}, fmt.Errorf("audit approval: %w", err)
	}

	g.mu.Lock()
	delete(g.pending, taskID)
	g.mu.Unlock()

	return Decision{
		TaskID:             taskID,
		Status:             StatusOpen,
		StopScore:          p.StopScore,
		RiskLevel:          riskLevel,
		StopRequired:       false,
		Reasons:            p.Reasons,
		RequiredNextAction: nextAction,
	}, nil
}

// #endregion approve

// #region reject

// Reject permanently stops a blocked task. A rejected task has no path back
// through this gate; re-entry requires a new task id upstream.
func (g *Gate) Reject(taskID, rejector, reason string) (Decision, error) {
	unlock := g.lockTask(taskID)
	defer unlock()

	p, ok := g.getPending(taskID)
	if !ok {
		return Decision{}, fmt.Errorf("reject %s: %w", taskID, ErrNotBlocked)
	}

	stopped := "stopped"
	score := p.StopScore
	if _, err := g.tasks.UpdateTask(taskID, task.Patch{Status: &stopped, StopScore: &score}); err != nil {
		return Decision{}, fmt.Errorf("stop task: %w", err)
	}

	nextAction := fmt.Sprintf("Rejected by %s: %s", rejector, reason)
	_, err := g.audits.CreateEntry(audit.Entry{
		TaskID:              taskID,
		Decision:            audit.DecisionStopRequired,
		FinalStatus:         audit.StatusStopRequired,
		RiskLevel:           taxonomy.SeverityCritical,
		StopScore:           p.StopScore,
		MissingInvalidParts: reasonStrings(p.Reasons),
		RequiredNextAction:  nextAction,
	})
	if err != nil {
		// Not committed; the pending record survives so a human can retry.
		return Decision{}, fmt.Errorf("audit rejection: %w", err)
	}

	g.mu.Lock()
	delete(g.pending, taskID)
	g.rejected[taskID] = struct{}{}
	g.mu.Unlock()

	return Decision{
		TaskID:             taskID,
		Status:             StatusRejected,
		StopScore:          p.StopScore,
		RiskLevel:          taxonomy.SeverityCritical,
		StopRequired:       true,
		Reasons:            p.Reasons,
		RequiredNextAction: nextAction,
	}, nil
}

// #endregion reject

// #region queries

// IsBlocked reports whether the task currently awaits human approval.
func (g *Gate) IsBlocked(taskID string) bool {
	_, ok := g.getPending(taskID)
	return ok
}

// GetPendingApproval returns the pending record for a blocked task.
func (g *Gate) GetPendingApproval(taskID string) (PendingApproval, bool) {
	return g.getPending(taskID)
}

// GetAllPendingApprovals returns all pending records, oldest block first.
func (g *Gate) GetAllPendingApprovals() []PendingApproval {
	g.mu.Lock()
	out := make([]PendingApproval, 0, len(g.pending))
	for _, p := range g.pending {
		out = append(out, p)
	}
	g.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].BlockedAt.Equal(out[j].BlockedAt) {
			return out[i].TaskID < out[j].TaskID
		}
		return out[i].BlockedAt.Before(out[j].BlockedAt)
	})
	return out
}

// #endregion queries

// #region helpers

func (g *Gate) getPending(taskID string) (PendingApproval, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pending[taskID]
	return p, ok
}

func (g *Gate) isRejected(taskID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.rejected[taskID]
	return ok
}

func reasonStrings(reasons []taxonomy.Reason) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = string(r)
	}
	return out
}

// #endregion helpers
