package gate

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region status
// Status is a task's gate state. A task is OPEN until an evaluation blocks it,
// returns to OPEN on approval, and is terminally REJECTED on rejection.
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusBlocked  Status = "BLOCKED"
	StatusRejected Status = "REJECTED"
)

// #endregion status

// #region decision
// Decision is the output of a gate operation.
type Decision struct {
	TaskID             string            `json:"taskId"`
	Status             Status            `json:"status"`
	StopScore          int               `json:"stopScore"`
	RiskLevel          taxonomy.Severity `json:"riskLevel"`
	StopRequired       bool              `json:"stopRequired"`
	Reasons            []taxonomy.Reason `json:"reasons"`
	RequiredNextAction string            `json:"requiredNextAction,omitempty"`
}

// #endregion decision

// #region pending
// PendingApproval records one BLOCKED episode of a task. It exists exactly
// while the task awaits a human decision.
type PendingApproval struct {
	TaskID    string            `json:"taskId"`
	StopScore int               `json:"stopScore"`
	RiskLevel taxonomy.Severity `json:"riskLevel"`
	Reasons   []taxonomy.Reason `json:"reasons"`
	BlockedAt time.Time         `json:"blockedAt"`
}

// #endregion pending

// #region errors

// State errors.
var (
	ErrNotBlocked   = errors.New("task has no pending approval")
	ErrTaskRejected = errors.New("task was rejected and is permanently stopped")
)

// Input validation errors.
var (
	ErrInvalidApprover     = errors.New("approver must not be empty")
	ErrInvalidReason       = errors.New("reason must be at least 10 characters")
	ErrNoAcknowledgedRisks = errors.New("at least one risk must be acknowledged")
)

// #endregion errors
