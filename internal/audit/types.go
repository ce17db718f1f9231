package audit

import (
	"time"

	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region decision
// Decision is the gate's verdict recorded in an audit entry.
type Decision string

const (
	DecisionApproved     Decision = "APPROVED"
	DecisionStopRequired Decision = "STOP_REQUIRED"
)

// FinalStatus is the submission outcome recorded alongside the decision.
type FinalStatus string

const (
	StatusComplete         FinalStatus = "COMPLETE"
	StatusCompleteWithGaps FinalStatus = "COMPLETE_WITH_GAPS"
	StatusStopRequired     FinalStatus = "STOP_REQUIRED"
)

// #endregion decision

// #region entry
// Entry is one immutable row of the audit log. Entries are append-only and are
// the sole source of historical truth; they are never mutated or deleted.
type Entry struct {
	ID                  string            `json:"id"`
	TaskID              string            `json:"taskId,omitempty"`
	Decision            Decision          `json:"decision"`
	FinalStatus         FinalStatus       `json:"finalStatus"`
	RiskLevel           taxonomy.Severity `json:"riskLevel"`
	StopScore           int               `json:"stopScore"`
	VerifiedArtefacts   []string          `json:"verifiedArtefacts"`
	MissingInvalidParts []string          `json:"missingInvalidParts"`
	RequiredNextAction  string            `json:"requiredNextAction"`
	CreatedAt           time.Time         `json:"createdAt"`
}

// #endregion entry
