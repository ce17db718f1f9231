package review

import (
	"github.com/danielpatrickdp/claim-gate/internal/analyzer"
	"github.com/danielpatrickdp/claim-gate/internal/audit"
	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region types

// Submission is a body of work presented for engineering-lead review.
type Submission struct {
	Description     string   `json:"description"`
	Claims          []string `json:"claims"`
	Artefacts       []string `json:"artefacts"`
	HasTests        bool     `json:"hasTests"`
	HasSchema       bool     `json:"hasSchema"`
	HasDeployConfig bool     `json:"hasDeployConfig"`
}

// SupervisorDecision is the outcome of a policy-level review. It is computed
// independently of any task's gate state.
type SupervisorDecision struct {
	FinalStatus  audit.FinalStatus `json:"finalStatus"`
	StopScore    int               `json:"stopScore"`
	RiskLevel    taxonomy.Severity `json:"riskLevel"`
	StopRequired bool              `json:"stopRequired"`
	Reasons      []taxonomy.Reason `json:"reasons"`
}

// #endregion types

// #region reviewer

// Reviewer applies the engineering-lead policy: content analysis over the
// description and every claim, plus process-completeness checks, scored
// through the shared taxonomy.
type Reviewer struct {
	analyzer *analyzer.Analyzer
}

// NewReviewer creates a Reviewer.
func NewReviewer(a *analyzer.Analyzer) *Reviewer {
	return &Reviewer{analyzer: a}
}

// Review folds process-completeness reasons into the analyzer's output and
// derives the submission's final status.
func (r *Reviewer) Review(sub Submission) SupervisorDecision {
	var reasons []taxonomy.Reason

	reasons = append(reasons, r.analyzer.Analyze(sub.Description)...)
	for _, claim := range sub.Claims {
		reasons = append(reasons, r.analyzer.Analyze(claim)...)
	}

	if !sub.HasTests {
		reasons = append(reasons, taxonomy.ReasonMissingTests)
	}
	if !sub.HasSchema {
		reasons = append(reasons, taxonomy.ReasonMissingSQLOrSchema)
	}
	if !sub.HasDeployConfig {
		reasons = append(reasons, taxonomy.ReasonMissingDeployConfig)
	}
	if len(sub.Artefacts) == 0 {
		reasons = append(reasons, taxonomy.ReasonUnprovenClaim)
	}

	res := taxonomy.ComputeScore(reasons)

	status := audit.StatusComplete
	switch {
	case res.StopRequired:
		status = audit.StatusStopRequired
	case len(res.Reasons) > 0:
		status = audit.StatusCompleteWithGaps
	}

	return SupervisorDecision{
		FinalStatus:  status,
		StopScore:    res.Score,
		RiskLevel:    res.Severity,
		StopRequired: res.StopRequired,
		Reasons:      res.Reasons,
	}
}

// #endregion reviewer
