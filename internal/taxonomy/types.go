package taxonomy

import (
	"fmt"
	"strings"
)

// #region reason
// Reason enumerates the closed set of risk signals a submission can carry.
type Reason string

const (
	ReasonPricingWithoutFact  Reason = "PRICING_WITHOUT_FACT"
	ReasonLegalStatement      Reason = "LEGAL_STATEMENT"
	ReasonUnprovenClaim       Reason = "UNPROVEN_CLAIM"
	ReasonCrossLayerMismatch  Reason = "CROSS_LAYER_MISMATCH"
	ReasonMissingSQLOrSchema  Reason = "MISSING_SQL_OR_SCHEMA"
	ReasonMissingTests        Reason = "MISSING_TESTS"
	ReasonMissingDeployConfig Reason = "MISSING_DEPLOY_CONFIG"
	ReasonCostOrLoadRisk      Reason = "COST_OR_LOAD_RISK"
)

// #endregion reason

// #region severity
// Severity is the banded risk level derived from a stop score.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// severityOrder ranks the bands for threshold comparisons.
var severityOrder = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// AtLeast reports whether s is at or above other in the band ordering.
func (s Severity) AtLeast(other Severity) bool {
	return severityOrder[s] >= severityOrder[other]
}

// ParseSeverity converts a band name to a Severity.
func ParseSeverity(name string) (Severity, error) {
	s := Severity(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := severityOrder[s]; !ok {
		return "", fmt.Errorf("unknown severity %q", name)
	}
	return s, nil
}

// #endregion severity

// #region score-result
// ScoreResult is the output of ComputeScore.
type ScoreResult struct {
	Score        int      `json:"stopScore"`
	Severity     Severity `json:"riskLevel"`
	StopRequired bool     `json:"stopRequired"`
	Reasons      []Reason `json:"reasons"`
}

// #endregion score-result
