package scorelog

import (
	"fmt"
	"sync"
	"time"

	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region alert

// Alert records one result at or above the alert threshold.
type Alert struct {
	Timestamp  time.Time         `json:"timestamp"`
	AgentID    string            `json:"agent_id"`
	RiskLevel  taxonomy.Severity `json:"riskLevel"`
	StopScore  int               `json:"stopScore"`
	Violations []string          `json:"violations"`
	Message    string            `json:"message"`
}

// Alerter collects alerts for results crossing a severity threshold.
type Alerter struct {
	threshold taxonomy.Severity

	mu     sync.Mutex
	alerts []Alert
}

// NewAlerter creates an Alerter. The default threshold is HIGH.
func NewAlerter(threshold taxonomy.Severity) *Alerter {
	if threshold == "" {
		threshold = taxonomy.SeverityHigh
	}
	return &Alerter{threshold: threshold}
}

// #endregion alert

// #region check

// Check records an alert when the result crosses the threshold and reports
// whether it did.
func (a *Alerter) Check(res Result) bool {
	if !res.RiskLevel.AtLeast(a.threshold) {
		return false
	}

	a.mu.Lock()
	a.alerts = append(a.alerts, Alert{
		Timestamp:  time.Now().UTC(),
		AgentID:    res.AgentID,
		RiskLevel:  res.RiskLevel,
		StopScore:  res.StopScore,
		Violations: res.Violations,
		Message:    fmt.Sprintf("ALERT: agent %s at risk level %s", res.AgentID, res.RiskLevel),
	})
	a.mu.Unlock()
	return true
}

// Alerts returns all collected alerts.
func (a *Alerter) Alerts() []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Alert, len(a.alerts))
	copy(out, a.alerts)
	return out
}

// Clear discards all collected alerts.
func (a *Alerter) Clear() {
	a.mu.Lock()
	a.alerts = nil
	a.mu.Unlock()
}

// #endregion check
