package scorelog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region json

// WriteJSON exports results as a JSON array.
func WriteJSON(results []Result, path string) error {
	raw, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}

// #endregion json

// #region csv

// WriteCSV exports results as CSV, one row per scored log.
func WriteCSV(results []Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"agent_id", "contact", "timestamp", "stop_triggered", "placeholder_used",
		"stop_score", "risk_level", "violations",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.AgentID,
			r.Contact,
			r.Timestamp,
			strconv.FormatBool(r.StopTriggered),
			strconv.FormatBool(r.PlaceholderUsed),
			strconv.Itoa(r.StopScore),
			string(r.RiskLevel),
			strings.Join(r.Violations, "; "),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv report: %w", err)
	}
	return nil
}

// #endregion csv

// #region dashboard

// Issue is one flagged interaction on the supervisor dashboard.
type Issue struct {
	AgentID   string            `json:"agent_id"`
	Issue     string            `json:"issue"`
	Risk      taxonomy.Severity `json:"risk"`
	Timestamp string            `json:"timestamp,omitempty"`
}

// AgentReview flags an agent whose statistics warrant supervisor attention.
type AgentReview struct {
	AgentID           string  `json:"agent_id"`
	AverageRisk       float64 `json:"average_risk"`
	CriticalIncidents int     `json:"critical_incidents"`
	Recommendation    string  `json:"recommendation"`
}

// DashboardSummary aggregates the run for the dashboard header.
type DashboardSummary struct {
	AverageRisk        float64 `json:"average_risk"`
	TotalViolations    int     `json:"total_violations"`
	StopComplianceRate float64 `json:"stop_compliance_rate"`
}

// Dashboard is the supervisor view of one batch run.
type Dashboard struct {
	Date                  time.Time        `json:"date"`
	AgentsActive          int              `json:"agents_active"`
	TotalInteractions     int              `json:"total_interactions"`
	StoppedCalls          int              `json:"stopped_calls"`
	PotentialIssues       []Issue          `json:"potential_issues"`
	AgentsRequiringReview []AgentReview    `json:"agents_requiring_review"`
	ActionRequired        bool             `json:"action_required"`
	Recommendation        string           `json:"supervisor_recommendation"`
	Summary               DashboardSummary `json:"summary"`
}

// maxDashboardIssues caps the issue list at the worst offenders.
const maxDashboardIssues = 10

// BuildDashboard derives the supervisor dashboard from a batch run.
func BuildDashboard(results []Result, stats map[string]AgentStats) Dashboard {
	d := Dashboard{Date: time.Now().UTC()}

	var criticalAgents []string
	for _, r := range results {
		if !r.Critical() {
			continue
		}
		if r.RiskLevel == taxonomy.SeverityCritical {
			criticalAgents = append(criticalAgents, r.AgentID)
		}
		for _, v := range r.Violations {
			d.PotentialIssues = append(d.PotentialIssues, Issue{
				AgentID:   r.AgentID,
				Issue:     v,
				Risk:      r.RiskLevel,
				Timestamp: r.Timestamp,
			})
		}
	}
	if len(d.PotentialIssues) > maxDashboardIssues {
		d.PotentialIssues = d.PotentialIssues[:maxDashboardIssues]
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var totalRisk, totalViolations int
	var stopRateSum float64
	for _, id := range ids {
		st := stats[id]
		d.AgentsActive++
		d.TotalInteractions += st.TotalInteractions
		d.StoppedCalls += st.StopsTriggered
		totalRisk += st.TotalRiskScore
		stopRateSum += st.StopRate()

		if st.AverageRisk() >= taxonomy.StopThreshold || st.CriticalIncidents > 0 {
			rec := "Monitor closely"
			if st.CriticalIncidents > 1 {
				rec = "Review and retrain"
			}
			d.AgentsRequiringReview = append(d.AgentsRequiringReview, AgentReview{
				AgentID:           id,
				AverageRisk:       round2(st.AverageRisk()),
				CriticalIncidents: st.CriticalIncidents,
				Recommendation:    rec,
			})
		}
	}

	for _, r := range results {
		totalViolations += len(r.Violations)
	}

	if d.TotalInteractions > 0 {
		d.Summary.AverageRisk = round2(float64(totalRisk) / float64(d.TotalInteractions))
	}
	d.Summary.TotalViolations = totalViolations
	if d.AgentsActive > 0 {
		d.Summary.StopComplianceRate = round2(stopRateSum / float64(d.AgentsActive))
	}

	d.ActionRequired = len(d.PotentialIssues) > 0
	switch {
	case len(criticalAgents) > 0:
		d.Recommendation = fmt.Sprintf("Pause %s and rebrief immediately",
			strings.Join(dedupe(criticalAgents), ", "))
	case d.ActionRequired:
		d.Recommendation = "Review flagged interactions and provide feedback to agents"
	default:
		d.Recommendation = "All agents performing within acceptable parameters"
	}

	return d
}

// WriteDashboard exports the dashboard as JSON.
func WriteDashboard(d Dashboard, path string) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// #endregion dashboard
