package scorelog

import (
	"encoding/json"

	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region call-log

// CallLog is one agent interaction log as submitted for scoring.
type CallLog struct {
	AgentID       string           `json:"agent_id"`
	Contact       string           `json:"contact_name,omitempty"`
	Timestamp     string           `json:"timestamp,omitempty"`
	Transcript    []TranscriptLine `json:"transcript"`
	StopTriggered bool             `json:"stop_triggered"`
	Result        string           `json:"result,omitempty"`
}

// TranscriptLine is one utterance. Logs in the wild carry either plain strings
// or {speaker, text} objects; both forms decode.
type TranscriptLine struct {
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// UnmarshalJSON accepts both the string and the object form.
func (l *TranscriptLine) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		l.Text = s
		return nil
	}
	type plain TranscriptLine
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	*l = TranscriptLine(p)
	return nil
}

// #endregion call-log

// #region result

// Result is the scored outcome of one call log.
type Result struct {
	AgentID         string            `json:"agent_id"`
	Contact         string            `json:"contact,omitempty"`
	Timestamp       string            `json:"timestamp,omitempty"`
	StopTriggered   bool              `json:"stop_triggered"`
	PlaceholderUsed bool              `json:"placeholder_used"`
	StopScore       int               `json:"stopScore"`
	RiskLevel       taxonomy.Severity `json:"riskLevel"`
	StopRequired    bool              `json:"stopRequired"`
	Reasons         []taxonomy.Reason `json:"reasons"`
	Violations      []string          `json:"violations"`
}

// Critical reports whether the result sits in the HIGH or CRITICAL band.
func (r Result) Critical() bool {
	return r.RiskLevel.AtLeast(taxonomy.SeverityHigh)
}

// #endregion result

// #region stats

// AgentStats accumulates per-agent scoring statistics across a run.
type AgentStats struct {
	AgentID           string         `json:"agent_id"`
	TotalInteractions int            `json:"total_interactions"`
	TotalRiskScore    int            `json:"total_risk_score"`
	PriceClaims       int            `json:"price_claims"`
	LegalClaims       int            `json:"legal_claims"`
	StopsTriggered    int            `json:"stops_triggered"`
	PlaceholdersUsed  int            `json:"placeholders_used"`
	CriticalIncidents int            `json:"critical_incidents"`
	RiskLevels        map[string]int `json:"risk_distribution"`
}

// AverageRisk is the mean stop score over all interactions.
func (s AgentStats) AverageRisk() float64 {
	if s.TotalInteractions == 0 {
		return 0
	}
	return float64(s.TotalRiskScore) / float64(s.TotalInteractions)
}

// StopRate is the share of risky claims on which the agent correctly stopped.
func (s AgentStats) StopRate() float64 {
	claims := s.PriceClaims + s.LegalClaims
	if claims == 0 {
		return 1.0
	}
	return float64(s.StopsTriggered) / float64(claims)
}

// #endregion stats

// #region summary

// CriticalIncident is one HIGH/CRITICAL result surfaced in a summary.
type CriticalIncident struct {
	AgentID    string            `json:"agent_id"`
	RiskLevel  taxonomy.Severity `json:"riskLevel"`
	Violations []string          `json:"violations"`
}

// Summary condenses a batch run.
type Summary struct {
	Total             int                `json:"total"`
	AverageRisk       float64            `json:"average_risk"`
	RiskDistribution  map[string]int     `json:"risk_distribution"`
	CriticalCount     int                `json:"critical_count"`
	CriticalIncidents []CriticalIncident `json:"critical_incidents"`
	AgentsAnalyzed    int                `json:"agents_analyzed"`
}

// #endregion summary
