package scorelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/danielpatrickdp/claim-gate/internal/analyzer"
	"github.com/danielpatrickdp/claim-gate/internal/config"
	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region scorer

// Scorer batch-scores agent call logs through the content analyzer and the
// taxonomy scorer, accumulating per-agent statistics as it goes.
type Scorer struct {
	analyzer *analyzer.Analyzer

	mu    sync.Mutex
	stats map[string]*AgentStats
}

// NewScorer creates a Scorer from the given keyword configuration.
func NewScorer(cfg config.Config) *Scorer {
	return &Scorer{
		analyzer: analyzer.New(cfg),
		stats:    make(map[string]*AgentStats),
	}
}

// #endregion scorer

// #region validate

// ErrMissingAgentID is returned for logs without the mandatory agent_id field.
var ErrMissingAgentID = errors.New("log is missing agent_id")

// #endregion validate

// #region score-log

// ScoreLog scores a single call log. A stop the agent actually triggered, or a
// placeholder it emitted instead of a concrete claim, mitigates the pricing
// and legal reasons; the violation list records risky claims that had neither
// mitigation.
func (s *Scorer) ScoreLog(log CallLog) (Result, error) {
	if strings.TrimSpace(log.AgentID) == "" {
		return Result{}, ErrMissingAgentID
	}

	transcript := extractTranscript(log)
	raw := s.analyzer.Analyze(transcript)

	placeholder := strings.Contains(log.Result, "PLACEHOLDER") ||
		strings.Contains(log.Result, "STOP_REQUIRED")
	mitigated := log.StopTriggered || placeholder

	priceClaim := hasReason(raw, taxonomy.ReasonPricingWithoutFact)
	legalClaim := hasReason(raw, taxonomy.ReasonLegalStatement)

	var reasons []taxonomy.Reason
	var violations []string
	for _, r := range raw {
		switch r {
		case taxonomy.ReasonPricingWithoutFact:
			if mitigated {
				continue
			}
			violations = append(violations, "Price mentioned without fact or STOP")
		case taxonomy.ReasonLegalStatement:
			if mitigated {
				continue
			}
			violations = append(violations, "No STOP on legal statement")
		}
		reasons = append(reasons, r)
	}

	scored := taxonomy.ComputeScore(reasons)

	res := Result{
		AgentID:         log.AgentID,
		Contact:         log.Contact,
		Timestamp:       log.Timestamp,
		StopTriggered:   log.StopTriggered,
		PlaceholderUsed: placeholder,
		StopScore:       scored.Score,
		RiskLevel:       scored.Severity,
		StopRequired:    scored.StopRequired,
		Reasons:         scored.Reasons,
		Violations:      violations,
	}

	s.recordStats(res, priceClaim, legalClaim)
	return res, nil
}

// #endregion score-log

// #region score-files

// ScoreFile scores a single JSON log file.
func (s *Scorer) ScoreFile(path string) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read log %s: %w", path, err)
	}
	var log CallLog
	if err := json.Unmarshal(raw, &log); err != nil {
		return Result{}, fmt.Errorf("parse log %s: %w", path, err)
	}
	res, err := s.ScoreLog(log)
	if err != nil {
		return Result{}, fmt.Errorf("score log %s: %w", path, err)
	}
	return res, nil
}

// ScoreDirectory scores every file matching pattern in dir, in name order.
// Unreadable or malformed files are skipped and reported back, not fatal.
func (s *Scorer) ScoreDirectory(dir, pattern string) ([]Result, []error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, []error{fmt.Errorf("glob %s: %w", pattern, err)}
	}
	sort.Strings(paths)

	var results []Result
	var errs []error
	for _, p := range paths {
		res, err := s.ScoreFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// #endregion score-files

// #region statistics

func (s *Scorer) recordStats(res Result, priceClaim, legalClaim bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[res.AgentID]
	if !ok {
		st = &AgentStats{
			AgentID:    res.AgentID,
			RiskLevels: map[string]int{"LOW": 0, "MEDIUM": 0, "HIGH": 0, "CRITICAL": 0},
		}
		s.stats[res.AgentID] = st
	}

	st.TotalInteractions++
	st.TotalRiskScore += res.StopScore
	st.RiskLevels[string(res.RiskLevel)]++
	if priceClaim {
		st.PriceClaims++
	}
	if legalClaim {
		st.LegalClaims++
	}
	if res.StopTriggered {
		st.StopsTriggered++
	}
	if res.PlaceholderUsed {
		st.PlaceholdersUsed++
	}
	if res.Critical() {
		st.CriticalIncidents++
	}
}

// AgentStatistics returns a copy of the accumulated per-agent statistics.
func (s *Scorer) AgentStatistics() map[string]AgentStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]AgentStats, len(s.stats))
	for id, st := range s.stats {
		out[id] = *st
	}
	return out
}

// ResetStatistics clears the accumulated statistics.
func (s *Scorer) ResetStatistics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = make(map[string]*AgentStats)
}

// #endregion statistics

// #region summary

// Summarize condenses a batch of results.
func Summarize(results []Result) Summary {
	sum := Summary{
		RiskDistribution: make(map[string]int),
	}
	if len(results) == 0 {
		return sum
	}

	agents := make(map[string]struct{})
	totalRisk := 0
	for _, r := range results {
		sum.Total++
		totalRisk += r.StopScore
		sum.RiskDistribution[string(r.RiskLevel)]++
		agents[r.AgentID] = struct{}{}
		if r.Critical() {
			sum.CriticalCount++
			sum.CriticalIncidents = append(sum.CriticalIncidents, CriticalIncident{
				AgentID:    r.AgentID,
				RiskLevel:  r.RiskLevel,
				Violations: r.Violations,
			})
		}
	}

	sum.AverageRisk = round2(float64(totalRisk) / float64(len(results)))
	sum.AgentsAnalyzed = len(agents)
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// #endregion summary

// #region helpers

func extractTranscript(log CallLog) string {
	parts := make([]string, 0, len(log.Transcript))
	for _, line := range log.Transcript {
		if line.Text != "" {
			parts = append(parts, line.Text)
		}
	}
	return strings.Join(parts, " ")
}

func hasReason(reasons []taxonomy.Reason, want taxonomy.Reason) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

// #endregion helpers
