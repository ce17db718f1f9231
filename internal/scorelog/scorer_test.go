package scorelog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/claim-gate/internal/config"
	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

func newScorer() *Scorer {
	return NewScorer(config.Default())
}

func TestScoreLogPricingWithoutStop(t *testing.T) {
	s := newScorer()

	res, err := s.ScoreLog(CallLog{
		AgentID: "agent-1",
		Transcript: []TranscriptLine{
			{Text: "The subscription costs $49 per month"},
		},
	})
	if err != nil {
		t.Fatalf("ScoreLog: %v", err)
	}

	if res.StopScore != 40 {
		t.Fatalf("score = %d, want 40", res.StopScore)
	}
	if !res.StopRequired || res.RiskLevel != taxonomy.SeverityHigh {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", res.Violations)
	}
}

func TestScoreLogStopMitigates(t *testing.T) {
	s := newScorer()

	res, err := s.ScoreLog(CallLog{
		AgentID:       "agent-1",
		StopTriggered: true,
		Transcript: []TranscriptLine{
			{Text: "The subscription costs $49 per month"},
		},
	})
	if err != nil {
		t.Fatalf("ScoreLog: %v", err)
	}

	if res.StopScore != 0 {
		t.Fatalf("a triggered stop must mitigate the pricing reason, score %d", res.StopScore)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("no violations expected, got %v", res.Violations)
	}
}

func TestScoreLogPlaceholderMitigates(t *testing.T) {
	s := newScorer()

	res, err := s.ScoreLog(CallLog{
		AgentID: "agent-1",
		Result:  "Price: PLACEHOLDER - STOP_REQUIRED",
		Transcript: []TranscriptLine{
			{Text: "Our warranty guarantees a full refund"},
		},
	})
	if err != nil {
		t.Fatalf("ScoreLog: %v", err)
	}

	if !res.PlaceholderUsed {
		t.Fatal("placeholder marker not detected")
	}
	if res.StopScore != 0 {
		t.Fatalf("placeholder must mitigate the legal reason, score %d", res.StopScore)
	}
}

func TestScoreLogMissingAgentID(t *testing.T) {
	s := newScorer()

	if _, err := s.ScoreLog(CallLog{}); !errors.Is(err, ErrMissingAgentID) {
		t.Fatalf("expected ErrMissingAgentID, got %v", err)
	}
}

func TestTranscriptLineAcceptsBothForms(t *testing.T) {
	raw := `{"agent_id":"a","transcript":["plain string",{"speaker":"agent","text":"object form"}]}`

	var log CallLog
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(log.Transcript) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(log.Transcript))
	}
	if log.Transcript[0].Text != "plain string" || log.Transcript[1].Text != "object form" {
		t.Fatalf("transcript lines: %+v", log.Transcript)
	}
}

func TestScoreDirectorySkipsBadFiles(t *testing.T) {
	dir := t.TempDir()

	good := CallLog{
		AgentID:    "agent-1",
		Transcript: []TranscriptLine{{Text: "All good here"}},
	}
	raw, _ := json.Marshal(good)
	if err := os.WriteFile(filepath.Join(dir, "a.json"), raw, 0o644); err != nil {
		t.Fatalf("write good log: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write bad log: %v", err)
	}

	s := newScorer()
	results, errs := s.ScoreDirectory(dir, "*.json")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for the malformed file, got %v", errs)
	}
}

func TestAgentStatisticsAccumulate(t *testing.T) {
	s := newScorer()

	logs := []CallLog{
		{AgentID: "a", Transcript: []TranscriptLine{{Text: "costs $10"}}},
		{AgentID: "a", StopTriggered: true, Transcript: []TranscriptLine{{Text: "price is high"}}},
		{AgentID: "b", Transcript: []TranscriptLine{{Text: "nothing risky"}}},
	}
	for i, l := range logs {
		if _, err := s.ScoreLog(l); err != nil {
			t.Fatalf("ScoreLog %d: %v", i, err)
		}
	}

	stats := s.AgentStatistics()
	a := stats["a"]
	if a.TotalInteractions != 2 {
		t.Fatalf("agent a interactions = %d, want 2", a.TotalInteractions)
	}
	if a.PriceClaims != 2 {
		t.Fatalf("agent a price claims = %d, want 2", a.PriceClaims)
	}
	if a.StopsTriggered != 1 {
		t.Fatalf("agent a stops = %d, want 1", a.StopsTriggered)
	}
	if a.CriticalIncidents != 1 {
		t.Fatalf("agent a critical incidents = %d, want 1", a.CriticalIncidents)
	}
	if got := a.StopRate(); got != 0.5 {
		t.Fatalf("agent a stop rate = %v, want 0.5", got)
	}
	if stats["b"].TotalInteractions != 1 {
		t.Fatalf("agent b interactions = %d, want 1", stats["b"].TotalInteractions)
	}

	s.ResetStatistics()
	if len(s.AgentStatistics()) != 0 {
		t.Fatal("reset did not clear statistics")
	}
}

func TestSummarize(t *testing.T) {
	s := newScorer()

	r1, _ := s.ScoreLog(CallLog{AgentID: "a", Transcript: []TranscriptLine{{Text: "costs $10"}}})
	r2, _ := s.ScoreLog(CallLog{AgentID: "b", Transcript: []TranscriptLine{{Text: "fine"}}})

	sum := Summarize([]Result{r1, r2})
	if sum.Total != 2 || sum.AgentsAnalyzed != 2 {
		t.Fatalf("summary counts: %+v", sum)
	}
	if sum.CriticalCount != 1 {
		t.Fatalf("critical count = %d, want 1", sum.CriticalCount)
	}
	if sum.AverageRisk != 20 {
		t.Fatalf("average risk = %v, want 20", sum.AverageRisk)
	}

	empty := Summarize(nil)
	if empty.Total != 0 {
		t.Fatalf("empty summary: %+v", empty)
	}
}

func TestAlerter(t *testing.T) {
	a := NewAlerter(taxonomy.SeverityHigh)

	if a.Check(Result{AgentID: "a", RiskLevel: taxonomy.SeverityMedium}) {
		t.Fatal("MEDIUM must not alert at HIGH threshold")
	}
	if !a.Check(Result{AgentID: "a", RiskLevel: taxonomy.SeverityCritical, StopScore: 80}) {
		t.Fatal("CRITICAL must alert")
	}
	if len(a.Alerts()) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(a.Alerts()))
	}

	a.Clear()
	if len(a.Alerts()) != 0 {
		t.Fatal("clear did not discard alerts")
	}
}
