package scorelog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/claim-gate/internal/config"
)

func TestWriteCSV(t *testing.T) {
	s := NewScorer(config.Default())
	r1, _ := s.ScoreLog(CallLog{AgentID: "a", Transcript: []TranscriptLine{{Text: "costs $10"}}})
	r2, _ := s.ScoreLog(CallLog{AgentID: "b", Transcript: []TranscriptLine{{Text: "fine"}}})

	path := filepath.Join(t.TempDir(), "report.csv")
	if err := WriteCSV([]Result{r1, r2}, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "a" || rows[1][6] != "HIGH" {
		t.Fatalf("first data row unexpected: %v", rows[1])
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteJSON([]Result{{AgentID: "a"}}, path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(raw), `"agent_id": "a"`) {
		t.Fatalf("report content unexpected:\n%s", raw)
	}
}

func TestBuildDashboard(t *testing.T) {
	s := NewScorer(config.Default())

	logs := []CallLog{
		{AgentID: "risky", Transcript: []TranscriptLine{{Text: "the price is $99 and it is guaranteed legal"}}},
		{AgentID: "risky", Transcript: []TranscriptLine{{Text: "it costs $10"}}},
		{AgentID: "safe", StopTriggered: true, Transcript: []TranscriptLine{{Text: "price question, stopping"}}},
	}
	var results []Result
	for i, l := range logs {
		r, err := s.ScoreLog(l)
		if err != nil {
			t.Fatalf("ScoreLog %d: %v", i, err)
		}
		results = append(results, r)
	}

	d := BuildDashboard(results, s.AgentStatistics())

	if d.AgentsActive != 2 || d.TotalInteractions != 3 {
		t.Fatalf("dashboard counts: %+v", d)
	}
	if d.StoppedCalls != 1 {
		t.Fatalf("stopped calls = %d, want 1", d.StoppedCalls)
	}
	if !d.ActionRequired || len(d.PotentialIssues) == 0 {
		t.Fatalf("expected flagged issues: %+v", d)
	}
	if len(d.AgentsRequiringReview) != 1 || d.AgentsRequiringReview[0].AgentID != "risky" {
		t.Fatalf("agents requiring review: %+v", d.AgentsRequiringReview)
	}
	if !strings.Contains(d.Recommendation, "risky") {
		t.Fatalf("recommendation should name the critical agent: %q", d.Recommendation)
	}

	clean := BuildDashboard(nil, nil)
	if clean.ActionRequired {
		t.Fatal("empty run must not require action")
	}
	if clean.Recommendation != "All agents performing within acceptable parameters" {
		t.Fatalf("clean recommendation: %q", clean.Recommendation)
	}
}
