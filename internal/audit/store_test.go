package audit

import (
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAssignsIDAndTimestamp(t *testing.T) {
	s := tempStore(t)

	created, err := s.CreateEntry(Entry{
		TaskID:             "task-1",
		Decision:           DecisionStopRequired,
		FinalStatus:        StatusStopRequired,
		RiskLevel:          taxonomy.SeverityHigh,
		StopScore:          40,
		RequiredNextAction: "BLOCKED - Awaiting human approval",
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a server-assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected a server-assigned timestamp")
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	s := tempStore(t)

	created, err := s.CreateEntry(Entry{
		TaskID:              "task-7",
		Decision:            DecisionApproved,
		FinalStatus:         StatusCompleteWithGaps,
		RiskLevel:           taxonomy.SeverityCritical,
		StopScore:           85,
		VerifiedArtefacts:   []string{"src/a.go"},
		MissingInvalidParts: []string{"PRICING_WITHOUT_FACT"},
		RequiredNextAction:  "Override recorded by lead",
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	got, err := s.GetEntry(created.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.TaskID != "task-7" || got.Decision != DecisionApproved {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.StopScore != 85 || got.RiskLevel != taxonomy.SeverityCritical {
		t.Fatalf("score fields mismatch: %+v", got)
	}
	if len(got.VerifiedArtefacts) != 1 || got.VerifiedArtefacts[0] != "src/a.go" {
		t.Fatalf("artefacts mismatch: %v", got.VerifiedArtefacts)
	}
	if len(got.MissingInvalidParts) != 1 {
		t.Fatalf("missing parts mismatch: %v", got.MissingInvalidParts)
	}
}

func TestGetUnknownEntry(t *testing.T) {
	s := tempStore(t)

	if _, err := s.GetEntry("no-such-id"); err == nil {
		t.Fatal("expected an error for an unknown id")
	}
}

func TestEntriesAreAppendOnly(t *testing.T) {
	s := tempStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.CreateEntry(Entry{
			TaskID:      "task-a",
			Decision:    DecisionStopRequired,
			FinalStatus: StatusStopRequired,
			RiskLevel:   taxonomy.SeverityHigh,
			StopScore:   40 + i,
		})
		if err != nil {
			t.Fatalf("CreateEntry %d: %v", i, err)
		}
	}

	entries, err := s.ListEntries(10)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestListRespectsLimit(t *testing.T) {
	s := tempStore(t)

	for i := 0; i < 5; i++ {
		if _, err := s.CreateEntry(Entry{
			Decision:    DecisionApproved,
			FinalStatus: StatusComplete,
			RiskLevel:   taxonomy.SeverityLow,
		}); err != nil {
			t.Fatalf("CreateEntry %d: %v", i, err)
		}
	}

	entries, err := s.ListEntries(2)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}
