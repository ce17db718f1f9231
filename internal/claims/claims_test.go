package claims

import (
	"strings"
	"testing"
)

func TestVerifyScrapeClaimShortEvidence(t *testing.T) {
	res := VerifyClaims(
		"Successfully scraped 10 portals for the listing import",
		[]string{"data/portal1.json"},
	)

	if res.TotalClaims != 1 {
		t.Fatalf("expected 1 claim, got %d", res.TotalClaims)
	}
	if res.AllVerified {
		t.Fatal("10 claimed vs 1 data file must not verify")
	}
	if len(res.Failed) != 1 {
		t.Fatalf("expected 1 failed verification, got %d", len(res.Failed))
	}

	v := res.Failed[0]
	if v.Claim.ClaimedCount != 10 {
		t.Fatalf("claimedCount = %d, want 10", v.Claim.ClaimedCount)
	}
	if v.ActualCount != 1 {
		t.Fatalf("actualCount = %d, want 1", v.ActualCount)
	}
	if v.Discrepancy != 9 {
		t.Fatalf("discrepancy = %d, want 9", v.Discrepancy)
	}
	if v.Claim.EvidenceType != EvidenceData {
		t.Fatalf("evidence type = %s, want data", v.Claim.EvidenceType)
	}
}

func TestVerifyCreateClaimExactEvidence(t *testing.T) {
	res := VerifyClaims(
		"Created 3 files for the importer",
		[]string{"internal/importer/reader.go", "internal/importer/writer.go", "internal/importer/types.go"},
	)

	if !res.AllVerified {
		t.Fatalf("expected all claims verified, failed: %+v", res.Failed)
	}
	if res.VerifiedCount != 1 || res.FailedCount != 0 {
		t.Fatalf("counts = %d/%d, want 1/0", res.VerifiedCount, res.FailedCount)
	}
}

func TestVerifyNoClaims(t *testing.T) {
	res := VerifyClaims("Investigated the flaky pipeline", nil)

	if res.TotalClaims != 0 {
		t.Fatalf("expected 0 claims, got %d", res.TotalClaims)
	}
	if !res.AllVerified {
		t.Fatal("no claims means nothing failed")
	}
}

func TestVerifyMultipleClaimTypes(t *testing.T) {
	res := VerifyClaims(
		"Implemented 2 endpoints, added 1 test and deployed 1 service",
		[]string{
			"internal/httpapi/server.go",
			"internal/httpapi/handlers.go",
			"internal/httpapi/server_test.go",
			"deploy/gated.yaml",
		},
	)

	if res.TotalClaims != 3 {
		t.Fatalf("expected 3 claims, got %d", res.TotalClaims)
	}
	if !res.AllVerified {
		t.Fatalf("expected all verified, failed: %+v", res.Failed)
	}
}

func TestEvidenceMatchingIsNonExclusive(t *testing.T) {
	// A _test.go file is both a source file and a test file.
	res := VerifyClaims(
		"Fixed 1 bug and added 1 test",
		[]string{"internal/gate/gate_test.go"},
	)

	if !res.AllVerified {
		t.Fatalf("one item should satisfy both claim types, failed: %+v", res.Failed)
	}
}

func TestExtractClaimsTableOrder(t *testing.T) {
	got := ExtractClaims("Deployed 2 services after I scraped 5 sites")

	if len(got) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(got))
	}
	// Table order, not text order: scrape precedes deploy.
	if got[0].EvidenceType != EvidenceData || got[0].ClaimedCount != 5 {
		t.Fatalf("first claim = %+v, want scrape count 5", got[0])
	}
	if got[1].EvidenceType != EvidenceDeploy || got[1].ClaimedCount != 2 {
		t.Fatalf("second claim = %+v, want deploy count 2", got[1])
	}
}

func TestFormatReport(t *testing.T) {
	res := VerifyClaims("Scraped 10 portals", []string{"data/p1.json"})
	report := FormatReport(res)

	if !strings.Contains(report, "FAIL") {
		t.Fatalf("report missing FAIL line:\n%s", report)
	}
	if !strings.Contains(report, "short by 9") {
		t.Fatalf("report missing discrepancy:\n%s", report)
	}

	empty := FormatReport(VerifyClaims("No numbers here", nil))
	if !strings.Contains(empty, "No quantified claims") {
		t.Fatalf("empty report unexpected:\n%s", empty)
	}
}
