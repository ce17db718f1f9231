package claims

import (
	"regexp"
	"strconv"
	"strings"
)

// #region patterns

// claimPattern pairs a claim regex with the evidence type that can back it.
// The first capture group is the claimed count. The table is ordered; matching
// is non-exclusive across patterns.
type claimPattern struct {
	name     string
	re       *regexp.Regexp
	evidence EvidenceType
}

var claimPatterns = []claimPattern{
	{"scrape", regexp.MustCompile(`(?i)scraped\s+(\d+)\s+[\w-]+`), EvidenceData},
	{"create", regexp.MustCompile(`(?i)created\s+(\d+)\s+[\w-]+`), EvidenceSource},
	{"implement", regexp.MustCompile(`(?i)implemented\s+(\d+)\s+[\w-]+`), EvidenceSource},
	{"fix", regexp.MustCompile(`(?i)fixed\s+(\d+)\s+[\w-]+`), EvidenceSource},
	{"add-test", regexp.MustCompile(`(?i)added\s+(\d+)\s+tests?\b`), EvidenceTest},
	{"deploy", regexp.MustCompile(`(?i)deployed\s+(\d+)\s+[\w-]+`), EvidenceDeploy},
}

// #endregion patterns

// #region classifiers

var sourceExts = []string{
	".go", ".ts", ".tsx", ".js", ".jsx", ".py", ".rb", ".rs", ".java", ".sql", ".c", ".cpp", ".h",
}

var dataExts = []string{".json", ".csv", ".xml", ".ndjson", ".parquet"}

// evidenceMatchers classify an evidence path by filename heuristics. An item
// may satisfy several types at once.
var evidenceMatchers = map[EvidenceType]func(string) bool{
	EvidenceData: func(p string) bool {
		lower := strings.ToLower(p)
		return hasAnySuffix(lower, dataExts) || strings.Contains(lower, "data/")
	},
	EvidenceSource: func(p string) bool {
		return hasAnySuffix(strings.ToLower(p), sourceExts)
	},
	EvidenceTest: func(p string) bool {
		lower := strings.ToLower(p)
		return strings.Contains(lower, "test") || strings.Contains(lower, "spec.")
	},
	EvidenceDeploy: func(p string) bool {
		lower := strings.ToLower(p)
		return strings.Contains(lower, "dockerfile") ||
			strings.Contains(lower, "deploy") ||
			strings.Contains(lower, "k8s") ||
			strings.Contains(lower, "helm") ||
			hasAnySuffix(lower, []string{".yaml", ".yml", ".tf"})
	},
}

func hasAnySuffix(lower string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// #endregion classifiers

// #region extract

// ExtractClaims finds every quantified claim in text, in pattern-table order.
func ExtractClaims(text string) []Claim {
	var out []Claim
	for _, cp := range claimPatterns {
		for _, m := range cp.re.FindAllStringSubmatch(text, -1) {
			count, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			out = append(out, Claim{
				Phrase:       m[0],
				ClaimedCount: count,
				EvidenceType: cp.evidence,
			})
		}
	}
	return out
}

// #endregion extract

// #region verify

// VerifyClaims extracts quantified claims from text and checks each against
// the submitted evidence list. A claim verifies iff the count of evidence
// items matching its type predicate covers the claimed count.
func VerifyClaims(text string, evidence []string) Result {
	extracted := ExtractClaims(text)

	res := Result{
		AllVerified: true,
		TotalClaims: len(extracted),
	}

	for _, c := range extracted {
		matched := filterEvidence(evidence, c.EvidenceType)
		v := Verification{
			Claim:       c,
			ActualCount: len(matched),
			Verified:    len(matched) >= c.ClaimedCount,
			Discrepancy: c.ClaimedCount - len(matched),
			Evidence:    matched,
		}
		if v.Verified {
			res.VerifiedCount++
			res.Passed = append(res.Passed, v)
		} else {
			res.FailedCount++
			res.Failed = append(res.Failed, v)
			res.AllVerified = false
		}
	}

	return res
}

// filterEvidence returns the evidence items matching the type predicate,
// preserving input order.
func filterEvidence(evidence []string, et EvidenceType) []string {
	match := evidenceMatchers[et]
	var out []string
	for _, e := range evidence {
		if match(e) {
			out = append(out, e)
		}
	}
	return out
}

// #endregion verify
