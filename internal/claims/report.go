package claims

import (
	"fmt"
	"strings"
)

// #region report

// FormatReport renders a verification result as a human-readable report. It
// transcribes the result only; it has no decision authority.
func FormatReport(res Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Claim verification: %d claim(s), %d verified, %d failed\n",
		res.TotalClaims, res.VerifiedCount, res.FailedCount)

	if res.TotalClaims == 0 {
		b.WriteString("No quantified claims found.\n")
		return b.String()
	}

	for _, v := range res.Passed {
		fmt.Fprintf(&b, "  PASS %q: claimed %d, found %d %s item(s)\n",
			v.Claim.Phrase, v.Claim.ClaimedCount, v.ActualCount, v.Claim.EvidenceType)
	}
	for _, v := range res.Failed {
		fmt.Fprintf(&b, "  FAIL %q: claimed %d, found %d %s item(s) (short by %d)\n",
			v.Claim.Phrase, v.Claim.ClaimedCount, v.ActualCount, v.Claim.EvidenceType, v.Discrepancy)
	}

	if res.AllVerified {
		b.WriteString("All claims verified.\n")
	} else {
		b.WriteString("Unverified claims present; evidence is insufficient.\n")
	}

	return b.String()
}

// #endregion report
