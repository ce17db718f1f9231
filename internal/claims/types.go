package claims

// #region evidence-type
// EvidenceType classifies what kind of artefact can back a claim.
type EvidenceType string

const (
	EvidenceData   EvidenceType = "data"
	EvidenceSource EvidenceType = "source"
	EvidenceTest   EvidenceType = "test"
	EvidenceDeploy EvidenceType = "deploy"
)

// #endregion evidence-type

// #region claim
// Claim is a quantified assertion extracted from submission text.
type Claim struct {
	Phrase       string       `json:"phrase"`
	ClaimedCount int          `json:"claimedCount"`
	EvidenceType EvidenceType `json:"evidenceType"`
}

// #endregion claim

// #region verification
// Verification is the outcome of checking one claim against the evidence list.
type Verification struct {
	Claim       Claim    `json:"claim"`
	ActualCount int      `json:"actualCount"`
	Verified    bool     `json:"verified"`
	Discrepancy int      `json:"discrepancy"`
	Evidence    []string `json:"evidence"`
}

// Result aggregates all claim verifications for one submission.
type Result struct {
	AllVerified   bool           `json:"allVerified"`
	TotalClaims   int            `json:"totalClaims"`
	VerifiedCount int            `json:"verifiedCount"`
	FailedCount   int            `json:"failedCount"`
	Passed        []Verification `json:"passed"`
	Failed        []Verification `json:"failed"`
}

// #endregion verification
