package taxonomy

// #region weights

// weights is the single place reason weights live. Other packages must route
// through ComputeScore rather than duplicating thresholds.
var weights = map[Reason]int{
	ReasonPricingWithoutFact:  40,
	ReasonLegalStatement:      40,
	ReasonUnprovenClaim:       30,
	ReasonCrossLayerMismatch:  25,
	ReasonMissingSQLOrSchema:  25,
	ReasonMissingTests:        15,
	ReasonMissingDeployConfig: 15,
	ReasonCostOrLoadRisk:      20,
}

const (
	maxScore = 100
	// StopThreshold is the score at or above which a submission must be
	// blocked for human approval.
	StopThreshold = 40
)

// #endregion weights

// #region compute

// ComputeScore maps a reason set to a capped stop score, a severity band and a
// stop/continue verdict. Pure, no I/O. Duplicate reasons contribute their
// weight once.
func ComputeScore(reasons []Reason) ScoreResult {
	distinct := make([]Reason, 0, len(reasons))
	seen := make(map[Reason]struct{}, len(reasons))
	score := 0
	for _, r := range reasons {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		distinct = append(distinct, r)
		score += weights[r]
	}
	if score > maxScore {
		score = maxScore
	}

	stop := score >= StopThreshold
	severity := bandFor(score)
	// A stop-required score is always reported at least HIGH, even when it
	// falls inside the MEDIUM band (scores 40-44). The overlap between the
	// stop threshold and the band boundary is intentional.
	if stop && severity == SeverityMedium {
		severity = SeverityHigh
	}

	return ScoreResult{
		Score:        score,
		Severity:     severity,
		StopRequired: stop,
		Reasons:      distinct,
	}
}

// #endregion compute

// #region bands

// bandFor converts a numeric score to its severity band:
// [0,20) LOW, [20,45) MEDIUM, [45,70) HIGH, [70,100] CRITICAL.
func bandFor(score int) Severity {
	switch {
	case score >= 70:
		return SeverityCritical
	case score >= 45:
		return SeverityHigh
	case score >= 20:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// #endregion bands
