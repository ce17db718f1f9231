package analyzer

import (
	"regexp"
	"strings"

	"github.com/danielpatrickdp/claim-gate/internal/config"
	"github.com/danielpatrickdp/claim-gate/internal/taxonomy"
)

// #region analyzer

// Analyzer scans free-text submissions for heuristic risk signals and emits
// reason codes for the taxonomy scorer. It is a pure classifier; keyword
// presence emits a reason unless an explicit mitigating marker is also present
// (fail closed).
type Analyzer struct {
	pricing    []string
	legal      []string
	completion []string
	unknown    []string
	fileRef    []string
}

// New creates an Analyzer from the given keyword tables.
func New(cfg config.Config) *Analyzer {
	return &Analyzer{
		pricing:    lowerAll(cfg.Keywords.Pricing),
		legal:      lowerAll(cfg.Keywords.Legal),
		completion: lowerAll(cfg.Keywords.Completion),
		unknown:    lowerAll(cfg.Markers.Unknown),
		fileRef:    lowerAll(cfg.Markers.FileReference),
	}
}

// #endregion analyzer

// #region path-ref

// pathRef matches an inline path reference like "src/feature.ts". A concrete
// file reference counts as evidence that a completion verb is backed by work.
var pathRef = regexp.MustCompile(`[\w.-]+/[\w.-]+\.\w{1,5}`)

// #endregion path-ref

// #region analyze

// Analyze classifies text and returns the emitted reason codes, de-duplicated.
func (a *Analyzer) Analyze(text string) []taxonomy.Reason {
	lower := strings.ToLower(text)

	var reasons []taxonomy.Reason

	if containsAny(lower, a.pricing) && !containsAny(lower, a.unknown) {
		reasons = append(reasons, taxonomy.ReasonPricingWithoutFact)
	}

	if containsAny(lower, a.legal) {
		reasons = append(reasons, taxonomy.ReasonLegalStatement)
	}

	if containsAny(lower, a.completion) && !a.hasFileReference(lower) {
		reasons = append(reasons, taxonomy.ReasonUnprovenClaim)
	}

	return reasons
}

// hasFileReference reports whether the text carries an explicit marker or an
// inline path that ties a completion verb to concrete files.
func (a *Analyzer) hasFileReference(lower string) bool {
	if containsAny(lower, a.fileRef) {
		return true
	}
	return pathRef.MatchString(lower)
}

// #endregion analyze

// #region helpers

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func lowerAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = strings.ToLower(kw)
	}
	return out
}

// #endregion helpers
