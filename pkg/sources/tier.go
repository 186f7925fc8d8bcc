package sources

import "fmt"

// Tier classifies the reliability of a data source. Lower ordinal means
// higher trust; the merger compares tiers by ordinal only. The attached
// trust score is for display and provenance audit, never for comparison.
type Tier int

// Trust tiers, ordered from most to least trusted.
const (
	// TierAuthoritative covers official company websites, regulatory
	// filings, and other first-party sources.
	TierAuthoritative Tier = 1

	// TierOpenWeb covers scraped directories, news sites, and other
	// third-party web sources. This is the default tier.
	TierOpenWeb Tier = 2

	// TierAIGenerated covers LLM-produced enrichment. It may only fill
	// empty fields and never displaces existing data of any tier.
	TierAIGenerated Tier = 3

	// TierAuxiliary covers job boards and similar signals. Writes are
	// restricted to the hiring.* subtree regardless of field state.
	TierAuxiliary Tier = 4
)

// DefaultTier is assumed for records that do not declare a tier.
const DefaultTier = TierOpenWeb

// tierScores maps each tier to its fixed confidence score.
var tierScores = map[Tier]float64{
	TierAuthoritative: 0.95,
	TierOpenWeb:       0.75,
	TierAIGenerated:   0.50,
	TierAuxiliary:     0.20,
}

// TrustScore returns the fixed confidence score for the tier.
// Unknown tiers score zero.
func (t Tier) TrustScore() float64 {
	return tierScores[t]
}

// Valid reports whether the tier is one of the defined tiers.
func (t Tier) Valid() bool {
	_, ok := tierScores[t]
	return ok
}

// StrongerThan reports whether t is strictly more trusted than other.
func (t Tier) StrongerThan(other Tier) bool {
	return t < other
}

// String returns a human-readable tier label.
func (t Tier) String() string {
	switch t {
	case TierAuthoritative:
		return "T1-authoritative"
	case TierOpenWeb:
		return "T2-open-web"
	case TierAIGenerated:
		return "T3-ai-generated"
	case TierAuxiliary:
		return "T4-auxiliary"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Tiers returns all defined tiers in trust order.
func Tiers() []Tier {
	return []Tier{TierAuthoritative, TierOpenWeb, TierAIGenerated, TierAuxiliary}
}
