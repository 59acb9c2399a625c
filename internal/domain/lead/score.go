// internal/domain/lead/score.go
package lead

// Tier is the derived hot/warm/cold classification of a lead's score. It is a
// pure derived read and is never stored on the lead record.
type Tier string

const (
	TierHot  Tier = "hot"
	TierWarm Tier = "warm"
	TierCold Tier = "cold"
)

// Classification pairs the tier with its display label.
type Classification struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

// Classify buckets a score into exactly one tier. Total over all ints: scores
// outside [0,100] are not clamped and classify with the same thresholds.
func Classify(score int) Classification {
	switch {
	case score >= 70:
		return Classification{Tier: TierHot, Label: "Hot"}
	case score >= 40:
		return Classification{Tier: TierWarm, Label: "Warm"}
	default:
		return Classification{Tier: TierCold, Label: "Cold"}
	}
}

// ParseTier validates a tier filter value. "all" and "" are not tiers and
// return false.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierHot, TierWarm, TierCold:
		return Tier(s), true
	default:
		return "", false
	}
}
