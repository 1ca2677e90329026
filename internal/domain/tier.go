package domain

import "strings"

// Tier is one of five ordinal priority bands derived from the swing score.
// S is the highest priority, D the lowest.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// TierOrder lists tiers from highest priority to lowest.
var TierOrder = []Tier{TierS, TierA, TierB, TierC, TierD}

// tierFloors holds each tier's inclusive lower bound on the 0-100 scale,
// highest tier first. A score exactly at a bound belongs to the higher tier.
var tierFloors = []struct {
	tier  Tier
	floor float64
}{
	{TierS, 70},
	{TierA, 55},
	{TierB, 40},
	{TierC, 25},
	{TierD, 0},
}

// tierDescriptions is the operator-facing explanation printed by the tier
// guide and surfaced in API summaries.
var tierDescriptions = map[Tier]string{
	TierS: "Elite - unicorn counties with exceptional scores across all metrics",
	TierA: "Excellent - top priority targets with strong swing potential",
	TierB: "Good - solid swing counties worth significant investment",
	TierC: "Moderate - secondary targets for remaining resources",
	TierD: "Low priority - limited swing potential or low competitiveness",
}

// Classify assigns a tier from a swing score on the 0-100 scale.
// Scores outside [0,100] are a ValidationError.
func Classify(score100 float64) (Tier, error) {
	if score100 < 0 || score100 > 100 {
		return "", Validationf("swing score %.3f outside [0,100]", score100)
	}
	for _, t := range tierFloors {
		if score100 >= t.floor {
			return t.tier, nil
		}
	}
	return TierD, nil
}

// ParseTier validates a tier label from the CLI or API, accepting lowercase.
func ParseTier(label string) (Tier, error) {
	switch t := Tier(strings.ToUpper(strings.TrimSpace(label))); t {
	case TierS, TierA, TierB, TierC, TierD:
		return t, nil
	default:
		return "", Validationf("unknown tier %q: must be one of S, A, B, C, D", label)
	}
}

// Rank returns the tier's sort rank: S=0 through D=4. Unknown tiers sort last.
func (t Tier) Rank() int {
	for i, o := range TierOrder {
		if t == o {
			return i
		}
	}
	return len(TierOrder)
}

// Description returns the tier's operator-facing description.
func (t Tier) Description() string {
	return tierDescriptions[t]
}

// Bounds returns the tier's score range on the 0-100 scale. The lower bound
// is inclusive; the upper bound is exclusive except for S, which includes 100.
func (t Tier) Bounds() (lo, hi float64) {
	for i, f := range tierFloors {
		if f.tier != t {
			continue
		}
		if i == 0 {
			return f.floor, 100
		}
		return f.floor, tierFloors[i-1].floor
	}
	return 0, 0
}

// AssignTiers classifies every record, producing a fresh slice. Records are
// expected to carry scores in [0,1]; anything outside surfaces the
// classifier's ValidationError.
func AssignTiers(records []SwingScoreRecord) ([]TieredRecord, error) {
	out := make([]TieredRecord, 0, len(records))
	for _, r := range records {
		tier, err := Classify(r.SwingScore100())
		if err != nil {
			return nil, err
		}
		out = append(out, TieredRecord{SwingScoreRecord: r, Tier: tier})
	}
	return out, nil
}

// TierCounts tallies records per tier in TierOrder, for summaries.
func TierCounts(records []TieredRecord) map[Tier]int {
	counts := make(map[Tier]int, len(TierOrder))
	for _, r := range records {
		counts[r.Tier]++
	}
	return counts
}
