// Package domain models county-level election swing scoring.
//
// # Data Source
//
// Raw election results arrive as per-state CSV files in the shape published
// by the MIT Election Data and Science Lab county returns, one row per
// county (or precinct) per party per year. Each state's files are aggregated
// to one record per county per election year before scoring. A precomputed
// snapshot JSON (state code -> county records) carries already-scored data
// for the common read path.
//
// # FIPS Codes
//
// Counties are keyed by their 5-digit FIPS code, always handled as a
// zero-padded string. Upstream sources are inconsistent: ints (13121),
// floats serialized as "13121.0", and padded strings all occur. [FormatFIPS]
// normalizes every variant; a bare integer silently loses the leading zero
// of Connecticut and the New England states downstream, so no FIPS value is
// ever written as a number.
//
// # Swing Score
//
// Each county gets four component metrics comparing its two most recent
// elections:
//
//	margin_change  |margin_pct(latest) - margin_pct(prev)|
//	closeness      1 - |margin_pct(latest)|  (tied race = 1, landslide -> 0)
//	turnout        latest total votes, or latest/prior ratio (configurable)
//	votes          latest total votes (county size weight)
//
// Components are min-max normalized to [0,1] per state ([Normalize]) and
// combined under a weight vector summing to 1.0 ([AggregateScores]). A
// county missing any weighted component is excluded from the result rather
// than scored with renormalized partial weights; comparability wins over
// coverage.
//
// # Tiers
//
// The 0-100 swing score maps to five priority bands ([Classify]):
//
//	S  70-100  elite targets (bound inclusive both ends)
//	A  55-70   top priority
//	B  40-55   strong swing potential
//	C  25-40   secondary targets
//	D   0-25   low priority
//
// A score exactly at a lower bound belongs to the higher tier: 70.0 is S,
// not A. Scores outside [0,100] are rejected.
package domain
