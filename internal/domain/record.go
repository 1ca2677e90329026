package domain

import "time"

// RawVoteRow represents one row of a raw election results CSV before any
// aggregation. Precinct-level and county-level sources share this shape;
// numeric fields stay strings until coercion so malformed cells can be
// skipped per row rather than failing the whole file.
type RawVoteRow struct {
	Year       string `json:"year"`
	StatePO    string `json:"state_po"`
	CountyName string `json:"county_name"`
	CountyFIPS string `json:"county_fips"`
	Party      string `json:"party_simplified"`
	Votes      string `json:"votes"`
}

// CountyYearRecord is one county's aggregated result for one election year.
// TotalVotes >= DemVotes+RepVotes always holds; third-party and write-in
// votes land in OtherVotes.
type CountyYearRecord struct {
	StateCode  string  `json:"state_code"`
	CountyFIPS string  `json:"county_fips"`
	CountyName string  `json:"county_name"`
	Year       int     `json:"year"`
	DemVotes   float64 `json:"dem_votes"`
	RepVotes   float64 `json:"rep_votes"`
	OtherVotes float64 `json:"other_votes"`
	TotalVotes float64 `json:"total_votes"`
	Margin     float64 `json:"margin"`     // dem_votes - rep_votes
	MarginPct  float64 `json:"margin_pct"` // margin / total_votes
}

// Component identifies one of the four swing score metrics.
type Component string

const (
	ComponentMarginChange Component = "margin_change"
	ComponentCloseness    Component = "closeness"
	ComponentTurnout      Component = "turnout"
	ComponentVotes        Component = "votes"
)

// AllComponents lists the four components in canonical weight order.
var AllComponents = []Component{
	ComponentMarginChange,
	ComponentCloseness,
	ComponentTurnout,
	ComponentVotes,
}

// ComponentSeries maps county FIPS to a raw value for exactly one metric.
// Built once per state per metric and never mutated afterwards.
type ComponentSeries map[string]float64

// NormalizedSeries has the same keys as its source ComponentSeries with
// values rescaled to [0,1] (or the 0.5 constant for zero-range input).
type NormalizedSeries map[string]float64

// SwingScoreRecord is one county's fully computed score: the four raw
// components, their normalized forms, and the weighted swing score in [0,1].
// Descriptive fields are carried through untouched.
type SwingScoreRecord struct {
	StateCode  string `json:"state_code,omitempty"`
	CountyFIPS string `json:"county_fips"`
	CountyName string `json:"county_name"`
	YearPrev   int    `json:"year_prev,omitempty"`
	YearLatest int    `json:"year_latest,omitempty"`

	MarginChangeAbs float64 `json:"margin_change_abs"`
	ClosenessLatest float64 `json:"closeness_latest"`
	TurnoutLatest   float64 `json:"turnout_latest"`
	VotesLatest     float64 `json:"votes_latest"`

	MarginChangeScore float64 `json:"margin_change_score"`
	ClosenessScore    float64 `json:"closeness_score"`
	TurnoutScore      float64 `json:"turnout_score"`
	VotesScore        float64 `json:"votes_score"`

	SwingScore float64 `json:"swing_score"`

	ComputedAt time.Time `json:"computed_at,omitempty"`
}

// SwingScore100 returns the score on the 0-100 scale used for display,
// tier thresholds, and the *_100 export column.
func (r SwingScoreRecord) SwingScore100() float64 {
	return r.SwingScore * 100
}

// TieredRecord is a SwingScoreRecord with its assigned priority tier.
type TieredRecord struct {
	SwingScoreRecord
	Tier Tier `json:"tier"`
}
