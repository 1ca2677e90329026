package domain

import "math"

// TurnoutBaseline selects how the turnout component is derived. The proxy
// is a configuration choice, but one run uses exactly one baseline so the
// normalized series stays comparable across counties.
type TurnoutBaseline string

const (
	// TurnoutLatestVotes uses the latest election's total votes directly.
	TurnoutLatestVotes TurnoutBaseline = "latest_votes"
	// TurnoutPriorRatio divides the latest total by the prior election's
	// total, measuring participation change rather than raw magnitude.
	TurnoutPriorRatio TurnoutBaseline = "prior_ratio"
)

// Valid reports whether the baseline is a known strategy.
func (b TurnoutBaseline) Valid() bool {
	return b == TurnoutLatestVotes || b == TurnoutPriorRatio
}

// ComponentSet holds the four raw component series for one state run.
// Counties missing a metric's required years are absent from that series,
// never zero-filled; the score aggregator handles partial coverage.
type ComponentSet struct {
	MarginChange ComponentSeries
	Closeness    ComponentSeries
	Turnout      ComponentSeries
	Votes        ComponentSeries
}

// Series returns the series for a component.
func (cs ComponentSet) Series(c Component) ComponentSeries {
	switch c {
	case ComponentMarginChange:
		return cs.MarginChange
	case ComponentCloseness:
		return cs.Closeness
	case ComponentTurnout:
		return cs.Turnout
	case ComponentVotes:
		return cs.Votes
	}
	return nil
}

// ComputeComponents derives the four raw component series from county-year
// records for the two elections being compared:
//
//   - margin_change: |margin_pct(latest) - margin_pct(prev)|; needs both years.
//   - closeness: 1 - |margin_pct(latest)|; a tied race scores 1, a landslide
//     approaches 0. Needs the latest year only.
//   - turnout: per the baseline strategy (latest totals, or latest/prior ratio).
//   - votes: latest total votes, raw magnitude normalized later.
func ComputeComponents(records []CountyYearRecord, yearPrev, yearLatest int, baseline TurnoutBaseline) ComponentSet {
	prev := make(map[string]CountyYearRecord)
	latest := make(map[string]CountyYearRecord)
	for _, r := range records {
		switch r.Year {
		case yearPrev:
			prev[r.CountyFIPS] = r
		case yearLatest:
			latest[r.CountyFIPS] = r
		}
	}

	cs := ComponentSet{
		MarginChange: make(ComponentSeries),
		Closeness:    make(ComponentSeries),
		Turnout:      make(ComponentSeries),
		Votes:        make(ComponentSeries),
	}

	for fips, l := range latest {
		cs.Closeness[fips] = 1 - math.Abs(l.MarginPct)
		cs.Votes[fips] = l.TotalVotes

		p, hasPrev := prev[fips]
		if hasPrev {
			cs.MarginChange[fips] = math.Abs(l.MarginPct - p.MarginPct)
		}

		switch baseline {
		case TurnoutPriorRatio:
			if hasPrev && p.TotalVotes > 0 {
				cs.Turnout[fips] = l.TotalVotes / p.TotalVotes
			}
		default:
			cs.Turnout[fips] = l.TotalVotes
		}
	}

	return cs
}
