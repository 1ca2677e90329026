package domain

// ComputeSwingScores runs the full per-state computation over county-year
// records: derive the four raw component series for the two elections,
// normalize each, combine them under the weight vector, and carry the
// descriptive fields through. Only counties covered by every weighted
// component appear in the result, ordered by score descending with county
// name breaking ties.
func ComputeSwingScores(records []CountyYearRecord, yearPrev, yearLatest int, weights Weights, baseline TurnoutBaseline) ([]SwingScoreRecord, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	components := ComputeComponents(records, yearPrev, yearLatest, baseline)

	normalized := make(map[Component]NormalizedSeries, len(weights))
	for c := range weights {
		normalized[c] = NormalizeSeries(components.Series(c))
	}

	scores, err := AggregateScores(normalized, weights)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]CountyYearRecord)
	for _, r := range records {
		if r.Year == yearLatest {
			latest[r.CountyFIPS] = r
		}
	}

	now := clock.Now()
	out := make([]SwingScoreRecord, 0, len(scores))
	for _, fips := range SortedFIPS(scores) {
		l := latest[fips]
		rec := SwingScoreRecord{
			StateCode:  l.StateCode,
			CountyFIPS: fips,
			CountyName: l.CountyName,
			YearPrev:   yearPrev,
			YearLatest: yearLatest,

			MarginChangeAbs: components.MarginChange[fips],
			ClosenessLatest: components.Closeness[fips],
			TurnoutLatest:   components.Turnout[fips],
			VotesLatest:     components.Votes[fips],

			SwingScore: scores[fips],
			ComputedAt: now,
		}
		if s, ok := normalized[ComponentMarginChange]; ok {
			rec.MarginChangeScore = s[fips]
		}
		if s, ok := normalized[ComponentCloseness]; ok {
			rec.ClosenessScore = s[fips]
		}
		if s, ok := normalized[ComponentTurnout]; ok {
			rec.TurnoutScore = s[fips]
		}
		if s, ok := normalized[ComponentVotes]; ok {
			rec.VotesScore = s[fips]
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReweightScores recomputes swing scores from the normalized component
// columns already present on snapshot records, under a caller-supplied
// weight vector. Counties missing any weighted component drop out of the
// result entirely.
func ReweightScores(records []SwingScoreRecord, weights Weights) ([]SwingScoreRecord, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	series := make(map[Component]NormalizedSeries, len(weights))
	byFIPS := make(map[string]SwingScoreRecord, len(records))
	for c := range weights {
		series[c] = make(NormalizedSeries, len(records))
	}
	for _, r := range records {
		byFIPS[r.CountyFIPS] = r
		for c := range weights {
			series[c][r.CountyFIPS] = r.NormalizedComponent(c)
		}
	}

	scores, err := AggregateScores(series, weights)
	if err != nil {
		return nil, err
	}

	out := make([]SwingScoreRecord, 0, len(scores))
	for _, fips := range SortedFIPS(scores) {
		rec := byFIPS[fips]
		rec.SwingScore = scores[fips]
		out = append(out, rec)
	}
	return out, nil
}

// NormalizedComponent returns the record's normalized value for a component.
func (r SwingScoreRecord) NormalizedComponent(c Component) float64 {
	switch c {
	case ComponentMarginChange:
		return r.MarginChangeScore
	case ComponentCloseness:
		return r.ClosenessScore
	case ComponentTurnout:
		return r.TurnoutScore
	case ComponentVotes:
		return r.VotesScore
	}
	return 0
}
