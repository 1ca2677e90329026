package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countyYear(fips, name string, year int, marginPct, total float64) CountyYearRecord {
	return CountyYearRecord{
		StateCode:  "PA",
		CountyFIPS: fips,
		CountyName: name,
		Year:       year,
		TotalVotes: total,
		MarginPct:  marginPct,
	}
}

func TestComputeComponents(t *testing.T) {
	records := []CountyYearRecord{
		countyYear("42001", "Adams", 2020, 0.10, 50000),
		countyYear("42001", "Adams", 2022, -0.02, 45000),
		countyYear("42003", "Allegheny", 2020, 0.30, 700000),
		countyYear("42003", "Allegheny", 2022, 0.28, 650000),
		// Latest year only; no 2020 record.
		countyYear("42005", "Armstrong", 2022, -0.40, 30000),
		// Prior year only; no 2022 record.
		countyYear("42007", "Beaver", 2020, 0.05, 80000),
	}

	t.Run("margin change requires both years", func(t *testing.T) {
		cs := ComputeComponents(records, 2020, 2022, TurnoutLatestVotes)

		require.Len(t, cs.MarginChange, 2)
		assert.InDelta(t, 0.12, cs.MarginChange["42001"], 1e-12)
		assert.InDelta(t, 0.02, cs.MarginChange["42003"], 1e-12)
		assert.NotContains(t, cs.MarginChange, "42005")
		assert.NotContains(t, cs.MarginChange, "42007")
	})

	t.Run("closeness needs latest year only", func(t *testing.T) {
		cs := ComputeComponents(records, 2020, 2022, TurnoutLatestVotes)

		require.Len(t, cs.Closeness, 3)
		assert.InDelta(t, 0.98, cs.Closeness["42001"], 1e-12)
		assert.InDelta(t, 0.72, cs.Closeness["42003"], 1e-12)
		assert.InDelta(t, 0.60, cs.Closeness["42005"], 1e-12)
	})

	t.Run("tied race scores 1", func(t *testing.T) {
		cs := ComputeComponents([]CountyYearRecord{
			countyYear("42001", "Adams", 2022, 0, 100),
		}, 2020, 2022, TurnoutLatestVotes)
		assert.Equal(t, 1.0, cs.Closeness["42001"])
	})

	t.Run("latest votes baseline", func(t *testing.T) {
		cs := ComputeComponents(records, 2020, 2022, TurnoutLatestVotes)

		assert.Equal(t, 45000.0, cs.Turnout["42001"])
		assert.Equal(t, 45000.0, cs.Votes["42001"])
		assert.Equal(t, 30000.0, cs.Turnout["42005"])
	})

	t.Run("prior ratio baseline", func(t *testing.T) {
		cs := ComputeComponents(records, 2020, 2022, TurnoutPriorRatio)

		assert.InDelta(t, 0.9, cs.Turnout["42001"], 1e-12)
		assert.InDelta(t, 650000.0/700000.0, cs.Turnout["42003"], 1e-12)
		// No prior year means no ratio; excluded rather than zero-filled.
		assert.NotContains(t, cs.Turnout, "42005")
	})

	t.Run("counties absent from latest year are excluded everywhere", func(t *testing.T) {
		cs := ComputeComponents(records, 2020, 2022, TurnoutLatestVotes)
		for _, series := range []ComponentSeries{cs.MarginChange, cs.Closeness, cs.Turnout, cs.Votes} {
			assert.NotContains(t, series, "42007")
		}
	})
}

func TestTurnoutBaselineValid(t *testing.T) {
	assert.True(t, TurnoutLatestVotes.Valid())
	assert.True(t, TurnoutPriorRatio.Valid())
	assert.False(t, TurnoutBaseline("census_population").Valid())
}
