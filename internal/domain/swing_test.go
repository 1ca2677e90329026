package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSwingScores(t *testing.T) {
	frozen := time.Date(2024, time.November, 6, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	records := []CountyYearRecord{
		countyYear("42001", "Adams", 2020, 0.10, 50000),
		countyYear("42001", "Adams", 2022, -0.02, 45000),
		countyYear("42003", "Allegheny", 2020, 0.30, 700000),
		countyYear("42003", "Allegheny", 2022, 0.28, 650000),
		countyYear("42005", "Armstrong", 2020, -0.45, 32000),
		countyYear("42005", "Armstrong", 2022, -0.40, 30000),
	}

	t.Run("full pipeline", func(t *testing.T) {
		got, err := ComputeSwingScores(records, 2020, 2022, DefaultWeights(), TurnoutLatestVotes)
		require.NoError(t, err)
		require.Len(t, got, 3)

		// Ordered by score descending.
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].SwingScore, got[i].SwingScore)
		}

		for _, rec := range got {
			assert.GreaterOrEqual(t, rec.SwingScore, 0.0)
			assert.LessOrEqual(t, rec.SwingScore, 1.0)
			assert.Equal(t, 2020, rec.YearPrev)
			assert.Equal(t, 2022, rec.YearLatest)
			assert.Equal(t, frozen, rec.ComputedAt)
			assert.NotEmpty(t, rec.CountyName)
		}

		// Adams has the largest margin shift: its margin_change normalizes to 1.
		byName := map[string]SwingScoreRecord{}
		for _, rec := range got {
			byName[rec.CountyName] = rec
		}
		assert.Equal(t, 1.0, byName["Adams"].MarginChangeScore)
		assert.Equal(t, 1.0, byName["Adams"].ClosenessScore)
		assert.Equal(t, 1.0, byName["Allegheny"].VotesScore)
	})

	t.Run("county with one year drops out", func(t *testing.T) {
		withPartial := append([]CountyYearRecord{}, records...)
		withPartial = append(withPartial, countyYear("42007", "Beaver", 2022, 0.01, 80000))

		got, err := ComputeSwingScores(withPartial, 2020, 2022, DefaultWeights(), TurnoutLatestVotes)
		require.NoError(t, err)
		for _, rec := range got {
			assert.NotEqual(t, "42007", rec.CountyFIPS)
		}
	})

	t.Run("two component weights skip turnout and votes", func(t *testing.T) {
		got, err := ComputeSwingScores(records, 2020, 2022, TwoComponentWeights(), TurnoutLatestVotes)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, rec := range got {
			assert.Zero(t, rec.TurnoutScore)
			assert.Zero(t, rec.VotesScore)
		}
	})

	t.Run("invalid weights rejected before computation", func(t *testing.T) {
		_, err := ComputeSwingScores(records, 2020, 2022, Weights{ComponentCloseness: 0.9}, TurnoutLatestVotes)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestReweightScores(t *testing.T) {
	records := []SwingScoreRecord{
		{
			CountyFIPS: "42001", CountyName: "Adams",
			MarginChangeScore: 1.0, ClosenessScore: 0.2, TurnoutScore: 0.5, VotesScore: 0.5,
			SwingScore: 0.55,
		},
		{
			CountyFIPS: "42003", CountyName: "Allegheny",
			MarginChangeScore: 0.0, ClosenessScore: 0.8, TurnoutScore: 1.0, VotesScore: 1.0,
			SwingScore: 0.70,
		},
	}

	t.Run("recomputes under new weights", func(t *testing.T) {
		got, err := ReweightScores(records, TwoComponentWeights())
		require.NoError(t, err)
		require.Len(t, got, 2)

		byFIPS := map[string]SwingScoreRecord{}
		for _, rec := range got {
			byFIPS[rec.CountyFIPS] = rec
		}
		assert.InDelta(t, 0.6, byFIPS["42001"].SwingScore, 1e-12)
		assert.InDelta(t, 0.4, byFIPS["42003"].SwingScore, 1e-12)
	})

	t.Run("missing component excludes county", func(t *testing.T) {
		withGap := append([]SwingScoreRecord{}, records...)
		withGap = append(withGap, SwingScoreRecord{
			CountyFIPS: "42005", CountyName: "Armstrong",
			MarginChangeScore: math.NaN(), ClosenessScore: 0.9,
			TurnoutScore: 0.9, VotesScore: 0.9,
		})

		got, err := ReweightScores(withGap, DefaultWeights())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("weight validation failure", func(t *testing.T) {
		_, err := ReweightScores(records, Weights{ComponentCloseness: 0.3, ComponentMarginChange: 0.3})
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}
