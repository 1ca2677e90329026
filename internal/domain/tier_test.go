package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  Tier
	}{
		{"lower bound belongs to higher tier", 70.0, TierS},
		{"just below S", 69.999, TierA},
		{"perfect score", 100.0, TierS},
		{"zero", 0.0, TierD},
		{"A lower bound", 55.0, TierA},
		{"B lower bound", 40.0, TierB},
		{"C lower bound", 25.0, TierC},
		{"just below C", 24.999, TierD},
		{"mid B", 47.3, TierB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.score)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("out of range", func(t *testing.T) {
		for _, score := range []float64{-1, 101, -0.001, 100.001} {
			_, err := Classify(score)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr, "score %v", score)
		}
	})
}

func TestParseTier(t *testing.T) {
	t.Run("accepts labels case-insensitively", func(t *testing.T) {
		for _, label := range []string{"S", "a", " b ", "C", "d"} {
			tier, err := ParseTier(label)
			require.NoError(t, err)
			assert.NotEmpty(t, tier)
		}
	})

	t.Run("rejects unknown labels", func(t *testing.T) {
		for _, label := range []string{"", "E", "SS", "1"} {
			_, err := ParseTier(label)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr, "label %q", label)
		}
	})
}

func TestTierRankAndBounds(t *testing.T) {
	assert.Equal(t, 0, TierS.Rank())
	assert.Equal(t, 4, TierD.Rank())

	lo, hi := TierS.Bounds()
	assert.Equal(t, 70.0, lo)
	assert.Equal(t, 100.0, hi)

	lo, hi = TierB.Bounds()
	assert.Equal(t, 40.0, lo)
	assert.Equal(t, 55.0, hi)

	lo, hi = TierD.Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 25.0, hi)
}

func TestAssignTiers(t *testing.T) {
	t.Run("classifies each record", func(t *testing.T) {
		records := []SwingScoreRecord{
			{CountyFIPS: "42001", CountyName: "Adams", SwingScore: 0.72},
			{CountyFIPS: "42003", CountyName: "Allegheny", SwingScore: 0.41},
			{CountyFIPS: "42005", CountyName: "Armstrong", SwingScore: 0.10},
		}
		got, err := AssignTiers(records)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, TierS, got[0].Tier)
		assert.Equal(t, TierB, got[1].Tier)
		assert.Equal(t, TierD, got[2].Tier)
	})

	t.Run("out-of-range score fails whole batch", func(t *testing.T) {
		_, err := AssignTiers([]SwingScoreRecord{{SwingScore: 1.5}})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
	})
}

func TestTierCounts(t *testing.T) {
	records := []TieredRecord{
		{Tier: TierS}, {Tier: TierB}, {Tier: TierB}, {Tier: TierD},
	}
	counts := TierCounts(records)
	assert.Equal(t, 1, counts[TierS])
	assert.Equal(t, 2, counts[TierB])
	assert.Equal(t, 1, counts[TierD])
	assert.Zero(t, counts[TierA])
}

func TestTierDescription(t *testing.T) {
	for _, tier := range TierOrder {
		assert.NotEmpty(t, tier.Description())
	}
}
