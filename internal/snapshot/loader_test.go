package snapshot

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(t *testing.T) *Loader {
	t.Helper()
	return New(filepath.Join("testdata", "swing_scores.json"), slog.Default())
}

func TestLoaderState(t *testing.T) {
	l := testLoader(t)

	t.Run("loads ordered records", func(t *testing.T) {
		records, err := l.State("PA")
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, "Erie", records[0].CountyName)
		assert.Equal(t, "Adams", records[1].CountyName)
		assert.Equal(t, "Forest", records[2].CountyName)
		assert.Equal(t, 0.71, records[0].SwingScore)
	})

	t.Run("normalizes fips encodings", func(t *testing.T) {
		records, err := l.State("PA")
		require.NoError(t, err)

		byName := map[string]domain.SwingScoreRecord{}
		for _, r := range records {
			byName[r.CountyName] = r
		}
		assert.Equal(t, "42049", byName["Erie"].CountyFIPS)  // JSON number
		assert.Equal(t, "42001", byName["Adams"].CountyFIPS) // float string
		assert.Equal(t, "42053", byName["Forest"].CountyFIPS)
	})

	t.Run("missing normalized component becomes NaN", func(t *testing.T) {
		records, err := l.State("PA")
		require.NoError(t, err)
		for _, r := range records {
			if r.CountyName == "Forest" {
				assert.True(t, math.IsNaN(r.MarginChangeScore))
			}
		}
	})

	t.Run("lowercase code accepted", func(t *testing.T) {
		records, err := l.State("ga")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "13121", records[0].CountyFIPS)
		assert.Equal(t, "GA", records[0].StateCode)
	})

	t.Run("unknown state yields empty slice", func(t *testing.T) {
		records, err := l.State("WY")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("malformed state code", func(t *testing.T) {
		for _, code := range []string{"", "P", "PAX", "P1"} {
			_, err := l.State(code)
			var valErr *domain.ValidationError
			require.ErrorAs(t, err, &valErr, "code %q", code)
		}
	})

	t.Run("missing file is a fatal DataError", func(t *testing.T) {
		missing := New(filepath.Join(t.TempDir(), "nope.json"), slog.Default())
		_, err := missing.State("PA")
		var dataErr *domain.DataError
		require.ErrorAs(t, err, &dataErr)
	})

	t.Run("malformed json is a fatal DataError", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := New(path, slog.Default()).State("PA")
		var dataErr *domain.DataError
		require.ErrorAs(t, err, &dataErr)
	})
}

func TestLoaderStates(t *testing.T) {
	codes, err := testLoader(t).States()
	require.NoError(t, err)
	assert.Equal(t, []string{"GA", "PA"}, codes)
}
