package export

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/ballotmetrics/swingscore/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []domain.TieredRecord {
	return []domain.TieredRecord{
		{
			SwingScoreRecord: domain.SwingScoreRecord{
				StateCode: "CT", CountyFIPS: "9001", CountyName: "Fairfield",
				YearPrev: 2020, YearLatest: 2022,
				MarginChangeAbs: 0.05, ClosenessLatest: 0.9, TurnoutLatest: 400000, VotesLatest: 400000,
				SwingScore: 0.75,
			},
			Tier: domain.TierS,
		},
		{
			SwingScoreRecord: domain.SwingScoreRecord{
				StateCode: "CT", CountyFIPS: "09003", CountyName: "Hartford",
				YearPrev: 2020, YearLatest: 2022,
				MarginChangeAbs: 0.01, ClosenessLatest: 0.6, TurnoutLatest: 350000, VotesLatest: 350000,
				SwingScore: 0.30,
			},
			Tier: domain.TierC,
		},
		{
			SwingScoreRecord: domain.SwingScoreRecord{
				StateCode: "CT", CountyFIPS: "09005", CountyName: "Litchfield",
				YearPrev: 2020, YearLatest: 2022,
				MarginChangeAbs: 0.02, ClosenessLatest: 0.7, TurnoutLatest: 90000, VotesLatest: 90000,
				SwingScore: 0.45,
			},
			Tier: domain.TierB,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func newWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	return New(dir, observability.NewMetricsForTesting(), slog.Default()), dir
}

func TestTopCounties(t *testing.T) {
	w, dir := newWriter(t)

	path, err := w.TopCounties("CT", sampleRecords(), 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "CT_top2.csv"), path)

	rows := readCSV(t, path)
	require.Len(t, rows, 3) // header + 2
	assert.Equal(t, []string{"county_name", "county_fips", "swing_score_100", "margin_change_pct", "latest_abs_margin_pct", "turnout_latest"}, rows[0])

	// Highest score first, FIPS zero-padded even when the source was bare.
	assert.Equal(t, "Fairfield", rows[1][0])
	assert.Equal(t, "09001", rows[1][1])
	assert.Equal(t, "75.00", rows[1][2])
	assert.Equal(t, "5.00", rows[1][3])
	assert.Equal(t, "400000", rows[1][5])
	assert.Equal(t, "Litchfield", rows[2][0])
}

func TestTopCounties_InvalidLimit(t *testing.T) {
	w, _ := newWriter(t)
	_, err := w.TopCounties("CT", sampleRecords(), 0)
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestTierSummary(t *testing.T) {
	w, _ := newWriter(t)

	path, err := w.TierSummary("CT", sampleRecords())
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, "tier", rows[0][0])
	// Tier-first ordering: S, then B, then C.
	assert.Equal(t, "S", rows[1][0])
	assert.Equal(t, "B", rows[2][0])
	assert.Equal(t, "C", rows[3][0])
	assert.Equal(t, "09003", rows[3][2])
}

func TestFullState(t *testing.T) {
	w, dir := newWriter(t)

	path, err := w.FullState("CT", sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "CT_all_counties.csv"), path)

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	require.Len(t, rows[0], 16)
	assert.Equal(t, "state_code", rows[0][0])
	assert.Equal(t, "tier", rows[0][15])
	assert.Equal(t, "09001", rows[1][1])
	assert.Equal(t, "2020", rows[1][3])
	assert.Equal(t, "S", rows[1][15])
}

func TestWriteCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "outputs")
	w := New(dir, observability.NewMetricsForTesting(), slog.Default())

	_, err := w.TierSummary("CT", sampleRecords())
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "CT_tier_summary.csv"))
	require.NoError(t, err)
}
