package ingest

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paCSV = `year,state_po,county_name,county_fips,party_simplified,votes
2020,PA,Adams,42001,DEMOCRAT,1000
2020,PA,Adams,42001,REPUBLICAN,2000
2022,PA,Adams,42001,DEMOCRAT,900
2022,PA,Adams,42001,REPUBLICAN,1800
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadState(t *testing.T) {
	t.Run("loads matching files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "PA_2020_2022.csv", paCSV)
		writeFile(t, dir, "GA_2020.csv", "year,state_po,county_name,county_fips,party_simplified,votes\n2020,GA,Fulton,13121,DEM,5\n")

		l := New(dir, DefaultColumnMap(), slog.Default())
		rows, err := l.LoadState("PA")
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "Adams", rows[0].CountyName)
		assert.Equal(t, "PA", rows[0].StatePO)
		assert.Equal(t, "1000", rows[0].Votes)
	})

	t.Run("case-insensitive file patterns", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "2020-pa-general.csv", paCSV)

		l := New(dir, DefaultColumnMap(), slog.Default())
		rows, err := l.LoadState("pa")
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})

	t.Run("combines multiple files without duplication", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "PA_2020.csv", "year,state_po,county_name,county_fips,party_simplified,votes\n2020,PA,Adams,42001,DEM,1\n")
		writeFile(t, dir, "pa_2022.csv", "year,state_po,county_name,county_fips,party_simplified,votes\n2022,PA,Adams,42001,DEM,2\n")

		l := New(dir, DefaultColumnMap(), slog.Default())
		rows, err := l.LoadState("PA")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("no files is a fatal DataError", func(t *testing.T) {
		l := New(t.TempDir(), DefaultColumnMap(), slog.Default())
		_, err := l.LoadState("PA")
		var dataErr *domain.DataError
		require.ErrorAs(t, err, &dataErr)
	})

	t.Run("missing required column", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "PA_bad.csv", "year,county_name,party_simplified,votes\n2020,Adams,DEM,1\n")

		l := New(dir, DefaultColumnMap(), slog.Default())
		_, err := l.LoadState("PA")
		var dataErr *domain.DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Contains(t, err.Error(), "county_fips")
	})

	t.Run("custom column map", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "PA_custom.csv", "yr,state,county,fips,party,total\n2020,PA,Adams,42001,DEM,7\n")

		cols := ColumnMap{Year: "yr", State: "state", CountyName: "county", CountyFIPS: "fips", Party: "party", Votes: "total"}
		l := New(dir, cols, slog.Default())
		rows, err := l.LoadState("PA")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "7", rows[0].Votes)
	})

	t.Run("invalid state code", func(t *testing.T) {
		l := New(t.TempDir(), DefaultColumnMap(), slog.Default())
		_, err := l.LoadState("PEN")
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
	})
}
