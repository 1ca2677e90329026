// Package ingest reads raw election result CSVs from the raw data
// directory. State files follow no single naming convention upstream, so
// matching tries the handful of patterns seen in practice; column headers
// are remapped through a configurable ColumnMap.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ballotmetrics/swingscore/internal/domain"
)

// ColumnMap names the CSV headers holding each required field.
type ColumnMap struct {
	Year       string
	State      string
	CountyName string
	CountyFIPS string
	Party      string
	Votes      string
}

// DefaultColumnMap matches the MIT Election Lab county returns headers.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		Year:       "year",
		State:      "state_po",
		CountyName: "county_name",
		CountyFIPS: "county_fips",
		Party:      "party_simplified",
		Votes:      "votes",
	}
}

// Loader reads per-state raw CSVs from one directory.
type Loader struct {
	dir     string
	columns ColumnMap
	logger  *slog.Logger
}

// New creates a Loader over the given raw data directory.
func New(dir string, columns ColumnMap, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, columns: columns, logger: logger}
}

// stateFiles globs the raw directory for files belonging to a state.
// Patterns cover the variants seen upstream: "AZ_2020.csv", "az_results.csv",
// "2020-az-general.csv", "clean_az_rows.csv", "AZ-cleaned.csv".
func (l *Loader) stateFiles(state string) ([]string, error) {
	upper := strings.ToUpper(state)
	lower := strings.ToLower(state)
	patterns := []string{
		upper + "_*.csv",
		lower + "_*.csv",
		"*-" + lower + "-*.csv",
		"*_" + lower + "_*.csv",
		upper + "-*.csv",
	}

	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(filepath.Join(l.dir, p))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadState reads every raw CSV for a state into vote rows. Finding no file
// for the state, or failing to read one, is a fatal DataError; individual
// short rows are skipped with a warning.
func (l *Loader) LoadState(state string) ([]domain.RawVoteRow, error) {
	if len(state) != 2 {
		return nil, domain.Validationf("invalid state code %q", state)
	}
	state = strings.ToUpper(state)

	files, err := l.stateFiles(state)
	if err != nil {
		return nil, &domain.DataError{Msg: fmt.Sprintf("scan raw data dir %s", l.dir), Err: err}
	}
	if len(files) == 0 {
		return nil, &domain.DataError{Msg: fmt.Sprintf("no raw CSV files for state %s in %s", state, l.dir)}
	}

	var rows []domain.RawVoteRow
	for _, file := range files {
		fileRows, err := l.readFile(file, state)
		if err != nil {
			return nil, err
		}
		l.logger.Info("loaded raw file", "state", state, "file", filepath.Base(file), "rows", len(fileRows))
		rows = append(rows, fileRows...)
	}
	if len(rows) == 0 {
		return nil, &domain.DataError{Msg: fmt.Sprintf("no data rows for state %s", state)}
	}
	return rows, nil
}

func (l *Loader) readFile(path, state string) ([]domain.RawVoteRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.DataError{Msg: fmt.Sprintf("open %s", path), Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &domain.DataError{Msg: fmt.Sprintf("read header of %s", path), Err: err}
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	required := map[string]string{
		"year":        l.columns.Year,
		"county_name": l.columns.CountyName,
		"county_fips": l.columns.CountyFIPS,
		"party":       l.columns.Party,
		"votes":       l.columns.Votes,
	}
	for field, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, &domain.DataError{
				Msg: fmt.Sprintf("%s: missing required column %q for %s (have %v)", path, col, field, header),
			}
		}
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []domain.RawVoteRow
	short := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.DataError{Msg: fmt.Sprintf("read %s", path), Err: err}
		}
		if len(row) < len(required) {
			short++
			continue
		}
		statePO := state
		if s := cell(row, l.columns.State); s != "" {
			statePO = strings.ToUpper(s)
		}
		rows = append(rows, domain.RawVoteRow{
			Year:       cell(row, l.columns.Year),
			StatePO:    statePO,
			CountyName: cell(row, l.columns.CountyName),
			CountyFIPS: cell(row, l.columns.CountyFIPS),
			Party:      cell(row, l.columns.Party),
			Votes:      cell(row, l.columns.Votes),
		})
	}
	if short > 0 {
		l.logger.Warn("skipped short rows", "file", filepath.Base(path), "rows", short)
	}
	return rows, nil
}
