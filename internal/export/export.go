// Package export serializes tiered county records to the CSV report files
// consumed by the map renderer and spreadsheet users. Every writer emits
// county FIPS as a zero-padded 5-character string and produces one
// exclusively named file per state and report kind, so concurrent runs for
// different states never clobber each other.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/ballotmetrics/swingscore/internal/observability"
)

// Kind names a CSV report flavor, used for filenames and metrics labels.
type Kind string

const (
	KindTop         Kind = "top"
	KindFullState   Kind = "full"
	KindTierSummary Kind = "tier_summary"
)

// Writer emits CSV reports into one output directory.
type Writer struct {
	outDir  string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates a Writer. The output directory is created on first write.
func New(outDir string, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{outDir: outDir, metrics: metrics, logger: logger}
}

// TopCounties writes the top-N counties by swing score for one state.
// Columns: county_name, county_fips, swing_score_100, margin_change_pct,
// latest_abs_margin_pct, turnout_latest.
func (w *Writer) TopCounties(state string, records []domain.TieredRecord, top int) (string, error) {
	ranked := domain.Rank(records, false)
	limited, err := domain.TopN(ranked, top)
	if err != nil {
		return "", err
	}

	header := []string{"county_name", "county_fips", "swing_score_100", "margin_change_pct", "latest_abs_margin_pct", "turnout_latest"}
	rows := make([][]string, 0, len(limited))
	for _, r := range limited {
		rows = append(rows, []string{
			r.CountyName,
			domain.FormatFIPS(r.CountyFIPS),
			fixed2(r.SwingScore100()),
			fixed2(r.MarginChangeAbs * 100),
			fixed2((1 - r.ClosenessLatest) * 100),
			plain(r.TurnoutLatest),
		})
	}

	filename := fmt.Sprintf("%s_top%d.csv", state, top)
	return w.write(KindTop, filename, header, rows)
}

// TierSummary writes every county with its tier, ordered tier-first.
// Columns: tier, county_name, county_fips, swing_score, swing_score_100,
// margin_change_abs, closeness_latest, turnout_latest.
func (w *Writer) TierSummary(state string, records []domain.TieredRecord) (string, error) {
	ranked := domain.Rank(records, true)

	header := []string{"tier", "county_name", "county_fips", "swing_score", "swing_score_100", "margin_change_abs", "closeness_latest", "turnout_latest"}
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{
			string(r.Tier),
			r.CountyName,
			domain.FormatFIPS(r.CountyFIPS),
			plain(r.SwingScore),
			fixed2(r.SwingScore100()),
			plain(r.MarginChangeAbs),
			plain(r.ClosenessLatest),
			plain(r.TurnoutLatest),
		})
	}

	return w.write(KindTierSummary, state+"_tier_summary.csv", header, rows)
}

// FullState writes every column for every county of a state.
func (w *Writer) FullState(state string, records []domain.TieredRecord) (string, error) {
	ranked := domain.Rank(records, false)

	header := []string{
		"state_code", "county_fips", "county_name", "year_prev", "year_latest",
		"margin_change_abs", "closeness_latest", "turnout_latest", "votes_latest",
		"margin_change_score", "closeness_score", "turnout_score", "votes_score",
		"swing_score", "swing_score_100", "tier",
	}
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{
			r.StateCode,
			domain.FormatFIPS(r.CountyFIPS),
			r.CountyName,
			strconv.Itoa(r.YearPrev),
			strconv.Itoa(r.YearLatest),
			plain(r.MarginChangeAbs),
			plain(r.ClosenessLatest),
			plain(r.TurnoutLatest),
			plain(r.VotesLatest),
			plain(r.MarginChangeScore),
			plain(r.ClosenessScore),
			plain(r.TurnoutScore),
			plain(r.VotesScore),
			plain(r.SwingScore),
			fixed2(r.SwingScore100()),
			string(r.Tier),
		})
	}

	return w.write(KindFullState, state+"_all_counties.csv", header, rows)
}

func (w *Writer) write(kind Kind, filename string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		w.countError()
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(w.outDir, filename)
	f, err := os.Create(path)
	if err != nil {
		w.countError()
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		w.countError()
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			w.countError()
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		w.countError()
		return "", fmt.Errorf("flush %s: %w", path, err)
	}

	if w.metrics != nil {
		w.metrics.ExportRows.WithLabelValues(string(kind)).Add(float64(len(rows)))
	}
	w.logger.Info("wrote export", "kind", string(kind), "path", path, "rows", len(rows))
	return path, nil
}

func (w *Writer) countError() {
	if w.metrics != nil {
		w.metrics.ExportErrors.Inc()
	}
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
