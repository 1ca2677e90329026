// Command swingscore scores a state's counties and prints or exports the
// ranked results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ballotmetrics/swingscore/internal/config"
	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/ballotmetrics/swingscore/internal/export"
	"github.com/ballotmetrics/swingscore/internal/ingest"
	"github.com/ballotmetrics/swingscore/internal/observability"
	"github.com/ballotmetrics/swingscore/internal/pipeline"
	"github.com/ballotmetrics/swingscore/internal/snapshot"
	"github.com/ballotmetrics/swingscore/internal/store"
)

type cliOptions struct {
	configPath string
	state      string
	top        int
	weights    string
	tier       string
	exports    exportFlag
	guide      bool
	fromRaw    bool
}

// exportFlag accepts both the bare form (--export, every kind) and an
// enumerated list (--export=top,tier_summary).
type exportFlag struct {
	kinds []export.Kind
}

func allExportKinds() []export.Kind {
	return []export.Kind{export.KindTop, export.KindFullState, export.KindTierSummary}
}

func (f *exportFlag) String() string {
	parts := make([]string, 0, len(f.kinds))
	for _, k := range f.kinds {
		parts = append(parts, string(k))
	}
	return strings.Join(parts, ",")
}

// IsBoolFlag lets the flag package accept --export without a value.
func (f *exportFlag) IsBoolFlag() bool { return true }

func (f *exportFlag) Set(v string) error {
	switch strings.TrimSpace(v) {
	case "", "true":
		f.kinds = allExportKinds()
		return nil
	case "false":
		f.kinds = nil
		return nil
	}
	kinds, err := parseExportKinds(v)
	if err != nil {
		return err
	}
	f.kinds = kinds
	return nil
}

func main() {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "path to config file (optional)")
	flag.StringVar(&opts.state, "state", "", "two-letter state code (default: all configured states)")
	flag.IntVar(&opts.top, "top", 20, "number of counties to display")
	flag.StringVar(&opts.weights, "weights", "", "comma-separated weights: closeness,margin_change or margin_change,closeness,turnout,votes")
	flag.StringVar(&opts.tier, "tier", "", "show only counties in this tier (S, A, B, C, or D)")
	flag.Var(&opts.exports, "export", "write CSV exports; bare --export writes every kind, or pass a comma-separated subset of top, full, tier_summary")
	flag.BoolVar(&opts.guide, "guide", false, "print the tier guide and exit")
	flag.BoolVar(&opts.fromRaw, "from-raw", false, "score from raw vote returns instead of the snapshot")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps bad-input errors to 2 and everything else to 1.
func exitCode(err error) int {
	var (
		valErr *domain.ValidationError
		cfgErr *domain.ConfigurationError
	)
	if errors.As(err, &valErr) || errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}

func run(opts cliOptions) error {
	if opts.guide {
		printGuide(os.Stdout)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Logging.Level, "text")
	metrics := observability.NewMetricsForTesting() // one-shot run, nothing scrapes the registry

	var weights domain.Weights
	if opts.weights != "" {
		if weights, err = domain.ParseWeights(opts.weights); err != nil {
			return err
		}
	}

	var tier domain.Tier
	if opts.tier != "" {
		if tier, err = domain.ParseTier(opts.tier); err != nil {
			return err
		}
	}

	kinds := opts.exports.kinds

	p := pipeline.New(
		snapshot.New(cfg.Data.SnapshotPath, logger),
		ingest.New(cfg.Data.RawDir, cfg.ColumnMap(), logger),
		pipeline.Options{
			YearPrev:   cfg.Scoring.YearPrev,
			YearLatest: cfg.Scoring.YearLatest,
			Baseline:   cfg.Baseline(),
			Labels:     cfg.PartyLabels(),
		}, logger, metrics)

	states := cfg.Scoring.DefaultStates
	if opts.state != "" {
		states = []string{strings.ToUpper(opts.state)}
	}

	var writer *export.Writer
	var runStore *store.Store
	if len(kinds) > 0 {
		writer = export.New(cfg.Data.OutputDir, metrics, logger)
		runStore, err = store.Open(context.Background(), cfg.Store.Path)
		if err != nil {
			return err
		}
		defer runStore.Close()
	}

	// Snapshot scoring with nil weights keeps the stored scores; raw scoring
	// always needs a weight vector, so fall back to the configured one.
	rawWeights := weights
	if opts.fromRaw && rawWeights == nil {
		rawWeights = cfg.Weights()
	}

	for _, state := range states {
		result, err := scoreState(p, state, weights, rawWeights, opts.fromRaw)
		if err != nil {
			return err
		}
		if len(result.Counties) == 0 {
			return &domain.DataError{County: state, Msg: "no counties found for state"}
		}

		if err := display(os.Stdout, result, tier, opts.top); err != nil {
			return err
		}

		if writer != nil {
			if err := exportState(runStore, writer, result, kinds, opts.top, logger); err != nil {
				return err
			}
		}
	}
	return nil
}

func scoreState(p *pipeline.Pipeline, state string, weights, rawWeights domain.Weights, fromRaw bool) (pipeline.Result, error) {
	if fromRaw {
		return p.FromRaw(state, rawWeights)
	}
	return p.FromSnapshot(state, weights)
}

func display(w *os.File, result pipeline.Result, tier domain.Tier, top int) error {
	counties := result.Counties
	if tier != "" {
		counties = domain.FilterTier(counties, tier)
	}
	shown, err := domain.TopN(counties, top)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s (source: %s)\n\n", result.State, result.Source)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCOUNTY\tFIPS\tSCORE\tTIER\tΔMARGIN%\t|MARGIN|%\tVOTES")
	for i, c := range shown {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\t%.2f\t%.2f\t%.0f\n",
			i+1, c.CountyName, domain.FormatFIPS(c.CountyFIPS), c.SwingScore100(), c.Tier,
			c.MarginChangeAbs*100, (1-c.ClosenessLatest)*100, c.VotesLatest)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lo, hi, mean := scoreStats(result.Counties)
	fmt.Fprintf(w, "\n%d counties scored  min=%.2f max=%.2f mean=%.2f\n",
		len(result.Counties), lo, hi, mean)

	counts := domain.TierCounts(result.Counties)
	parts := make([]string, 0, len(domain.TierOrder))
	for _, t := range domain.TierOrder {
		parts = append(parts, fmt.Sprintf("%s:%d", t, counts[t]))
	}
	fmt.Fprintf(w, "tiers: %s\n", strings.Join(parts, "  "))
	return nil
}

func scoreStats(counties []domain.TieredRecord) (lo, hi, mean float64) {
	if len(counties) == 0 {
		return 0, 0, 0
	}
	lo, hi = counties[0].SwingScore100(), counties[0].SwingScore100()
	sum := 0.0
	for _, c := range counties {
		s := c.SwingScore100()
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
		sum += s
	}
	return lo, hi, sum / float64(len(counties))
}

func exportState(runStore *store.Store, writer *export.Writer, result pipeline.Result, kinds []export.Kind, top int, logger *slog.Logger) error {
	for _, kind := range kinds {
		var (
			path string
			rows = len(result.Counties)
			err  error
		)
		switch kind {
		case export.KindTop:
			path, err = writer.TopCounties(result.State, result.Counties, top)
			if top < rows {
				rows = top
			}
		case export.KindFullState:
			path, err = writer.FullState(result.State, result.Counties)
		case export.KindTierSummary:
			path, err = writer.TierSummary(result.State, result.Counties)
		}
		if err != nil {
			return err
		}

		if _, err := runStore.RecordRun(context.Background(), store.Run{
			State: result.State,
			Kind:  string(kind),
			Rows:  rows,
			Path:  path,
		}); err != nil {
			return err
		}
		logger.Info("exported", "state", result.State, "kind", kind, "rows", rows, "path", path)
	}
	return nil
}

func parseExportKinds(spec string) ([]export.Kind, error) {
	if spec == "" {
		return nil, nil
	}
	var kinds []export.Kind
	for _, part := range strings.Split(spec, ",") {
		switch k := export.Kind(strings.TrimSpace(part)); k {
		case export.KindTop, export.KindFullState, export.KindTierSummary:
			kinds = append(kinds, k)
		default:
			return nil, domain.Configurationf("unknown export kind %q (want top, full, or tier_summary)", part)
		}
	}
	return kinds, nil
}

func printGuide(w *os.File) {
	fmt.Fprintln(w, "Swing score tiers (0-100 scale):")
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range domain.TierOrder {
		lo, hi := t.Bounds()
		fmt.Fprintf(tw, "%s\t%.0f-%.0f\t%s\n", t, lo, hi, t.Description())
	}
	tw.Flush()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scores combine margin change, closeness, turnout, and total votes,")
	fmt.Fprintln(w, "each min-max normalized within the state and weighted equally by default.")
}
