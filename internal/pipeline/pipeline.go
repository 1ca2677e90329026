// Package pipeline orchestrates the load-score-tier flow for a single state,
// from either the precomputed snapshot or raw county vote returns.
package pipeline

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/ballotmetrics/swingscore/internal/observability"
)

// SnapshotSource serves precomputed swing score records.
type SnapshotSource interface {
	States() ([]string, error)
	State(code string) ([]domain.SwingScoreRecord, error)
}

// RawSource reads raw county vote rows for a state.
type RawSource interface {
	LoadState(state string) ([]domain.RawVoteRow, error)
}

// Result is one state's scored and tiered counties.
type Result struct {
	State    string                `json:"state"`
	Source   string                `json:"source"`
	Counties []domain.TieredRecord `json:"counties"`
}

// Pipeline wires the data sources to the scoring domain and records
// observability for each run.
type Pipeline struct {
	snapshot SnapshotSource
	raw      RawSource
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool

	yearPrev   int
	yearLatest int
	baseline   domain.TurnoutBaseline
	labels     domain.PartyLabels
}

// Options carries the scoring parameters shared by every run.
type Options struct {
	YearPrev   int
	YearLatest int
	Baseline   domain.TurnoutBaseline
	Labels     domain.PartyLabels
}

// New creates a Pipeline over the given sources. raw may be nil when only
// snapshot-backed scoring is needed.
func New(snapshot SnapshotSource, raw RawSource, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		snapshot:   snapshot,
		raw:        raw,
		logger:     logger,
		metrics:    metrics,
		yearPrev:   opts.YearPrev,
		yearLatest: opts.YearLatest,
		baseline:   opts.Baseline,
		labels:     opts.Labels,
	}
}

// States lists the state codes available in the snapshot.
func (p *Pipeline) States() ([]string, error) {
	return p.snapshot.States()
}

// CheckReadiness returns nil once the snapshot has been read successfully,
// probing it on first call.
func (p *Pipeline) CheckReadiness() error {
	if p.ready.Load() {
		return nil
	}
	if _, err := p.snapshot.States(); err != nil {
		p.metrics.SnapshotReady.Set(0)
		return errors.New("snapshot not readable")
	}
	p.metrics.SnapshotReady.Set(1)
	p.ready.Store(true)
	return nil
}

// FromSnapshot scores a state from the precomputed snapshot. With nil weights
// the stored scores are used as-is; otherwise scores are recomputed from the
// stored normalized components under the given weights.
func (p *Pipeline) FromSnapshot(state string, weights domain.Weights) (Result, error) {
	start := time.Now()

	records, err := p.snapshot.State(state)
	if err != nil {
		p.observe(state, "snapshot", "error", start)
		return Result{}, err
	}

	if weights != nil {
		reweighted, err := domain.ReweightScores(records, weights)
		if err != nil {
			p.observe(state, "snapshot", "error", start)
			return Result{}, err
		}
		if skipped := len(records) - len(reweighted); skipped > 0 {
			p.metrics.CountiesSkipped.Add(float64(skipped))
			p.logger.Warn("counties excluded from reweighting",
				"state", state, "skipped", skipped)
		}
		records = reweighted
	}

	tiered, err := domain.AssignTiers(records)
	if err != nil {
		p.observe(state, "snapshot", "error", start)
		return Result{}, err
	}

	p.metrics.CountiesScored.Add(float64(len(tiered)))
	p.observe(state, "snapshot", "success", start)
	p.ready.Store(true)

	return Result{State: state, Source: "snapshot", Counties: tiered}, nil
}

// FromRaw scores a state from raw vote returns: aggregate rows into
// county-year records, compute components and scores, then assign tiers.
func (p *Pipeline) FromRaw(state string, weights domain.Weights) (Result, error) {
	start := time.Now()

	if p.raw == nil {
		p.observe(state, "raw", "error", start)
		return Result{}, domain.Configurationf("no raw data source configured")
	}
	if weights == nil {
		weights = domain.DefaultWeights()
	}

	rows, err := p.raw.LoadState(state)
	if err != nil {
		p.observe(state, "raw", "error", start)
		return Result{}, err
	}

	countyYears := domain.AggregateCountyYears(rows, state, p.labels, p.logger)

	scored, err := domain.ComputeSwingScores(countyYears, p.yearPrev, p.yearLatest, weights, p.baseline)
	if err != nil {
		p.observe(state, "raw", "error", start)
		return Result{}, err
	}

	if skipped := countCounties(countyYears) - len(scored); skipped > 0 {
		p.metrics.CountiesSkipped.Add(float64(skipped))
		p.logger.Warn("counties excluded from scoring",
			"state", state, "skipped", skipped)
	}

	tiered, err := domain.AssignTiers(scored)
	if err != nil {
		p.observe(state, "raw", "error", start)
		return Result{}, err
	}

	p.metrics.CountiesScored.Add(float64(len(tiered)))
	p.observe(state, "raw", "success", start)

	return Result{State: state, Source: "raw", Counties: tiered}, nil
}

func (p *Pipeline) observe(state, source, outcome string, start time.Time) {
	p.metrics.StatesScored.WithLabelValues(state, source, outcome).Inc()
	p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
}

func countCounties(records []domain.CountyYearRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.CountyFIPS] = struct{}{}
	}
	return len(seen)
}
