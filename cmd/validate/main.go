// Command validate performs integrity checks across the election data
// artifacts: the snapshot JSON, the raw county vote CSVs, and the scoring
// consistency between them. It verifies FIPS formatting, score ranges,
// component presence, and snapshot-vs-recomputed agreement.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -snapshot data/swing_scores_all_states.json \
//	  -raw-dir data/raw
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"regexp"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/ballotmetrics/swingscore/internal/ingest"
	"github.com/ballotmetrics/swingscore/internal/snapshot"
)

const (
	yearPrev   = 2020
	yearLatest = 2022
)

var fipsRe = regexp.MustCompile(`^\d{5}$`)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	snapshotPath := flag.String("snapshot", "", "path to snapshot JSON artifact")
	rawDir := flag.String("raw-dir", "", "directory containing raw vote CSVs (optional; enables recompute checks)")
	flag.Parse()

	if *snapshotPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*snapshotPath, *rawDir); code != 0 {
		os.Exit(code)
	}
}

func run(snapshotPath, rawDir string) int {
	// Fixed clock so recomputed records carry a stable computed_at.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2022, time.December, 1, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Swing Score Data Integrity Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := snapshot.New(snapshotPath, logger)

	states, err := loader.States()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load snapshot: %v\n", err)
		return 1
	}
	fmt.Printf("snapshot: %d states\n", len(states))

	byState := make(map[string][]domain.SwingScoreRecord, len(states))
	for _, state := range states {
		records, err := loader.State(state)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load state %s: %v\n", state, err)
			return 1
		}
		byState[state] = records
	}

	phases := []*phase{
		validateSnapshotSchema(byState),
		validateTierCoverage(byState),
	}
	if rawDir != "" {
		phases = append(phases, validateRecompute(byState, rawDir, logger))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Snapshot Schema ──
// Validates field formats and value ranges for every county record.

func validateSnapshotSchema(byState map[string][]domain.SwingScoreRecord) *phase {
	p := &phase{name: "Phase 1: Snapshot Schema"}

	for state, records := range byState {
		if len(records) == 0 {
			p.errorf("%s: no counties", state)
			continue
		}
		seen := map[string]bool{}
		for _, r := range records {
			checkSnapshotRecord(p, state, r, seen)
		}
	}
	return p
}

func checkSnapshotRecord(p *phase, state string, r domain.SwingScoreRecord, seen map[string]bool) {
	if !fipsRe.MatchString(r.CountyFIPS) {
		p.errorf("%s %s: FIPS %q is not 5 digits", state, r.CountyName, r.CountyFIPS)
	}
	if seen[r.CountyFIPS] {
		p.errorf("%s: duplicate FIPS %s", state, r.CountyFIPS)
	}
	seen[r.CountyFIPS] = true

	if r.SwingScore < 0 || r.SwingScore > 1 {
		p.errorf("%s %s: swing_score %g outside [0,1]", state, r.CountyFIPS, r.SwingScore)
	}
	for _, c := range domain.AllComponents {
		v := r.NormalizedComponent(c)
		if math.IsNaN(v) {
			continue // absent component, legal
		}
		if v < 0 || v > 1 {
			p.errorf("%s %s: %s score %g outside [0,1]", state, r.CountyFIPS, c, v)
		}
	}
	if r.TurnoutLatest < 0 || r.VotesLatest < 0 {
		p.errorf("%s %s: negative vote totals", state, r.CountyFIPS)
	}
}

// ── Phase 2: Tier Coverage ──
// Every stored score must classify into exactly one tier.

func validateTierCoverage(byState map[string][]domain.SwingScoreRecord) *phase {
	p := &phase{name: "Phase 2: Tier Coverage"}

	for state, records := range byState {
		tiered, err := domain.AssignTiers(records)
		if err != nil {
			p.errorf("%s: tier assignment failed: %v", state, err)
			continue
		}
		counts := domain.TierCounts(tiered)
		total := 0
		for _, t := range domain.TierOrder {
			total += counts[t]
		}
		if total != len(records) {
			p.errorf("%s: %d counties but %d tier assignments", state, len(records), total)
		}
	}
	return p
}

// ── Phase 3: Recompute Consistency ──
// Re-scores each state from the raw CSVs and compares against the snapshot.

func validateRecompute(byState map[string][]domain.SwingScoreRecord, rawDir string, logger *slog.Logger) *phase {
	p := &phase{name: "Phase 3: Recompute Consistency"}

	rawLoader := ingest.New(rawDir, ingest.DefaultColumnMap(), logger)

	for state, stored := range byState {
		rows, err := rawLoader.LoadState(state)
		if err != nil {
			p.errorf("%s: load raw rows: %v", state, err)
			continue
		}

		countyYears := domain.AggregateCountyYears(rows, state, domain.DefaultPartyLabels(), logger)
		recomputed, err := domain.ComputeSwingScores(countyYears, yearPrev, yearLatest, domain.DefaultWeights(), domain.TurnoutLatestVotes)
		if err != nil {
			p.errorf("%s: recompute: %v", state, err)
			continue
		}

		recomputedByFIPS := make(map[string]domain.SwingScoreRecord, len(recomputed))
		for _, r := range recomputed {
			recomputedByFIPS[r.CountyFIPS] = r
		}

		for _, s := range stored {
			r, ok := recomputedByFIPS[s.CountyFIPS]
			if !ok {
				p.errorf("%s %s: in snapshot but not recomputable from raw data", state, s.CountyFIPS)
				continue
			}
			if !floatEq(s.SwingScore, r.SwingScore, 1e-6) {
				p.errorf("%s %s: swing_score snapshot=%.6f recomputed=%.6f", state, s.CountyFIPS, s.SwingScore, r.SwingScore)
			}
		}
		if extra := len(recomputed) - len(stored); extra > 0 {
			p.errorf("%s: raw data yields %d counties, snapshot has %d", state, len(recomputed), len(stored))
		}
	}
	return p
}

func floatEq(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}
