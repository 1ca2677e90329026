// Command genmock generates deterministic mock election fixtures: raw
// county vote CSVs plus the matching snapshot JSON. It runs the actual
// scoring domain so the snapshot matches real pipeline output.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -raw-dir data/mock/raw \
//	  -snapshot-out data/mock/swing_scores_all_states.json \
//	  -states PA,GA,MI
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ballotmetrics/swingscore/internal/domain"
)

const (
	yearPrev   = 2020
	yearLatest = 2022
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rawDir := flag.String("raw-dir", "", "output directory for raw vote CSVs")
	snapshotOut := flag.String("snapshot-out", "", "output path for snapshot JSON fixture")
	states := flag.String("states", "PA,GA,MI", "comma-separated state codes to generate")
	counties := flag.Int("counties", 12, "counties per state")
	seed := flag.Int64("seed", 20221108, "random seed for vote counts")
	flag.Parse()

	if *rawDir == "" || *snapshotOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-dir, -snapshot-out")
	}

	// Fixed clock for reproducible computed_at timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2022, time.December, 1, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewSource(*seed))
	snapshotData := make(map[string][]domain.SwingScoreRecord)

	for i, state := range strings.Split(*states, ",") {
		state = strings.ToUpper(strings.TrimSpace(state))

		rows := generateRows(rng, state, 40+i, *counties)
		if err := writeCSV(filepath.Join(*rawDir, fmt.Sprintf("%s_%d_%d.csv", state, yearPrev, yearLatest)), rows); err != nil {
			return fmt.Errorf("writing %s raw fixture: %w", state, err)
		}

		countyYears := domain.AggregateCountyYears(rows, state, domain.DefaultPartyLabels(), nil)
		scored, err := domain.ComputeSwingScores(countyYears, yearPrev, yearLatest, domain.DefaultWeights(), domain.TurnoutLatestVotes)
		if err != nil {
			return fmt.Errorf("scoring %s: %w", state, err)
		}
		snapshotData[state] = scored
		log.Printf("%s: %d counties scored", state, len(scored))
	}

	if err := writeJSON(*snapshotOut, snapshotData); err != nil {
		return fmt.Errorf("writing snapshot fixture: %w", err)
	}
	log.Printf("wrote snapshot fixture: %s", *snapshotOut)

	printStats(snapshotData)
	return nil
}

// generateRows produces both years' DEM/REP/OTHER rows for every county in
// one state. stateNum seeds the fake FIPS prefix.
func generateRows(rng *rand.Rand, state string, stateNum, counties int) []domain.RawVoteRow {
	rows := make([]domain.RawVoteRow, 0, counties*6)

	for c := 0; c < counties; c++ {
		name := fmt.Sprintf("%s County %02d", state, c+1)
		fips := fmt.Sprintf("%02d%03d", stateNum, c*2+1)

		base := 2000 + rng.Intn(200000)
		lean := rng.Float64()*0.5 - 0.25 // dem share offset in [-0.25, 0.25)
		shift := rng.Float64()*0.12 - 0.06

		for _, y := range []struct {
			year int
			lean float64
		}{
			{yearPrev, lean},
			{yearLatest, lean + shift},
		} {
			total := base + rng.Intn(base/4+1)
			demShare := 0.48 + y.lean
			dem := int(float64(total) * demShare)
			other := total / 50
			rep := total - dem - other

			rows = append(rows,
				voteRow(y.year, state, name, fips, "DEMOCRAT", dem),
				voteRow(y.year, state, name, fips, "REPUBLICAN", rep),
				voteRow(y.year, state, name, fips, "OTHER", other),
			)
		}
	}
	return rows
}

func voteRow(year int, state, name, fips, party string, votes int) domain.RawVoteRow {
	return domain.RawVoteRow{
		Year:       fmt.Sprintf("%d", year),
		StatePO:    state,
		CountyName: name,
		CountyFIPS: fips,
		Party:      party,
		Votes:      fmt.Sprintf("%d", votes),
	}
}

func writeCSV(path string, rows []domain.RawVoteRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"year", "state_po", "county_name", "county_fips", "party_simplified", "votes"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Year, r.StatePO, r.CountyName, r.CountyFIPS, r.Party, r.Votes}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(snapshotData map[string][]domain.SwingScoreRecord) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	for state, scored := range snapshotData {
		tiered, err := domain.AssignTiers(scored)
		if err != nil {
			fmt.Printf("%s: tier assignment failed: %v\n", state, err)
			continue
		}
		counts := domain.TierCounts(tiered)
		fmt.Printf("%s: %d counties, tiers S=%d A=%d B=%d C=%d D=%d\n",
			state, len(tiered),
			counts[domain.TierS], counts[domain.TierA], counts[domain.TierB],
			counts[domain.TierC], counts[domain.TierD])
		if len(tiered) > 0 {
			top := tiered[0]
			fmt.Printf("  top: %s (%s) score=%.4f tier=%s\n",
				top.CountyName, top.CountyFIPS, top.SwingScore100(), top.Tier)
		}
	}
}
