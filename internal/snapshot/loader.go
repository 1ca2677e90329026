// Package snapshot loads precomputed county swing scores from the snapshot
// JSON artifact: a mapping from state code to a list of county records
// carrying raw components, normalized component scores, and the swing score.
package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ballotmetrics/swingscore/internal/domain"
)

var stateCodeRe = regexp.MustCompile(`^[A-Za-z]{2}$`)

// Loader reads the snapshot file fresh on every call; nothing is cached, so
// a replaced artifact takes effect on the next invocation.
type Loader struct {
	path   string
	logger *slog.Logger
}

// New creates a Loader for the given snapshot path.
func New(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{path: path, logger: logger}
}

// fips accepts the inconsistent upstream encodings of a county FIPS:
// "13121", 13121, and 13121.0 all decode to the padded string "13121".
type fips string

func (f *fips) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = fips(domain.FormatFIPS(str))
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("county_fips %s: %w", s, err)
	}
	*f = fips(domain.FormatFIPSNumber(n))
	return nil
}

// countyRecord is the on-disk shape of one county entry. Normalized score
// fields are pointers so an absent component is distinguishable from a
// legitimate zero and can be excluded from reweighted aggregation.
type countyRecord struct {
	StateCode  string `json:"state_code"`
	CountyName string `json:"county_name"`
	CountyFIPS fips   `json:"county_fips"`
	YearPrev   int    `json:"year_prev"`
	YearLatest int    `json:"year_latest"`

	MarginChangeAbs float64 `json:"margin_change_abs"`
	ClosenessLatest float64 `json:"closeness_latest"`
	TurnoutLatest   float64 `json:"turnout_latest"`
	VotesLatest     float64 `json:"votes_latest"`

	MarginChangeScore *float64 `json:"margin_change_score"`
	ClosenessScore    *float64 `json:"closeness_score"`
	TurnoutScore      *float64 `json:"turnout_score"`
	VotesScore        *float64 `json:"votes_score"`

	SwingScore *float64 `json:"swing_score"`
}

// load reads and decodes the whole snapshot. An unreadable or malformed
// artifact is a fatal DataError.
func (l *Loader) load() (map[string][]countyRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, &domain.DataError{Msg: fmt.Sprintf("read snapshot %s", l.path), Err: err}
	}
	var states map[string][]countyRecord
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, &domain.DataError{Msg: fmt.Sprintf("decode snapshot %s", l.path), Err: err}
	}
	return states, nil
}

// States returns the state codes present in the snapshot, sorted.
func (l *Loader) States() ([]string, error) {
	states, err := l.load()
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(states))
	for code := range states {
		codes = append(codes, strings.ToUpper(code))
	}
	sort.Strings(codes)
	return codes, nil
}

// State returns one state's records ordered by swing score descending.
// The code must be two letters (ValidationError otherwise); an unknown state
// yields an empty slice. Counties missing identifiers or a swing score are
// skipped with a warning rather than failing the run.
func (l *Loader) State(code string) ([]domain.SwingScoreRecord, error) {
	if !stateCodeRe.MatchString(code) {
		return nil, domain.Validationf("invalid state code %q", code)
	}
	code = strings.ToUpper(code)

	states, err := l.load()
	if err != nil {
		return nil, err
	}

	records := make([]domain.SwingScoreRecord, 0, len(states[code]))
	for _, c := range states[code] {
		if c.CountyFIPS == "" || c.CountyName == "" {
			l.logger.Warn("skipping county with missing identifiers",
				"state", code, "county_name", c.CountyName, "county_fips", string(c.CountyFIPS))
			continue
		}
		if c.SwingScore == nil {
			l.logger.Warn("skipping county with no swing score",
				"state", code, "county_fips", string(c.CountyFIPS))
			continue
		}
		records = append(records, domain.SwingScoreRecord{
			StateCode:         code,
			CountyFIPS:        string(c.CountyFIPS),
			CountyName:        c.CountyName,
			YearPrev:          c.YearPrev,
			YearLatest:        c.YearLatest,
			MarginChangeAbs:   c.MarginChangeAbs,
			ClosenessLatest:   c.ClosenessLatest,
			TurnoutLatest:     c.TurnoutLatest,
			VotesLatest:       c.VotesLatest,
			MarginChangeScore: orNaN(c.MarginChangeScore),
			ClosenessScore:    orNaN(c.ClosenessScore),
			TurnoutScore:      orNaN(c.TurnoutScore),
			VotesScore:        orNaN(c.VotesScore),
			SwingScore:        *c.SwingScore,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SwingScore != records[j].SwingScore {
			return records[i].SwingScore > records[j].SwingScore
		}
		return records[i].CountyName < records[j].CountyName
	})
	return records, nil
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
