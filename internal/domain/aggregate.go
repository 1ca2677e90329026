package domain

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// PartyLabels maps the DEM/REP/OTHER buckets to the label variants seen in
// raw data ("DEMOCRAT", "DEM", "Democratic", ...). Anything matching neither
// the dem nor rep lists counts as OTHER.
type PartyLabels struct {
	Dem []string
	Rep []string
}

// DefaultPartyLabels covers the label variants in the MIT Election Lab and
// state-published result files.
func DefaultPartyLabels() PartyLabels {
	return PartyLabels{
		Dem: []string{"DEMOCRAT", "DEM", "DEMOCRATIC"},
		Rep: []string{"REPUBLICAN", "REP"},
	}
}

// StandardizeParty buckets a raw party label into "DEM", "REP", or "OTHER".
// Matching is case-insensitive and accepts substrings in either direction so
// "DEMOCRAT", "Democratic-Farmer-Labor", and "DEM" all land in the same bucket.
func StandardizeParty(label string, labels PartyLabels) string {
	s := strings.ToUpper(strings.TrimSpace(label))
	if s == "" {
		return "OTHER"
	}
	if matchesAny(s, labels.Dem) {
		return "DEM"
	}
	if matchesAny(s, labels.Rep) {
		return "REP"
	}
	return "OTHER"
}

func matchesAny(s string, variants []string) bool {
	for _, v := range variants {
		v = strings.ToUpper(v)
		if strings.Contains(s, v) || strings.Contains(v, s) {
			return true
		}
	}
	return false
}

// AggregateCountyYears rolls raw vote rows up to one record per county per
// year, with party totals bucketed into dem/rep/other and the derived margin
// fields. Rows missing a year, county name, or FIPS are skipped with a
// warning; non-numeric vote cells count as zero. Output is sorted by county
// name then year for reproducible downstream processing.
func AggregateCountyYears(rows []RawVoteRow, stateCode string, labels PartyLabels, logger *slog.Logger) []CountyYearRecord {
	type key struct {
		fips string
		year int
	}
	type bucket struct {
		name            string
		dem, rep, other float64
	}

	buckets := make(map[key]*bucket)
	skipped := 0

	for _, row := range rows {
		year, err := strconv.Atoi(strings.TrimSpace(row.Year))
		fips := FormatFIPS(row.CountyFIPS)
		name := strings.TrimSpace(row.CountyName)
		if err != nil || fips == "" || name == "" {
			skipped++
			continue
		}

		votes, err := strconv.ParseFloat(strings.TrimSpace(row.Votes), 64)
		if err != nil {
			votes = 0
		}

		k := key{fips: fips, year: year}
		b, exists := buckets[k]
		if !exists {
			b = &bucket{name: name}
			buckets[k] = b
		}
		switch StandardizeParty(row.Party, labels) {
		case "DEM":
			b.dem += votes
		case "REP":
			b.rep += votes
		default:
			b.other += votes
		}
	}

	if skipped > 0 && logger != nil {
		logger.Warn("skipped malformed vote rows", "state", stateCode, "rows", skipped)
	}

	records := make([]CountyYearRecord, 0, len(buckets))
	for k, b := range buckets {
		total := b.dem + b.rep + b.other
		margin := b.dem - b.rep
		// Zero-total counties keep a zero margin_pct instead of dividing by zero.
		divisor := total
		if divisor == 0 {
			divisor = 1
		}
		records = append(records, CountyYearRecord{
			StateCode:  stateCode,
			CountyFIPS: k.fips,
			CountyName: b.name,
			Year:       k.year,
			DemVotes:   b.dem,
			RepVotes:   b.rep,
			OtherVotes: b.other,
			TotalVotes: total,
			Margin:     margin,
			MarginPct:  margin / divisor,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CountyName != records[j].CountyName {
			return records[i].CountyName < records[j].CountyName
		}
		return records[i].Year < records[j].Year
	})
	return records
}
