package domain

import "sort"

// Rank orders tiered records for display or export without mutating the
// input. With tierAware set, the primary key is tier rank (S first);
// otherwise records order by score alone. Ties always break by swing score
// descending, then county name ascending, so repeated runs over the same
// input produce identical output.
func Rank(records []TieredRecord, tierAware bool) []TieredRecord {
	out := make([]TieredRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if tierAware && out[i].Tier != out[j].Tier {
			return out[i].Tier.Rank() < out[j].Tier.Rank()
		}
		if out[i].SwingScore != out[j].SwingScore {
			return out[i].SwingScore > out[j].SwingScore
		}
		return out[i].CountyName < out[j].CountyName
	})
	return out
}

// TopN returns the first n records of an already-ranked slice as a new
// slice. A non-positive limit is a ValidationError.
func TopN(records []TieredRecord, n int) ([]TieredRecord, error) {
	if n <= 0 {
		return nil, Validationf("top-N limit must be positive, got %d", n)
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]TieredRecord, n)
	copy(out, records[:n])
	return out, nil
}

// FilterTier returns the records assigned to one tier, preserving order.
func FilterTier(records []TieredRecord, tier Tier) []TieredRecord {
	out := make([]TieredRecord, 0, len(records))
	for _, r := range records {
		if r.Tier == tier {
			out = append(out, r)
		}
	}
	return out
}
