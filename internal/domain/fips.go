package domain

import (
	"strconv"
	"strings"
)

// FormatFIPS normalizes a county FIPS value to a zero-padded 5-digit string.
// Upstream sources are inconsistent: some carry ints (13121), some floats
// serialized as "13121.0", some already-padded strings. Bare integers lose
// leading zeros downstream (Connecticut's 09001 becomes 9001 in a
// spreadsheet), so every export path goes through this.
func FormatFIPS(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if s == "" || !isDigits(s) {
		return s
	}
	if len(s) >= 5 {
		return s
	}
	return strings.Repeat("0", 5-len(s)) + s
}

// FormatFIPSNumber normalizes a numeric FIPS (as parsed from JSON) to a
// zero-padded 5-digit string.
func FormatFIPSNumber(value float64) string {
	return FormatFIPS(strconv.FormatInt(int64(value), 10))
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
