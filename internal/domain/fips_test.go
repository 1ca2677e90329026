package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFIPS(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already padded", "09001", "09001"},
		{"bare integer", "9001", "09001"},
		{"short code", "1", "00001"},
		{"float serialization", "13121.0", "13121"},
		{"float losing zeros", "9001.0", "09001"},
		{"five digits", "42101", "42101"},
		{"whitespace", " 42101 ", "42101"},
		{"empty", "", ""},
		{"non-numeric passthrough", "n/a", "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFIPS(tt.in))
		})
	}
}

func TestFormatFIPSNumber(t *testing.T) {
	assert.Equal(t, "09001", FormatFIPSNumber(9001))
	assert.Equal(t, "13121", FormatFIPSNumber(13121.0))
}
