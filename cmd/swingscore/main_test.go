package main

import (
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotmetrics/swingscore/internal/domain"
	"github.com/ballotmetrics/swingscore/internal/export"
)

func TestExportFlag(t *testing.T) {
	t.Run("bare flag selects every kind", func(t *testing.T) {
		fs := flag.NewFlagSet("swingscore", flag.ContinueOnError)
		var f exportFlag
		fs.Var(&f, "export", "")

		require.NoError(t, fs.Parse([]string{"--export"}))
		assert.Equal(t, allExportKinds(), f.kinds)
	})

	t.Run("enumerated subset", func(t *testing.T) {
		var f exportFlag
		require.NoError(t, f.Set("top,tier_summary"))
		assert.Equal(t, []export.Kind{export.KindTop, export.KindTierSummary}, f.kinds)
	})

	t.Run("false disables", func(t *testing.T) {
		var f exportFlag
		require.NoError(t, f.Set("false"))
		assert.Empty(t, f.kinds)
	})

	t.Run("unknown kind", func(t *testing.T) {
		var f exportFlag
		err := f.Set("top,xml")
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestParseExportKinds(t *testing.T) {
	t.Run("empty means none", func(t *testing.T) {
		kinds, err := parseExportKinds("")
		require.NoError(t, err)
		assert.Empty(t, kinds)
	})

	t.Run("whitespace tolerated", func(t *testing.T) {
		kinds, err := parseExportKinds("full, top")
		require.NoError(t, err)
		assert.Equal(t, []export.Kind{export.KindFullState, export.KindTop}, kinds)
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(domain.Validationf("bad state")))
	assert.Equal(t, 2, exitCode(domain.Configurationf("bad weights")))
	assert.Equal(t, 1, exitCode(&domain.DataError{Msg: "missing snapshot"}))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
