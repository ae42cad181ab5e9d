package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoSeasonLog plays TeamA and TeamB in both seasons; TeamC only
// appears in the second
func twoSeasonLog() []*RawMatch {
	return []*RawMatch{
		raw(1, "2019-08-01", "TeamA", "TeamB", 2, 0),
		raw(1, "2019-08-08", "TeamB", "TeamA", 1, 1),
		raw(1, "2020-08-01", "TeamA", "TeamB", 0, 1),
		raw(1, "2020-08-08", "TeamC", "TeamA", 2, 2),
	}
}

func prevSeasonPanel(t *testing.T, cfg *Config) *Table {
	t.Helper()
	panel := scoredPanel(t, cfg, twoSeasonLog())
	require.NoError(t, AddDailyTables(cfg, panel))
	require.NoError(t, AddPerformance(cfg, panel))
	require.NoError(t, AddPrevSeason(cfg, panel))
	return panel
}

func TestPrevSeasonLookup(t *testing.T) {
	cfg := DefaultConfig()
	panel := prevSeasonPanel(t, cfg)

	// TeamA finished 2019 on 4 points (+2), top of the table
	r := findRow(t, panel, "TeamA", "2020-08-01")
	assert.Equal(t, 1.0, r.PrevSeasonDiv)
	assert.Equal(t, 1.0, r.PrevSeasonTotalRank)
	assert.Equal(t, 1.0, r.PrevSeasonTotalWins)
	assert.Equal(t, 1.0, r.PrevSeasonTotalDraws)
	assert.Equal(t, 0.0, r.PrevSeasonTotalLosses)
	assert.Equal(t, 2.0, r.PrevSeasonTotalGoalDiff)
	assert.InDelta(t, 1.0, r.PrevSeasonTotalPointPerformance, 1e-9)
}

// TestPrevSeasonBeforeDataset covers the first dataset season, where
// no previous season can exist: teams are presumed to have led their
// current division
func TestPrevSeasonBeforeDataset(t *testing.T) {
	cfg := DefaultConfig()
	panel := prevSeasonPanel(t, cfg)

	r := findRow(t, panel, "TeamA", "2019-08-01")
	assert.Equal(t, 1.0, r.PrevSeasonDiv)
	assert.Equal(t, 1.0, r.PrevSeasonTotalRank)
	assert.Zero(t, r.PrevSeasonTotalWins)
	assert.Zero(t, r.PrevSeasonTotalGoalDiff)
}

// TestPrevSeasonAbsentTeam covers a newly appearing team: it is
// presumed to have come up from below the dataset's coverage
func TestPrevSeasonAbsentTeam(t *testing.T) {
	cfg := DefaultConfig()
	panel := prevSeasonPanel(t, cfg)

	r := findRow(t, panel, "TeamC", "2020-08-08")
	assert.Equal(t, float64(cfg.FallbackDivision), r.PrevSeasonDiv)
	assert.Equal(t, float64((cfg.FallbackDivision-1)*cfg.DivisionSize+1), r.PrevSeasonTotalRank)
	assert.Zero(t, r.PrevSeasonTotalWins)
	assert.Zero(t, r.PrevSeasonTotalLosses)
}
