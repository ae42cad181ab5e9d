package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchScores(t *testing.T) {
	cfg := DefaultConfig()
	panel := scoredPanel(t, cfg, []*RawMatch{
		raw(1, "2020-08-01", "TeamA", "TeamB", 2, 0),
		raw(1, "2020-08-08", "TeamA", "TeamB", 1, 1),
	})

	win := findRow(t, panel, "TeamA", "2020-08-01")
	loss := findRow(t, panel, "TeamB", "2020-08-01")
	drawA := findRow(t, panel, "TeamA", "2020-08-08")
	drawB := findRow(t, panel, "TeamB", "2020-08-08")

	assert.Equal(t, 3, win.Points)
	assert.Equal(t, 0, loss.Points)
	assert.Equal(t, 1, drawA.Points)
	assert.Equal(t, 1, drawB.Points)
	assert.Equal(t, 2, win.GoalDiff)
	assert.Equal(t, -2, loss.GoalDiff)
	assert.Equal(t, 0, drawA.GoalDiff)
}

func TestAddScoresRequiresColumns(t *testing.T) {
	cfg := DefaultConfig()
	bare := NewTable(nil, ColSeason, ColTeam)
	err := AddScores(cfg, bare)
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Columns, ColGoalsFor)
}

// TestCumulativeConsistency checks the core leakage guarantee: the
// pre-match totals on every row equal the post-match totals minus the
// row's own contribution, and a team's first match starts from zero.
func TestCumulativeConsistency(t *testing.T) {
	cfg := DefaultConfig()
	panel := scoredPanel(t, cfg, []*RawMatch{
		raw(1, "2020-08-01", "TeamA", "TeamB", 2, 0),
		raw(1, "2020-08-08", "TeamB", "TeamA", 3, 1),
		raw(1, "2020-08-15", "TeamA", "TeamB", 1, 1),
	})

	seen := map[string]bool{}
	for _, r := range panel.Rows {
		assert.Equal(t, r.PostTotalGoalsFor-r.GoalsFor, r.PreTotalGoalsFor)
		assert.Equal(t, r.PostTotalGoalsAgainst-r.GoalsAgainst, r.PreTotalGoalsAgainst)
		assert.Equal(t, r.PostTotalGoalDiff-r.GoalDiff, r.PreTotalGoalDiff)
		assert.Equal(t, r.PostTotalPoints-r.Points, r.PreTotalPoints)
		assert.Equal(t, r.PostTotalWins+r.PostTotalDraws+r.PostTotalLosses,
			r.PreTotalWins+r.PreTotalDraws+r.PreTotalLosses+1,
			"every match adds exactly one outcome")

		if !seen[r.Team] {
			assert.Zero(t, r.PreTotalPoints, "first match must start at zero")
			assert.Zero(t, r.PreTotalGoalsFor)
			assert.Zero(t, r.PreTotalWins)
			seen[r.Team] = true
		}
	}

	last := findRow(t, panel, "TeamA", "2020-08-15")
	assert.Equal(t, 4, last.PostTotalGoalsFor)
	assert.Equal(t, 4, last.PostTotalGoalsAgainst)
	assert.Equal(t, 4, last.PostTotalPoints)
	assert.Equal(t, 1, last.PostTotalWins)
	assert.Equal(t, 1, last.PostTotalDraws)
	assert.Equal(t, 1, last.PostTotalLosses)
}

// TestCumulationsResetPerSeason makes sure totals never carry across
// the season boundary
func TestCumulationsResetPerSeason(t *testing.T) {
	cfg := DefaultConfig()
	panel := scoredPanel(t, cfg, []*RawMatch{
		raw(1, "2020-08-01", "TeamA", "TeamB", 2, 0),
		raw(1, "2021-08-01", "TeamA", "TeamB", 1, 0),
	})

	second := findRow(t, panel, "TeamA", "2021-08-01")
	assert.Equal(t, 2021, second.Season)
	assert.Zero(t, second.PreTotalPoints)
	assert.Equal(t, 3, second.PostTotalPoints)
}
