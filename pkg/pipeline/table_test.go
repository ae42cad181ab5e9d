package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTwoTeamToyLeague walks the canonical two-team scenario through
// scoring and the daily table: a 2-0 win on day one, a 1-1 draw on day
// two.
func TestTwoTeamToyLeague(t *testing.T) {
	cfg := DefaultConfig()
	panel := scoredPanel(t, cfg, toyLeague())
	require.NoError(t, AddDailyTables(cfg, panel))

	day1A := findRow(t, panel, "TeamA", "2020-08-01")
	day1B := findRow(t, panel, "TeamB", "2020-08-01")
	assert.Equal(t, 3, day1A.PostTotalPoints)
	assert.Equal(t, 0, day1B.PostTotalPoints)
	assert.Equal(t, 1, day1A.PostRank)
	assert.Equal(t, 2, day1B.PostRank)
	// before any match both teams stand at zero and share the top rank
	assert.Equal(t, 1, day1A.PreRank)
	assert.Equal(t, 1, day1B.PreRank)

	day2A := findRow(t, panel, "TeamA", "2020-08-02")
	day2B := findRow(t, panel, "TeamB", "2020-08-02")
	assert.Equal(t, 4, day2A.PostTotalPoints)
	assert.Equal(t, 1, day2B.PostTotalPoints)
	assert.Equal(t, 1, day2A.PostRank)
	assert.Equal(t, 2, day2B.PostRank)
	// day-two pre state is day one's table
	assert.Equal(t, 1, day2A.PreRank)
	assert.Equal(t, 2, day2B.PreRank)

	assert.Equal(t, 4, day2A.PostMaxTotalPoints)
	assert.Equal(t, 1, day2A.PostMinTotalPoints)
	assert.Equal(t, 3, day2A.PreMaxTotalPoints)
	assert.Equal(t, 0, day2A.PreMinTotalPoints)
}

// TestDailyTableForwardFill verifies that idle teams keep their state
// across calendar days and that a team joining late stands at zero
// until its first match
func TestDailyTableForwardFill(t *testing.T) {
	cfg := DefaultConfig()
	panel := scoredPanel(t, cfg, []*RawMatch{
		raw(1, "2020-08-01", "TeamA", "TeamB", 1, 0),
		raw(1, "2020-08-02", "TeamC", "TeamD", 2, 2),
		// TeamB idle on day two, TeamE absent until day three
		raw(1, "2020-08-03", "TeamE", "TeamB", 0, 0),
	})

	entries := createDailyTables(panel)
	forwardFill(entries)

	// five teams, three match days in one season/division
	require.Len(t, entries, 15)

	state := func(team, date string) *tableEntry {
		for _, e := range entries {
			if e.team == team && e.date.Equal(day(date)) {
				return e
			}
		}
		t.Fatalf("no snapshot entry for %s on %s", team, date)
		return nil
	}

	// TeamB carries its day-one loss through its idle day
	idle := state("TeamB", "2020-08-02")
	assert.False(t, idle.played)
	assert.Equal(t, 0, idle.post.points)
	assert.Equal(t, -1, idle.post.goalDiff)
	assert.Equal(t, 0, idle.pre.points)

	// TeamE stands at zero on every day before its first match
	for _, date := range []string{"2020-08-01", "2020-08-02"} {
		e := state("TeamE", date)
		assert.False(t, e.played)
		assert.Equal(t, cumState{}, e.post)
		assert.Equal(t, cumState{}, e.pre)
	}
	firstMatch := state("TeamE", "2020-08-03")
	assert.True(t, firstMatch.played)
	assert.Equal(t, cumState{}, firstMatch.pre)
	assert.Equal(t, 1, firstMatch.post.points)
}

func TestDenseRankTies(t *testing.T) {
	group := []*tableEntry{
		{pre: cumState{points: 6}},
		{pre: cumState{points: 6}},
		{pre: cumState{points: 3}},
		{pre: cumState{points: 0}},
	}
	ranks := denseRank(group, func(e *tableEntry) float64 { return rankKey(e.pre, 1000) })
	assert.Equal(t, []int{1, 1, 2, 3}, ranks)
}

// TestRankKeyPriority ensures points always dominate goal difference,
// and goal difference dominates goals scored
func TestRankKeyPriority(t *testing.T) {
	better := cumState{points: 4, goalDiff: -20, goalsFor: 0}
	worse := cumState{points: 3, goalDiff: 30, goalsFor: 50}
	assert.Greater(t, rankKey(better, 1000), rankKey(worse, 1000))

	tiedPoints := cumState{points: 3, goalDiff: 2, goalsFor: 2}
	lowerDiff := cumState{points: 3, goalDiff: 1, goalsFor: 99}
	assert.Greater(t, rankKey(tiedPoints, 1000), rankKey(lowerDiff, 1000))
}

func TestSecondDivisionTotalRankOffset(t *testing.T) {
	cfg := DefaultConfig()
	panel := scoredPanel(t, cfg, []*RawMatch{
		raw(1, "2020-08-01", "TeamA", "TeamB", 1, 0),
		raw(2, "2020-08-01", "TeamC", "TeamD", 1, 0),
	})
	require.NoError(t, AddDailyTables(cfg, panel))

	topFlight := findRow(t, panel, "TeamA", "2020-08-01")
	secondTier := findRow(t, panel, "TeamC", "2020-08-01")
	assert.Equal(t, 1, topFlight.PostRank)
	assert.Equal(t, 1, topFlight.PostTotalRank)
	assert.Equal(t, 1, secondTier.PostRank)
	assert.Equal(t, 1+cfg.DivisionSize, secondTier.PostTotalRank)
}

// TestHandComputedTable verifies a three-team season against a table
// worked out by hand
func TestHandComputedTable(t *testing.T) {
	cfg := DefaultConfig()
	panel := scoredPanel(t, cfg, []*RawMatch{
		raw(1, "2020-08-01", "TeamA", "TeamB", 3, 1), // A 3pts +2, B 0pts -2
		raw(1, "2020-08-08", "TeamB", "TeamC", 2, 0), // B 3pts 0, C 0pts -2
		raw(1, "2020-08-15", "TeamC", "TeamA", 1, 1), // C 1pt, A 4pts
	})
	require.NoError(t, AddDailyTables(cfg, panel))

	// standings entering day three: A 3pts +2, B 3pts 0, C 0pts -2.
	// A leads B on goal difference.
	day3C := findRow(t, panel, "TeamC", "2020-08-15")
	day3A := findRow(t, panel, "TeamA", "2020-08-15")
	assert.Equal(t, 1, day3A.PreRank)
	assert.Equal(t, 3, day3C.PreRank)

	// final table: A 4pts, B 3pts, C 1pt
	assert.Equal(t, 1, day3A.PostRank)
	assert.Equal(t, 3, day3C.PostRank)
	assert.Equal(t, 4, day3A.PostMaxTotalPoints)
	assert.Equal(t, 1, day3A.PostMinTotalPoints)
}
