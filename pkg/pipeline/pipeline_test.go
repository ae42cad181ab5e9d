package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// day parses an ISO date for fixtures
func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// raw builds one row of the flat match log
func raw(div int, date, home, away string, hg, ag int) *RawMatch {
	return &RawMatch{Div: div, Date: day(date), HomeTeam: home, AwayTeam: away, FTHG: hg, FTAG: ag}
}

// scoredPanel restructures a match log and runs the scoring stage, the
// common starting point for feature-stage tests
func scoredPanel(t *testing.T, cfg *Config, matches []*RawMatch) *Table {
	t.Helper()
	panel := Restructure(cfg, matches)
	require.NoError(t, AddScores(cfg, panel))
	return panel
}

// findRow returns the panel row for a team on a date
func findRow(t *testing.T, panel *Table, team string, date string) *TeamMatch {
	t.Helper()
	for _, r := range panel.Rows {
		if r.Team == team && r.Date.Equal(day(date)) {
			return r
		}
	}
	t.Fatalf("no row for %s on %s", team, date)
	return nil
}

// toyLeague is a two-team single-season fixture: A beats B 2-0, then
// they draw 1-1 the next day
func toyLeague() []*RawMatch {
	return []*RawMatch{
		raw(1, "2020-08-01", "TeamA", "TeamB", 2, 0),
		raw(1, "2020-08-02", "TeamB", "TeamA", 1, 1),
	}
}
