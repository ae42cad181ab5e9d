package pipeline

import (
	"time"

	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// SeasonForDate assigns the season label from a match date: matches in
// or after the start month belong to that calendar year's season,
// earlier matches to the previous year's. Monotonic in the date and
// stable across runs.
func SeasonForDate(date time.Time, startMonth int) int {
	if int(date.Month()) >= startMonth {
		return date.Year()
	}
	return date.Year() - 1
}

// Restructure converts the flat match log (one row per match) into the
// team-match panel (two rows per match, one per side) and assigns the
// season label. The output is sorted by (Season, Div, Date, Team),
// the ordering every later stage depends on.
func Restructure(cfg *Config, matches []*RawMatch) *Table {
	logger.Info("Restructuring match log into team-match panel...", len(matches))

	rows := make([]*TeamMatch, 0, 2*len(matches))
	for _, m := range matches {
		season := SeasonForDate(m.Date, cfg.SeasonStartMonth)
		rows = append(rows, &TeamMatch{
			Season:       season,
			Div:          m.Div,
			Date:         m.Date,
			Team:         m.HomeTeam,
			Opponent:     m.AwayTeam,
			Home:         1,
			GoalsFor:     m.FTHG,
			GoalsAgainst: m.FTAG,
		})
		rows = append(rows, &TeamMatch{
			Season:       season,
			Div:          m.Div,
			Date:         m.Date,
			Team:         m.AwayTeam,
			Opponent:     m.HomeTeam,
			Home:         0,
			GoalsFor:     m.FTAG,
			GoalsAgainst: m.FTHG,
		})
	}

	t := NewTable(rows,
		ColSeason, ColDiv, ColDate, ColTeam, ColOpponent, ColHome,
		ColGoalsFor, ColGoalsAgainst)
	t.Sort()
	return t
}
