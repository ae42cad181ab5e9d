package pipeline

import (
	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// AddScores computes the match-level outcome (goal difference, points)
// and the season-to-date cumulations per (season, team), both the
// post-match view and the pre-match view. The table must already be
// sorted so each team's rows are chronological within a season.
func AddScores(cfg *Config, t *Table) error {
	logger.Info("Adding score features to the panel...")
	if err := t.Require(ColSeason, ColTeam, ColGoalsFor, ColGoalsAgainst); err != nil {
		return err
	}

	addMatchScores(t)
	addPostMatchCumulations(t)
	addPreMatchCumulations(t)

	t.AddColumns(
		ColGoalDiff, ColPoints,
		ColPostTotalGoalsFor, ColPostTotalGoalsAgainst, ColPostTotalGoalDiff, ColPostTotalPoints,
		ColPostTotalWins, ColPostTotalDraws, ColPostTotalLosses,
		ColPreTotalGoalsFor, ColPreTotalGoalsAgainst, ColPreTotalGoalDiff, ColPreTotalPoints,
		ColPreTotalWins, ColPreTotalDraws, ColPreTotalLosses,
	)
	return nil
}

// addMatchScores derives goal difference and points for every row.
// Points are a pure function of the goal difference: 3 for a win,
// 1 for a draw, 0 for a loss.
func addMatchScores(t *Table) {
	logger.Info("Calculating scores on team-match level...")
	for _, r := range t.Rows {
		r.GoalDiff = r.GoalsFor - r.GoalsAgainst
		switch {
		case r.GoalDiff > 0:
			r.Points = 3
		case r.GoalDiff == 0:
			r.Points = 1
		default:
			r.Points = 0
		}
	}
}

// addPostMatchCumulations runs prefix sums per (season, team)
func addPostMatchCumulations(t *Table) {
	logger.Info("Cumulating post-match scores on team-match level...")
	groups, _ := t.groupBySeasonTeam()
	for _, idxs := range groups {
		var gf, ga, pts, wins, draws, losses int
		for _, i := range idxs {
			r := t.Rows[i]
			gf += r.GoalsFor
			ga += r.GoalsAgainst
			pts += r.Points
			switch r.Points {
			case 3:
				wins++
			case 1:
				draws++
			default:
				losses++
			}
			r.PostTotalGoalsFor = gf
			r.PostTotalGoalsAgainst = ga
			r.PostTotalGoalDiff = gf - ga
			r.PostTotalPoints = pts
			r.PostTotalWins = wins
			r.PostTotalDraws = draws
			r.PostTotalLosses = losses
		}
	}
}

// addPreMatchCumulations derives the pre-match view as post minus the
// match's own contribution. Subtracting instead of shifting makes a
// team's first match of the season come out at exactly zero.
func addPreMatchCumulations(t *Table) {
	logger.Info("Cumulating pre-match scores on team-match level...")
	for _, r := range t.Rows {
		r.PreTotalGoalsFor = r.PostTotalGoalsFor - r.GoalsFor
		r.PreTotalGoalsAgainst = r.PostTotalGoalsAgainst - r.GoalsAgainst
		r.PreTotalGoalDiff = r.PostTotalGoalDiff - r.GoalDiff
		r.PreTotalPoints = r.PostTotalPoints - r.Points

		win, draw, loss := 0, 0, 0
		switch r.Points {
		case 3:
			win = 1
		case 1:
			draw = 1
		default:
			loss = 1
		}
		r.PreTotalWins = r.PostTotalWins - win
		r.PreTotalDraws = r.PostTotalDraws - draw
		r.PreTotalLosses = r.PostTotalLosses - loss
	}
}
