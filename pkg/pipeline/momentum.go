package pipeline

import (
	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// Momentum features summarize a team's recent form. Everything here is
// shifted one match back, so a row only ever sees results that were
// known before kick-off.

// AddMomentum adds streak and trailing-window form features per
// (season, team) in match order.
func AddMomentum(cfg *Config, t *Table) error {
	logger.Info("Adding momentum features to the panel...")
	if err := t.Require(
		ColSeason, ColDate, ColTeam,
		ColGoalsFor, ColGoalsAgainst, ColGoalDiff, ColPoints,
	); err != nil {
		return err
	}

	groups, _ := t.groupBySeasonTeam()
	for _, idx := range groups {
		addStreaks(t, idx)
		addRollingRatios(cfg, t, idx)
		addGoalSuperiority(cfg, t, idx)
		addEwmaGoalDiff(cfg, t, idx)
	}

	t.AddColumns(
		ColPreWinStreak, ColPreLossStreak,
		ColPreRollingPointRatio, ColPreRollingGoalDiffRatio,
		ColPreGoalSuperiority, ColPreEwmaGoalDiff,
	)
	return nil
}

// addStreaks counts consecutive wins (positive) and consecutive losses
// (negative); a draw or a change of outcome resets the counter. The
// streak a row carries is the one standing before its own match.
func addStreaks(t *Table, idx []int) {
	winStreak, lossStreak := 0, 0
	for _, i := range idx {
		r := t.Rows[i]
		r.PreWinStreak = winStreak
		r.PreLossStreak = lossStreak
		switch {
		case r.GoalDiff > 0:
			winStreak++
			lossStreak = 0
		case r.GoalDiff < 0:
			winStreak = 0
			lossStreak--
		default:
			winStreak = 0
			lossStreak = 0
		}
	}
}

// addRollingRatios computes trailing-window form over the previous
// RollingWindow matches: points per game scaled to [0,3] and goal
// difference per game. Early in the season the window holds fewer
// games; the divisor never drops below one.
func addRollingRatios(cfg *Config, t *Table, idx []int) {
	w := cfg.RollingWindow
	for pos, i := range idx {
		r := t.Rows[i]
		lo := max(0, pos-w)
		wins, draws, gf, ga := 0, 0, 0, 0
		for _, j := range idx[lo:pos] {
			p := t.Rows[j]
			switch {
			case p.GoalDiff > 0:
				wins++
			case p.GoalDiff == 0:
				draws++
			}
			gf += p.GoalsFor
			ga += p.GoalsAgainst
		}
		games := max(1, pos-lo)
		r.PreRollingPointRatio = float64(3*wins+draws) / float64(games)
		r.PreRollingGoalDiffRatio = float64(gf-ga) / float64(games)
	}
}

// addGoalSuperiority averages the per-match dominance ratio
// (gf-ga)/(gf+ga) over the trailing window, again excluding the
// current match
func addGoalSuperiority(cfg *Config, t *Table, idx []int) {
	w := cfg.RollingWindow
	for pos, i := range idx {
		r := t.Rows[i]
		lo := max(0, pos-w)
		sum := 0.0
		for _, j := range idx[lo:pos] {
			p := t.Rows[j]
			sum += float64(p.GoalsFor-p.GoalsAgainst) / float64(max(1, p.GoalsFor+p.GoalsAgainst))
		}
		r.PreGoalSuperiority = sum / float64(max(1, pos-lo))
	}
}

// addEwmaGoalDiff smooths the shifted goal difference with a
// recursive exponentially weighted mean within the season, a faster
// decaying complement to the fixed-window ratios
func addEwmaGoalDiff(cfg *Config, t *Table, idx []int) {
	alpha := cfg.SeasonAlpha
	state := 0.0
	for pos, i := range idx {
		r := t.Rows[i]
		shifted := 0.0
		if pos > 0 {
			shifted = float64(t.Rows[idx[pos-1]].GoalDiff)
		}
		if pos == 0 {
			state = shifted
		} else {
			state = alpha*shifted + (1-alpha)*state
		}
		r.PreEwmaGoalDiff = state
	}
}
