package pipeline

import (
	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// prevSeasonVec carries the seven previous-season features in the
// order of prevSeasonCols
type prevSeasonVec [7]float64

var prevSeasonCols = []string{
	ColPrevSeasonDiv,
	ColPrevSeasonTotalRank,
	ColPrevSeasonTotalWins,
	ColPrevSeasonTotalDraws,
	ColPrevSeasonTotalLosses,
	ColPrevSeasonTotalGoalDiff,
	ColPrevSeasonTotalPointPerformance,
}

var prevHistCols = []string{
	ColPrevHistDiv,
	ColPrevHistTotalRank,
	ColPrevHistTotalWins,
	ColPrevHistTotalDraws,
	ColPrevHistTotalLosses,
	ColPrevHistTotalGoalDiff,
	ColPrevHistTotalPointPerformance,
}

// AddHistory smooths the previous-season features into a long-run
// profile per team with a recursive exponentially weighted mean across
// seasons. Seasons a team sat out contribute zero, pulling its profile
// back toward the baseline. The inputs are already lagged by one
// season, so the smoothed values stay free of lookahead.
func AddHistory(cfg *Config, t *Table) error {
	logger.Info("Adding historical features to the panel...")
	if err := t.Require(append([]string{ColSeason, ColTeam}, prevSeasonCols...)...); err != nil {
		return err
	}
	if t.Len() == 0 {
		return nil
	}

	minSeason, maxSeason := t.Rows[0].Season, t.Rows[0].Season
	bySeason := make(map[string]map[int]prevSeasonVec)
	for _, r := range t.Rows {
		minSeason = min(minSeason, r.Season)
		maxSeason = max(maxSeason, r.Season)
		if bySeason[r.Team] == nil {
			bySeason[r.Team] = make(map[int]prevSeasonVec)
		}
		bySeason[r.Team][r.Season] = prevSeasonVec{
			r.PrevSeasonDiv,
			r.PrevSeasonTotalRank,
			r.PrevSeasonTotalWins,
			r.PrevSeasonTotalDraws,
			r.PrevSeasonTotalLosses,
			r.PrevSeasonTotalGoalDiff,
			r.PrevSeasonTotalPointPerformance,
		}
	}

	smoothed := make(map[seasonTeam]prevSeasonVec)
	alpha := cfg.HistoryAlpha
	for team, seasons := range bySeason {
		var state prevSeasonVec
		for season := minSeason; season <= maxSeason; season++ {
			x := seasons[season]
			if season == minSeason {
				state = x
			} else {
				for i := range state {
					state[i] = alpha*x[i] + (1-alpha)*state[i]
				}
			}
			smoothed[seasonTeam{season, team}] = state
		}
	}

	for _, r := range t.Rows {
		s := smoothed[seasonTeam{r.Season, r.Team}]
		r.PrevHistDiv = s[0]
		r.PrevHistTotalRank = s[1]
		r.PrevHistTotalWins = s[2]
		r.PrevHistTotalDraws = s[3]
		r.PrevHistTotalLosses = s[4]
		r.PrevHistTotalGoalDiff = s[5]
		r.PrevHistTotalPointPerformance = s[6]
	}

	t.AddColumns(prevHistCols...)
	return nil
}
