package pipeline

import (
	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// seasonEnd is a team's final table state in one season
type seasonEnd struct {
	div              int
	totalRank        int
	wins             int
	draws            int
	losses           int
	goalDiff         int
	pointPerformance float64
}

// AddPrevSeason attaches each team's final standing from the previous
// season. Two fallbacks cover missing history: when the previous
// season predates the dataset entirely, the team is presumed to have
// finished top of its current division; when the team simply did not
// play the previous season, it is presumed to have come up from the
// first division below the dataset's coverage.
func AddPrevSeason(cfg *Config, t *Table) error {
	logger.Info("Adding previous-season features to the panel...")
	if err := t.Require(
		ColSeason, ColDate, ColTeam, ColDiv,
		ColPostTotalRank, ColPostTotalWins, ColPostTotalDraws,
		ColPostTotalLosses, ColPostTotalGoalDiff,
		ColPostTotalPointPerformance,
	); err != nil {
		return err
	}

	if t.Len() == 0 {
		return nil
	}
	ends := seasonEndSnapshots(t)
	minSeason := t.Rows[0].Season
	for _, r := range t.Rows {
		minSeason = min(minSeason, r.Season)
	}

	for _, r := range t.Rows {
		end, ok := ends[seasonTeam{r.Season - 1, r.Team}]
		switch {
		case ok:
		case r.Season-1 < minSeason:
			end = seasonEnd{
				div:       r.Div,
				totalRank: (r.Div-1)*cfg.DivisionSize + 1,
			}
		default:
			end = seasonEnd{
				div:       cfg.FallbackDivision,
				totalRank: (cfg.FallbackDivision-1)*cfg.DivisionSize + 1,
			}
		}
		r.PrevSeasonDiv = float64(end.div)
		r.PrevSeasonTotalRank = float64(end.totalRank)
		r.PrevSeasonTotalWins = float64(end.wins)
		r.PrevSeasonTotalDraws = float64(end.draws)
		r.PrevSeasonTotalLosses = float64(end.losses)
		r.PrevSeasonTotalGoalDiff = float64(end.goalDiff)
		r.PrevSeasonTotalPointPerformance = end.pointPerformance
	}

	t.AddColumns(
		ColPrevSeasonDiv, ColPrevSeasonTotalRank,
		ColPrevSeasonTotalWins, ColPrevSeasonTotalDraws,
		ColPrevSeasonTotalLosses, ColPrevSeasonTotalGoalDiff,
		ColPrevSeasonTotalPointPerformance,
	)
	return nil
}

// seasonEndSnapshots reduces the panel to each team's last
// chronological row per season
func seasonEndSnapshots(t *Table) map[seasonTeam]seasonEnd {
	ends := make(map[seasonTeam]seasonEnd)
	groups, _ := t.groupBySeasonTeam()
	for _, idx := range groups {
		last := t.Rows[idx[len(idx)-1]]
		ends[seasonTeam{last.Season, last.Team}] = seasonEnd{
			div:              last.Div,
			totalRank:        last.PostTotalRank,
			wins:             last.PostTotalWins,
			draws:            last.PostTotalDraws,
			losses:           last.PostTotalLosses,
			goalDiff:         last.PostTotalGoalDiff,
			pointPerformance: last.PostTotalPointPerformance,
		}
	}
	return ends
}
