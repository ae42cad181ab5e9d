package pipeline

import (
	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// Performance features normalize a team's table position and point
// haul into bounded scores that compare across divisions and across
// stages of the season.

// AddPerformance derives the zone, rank performance, point performance
// and whole-season outcome ratio columns.
func AddPerformance(cfg *Config, t *Table) error {
	logger.Info("Adding performance features to the panel...")
	if err := t.Require(
		ColSeason, ColDate, ColTeam, ColPoints,
		ColPreRank, ColPreTotalRank, ColPostTotalRank,
		ColPreTotalPoints, ColPostTotalPoints,
		ColPreMinTotalPoints, ColPreMaxTotalPoints,
		ColPostMinTotalPoints, ColPostMaxTotalPoints,
		ColPostTotalWins, ColPostTotalDraws, ColPostTotalLosses,
	); err != nil {
		return err
	}

	maxTotalRank := 2 * cfg.DivisionSize
	for _, r := range t.Rows {
		r.Zone = zoneFor(cfg, r.PreRank)
		r.PreTotalRankPerformance = rankPerformance(r.PreTotalRank, maxTotalRank)
		r.PostTotalRankPerformance = rankPerformance(r.PostTotalRank, maxTotalRank)
		r.PreTotalPointPerformance = pointPerformance(r.PreTotalPoints, r.PreMinTotalPoints, r.PreMaxTotalPoints)
		r.PostTotalPointPerformance = pointPerformance(r.PostTotalPoints, r.PostMinTotalPoints, r.PostMaxTotalPoints)
	}
	addSeasonalRatios(t)

	t.AddColumns(
		ColZone,
		ColPreTotalRankPerformance, ColPostTotalRankPerformance,
		ColPreTotalPointPerformance, ColPostTotalPointPerformance,
		ColSeasonalWinLossRatio, ColSeasonalWinRatio,
	)
	return nil
}

// zoneFor maps a within-division rank onto its table zone label. The
// bins are right-closed: bin i covers (ZoneBins[i-1], ZoneBins[i]],
// with the first bin also including its lower edge.
func zoneFor(cfg *Config, rank int) float64 {
	for i := 1; i < len(cfg.ZoneBins); i++ {
		if rank <= cfg.ZoneBins[i] {
			return cfg.ZoneLabels[i-1]
		}
	}
	return cfg.ZoneLabels[len(cfg.ZoneLabels)-1]
}

// rankPerformance maps a total rank linearly onto [-1, 1]: the league
// leader scores 1, the bottom of the lower division scores -1
func rankPerformance(totalRank, maxTotalRank int) float64 {
	return 1 - 2*float64(totalRank-1)/float64(max(maxTotalRank-1, 1))
}

// pointPerformance measures how close a point total sits to the best
// in its division on that day, on [0, 1]
func pointPerformance(points, minPoints, maxPoints int) float64 {
	return 1 - float64(maxPoints-points)/float64(max(maxPoints-minPoints, 1))
}

// addSeasonalRatios rates the season as a whole from the running
// outcome counts. Draws count as a third of a win.
func addSeasonalRatios(t *Table) {
	for _, r := range t.Rows {
		weighted := float64(r.PostTotalWins) + float64(r.PostTotalDraws)/3
		games := r.PostTotalWins + r.PostTotalDraws + r.PostTotalLosses
		r.SeasonalWinLossRatio = weighted / float64(max(r.PostTotalLosses, 1))
		r.SeasonalWinRatio = weighted / float64(max(games, 1))
	}
}
