package pipeline

import (
	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// AddRelPromEffects interacts the previous-season features with the
// team's movement between divisions. A team one division up on last
// season was relegated, one division down was promoted; the two
// indicator sets are mutually exclusive.
func AddRelPromEffects(cfg *Config, t *Table) error {
	logger.Info("Adding relegation and promotion effects to the panel...")
	if err := t.Require(append([]string{ColDiv, ColPrevSeasonDiv}, PrevSeasonEffectCols...)...); err != nil {
		return err
	}

	for _, r := range t.Rows {
		divDiff := int(r.PrevSeasonDiv) - r.Div
		relegated := boolToFloat(divDiff == -1)
		promoted := boolToFloat(divDiff == 1)

		r.RelEffectPrevSeasonTotalRank = relegated * r.PrevSeasonTotalRank
		r.RelEffectPrevSeasonTotalWins = relegated * r.PrevSeasonTotalWins
		r.RelEffectPrevSeasonTotalDraws = relegated * r.PrevSeasonTotalDraws
		r.RelEffectPrevSeasonTotalLosses = relegated * r.PrevSeasonTotalLosses
		r.RelEffectPrevSeasonTotalGoalDiff = relegated * r.PrevSeasonTotalGoalDiff
		r.RelEffectPrevSeasonTotalPointPerformance = relegated * r.PrevSeasonTotalPointPerformance

		r.PromEffectPrevSeasonTotalRank = promoted * r.PrevSeasonTotalRank
		r.PromEffectPrevSeasonTotalWins = promoted * r.PrevSeasonTotalWins
		r.PromEffectPrevSeasonTotalDraws = promoted * r.PrevSeasonTotalDraws
		r.PromEffectPrevSeasonTotalLosses = promoted * r.PrevSeasonTotalLosses
		r.PromEffectPrevSeasonTotalGoalDiff = promoted * r.PrevSeasonTotalGoalDiff
		r.PromEffectPrevSeasonTotalPointPerformance = promoted * r.PrevSeasonTotalPointPerformance
	}

	for _, col := range PrevSeasonEffectCols {
		t.AddColumns(RelEffectPrefix+col, PromEffectPrefix+col)
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
