package pipeline

import (
	"fmt"
	"time"

	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// Relativize turns each predictor into the difference between a team's
// value and its opponent's value for the same match. A match appears
// as two mirrored rows; the join pairs every row with its mirror and
// must be exactly one-to-one. The returned table keeps one row per
// team perspective, with the response untouched and every predictor
// differenced.
func Relativize(cfg *Config, t *Table) (*Table, error) {
	logger.Info("Relativizing predictors against the opponent...")
	required := append([]string{ColSeason, ColDiv, ColDate, ColTeam, ColOpponent}, cfg.Predictors...)
	if err := t.Require(required...); err != nil {
		return nil, err
	}

	type matchSide struct {
		season   int
		div      int
		date     time.Time
		team     string
		opponent string
	}
	bySide := make(map[matchSide]*TeamMatch, t.Len())
	for _, r := range t.Rows {
		k := matchSide{r.Season, r.Div, r.Date, r.Team, r.Opponent}
		if _, dup := bySide[k]; dup {
			return nil, fmt.Errorf("duplicate panel row for %s vs %s on %s", r.Team, r.Opponent, r.Date.Format("2006-01-02"))
		}
		bySide[k] = r
	}

	out := t.Clone()
	for i, r := range t.Rows {
		mirror, ok := bySide[matchSide{r.Season, r.Div, r.Date, r.Opponent, r.Team}]
		if !ok {
			return nil, fmt.Errorf("no mirrored row for %s vs %s on %s", r.Team, r.Opponent, r.Date.Format("2006-01-02"))
		}
		for _, col := range cfg.Predictors {
			own, err := GetFloat(r, col)
			if err != nil {
				return nil, err
			}
			opp, err := GetFloat(mirror, col)
			if err != nil {
				return nil, err
			}
			if err := SetFloat(out.Rows[i], col, own-opp); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
